// Package colony drives the simulation: it owns the maze, the pheromone field and the ants, and
// advances them one Tick at a time.
//
// Each Tick evaporates the pheromones, updates every ant once and then spawns a new ant if the
// population is below the target and the spawn interval has elapsed.
//
// A Colony is not safe for concurrent use: hosts call Tick and the accessors from one goroutine.
// Internally Tick may update the ants in parallel, see config.Config.Parallelism.
package colony

import (
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/janpfeifer/antsGo/internal/ants"
	"github.com/janpfeifer/antsGo/internal/config"
	"github.com/janpfeifer/antsGo/internal/generics"
	"github.com/janpfeifer/antsGo/internal/grid"
	"github.com/janpfeifer/antsGo/internal/maze"
	"github.com/janpfeifer/antsGo/internal/pheromones"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// antsStream is the PCG stream used for the colony random number generator, from which each
// ant's own generator is seeded.
const antsStream = 0xa7_5a17_c010_7e5

// Colony is the simulation controller.
type Colony struct {
	cfg   *config.Config
	world *ants.World
	ants  []*ants.Ant

	seed      uint64
	rng       *rand.Rand
	now       func() time.Time
	lastSpawn time.Time
	numTicks  int64

	// batches hold the deposits of each chunk of ants during a parallel update.
	batches []pheromones.Batch
}

// Option for New.
type Option func(c *Colony)

// WithClock sets the clock used to time the spawning of ants. Default is time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Colony) {
		c.now = now
	}
}

// WithMaze makes the colony use the given maze, instead of building one according to the
// configuration.
func WithMaze(m *maze.Maze) Option {
	return func(c *Colony) {
		c.world.Maze = m
	}
}

// New creates the colony: it builds the maze (unless WithMaze is given), places the colony and
// the food, and spawns the initial ants.
//
// It returns an error if the configuration is invalid or if the colony or the food can't be
// placed. The configuration must not be changed afterward.
func New(cfg *config.Config, opts ...Option) (*Colony, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithMessage(err, "invalid colony configuration")
	}
	c := &Colony{
		cfg:   cfg,
		world: &ants.World{Config: cfg},
		seed:  cfg.Seed,
		now:   time.Now,
	}
	if c.seed == 0 {
		c.seed = rand.Uint64()
	}
	c.rng = rand.New(rand.NewPCG(c.seed, antsStream))
	for _, opt := range opts {
		opt(c)
	}

	m := c.world.Maze
	if m == nil {
		var err error
		m, err = buildMaze(cfg, c.seed)
		if err != nil {
			return nil, err
		}
	}
	if err := c.setup(m); err != nil {
		return nil, err
	}
	klog.Infof("Colony created: seed=%d, maze %dx%d, colony at %s, food at %s",
		c.seed, m.Cols(), m.Rows(), c.world.Colony, c.world.Food)
	c.SpawnInitial()
	return c, nil
}

// buildMaze according to the configuration.
func buildMaze(cfg *config.Config, seed uint64) (*maze.Maze, error) {
	switch cfg.Maze {
	case config.MazeGenerated:
		return maze.Generate(cfg.GridCols, cfg.GridRows, maze.GenerateOptions{Seed: seed, Braiding: cfg.MazeBraiding})
	default:
		return maze.NewPredefined(cfg.GridCols, cfg.GridRows)
	}
}

// setup the world with a new maze: a clean pheromone field, and the colony and food placed
// at the path cells nearest to the maze start and goal.
func (c *Colony) setup(m *maze.Maze) error {
	colonyPos, found := m.FindValidPosition(m.Start())
	if !found {
		return errors.Errorf("failed to place the colony near %s: no free cell in the maze", m.Start())
	}
	foodPos, found := m.FindValidPosition(m.Goal())
	if !found {
		return errors.Errorf("failed to place the food near %s: no free cell in the maze", m.Goal())
	}
	c.world.Maze = m
	c.world.Field = pheromones.New(m.Cols(), m.Rows(), c.cfg.PheromoneMax)
	c.world.Colony, c.world.Food = colonyPos, foodPos
	if colonyPos != m.Start() || foodPos != m.Goal() {
		klog.V(1).Infof("Goals moved to free cells: colony %s -> %s, food %s -> %s",
			m.Start(), colonyPos, m.Goal(), foodPos)
	}
	return nil
}

// newAnt creates an ant at the colony, with its own random number generator.
func (c *Colony) newAnt() *ants.Ant {
	rng := rand.New(rand.NewPCG(c.rng.Uint64(), c.rng.Uint64()))
	return ants.New(c.world.Colony, c.cfg, rng)
}

// SpawnInitial creates the first tenth (rounded up) of the target population at the colony.
func (c *Colony) SpawnInitial() {
	numAnts := (c.cfg.NumAnts + 9) / 10
	for range numAnts {
		c.ants = append(c.ants, c.newAnt())
	}
	c.lastSpawn = c.now()
	klog.V(1).Infof("Spawned %d initial ants at %s", numAnts, c.world.Colony)
}

// SpawnIncremental adds one ant at the colony if the population is below the target and more
// than SpawnInterval has elapsed since the last spawn.
func (c *Colony) SpawnIncremental() {
	if len(c.ants) >= c.cfg.NumAnts {
		return
	}
	now := c.now()
	if now.Sub(c.lastSpawn) <= c.cfg.SpawnInterval {
		return
	}
	c.ants = append(c.ants, c.newAnt())
	c.lastSpawn = now
	if klog.V(2).Enabled() {
		klog.Infof("Tick %d: spawned ant #%d", c.numTicks, len(c.ants))
	}
}

// Tick advances the simulation by one step.
//
// Evaporation completes before any ant deposits. With Parallelism > 1 the deposits of this
// tick only become visible to the other ants in the next tick.
func (c *Colony) Tick() {
	c.world.Field.Evaporate(c.cfg.EvaporationRate)
	if workers := c.workers(); workers > 1 && len(c.ants) > 1 {
		c.parallelUpdate(workers)
	} else {
		for _, ant := range c.ants {
			ant.Update(c.world, c.world.Field)
		}
	}
	c.SpawnIncremental()
	c.numTicks++
}

func (c *Colony) workers() int {
	if c.cfg.Parallelism < 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.cfg.Parallelism
}

// parallelUpdate splits the ants in contiguous chunks, one per worker, each depositing into its
// own batch. The batches are applied in chunk order once all ants are updated.
func (c *Colony) parallelUpdate(workers int) {
	numChunks := min(workers, len(c.ants))
	if len(c.batches) < numChunks {
		c.batches = make([]pheromones.Batch, numChunks)
	}
	chunkSize := (len(c.ants) + numChunks - 1) / numChunks
	var wg errgroup.Group
	wg.SetLimit(workers)
	for chunkIdx := range numChunks {
		start := chunkIdx * chunkSize
		end := min(start+chunkSize, len(c.ants))
		if start >= end {
			break
		}
		batch := &c.batches[chunkIdx]
		wg.Go(func() error {
			for _, ant := range c.ants[start:end] {
				ant.Update(c.world, batch)
			}
			return nil
		})
	}
	_ = wg.Wait() // Updates never fail.
	for ii := range numChunks {
		c.batches[ii].Apply(c.world.Field)
	}
}

// Regenerate replaces the maze with a freshly generated one (using the given seed, 0 for a
// random one), clears the pheromones and the ants, and spawns the initial ants again.
// FoodFound is preserved.
func (c *Colony) Regenerate(seed uint64) error {
	m, err := maze.Generate(c.cfg.GridCols, c.cfg.GridRows, maze.GenerateOptions{Seed: seed, Braiding: c.cfg.MazeBraiding})
	if err != nil {
		return errors.WithMessage(err, "failed to regenerate maze")
	}
	if err := c.setup(m); err != nil {
		return err
	}
	klog.Infof("Maze regenerated: seed=%d, maze %dx%d, colony at %s, food at %s",
		m.Seed(), m.Cols(), m.Rows(), c.world.Colony, c.world.Food)
	c.ants = nil
	c.SpawnInitial()
	return nil
}

// Config returns the configuration of the colony. It must not be changed.
func (c *Colony) Config() *config.Config { return c.cfg }

// Seed used for the random number generators of the colony.
func (c *Colony) Seed() uint64 { return c.seed }

// Maze returns the current maze. It is read-only.
func (c *Colony) Maze() *maze.Maze { return c.world.Maze }

// Field returns the current pheromone field. It must not be changed, and it is only valid
// until the next Tick: use Snapshot for a copy.
func (c *Colony) Field() *pheromones.Field { return c.world.Field }

// Ants returns a view of each ant, in spawn order.
func (c *Colony) Ants() []ants.View {
	return generics.SliceMap(c.ants, (*ants.Ant).View)
}

// ColonyPos returns the position of the colony (the ants' nest).
func (c *Colony) ColonyPos() grid.Pos { return c.world.Colony }

// FoodPos returns the position of the food.
func (c *Colony) FoodPos() grid.Pos { return c.world.Food }

// FoodFound returns the number of completed round trips since the colony was created.
func (c *Colony) FoodFound() int64 { return c.world.FoodFound.Load() }

// Population returns the number of ants alive.
func (c *Colony) Population() int { return len(c.ants) }

// TickCount returns the number of ticks run since the colony was created.
func (c *Colony) TickCount() int64 { return c.numTicks }

// Snapshot is a copy of the state of the simulation, for hosts to display.
type Snapshot struct {
	Tick         int64
	Maze         *maze.Maze // Shared, mazes are immutable.
	Field        *pheromones.Field
	Ants         []ants.View
	Colony, Food grid.Pos
	FoodFound    int64
	Population   int
	TargetAnts   int
}

// Snapshot returns a copy of the current state.
func (c *Colony) Snapshot() *Snapshot {
	return &Snapshot{
		Tick:       c.numTicks,
		Maze:       c.world.Maze,
		Field:      c.world.Field.Clone(),
		Ants:       c.Ants(),
		Colony:     c.world.Colony,
		Food:       c.world.Food,
		FoodFound:  c.FoodFound(),
		Population: len(c.ants),
		TargetAnts: c.cfg.NumAnts,
	}
}

// Count returns the number of ants in each state.
func (s *Snapshot) Count() (searching, returning int) {
	for _, ant := range s.Ants {
		if ant.State == ants.Searching {
			searching++
		} else {
			returning++
		}
	}
	return
}
