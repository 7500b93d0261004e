package colony

import (
	"fmt"
	"testing"
	"time"

	"github.com/janpfeifer/antsGo/internal/ants"
	"github.com/janpfeifer/antsGo/internal/config"
	"github.com/janpfeifer/antsGo/internal/grid"
	"github.com/janpfeifer/antsGo/internal/maze"
	"github.com/janpfeifer/antsGo/internal/pheromones"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ = fmt.Printf

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestNew(t *testing.T) {
	cfg := config.Default()
	cfg.NumAnts = 25
	cfg.Seed = 1
	c, err := New(cfg, WithClock(newClock().Now))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Population())
	assert.Equal(t, grid.Pos{1, 1}, c.ColonyPos())
	assert.Equal(t, grid.Pos{48, 38}, c.FoodPos())
	assert.Equal(t, int64(0), c.FoodFound())
	assert.Equal(t, int64(0), c.TickCount())
	assert.Equal(t, uint64(1), c.Seed())
	assert.Equal(t, 50, c.Maze().Cols())
	assert.Equal(t, 40, c.Field().Rows())
	for _, ant := range c.Ants() {
		assert.Equal(t, c.ColonyPos(), ant.GridPos)
		assert.Equal(t, ants.Searching, ant.State)
		assert.Equal(t, cfg.PheromoneDuration, ant.Charge)
	}

	// Random seed is chosen and reported.
	cfg.Seed = 0
	c, err = New(cfg)
	require.NoError(t, err)
	assert.NotZero(t, c.Seed())

	// Generated maze with normalized dimensions.
	cfg.Maze = config.MazeGenerated
	cfg.Seed = 7
	c, err = New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 49, c.Maze().Cols())
	assert.Equal(t, 39, c.Maze().Rows())
	assert.Equal(t, uint64(7), c.Maze().Seed())
	assert.Equal(t, grid.Pos{47, 37}, c.FoodPos())
	assert.Equal(t, 49, c.Field().Cols())
}

func TestNewErrors(t *testing.T) {
	cfg := config.Default()
	cfg.EvaporationRate = 2
	_, err := New(cfg)
	require.Error(t, err)

	walls, err := maze.FromRows([]string{"###", "###", "###"})
	require.NoError(t, err)
	_, err = New(config.Default(), WithMaze(walls))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colony")
}

func TestWithMazeGoalPlacement(t *testing.T) {
	m, err := maze.FromRows([]string{
		"#######",
		"##    #",
		"#     #",
		"#    ##",
		"#######",
	})
	require.NoError(t, err)
	c, err := New(config.Default(), WithMaze(m))
	require.NoError(t, err)
	assert.Same(t, m, c.Maze())
	assert.Equal(t, grid.Pos{2, 1}, c.ColonyPos())
	assert.Equal(t, grid.Pos{4, 2}, c.FoodPos())
	assert.Equal(t, 7, c.Field().Cols())
}

func TestSpawning(t *testing.T) {
	cfg := config.Default()
	cfg.NumAnts = 25
	cfg.SpawnInterval = 100 * time.Millisecond
	clock := newClock()
	c, err := New(cfg, WithClock(clock.Now))
	require.NoError(t, err)
	require.Equal(t, 3, c.Population())

	c.Tick()
	assert.Equal(t, 3, c.Population(), "no time elapsed")
	clock.Advance(100 * time.Millisecond)
	c.Tick()
	assert.Equal(t, 3, c.Population(), "interval must be exceeded")
	clock.Advance(time.Millisecond)
	c.Tick()
	assert.Equal(t, 4, c.Population())
	clock.Advance(time.Hour)
	c.Tick()
	assert.Equal(t, 5, c.Population(), "at most one ant per tick")

	for range 100 {
		clock.Advance(time.Second)
		c.Tick()
	}
	assert.Equal(t, 25, c.Population())
	assert.Equal(t, int64(104), c.TickCount())

	cfg = config.Default()
	cfg.NumAnts = 0
	c, err = New(cfg, WithClock(clock.Now))
	require.NoError(t, err)
	clock.Advance(time.Hour)
	c.Tick()
	assert.Equal(t, 0, c.Population())

	cfg.NumAnts = 1
	c, err = New(cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Population())
}

func TestEvaporateBeforeDeposit(t *testing.T) {
	cfg := config.Default()
	cfg.NumAnts = 1
	cfg.EvaporationRate = 0.5
	c, err := New(cfg, WithClock(newClock().Now))
	require.NoError(t, err)
	c.Tick()
	want := cfg.DepositionRateExplore * float64(cfg.PheromoneDuration-1) / float64(cfg.PheromoneDuration)
	assert.InDelta(t, want, c.Field().Level(pheromones.Explore, c.ColonyPos()), 1e-9)
	assert.Equal(t, 0.0, c.Field().Level(pheromones.Return, c.ColonyPos()))
}

func TestRoundTrips(t *testing.T) {
	// Colony and food one cell apart from the middle cell, so ants go back and forth.
	m, err := maze.FromRows([]string{
		"#####",
		"#   #",
		"#####",
	})
	require.NoError(t, err)
	cfg := config.Default()
	cfg.NumAnts = 10
	cfg.Seed = 3
	c, err := New(cfg, WithMaze(m), WithClock(newClock().Now))
	require.NoError(t, err)
	require.Equal(t, grid.Pos{1, 1}, c.ColonyPos())
	require.Equal(t, grid.Pos{3, 1}, c.FoodPos())

	previous := c.FoodFound()
	for range 500 {
		c.Tick()
		found := c.FoodFound()
		require.GreaterOrEqual(t, found, previous)
		previous = found
	}
	assert.Greater(t, previous, int64(0))
}

// runColony runs numTicks with a fake clock advancing 10ms per tick, and returns the final snapshot.
func runColony(t *testing.T, cfg *config.Config, numTicks int) *Snapshot {
	clock := newClock()
	c, err := New(cfg, WithClock(clock.Now))
	require.NoError(t, err)
	for range numTicks {
		clock.Advance(10 * time.Millisecond)
		c.Tick()
	}
	return c.Snapshot()
}

func TestParallel(t *testing.T) {
	cfg := config.Default()
	cfg.NumAnts = 200
	cfg.Seed = 11
	cfg.SpawnInterval = 5 * time.Millisecond
	cfg.Parallelism = 4
	s1 := runColony(t, cfg, 300)
	s2 := runColony(t, cfg, 300)

	// Same seed and clock give the same run, regardless of scheduling.
	assert.Equal(t, s1.Ants, s2.Ants)
	assert.Equal(t, s1.FoodFound, s2.FoodFound)
	for kind := range pheromones.NumKinds {
		for pos, v := range s1.Field.Layer(kind).All() {
			require.Equal(t, v, s2.Field.Level(kind, pos))
			require.LessOrEqual(t, v, cfg.PheromoneMax)
		}
	}
	assert.Equal(t, cfg.NumAnts, s1.Population)
	for _, ant := range s1.Ants {
		require.True(t, s1.Maze.IsOpen(grid.FromPixel(ant.Pos, cfg.CellSize)))
	}

	// Sequential runs are reproducible too.
	cfg.Parallelism = 1
	s3 := runColony(t, cfg, 300)
	s4 := runColony(t, cfg, 300)
	assert.Equal(t, s3.Ants, s4.Ants)
}

func TestSnapshot(t *testing.T) {
	cfg := config.Default()
	cfg.NumAnts = 30
	c, err := New(cfg, WithClock(newClock().Now))
	require.NoError(t, err)
	for range 10 {
		c.Tick()
	}
	s := c.Snapshot()
	assert.Equal(t, int64(10), s.Tick)
	assert.Equal(t, 3, s.Population)
	assert.Equal(t, 30, s.TargetAnts)
	assert.Len(t, s.Ants, 3)
	searching, returning := s.Count()
	assert.Equal(t, 3, searching+returning)

	// The snapshot is a copy.
	level := c.Field().Level(pheromones.Explore, c.ColonyPos())
	require.Greater(t, level, 0.0)
	s.Field.Clear()
	s.Ants[0].State = ants.Returning
	assert.Equal(t, level, c.Field().Level(pheromones.Explore, c.ColonyPos()))
	assert.Equal(t, ants.Searching, c.Ants()[0].State)
}

func TestRegenerate(t *testing.T) {
	cfg := config.Default()
	cfg.NumAnts = 20
	cfg.GridCols, cfg.GridRows = 21, 15
	cfg.MazeBraiding = 0.5
	clock := newClock()
	c, err := New(cfg, WithClock(clock.Now))
	require.NoError(t, err)
	for range 20 {
		clock.Advance(time.Second)
		c.Tick()
	}
	c.world.FoodFound.Add(3)
	require.Greater(t, c.Population(), 2)

	require.NoError(t, c.Regenerate(5))
	assert.Equal(t, uint64(5), c.Maze().Seed())
	want, err := maze.Generate(21, 15, maze.GenerateOptions{Seed: 5, Braiding: 0.5})
	require.NoError(t, err)
	assert.Equal(t, want.String(), c.Maze().String())
	assert.Equal(t, 2, c.Population())
	assert.Equal(t, int64(3), c.FoodFound(), "found count is kept across mazes")
	assert.Equal(t, grid.Pos{1, 1}, c.ColonyPos())
	assert.Equal(t, grid.Pos{19, 13}, c.FoodPos())
	for kind := range pheromones.NumKinds {
		for _, v := range c.Field().Layer(kind).All() {
			require.Equal(t, 0.0, v)
		}
	}

	// Random seed is reported back by the maze.
	require.NoError(t, c.Regenerate(0))
	assert.NotZero(t, c.Maze().Seed())
}
