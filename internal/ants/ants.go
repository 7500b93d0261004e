// Package ants implements the agents of the simulation: each Ant walks the maze searching for
// food, and once it finds it, returns to the colony.
//
// Ants don't know the maze: they steer by sensing the pheromone trails laid by the other ants
// (searching ants follow the Return trail, returning ants follow the Explore trail), and by
// homing in on the goal once it is close enough.
package ants

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/antsGo/internal/config"
	"github.com/janpfeifer/antsGo/internal/generics"
	"github.com/janpfeifer/antsGo/internal/grid"
	"github.com/janpfeifer/antsGo/internal/maze"
	"github.com/janpfeifer/antsGo/internal/pheromones"
)

// State of an Ant.
type State uint8

const (
	// Searching ants look for the food. This is the initial state.
	Searching State = iota

	// Returning ants carry food back to the colony.
	Returning

	NumStates
)

var stateNames = [NumStates]string{"Searching", "Returning"}

// String returns the name of the state.
func (s State) String() string {
	if s >= NumStates {
		exceptions.Panicf("invalid ants.State %d", s)
	}
	return stateNames[s]
}

// Laid returns the kind of pheromone laid by ants in this state.
func (s State) Laid() pheromones.Kind {
	if s == Searching {
		return pheromones.Explore
	}
	return pheromones.Return
}

// Followed returns the kind of pheromone followed by ants in this state: the one laid by ants
// in the opposite state.
func (s State) Followed() pheromones.Kind {
	if s == Searching {
		return pheromones.Return
	}
	return pheromones.Explore
}

// World is the environment shared by all ants. Ants only read it, except for pheromone
// deposits (done through a pheromones.Depositor) and the FoodFound counter.
type World struct {
	Config *config.Config
	Maze   *maze.Maze
	Field  *pheromones.Field

	// Colony and Food are the goals of returning and searching ants, respectively.
	Colony, Food grid.Pos

	// FoodFound counts the completed round trips: returning ants that reached the colony.
	FoodFound atomic.Int64
}

// Width of the world in pixels.
func (w *World) Width() float64 { return float64(w.Maze.Cols()) * w.Config.CellSize }

// Height of the world in pixels.
func (w *World) Height() float64 { return float64(w.Maze.Rows()) * w.Config.CellSize }

// Ant is one agent of the simulation.
//
// Its velocity is given by Heading (radians) and the configured speed, see Velocity.
type Ant struct {
	Pos     grid.Point
	Heading float64
	GridPos grid.Pos // Cell of Pos, clamped to the grid. Updated once per tick by SyncGridPos.
	State   State

	// Charge counts down from PheromoneDuration since the last state change, and determines
	// how much pheromone is laid.
	Charge int

	// History of the last visited cells, oldest first, without consecutive repetitions.
	History []grid.Pos

	cfg *config.Config
	rng *rand.Rand
}

// New creates a searching ant at the center of the given cell, with a random heading.
//
// The ant owns rng: it must not be shared with other ants updated concurrently.
func New(cell grid.Pos, cfg *config.Config, rng *rand.Rand) *Ant {
	return &Ant{
		Pos:     grid.ToPixel(cell, cfg.CellSize),
		Heading: randomHeading(rng),
		GridPos: cell,
		State:   Searching,
		Charge:  cfg.PheromoneDuration,
		History: make([]grid.Pos, 0, cfg.HistoryLength),
		cfg:     cfg,
		rng:     rng,
	}
}

// String implements fmt.Stringer.
func (a *Ant) String() string {
	return fmt.Sprintf("Ant{%s at %s/%s, heading=%.1f°, charge=%d}",
		a.State, a.Pos, a.GridPos, a.Heading*180/math.Pi, a.Charge)
}

func randomHeading(rng *rand.Rand) float64 {
	return rng.Float64() * 2 * math.Pi
}

// uniform returns a random value in [low, high).
func uniform(rng *rand.Rand, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}

// Velocity returns the displacement of the ant per tick, in pixels.
func (a *Ant) Velocity() grid.Point {
	return grid.Point{X: math.Cos(a.Heading) * a.cfg.AntSpeed, Y: math.Sin(a.Heading) * a.cfg.AntSpeed}
}

// Update the ant by one tick: sync its grid position, check for state transitions, decay
// its charge, move, deposit pheromone and record its cell in the history.
//
// Deposits go to dep, which may be the world's field itself or a batch to be applied later.
func (a *Ant) Update(w *World, dep pheromones.Depositor) {
	a.SyncGridPos(w.Maze)
	a.CheckEnvironment(w)
	a.Charge = max(0, a.Charge-1)
	a.Move(w)
	a.Deposit(dep)
	a.AddToHistory(a.GridPos)
}

// SyncGridPos sets GridPos to the cell of Pos, clamped to the maze dimensions.
func (a *Ant) SyncGridPos(m *maze.Maze) {
	a.GridPos = grid.FromPixel(a.Pos, a.cfg.CellSize).Clamp(m.Cols(), m.Rows())
}

// CheckEnvironment transitions the ant if it reached its goal: a searching ant close to the food
// turns around and starts returning; a returning ant close to the colony starts searching again
// in a random direction, and counts one more food found. Either transition recharges the ant.
func (a *Ant) CheckEnvironment(w *World) {
	switch a.State {
	case Searching:
		if a.GridPos.Distance(w.Food) <= a.cfg.FoodDetectionRadius {
			a.State = Returning
			a.Heading += math.Pi
			a.Charge = a.cfg.PheromoneDuration
		}
	case Returning:
		if a.GridPos.Distance(w.Colony) <= a.cfg.ColonyDetectionRadius {
			a.State = Searching
			a.Heading = randomHeading(a.rng)
			a.Charge = a.cfg.PheromoneDuration
			w.FoodFound.Add(1)
		}
	}
}

// Target returns the goal of the ant in its current state.
func (a *Ant) Target(w *World) grid.Pos {
	if a.State == Searching {
		return w.Food
	}
	return w.Colony
}

// senseOffsets are the multipliers of SenseAngle/4 scanned around the heading, and
// senseDistances the multipliers of CellSize*SenseRadius.
var (
	senseOffsets   = [5]float64{-2, -1, 0, 1, 2}
	senseDistances = [3]float64{0.5, 1.0, 1.5}
)

// SenseAndDecideAngle returns the heading the ant wants to take.
//
// If the target is within GoalSenseRadius it returns the bearing to the target's center.
// Otherwise it samples a fan of cells in front of the ant and picks the one with most of the
// followed pheromone (plus a small random bias), ignoring walls and recently visited cells. If
// nothing scores above 0, it keeps the current heading with a small wobble.
func (a *Ant) SenseAndDecideAngle(w *World) float64 {
	cfg := a.cfg
	target := a.Target(w)
	if a.GridPos.Distance(target) <= cfg.GoalSenseRadius {
		center := grid.ToPixel(target, cfg.CellSize)
		return math.Atan2(center.Y-a.Pos.Y, center.X-a.Pos.X)
	}

	followed := a.State.Followed()
	bestAngle, bestScore := a.Heading, -1.0
	for _, offset := range senseOffsets {
		angle := a.Heading + offset*cfg.SenseAngle/4
		dx, dy := math.Cos(angle), math.Sin(angle)
		for _, mult := range senseDistances {
			dist := cfg.CellSize * cfg.SenseRadius * mult
			cell := grid.FromPixel(grid.Point{X: a.Pos.X + dx*dist, Y: a.Pos.Y + dy*dist}, cfg.CellSize)
			if !w.Maze.IsOpen(cell) || a.WasRecentlyVisited(cell) {
				continue
			}
			score := w.Field.Level(followed, cell)*cfg.FollowStrengthWeight +
				uniform(a.rng, 0, cfg.PheromoneMax*0.1)
			if score > bestScore {
				bestScore, bestAngle = score, angle
			}
		}
	}
	if bestScore <= 0 {
		return a.Heading + uniform(a.rng, -cfg.TurnAngle/2, cfg.TurnAngle/2)
	}
	return bestAngle
}

// steer turns the ant towards desired, at most TurnAngle, and with probability
// RandomTurnChance adds a random jitter of up to TurnAngle/2 either way.
func (a *Ant) steer(desired float64) {
	cfg := a.cfg
	diff := math.Remainder(desired-a.Heading, 2*math.Pi)
	a.Heading += generics.Clamp(diff, -cfg.TurnAngle, cfg.TurnAngle)
	if a.rng.Float64() < cfg.RandomTurnChance {
		a.Heading += uniform(a.rng, -cfg.TurnAngle/2, cfg.TurnAngle/2)
	}
}

// Move decides the new heading and moves one step forward. If the step would end in a wall or
// off the grid, the ant stays in place and takes a random heading instead.
func (a *Ant) Move(w *World) {
	a.steer(a.SenseAndDecideAngle(w))
	v := a.Velocity()
	next := grid.Point{X: a.Pos.X + v.X, Y: a.Pos.Y + v.Y}
	if w.Maze.IsOpen(grid.FromPixel(next, a.cfg.CellSize)) {
		a.Pos = next
	} else {
		a.Heading = randomHeading(a.rng)
	}
	a.Pos.X = generics.Clamp(a.Pos.X, 0, w.Width())
	a.Pos.Y = generics.Clamp(a.Pos.Y, 0, w.Height())
}

// DepositAmount returns the amount of pheromone laid in the current state: the deposition rate
// of the state scaled by the remaining charge. It is 0 once the charge runs out.
func (a *Ant) DepositAmount() float64 {
	rate := a.cfg.DepositionRateExplore
	if a.State == Returning {
		rate = a.cfg.DepositionRateReturn
	}
	amount := generics.MapRange(float64(a.Charge), 0, float64(a.cfg.PheromoneDuration), 0, rate)
	return max(0, amount)
}

// Deposit lays the pheromone of the current state at GridPos, unless the ant has no charge left.
func (a *Ant) Deposit(dep pheromones.Depositor) {
	if a.Charge <= 0 {
		return
	}
	dep.Deposit(a.State.Laid(), a.GridPos, a.DepositAmount())
}

// AddToHistory appends pos to the history, unless it is the same as the last entry.
// The oldest entries are dropped beyond HistoryLength.
func (a *Ant) AddToHistory(pos grid.Pos) {
	if n := len(a.History); n > 0 && a.History[n-1] == pos {
		return
	}
	a.History = append(a.History, pos)
	if over := len(a.History) - a.cfg.HistoryLength; over > 0 {
		a.History = append(a.History[:0], a.History[over:]...)
	}
}

// WasRecentlyVisited returns whether pos is in the history, not counting the last entry: going
// back one step is always allowed.
func (a *Ant) WasRecentlyVisited(pos grid.Pos) bool {
	if len(a.History) == 0 {
		return false
	}
	for _, visited := range a.History[:len(a.History)-1] {
		if visited == pos {
			return true
		}
	}
	return false
}

// View is a copy of the public state of an Ant, for hosts drawing the simulation.
type View struct {
	Pos     grid.Point
	GridPos grid.Pos
	Heading float64
	State   State
	Charge  int
}

// View returns a copy of the ant's public state.
func (a *Ant) View() View {
	return View{Pos: a.Pos, GridPos: a.GridPos, Heading: a.Heading, State: a.State, Charge: a.Charge}
}
