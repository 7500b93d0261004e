// Package pheromones implements the two scent layers ants lay and follow.
//
// Searching ants lay Explore pheromone and follow Return pheromone; returning ants lay Return
// pheromone and follow Explore pheromone. Values are kept in [0, Max], decay multiplicatively
// with Evaporate, and grow with Deposit.
package pheromones

import (
	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/antsGo/internal/grid"
)

// Kind of pheromone.
type Kind uint8

const (
	// Explore is laid by searching ants, and leads back to the colony.
	Explore Kind = iota

	// Return is laid by returning ants (carrying food), and leads to the food.
	Return

	NumKinds
)

var kindNames = [NumKinds]string{"Explore", "Return"}

// String returns the name of the pheromone kind.
func (k Kind) String() string {
	if k >= NumKinds {
		exceptions.Panicf("invalid pheromones.Kind %d", k)
	}
	return kindNames[k]
}

// Epsilon is the level below which evaporation zeroes a cell.
const Epsilon = 0.01

// Depositor accepts pheromone deposits. Implemented by Field (immediate) and Batch (deferred).
type Depositor interface {
	Deposit(kind Kind, pos grid.Pos, amount float64)
}

// Field holds one layer per Kind, each a grid of levels in [0, Max].
type Field struct {
	layers [NumKinds]*grid.Grid[float64]
	max    float64
}

// Assert Field is a Depositor.
var _ Depositor = (*Field)(nil)

// New creates an empty (all zero) field of cols x rows, with levels capped at maxLevel.
func New(cols, rows int, maxLevel float64) *Field {
	f := &Field{max: maxLevel}
	for kind := range NumKinds {
		f.layers[kind] = grid.New[float64](cols, rows, 0)
	}
	return f
}

// Max returns the maximum level of a cell.
func (f *Field) Max() float64 { return f.max }

// Cols returns the width of the field in cells.
func (f *Field) Cols() int { return f.layers[Explore].Cols() }

// Rows returns the height of the field in cells.
func (f *Field) Rows() int { return f.layers[Explore].Rows() }

// Level returns the pheromone level of kind at pos. It panics if pos is out of bounds.
func (f *Field) Level(kind Kind, pos grid.Pos) float64 {
	return f.layers[kind].At(pos)
}

// Layer returns the grid of levels for the given kind. It must not be modified.
func (f *Field) Layer(kind Kind) *grid.Grid[float64] {
	return f.layers[kind]
}

// Evaporate multiplies every level (of both kinds) by (1 - rate), and zeroes the
// levels that fall below Epsilon.
func (f *Field) Evaporate(rate float64) {
	keep := 1 - rate
	for _, layer := range f.layers {
		layer.Apply(func(v float64) float64 {
			v *= keep
			if v < Epsilon {
				return 0
			}
			return v
		})
	}
}

// Deposit adds amount to the level at pos, capped at Max. Non-positive amounts are ignored.
// It panics if pos is out of bounds.
func (f *Field) Deposit(kind Kind, pos grid.Pos, amount float64) {
	if amount <= 0 {
		return
	}
	layer := f.layers[kind]
	layer.Set(pos, min(layer.At(pos)+amount, f.max))
}

// Clear zeroes both layers.
func (f *Field) Clear() {
	for _, layer := range f.layers {
		layer.Fill(0)
	}
}

// Clone returns a deep copy of the field.
func (f *Field) Clone() *Field {
	newF := &Field{max: f.max}
	for kind, layer := range f.layers {
		newF.layers[kind] = layer.Clone()
	}
	return newF
}

// deposit is a pending Deposit call.
type deposit struct {
	kind   Kind
	pos    grid.Pos
	amount float64
}

// Batch records deposits to be applied later to a Field, so that the field can be read
// concurrently while the deposits are produced.
//
// Levels are capped with min(v+amount, Max) and amounts are non-negative, so the cap commutes
// with the additions: deferring deposits doesn't change the final levels.
type Batch struct {
	deposits []deposit
}

// Assert Batch is a Depositor.
var _ Depositor = (*Batch)(nil)

// Deposit records the deposit. Non-positive amounts are dropped.
func (b *Batch) Deposit(kind Kind, pos grid.Pos, amount float64) {
	if amount <= 0 {
		return
	}
	b.deposits = append(b.deposits, deposit{kind, pos, amount})
}

// Len returns the number of recorded deposits.
func (b *Batch) Len() int { return len(b.deposits) }

// Apply the recorded deposits to f, in order, and reset the batch.
func (b *Batch) Apply(f *Field) {
	for _, d := range b.deposits {
		f.Deposit(d.kind, d.pos, d.amount)
	}
	b.deposits = b.deposits[:0]
}
