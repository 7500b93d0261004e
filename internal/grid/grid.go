// Package grid implements a fixed size 2D container addressed by (column, row), and the
// conversions between grid cells and continuous (pixel) coordinates.
package grid

import (
	"fmt"
	"iter"
	"math"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/antsGo/internal/generics"
)

// Pos is a discrete grid position: X is the column and Y is the row.
type Pos struct {
	X, Y int
}

// String returns a text representation of Pos.
func (pos Pos) String() string {
	return fmt.Sprintf("(%d, %d)", pos.X, pos.Y)
}

// Add returns the position shifted by (dx, dy).
func (pos Pos) Add(dx, dy int) Pos {
	return Pos{pos.X + dx, pos.Y + dy}
}

// Distance returns the Euclidean distance between the two positions, in cells.
func (pos Pos) Distance(pos2 Pos) float64 {
	return math.Hypot(float64(pos.X-pos2.X), float64(pos.Y-pos2.Y))
}

// Clamp returns the position restricted to [0, cols) x [0, rows).
func (pos Pos) Clamp(cols, rows int) Pos {
	return Pos{generics.Clamp(pos.X, 0, cols-1), generics.Clamp(pos.Y, 0, rows-1)}
}

// Point is a continuous position, in pixels (or any world unit), where cell (x, y) covers
// [x*cellSize, (x+1)*cellSize) x [y*cellSize, (y+1)*cellSize).
type Point struct {
	X, Y float64
}

// String returns a text representation of Point.
func (pt Point) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", pt.X, pt.Y)
}

// ToPixel returns the center of the given grid cell.
func ToPixel(pos Pos, cellSize float64) Point {
	return Point{(float64(pos.X) + 0.5) * cellSize, (float64(pos.Y) + 0.5) * cellSize}
}

// FromPixel returns the grid cell containing the point.
//
// The result is not clamped: points outside of the grid yield out-of-bounds positions, which
// callers must validate before indexing.
func FromPixel(pt Point, cellSize float64) Pos {
	return Pos{int(math.Floor(pt.X / cellSize)), int(math.Floor(pt.Y / cellSize))}
}

// Grid is a rectangular mapping from Pos to T, with dimensions fixed at creation.
//
// Accessing a position out of bounds is a programming error and panics: use InBounds first.
type Grid[T any] struct {
	cols, rows int
	cells      []T
}

// New creates a cols x rows grid with every cell set to defaultValue.
func New[T any](cols, rows int, defaultValue T) *Grid[T] {
	if cols <= 0 || rows <= 0 {
		exceptions.Panicf("grid.New: invalid dimensions %dx%d", cols, rows)
	}
	g := &Grid[T]{cols: cols, rows: rows, cells: make([]T, cols*rows)}
	g.Fill(defaultValue)
	return g
}

// Cols returns the number of columns (width) of the grid.
func (g *Grid[T]) Cols() int { return g.cols }

// Rows returns the number of rows (height) of the grid.
func (g *Grid[T]) Rows() int { return g.rows }

// InBounds returns whether pos is a valid position in the grid.
func (g *Grid[T]) InBounds(pos Pos) bool {
	return pos.X >= 0 && pos.X < g.cols && pos.Y >= 0 && pos.Y < g.rows
}

func (g *Grid[T]) index(pos Pos) int {
	if !g.InBounds(pos) {
		exceptions.Panicf("position %s out of bounds for grid of %dx%d", pos, g.cols, g.rows)
	}
	return pos.Y*g.cols + pos.X
}

// At returns the value at pos. It panics if pos is out of bounds.
func (g *Grid[T]) At(pos Pos) T {
	return g.cells[g.index(pos)]
}

// Set the value at pos. It panics if pos is out of bounds.
func (g *Grid[T]) Set(pos Pos, value T) {
	g.cells[g.index(pos)] = value
}

// Fill sets every cell to value.
func (g *Grid[T]) Fill(value T) {
	for ii := range g.cells {
		g.cells[ii] = value
	}
}

// Apply replaces every value v in the grid by fn(v).
func (g *Grid[T]) Apply(fn func(v T) T) {
	for ii, v := range g.cells {
		g.cells[ii] = fn(v)
	}
}

// All iterates over all positions and values, row by row.
func (g *Grid[T]) All() iter.Seq2[Pos, T] {
	return func(yield func(Pos, T) bool) {
		for ii, v := range g.cells {
			if !yield(Pos{ii % g.cols, ii / g.cols}, v) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the grid.
func (g *Grid[T]) Clone() *Grid[T] {
	newG := &Grid[T]{cols: g.cols, rows: g.rows, cells: make([]T, len(g.cells))}
	copy(newG.cells, g.cells)
	return newG
}
