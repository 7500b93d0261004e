// Package maze holds the wall/path layout the ants walk on.
//
// A Maze is created once per run, either with the fixed demo layout (NewPredefined) or with a
// randomly generated one (Generate), and it is read-only afterward. In both cases the outer
// ring is made of walls, and the start (1, 1) and goal (cols-2, rows-2) cells are paths.
package maze

import (
	"math"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/janpfeifer/antsGo/internal/generics"
	. "github.com/janpfeifer/antsGo/internal/grid"
	"github.com/pkg/errors"
)

// Cell is the content of one maze position.
type Cell uint8

const (
	Path Cell = iota
	Wall
)

// String returns the cell name.
func (c Cell) String() string {
	switch c {
	case Path:
		return "Path"
	case Wall:
		return "Wall"
	}
	exceptions.Panicf("invalid maze.Cell value %d", c)
	return ""
}

// MinDimension is the smallest number of rows or columns of a maze: a border plus one path.
const MinDimension = 3

// Maze is a grid of Path and Wall cells.
type Maze struct {
	cells *Grid[Cell]
	seed  uint64
}

// newEmpty creates a maze with only paths.
func newEmpty(cols, rows int) *Maze {
	return &Maze{cells: New(cols, rows, Path)}
}

// Cols returns the number of columns of the maze.
func (m *Maze) Cols() int { return m.cells.Cols() }

// Rows returns the number of rows of the maze.
func (m *Maze) Rows() int { return m.cells.Rows() }

// Seed used to generate the maze. It is 0 for mazes not randomly generated.
func (m *Maze) Seed() uint64 { return m.seed }

// Start is the conventional top-left entry cell of the maze.
func (m *Maze) Start() Pos { return Pos{1, 1} }

// Goal is the conventional bottom-right exit cell of the maze.
func (m *Maze) Goal() Pos { return Pos{m.Cols() - 2, m.Rows() - 2} }

// IsValid returns whether pos is within the maze bounds.
func (m *Maze) IsValid(pos Pos) bool {
	return m.cells.InBounds(pos)
}

// At returns the cell at pos. It panics if pos is out of bounds.
func (m *Maze) At(pos Pos) Cell {
	return m.cells.At(pos)
}

// IsWall returns whether the cell at pos is a wall. It panics if pos is out of bounds.
func (m *Maze) IsWall(pos Pos) bool {
	return m.cells.At(pos) == Wall
}

// IsOpen returns whether pos is within the maze and is a path.
func (m *Maze) IsOpen(pos Pos) bool {
	return m.IsValid(pos) && m.cells.At(pos) == Path
}

// Cells returns a copy of the maze cells.
func (m *Maze) Cells() *Grid[Cell] {
	return m.cells.Clone()
}

// wallBorder sets the outer ring to walls.
func (m *Maze) wallBorder() {
	cols, rows := m.Cols(), m.Rows()
	for x := range cols {
		m.cells.Set(Pos{x, 0}, Wall)
		m.cells.Set(Pos{x, rows - 1}, Wall)
	}
	for y := range rows {
		m.cells.Set(Pos{0, y}, Wall)
		m.cells.Set(Pos{cols - 1, y}, Wall)
	}
}

// openStartAndGoal forces start and goal to be paths.
func (m *Maze) openStartAndGoal() {
	m.cells.Set(m.Start(), Path)
	m.cells.Set(m.Goal(), Path)
}

func checkDimensions(cols, rows int) error {
	if cols < MinDimension || rows < MinDimension {
		return errors.Errorf("maze dimensions %dx%d too small, minimum is %dx%d",
			cols, rows, MinDimension, MinDimension)
	}
	return nil
}

// NewPredefined creates the fixed demo maze: an outer wall, two horizontal wall bands with
// periodic gaps (offset between them), and a vertical band with gaps above the lower band.
func NewPredefined(cols, rows int) (*Maze, error) {
	if err := checkDimensions(cols, rows); err != nil {
		return nil, err
	}
	m := newEmpty(cols, rows)
	m.wallBorder()

	upperBand := int(math.Floor(float64(rows) * 0.3))
	lowerBand := int(math.Floor(float64(rows) * 0.7))
	for x := 5; x < cols-5; x++ {
		if x%8 < 4 {
			m.cells.Set(Pos{x, upperBand}, Wall)
		}
		if (x+4)%8 < 4 {
			m.cells.Set(Pos{x, lowerBand}, Wall)
		}
	}
	middleCol := int(math.Floor(float64(cols) * 0.5))
	for y := 5; y < rows-5; y++ {
		if y%6 < 3 && y < lowerBand-2 {
			m.cells.Set(Pos{middleCol, y}, Wall)
		}
	}

	m.openStartAndGoal()
	return m, nil
}

// FromRows builds a maze from its text representation: '#' is a wall, anything else a path.
// All rows must have the same length. No border is enforced, which makes it convenient for tests.
func FromRows(rows []string) (*Maze, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, errors.New("empty maze layout")
	}
	cols := len(rows[0])
	m := newEmpty(cols, len(rows))
	for y, row := range rows {
		if len(row) != cols {
			return nil, errors.Errorf("maze row %d has %d columns, expected %d", y, len(row), cols)
		}
		for x, ch := range []byte(row) {
			if ch == '#' {
				m.cells.Set(Pos{x, y}, Wall)
			}
		}
	}
	return m, nil
}

// String returns the maze as text, one line per row: '#' for walls and ' ' for paths.
func (m *Maze) String() string {
	var sb strings.Builder
	for y := range m.Rows() {
		for x := range m.Cols() {
			if m.cells.At(Pos{x, y}) == Wall {
				sb.WriteByte('#')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FindValidPosition returns the path cell closest to target, or false if there are no path cells.
//
// The target is first clamped to the maze. If it is a wall, squares of increasing radius around
// it are scanned, only along their perimeter, rows first then columns (both in increasing order);
// the first path found is returned. So the result is at the minimal ring distance (Chebyshev)
// from the target, but not necessarily the nearest in Euclidean distance.
func (m *Maze) FindValidPosition(target Pos) (Pos, bool) {
	target = target.Clamp(m.Cols(), m.Rows())
	if m.cells.At(target) == Path {
		return target, true
	}
	maxRadius := max(m.Cols(), m.Rows())
	for radius := 1; radius < maxRadius; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if max(absInt(dx), absInt(dy)) != radius {
					// Interior of the square: already checked at smaller radius.
					continue
				}
				if pos := target.Add(dx, dy); m.IsOpen(pos) {
					return pos, true
				}
			}
		}
	}
	return Pos{}, false
}

// Reachable returns whether there is a path of orthogonally adjacent path cells from `from`
// to `to`, and the length (number of steps) of the shortest such path.
func (m *Maze) Reachable(from, to Pos) (bool, int) {
	if !m.IsOpen(from) || !m.IsOpen(to) {
		return false, 0
	}
	visited := generics.SetWith(from)
	frontier := []Pos{from}
	for steps := 0; len(frontier) > 0; steps++ {
		var next []Pos
		for _, pos := range frontier {
			if pos == to {
				return true, steps
			}
			for _, d := range orthogonal {
				neighbor := pos.Add(d.X, d.Y)
				if m.IsOpen(neighbor) && !visited.Has(neighbor) {
					visited.Insert(neighbor)
					next = append(next, neighbor)
				}
			}
		}
		frontier = next
	}
	return false, 0
}

var orthogonal = []Pos{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
