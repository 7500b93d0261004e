package maze

import (
	"math/rand/v2"

	. "github.com/janpfeifer/antsGo/internal/grid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// GenerateOptions configure Generate.
type GenerateOptions struct {
	// Seed of the random generator: the same seed and dimensions always yield the same maze.
	// If 0, a random seed is picked, and it can be recovered with Maze.Seed.
	Seed uint64

	// Braiding from 0.0 (perfect maze, a tree) to 1.0 (no dead ends): probability that a dead end
	// is connected to a neighboring corridor, creating a cycle. It never opens 2x2 plazas.
	Braiding float64
}

// seedStream is the second word of the PCG state, fixed so that a single uint64 identifies the maze.
const seedStream = 0x5eed_a175_0f_c01d

// ensureOdd rounds n down to an odd number.
func ensureOdd(n int) int {
	if n%2 == 0 {
		return n - 1
	}
	return n
}

// Generate creates a random maze with a randomized recursive backtracker over the odd cells
// lattice, optionally braided.
//
// The requested dimensions are rounded down to odd numbers (e.g. 10x8 becomes 9x7), and they
// must be at least MinDimension after rounding.
func Generate(cols, rows int, opts GenerateOptions) (*Maze, error) {
	finalCols, finalRows := ensureOdd(cols), ensureOdd(rows)
	if err := checkDimensions(finalCols, finalRows); err != nil {
		return nil, errors.WithMessagef(err, "requested %dx%d", cols, rows)
	}
	if finalCols != cols || finalRows != rows {
		klog.V(1).Infof("Maze dimensions %dx%d normalized to %dx%d", cols, rows, finalCols, finalRows)
	}
	if opts.Braiding < 0 || opts.Braiding > 1 {
		return nil, errors.Errorf("maze braiding must be in [0, 1], got %g", opts.Braiding)
	}

	seed := opts.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seedStream))

	m := &Maze{cells: New(finalCols, finalRows, Wall), seed: seed}
	m.recursiveBacktracker(m.Start(), rng)
	if opts.Braiding > 0 {
		m.braid(opts.Braiding, rng)
	}
	m.wallBorder()
	m.openStartAndGoal()
	return m, nil
}

// jumps connect one lattice node to the next one, the wall in between at half the distance.
var jumps = []Pos{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

// recursiveBacktracker carves a spanning tree over the odd cells, starting at start.
func (m *Maze) recursiveBacktracker(start Pos, rng *rand.Rand) {
	cols, rows := m.Cols(), m.Rows()
	stack := []Pos{start}
	m.cells.Set(start, Path)
	candidates := make([]Pos, 0, len(jumps))
	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates = candidates[:0]
		for _, d := range jumps {
			next := curr.Add(d.X, d.Y)
			// Keep one cell of border for the walls.
			if next.X > 0 && next.X < cols-1 && next.Y > 0 && next.Y < rows-1 && m.cells.At(next) == Wall {
				candidates = append(candidates, d)
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		d := candidates[rng.IntN(len(candidates))]
		m.cells.Set(curr.Add(d.X/2, d.Y/2), Path)
		next := curr.Add(d.X, d.Y)
		m.cells.Set(next, Path)
		stack = append(stack, next)
	}
}

// braid removes, with the given probability, one wall of each dead end, connecting it to an
// adjacent corridor.
func (m *Maze) braid(probability float64, rng *rand.Rand) {
	cols, rows := m.Cols(), m.Rows()
	candidates := make([]Pos, 0, len(jumps))
	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			node := Pos{x, y}
			if m.cells.At(node) == Wall || m.countExits(node) != 1 || rng.Float64() >= probability {
				continue
			}
			candidates = candidates[:0]
			for _, d := range jumps {
				neighbor := node.Add(d.X, d.Y)
				wall := node.Add(d.X/2, d.Y/2)
				if neighbor.X <= 0 || neighbor.X >= cols-1 || neighbor.Y <= 0 || neighbor.Y >= rows-1 {
					continue
				}
				if m.cells.At(neighbor) == Path && m.cells.At(wall) == Wall && !m.opensPlaza(wall) {
					candidates = append(candidates, wall)
				}
			}
			if len(candidates) > 0 {
				m.cells.Set(candidates[rng.IntN(len(candidates))], Path)
			}
		}
	}
}

// countExits returns the number of orthogonal path neighbors of pos.
func (m *Maze) countExits(pos Pos) (exits int) {
	for _, d := range orthogonal {
		if m.IsOpen(pos.Add(d.X, d.Y)) {
			exits++
		}
	}
	return
}

// opensPlaza returns whether turning pos into a path would create a 2x2 block of paths.
func (m *Maze) opensPlaza(pos Pos) bool {
	for _, corner := range []Pos{{-1, -1}, {0, -1}, {-1, 0}, {0, 0}} {
		open := 0
		for _, d := range []Pos{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
			cell := pos.Add(corner.X+d.X, corner.Y+d.Y)
			if cell == pos || m.IsOpen(cell) {
				open++
			}
		}
		if open == 4 {
			return true
		}
	}
	return false
}
