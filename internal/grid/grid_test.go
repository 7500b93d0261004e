package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New(3, 4, 7)
	assert.Equal(t, 3, g.Cols())
	assert.Equal(t, 4, g.Rows())
	for pos, v := range g.All() {
		if v != 7 {
			t.Errorf("cell %s = %d, wanted 7", pos, v)
		}
	}
	require.Panics(t, func() { New(0, 4, 0) })
	require.Panics(t, func() { New(3, -1, 0) })
}

func TestAtSet(t *testing.T) {
	g := New(10, 8, 0.0)
	g.Set(Pos{9, 7}, 3.5)
	g.Set(Pos{0, 0}, 1)
	assert.Equal(t, 3.5, g.At(Pos{9, 7}))
	assert.Equal(t, 1.0, g.At(Pos{0, 0}))
	assert.Equal(t, 0.0, g.At(Pos{5, 4}))

	// Out-of-bounds access fails fast.
	for _, pos := range []Pos{{-1, 4}, {10, 4}, {5, -1}, {5, 8}} {
		require.Panics(t, func() { g.At(pos) }, "At(%s)", pos)
		require.Panics(t, func() { g.Set(pos, 1) }, "Set(%s)", pos)
	}
}

func TestInBounds(t *testing.T) {
	g := New(10, 8, false)
	assert.True(t, g.InBounds(Pos{5, 4}))
	assert.True(t, g.InBounds(Pos{0, 0}))
	assert.True(t, g.InBounds(Pos{9, 7}))
	assert.False(t, g.InBounds(Pos{-1, 4}))
	assert.False(t, g.InBounds(Pos{10, 4}))
	assert.False(t, g.InBounds(Pos{5, -1}))
	assert.False(t, g.InBounds(Pos{5, 8}))
}

func TestAllOrderAndClone(t *testing.T) {
	g := New(2, 2, 0)
	g.Set(Pos{1, 0}, 1)
	g.Set(Pos{0, 1}, 2)
	var got []Pos
	for pos := range g.All() {
		got = append(got, pos)
	}
	assert.Equal(t, []Pos{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, got)

	c := g.Clone()
	c.Set(Pos{1, 0}, 10)
	assert.Equal(t, 1, g.At(Pos{1, 0}))
	assert.Equal(t, 10, c.At(Pos{1, 0}))

	c.Apply(func(v int) int { return v * 2 })
	assert.Equal(t, 20, c.At(Pos{1, 0}))
	assert.Equal(t, 4, c.At(Pos{0, 1}))
}

func TestPixelConversion(t *testing.T) {
	assert.Equal(t, Point{50, 70}, ToPixel(Pos{2, 3}, 20))
	assert.Equal(t, Point{25, 35}, ToPixel(Pos{2, 3}, 10))
	assert.Equal(t, Pos{2, 3}, FromPixel(Point{50, 70}, 20))
	assert.Equal(t, Pos{2, 3}, FromPixel(Point{59.99, 79.99}, 20))

	// Not clamped: off-grid points map to off-grid cells.
	assert.Equal(t, Pos{-1, 0}, FromPixel(Point{-0.5, 3}, 10))
	assert.Equal(t, Pos{10, 8}, FromPixel(Point{100, 80}, 10))
}

func TestPos(t *testing.T) {
	assert.InDelta(t, 5.0, Pos{0, 0}.Distance(Pos{3, 4}), 1e-12)
	assert.InDelta(t, math.Sqrt2, Pos{1, 1}.Distance(Pos{2, 2}), 1e-12)
	assert.Equal(t, Pos{9, 0}, Pos{12, -3}.Clamp(10, 8))
	assert.Equal(t, Pos{4, 5}, Pos{3, 3}.Add(1, 2))
	assert.Equal(t, "(2, 3)", Pos{2, 3}.String())
}
