package generics

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestSliceMap(t *testing.T) {
	got := SliceMap([]int{1, 2, 3}, func(e int) float64 { return float64(e) / 2 })
	assert.Equal(t, []float64{0.5, 1, 1.5}, got)
	assert.Empty(t, SliceMap([]int(nil), func(e int) int { return e }))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 3, Clamp(7, 0, 3))
	assert.Equal(t, 0, Clamp(-2, 0, 3))
	assert.Equal(t, 2, Clamp(2, 0, 3))
	assert.Equal(t, 1.5, Clamp(1.5, 0.0, 10.0))
}

func TestMapRange(t *testing.T) {
	assert.InDelta(t, 7.5, MapRange(50.0, 0, 100, 0, 15), 1e-12)
	assert.InDelta(t, 15.0, MapRange(100.0, 0, 100, 0, 15), 1e-12)
	assert.InDelta(t, 0.0, MapRange(0.0, 0, 100, 0, 15), 1e-12)
	// Degenerate source range.
	assert.Equal(t, float32(3), MapRange[float32](5, 1, 1, 3, 4))
}

func TestSet(t *testing.T) {
	// Sets are created empty.
	s := MakeSet[int](10)
	assert.Len(t, s, 0)

	// Check inserting and recovery.
	s.Insert(3, 7)
	assert.Len(t, s, 2)
	assert.True(t, s.Has(3))
	assert.True(t, s.Has(7))
	assert.False(t, s.Has(5))

	s2 := SetWith(5, 7)
	assert.Len(t, s2, 2)
	assert.True(t, s2.Has(5))
	assert.False(t, s2.Has(3))

	delete(s, 7)
	assert.True(t, s.Equal(SetWith(3)))
	assert.False(t, s.Equal(s2))
	assert.False(t, s.Equal(SetWith(-3)))
}
