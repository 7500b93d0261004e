// Package generics implements generic data structure and numeric functions missing from the stdlib.
package generics

import (
	"cmp"
)

// SliceMap executes the given function sequentially for every element on in, and returns a mapped slice.
func SliceMap[In, Out any](in []In, fn func(e In) Out) (out []Out) {
	out = make([]Out, len(in))
	for ii, e := range in {
		out[ii] = fn(e)
	}
	return
}

// Clamp returns value restricted to the closed interval [low, high].
// If low > high the result is undefined.
func Clamp[T cmp.Ordered](value, low, high T) T {
	return max(low, min(value, high))
}

// Float is the set of floating point types accepted by MapRange.
type Float interface {
	~float32 | ~float64
}

// MapRange linearly re-maps value from the range [fromLow, fromHigh] to [toLow, toHigh].
//
// The value is not clamped: values outside the source range are extrapolated.
// If fromLow == fromHigh it returns toLow.
func MapRange[T Float](value, fromLow, fromHigh, toLow, toHigh T) T {
	if fromHigh == fromLow {
		return toLow
	}
	return toLow + (value-fromLow)*(toHigh-toLow)/(fromHigh-fromLow)
}

// Set implements a Set for the key type T.
type Set[T comparable] map[T]struct{}

// MakeSet returns an empty Set of the given type. Size is optional, and if given
// will reserve the expected size.
func MakeSet[T comparable](size ...int) Set[T] {
	if len(size) == 0 {
		return make(Set[T])
	}
	return make(Set[T], size[0])
}

// SetWith creates a Set[T] with the given elements inserted.
func SetWith[T comparable](elements ...T) Set[T] {
	s := MakeSet[T](len(elements))
	s.Insert(elements...)
	return s
}

// Has returns true if Set s has the given key.
func (s Set[T]) Has(key T) bool {
	_, found := s[key]
	return found
}

// Insert keys into set.
func (s Set[T]) Insert(keys ...T) {
	for _, key := range keys {
		s[key] = struct{}{}
	}
}

// Equal returns whether s and s2 have exactly the same elements.
func (s Set[T]) Equal(s2 Set[T]) bool {
	if len(s) != len(s2) {
		return false
	}
	for k := range s {
		if !s2.Has(k) {
			return false
		}
	}
	return true
}
