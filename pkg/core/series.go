package core

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Series is a time series of ordered values
type Series[T constraints.Ordered] []T

// Last returns the value at a specified position from the end
// position 0 is the last value, 1 is the second-to-last, etc.
func (s Series[T]) Last(position int) T {
	return s[len(s)-1-position]
}

// Clone returns an independent copy of the series
func (s Series[T]) Clone() Series[T] {
	if s == nil {
		return nil
	}
	out := make(Series[T], len(s))
	copy(out, s)
	return out
}

// LastFinite returns the most recent value that is neither NaN nor infinite
func LastFinite(s Series[float64]) (float64, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if isFinite(s[i]) {
			return s[i], true
		}
	}
	return math.NaN(), false
}
