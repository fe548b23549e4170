package hist

import (
	"fmt"
	"math"
)

// Axis is a fixed, equal-width binning of [Min, Max).
type Axis struct {
	N        int
	Min, Max float64
}

// NewAxis returns an axis of n bins over [min, max). It panics on an empty
// or inverted range, like the hbook constructors do.
func NewAxis(n int, min, max float64) Axis {
	if n <= 0 {
		panic(fmt.Errorf("hist: invalid number of bins (%d)", n))
	}
	if !(max > min) {
		panic(fmt.Errorf("hist: illegal range [%v, %v)", min, max))
	}
	return Axis{N: n, Min: min, Max: max}
}

func (a Axis) Width() float64 {
	return (a.Max - a.Min) / float64(a.N)
}

// Index returns the bin holding x, -1 below the range and N at or above it.
func (a Axis) Index(x float64) int {
	switch {
	case math.IsNaN(x), x < a.Min:
		return -1
	case x >= a.Max:
		return a.N
	}
	i := int((x - a.Min) / a.Width())
	if i >= a.N {
		// rounding at the upper edge
		i = a.N - 1
	}
	return i
}

func (a Axis) Low(i int) float64 {
	return a.Min + float64(i)*a.Width()
}

func (a Axis) Center(i int) float64 {
	return a.Min + (float64(i)+0.5)*a.Width()
}
