package hist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Project sums h over every axis not listed, keeping the listed axes in
// the given order.
func (h *Hist) Project(name string, axes ...int) *Hist {
	if len(axes) == 0 {
		panic(fmt.Errorf("hist: projection of %q onto no axis", h.Name))
	}
	kept := make([]Axis, len(axes))
	for i, a := range axes {
		kept[i] = h.axes[a]
	}
	p := New(name, h.Title, kept...)
	h.Each(func(idx []int, b Bin) {
		sub := make([]int, len(axes))
		for i, a := range axes {
			sub[i] = idx[a]
		}
		p.cell(sub).add(b)
	})
	return p
}

// Slice keeps the cells whose center on axis lies in [lo, hi).
func (h *Hist) Slice(axis int, lo, hi float64) *Hist {
	s := New(h.Name, h.Title, h.axes...)
	ax := h.axes[axis]
	h.Each(func(idx []int, b Bin) {
		c := ax.Center(idx[axis])
		if c >= lo && c < hi {
			s.cell(idx).add(b)
		}
	})
	return s
}

// ProfilePoint is the weighted mean of one axis in a bin of another.
type ProfilePoint struct {
	X    float64
	Mean float64
	Err  float64
	SumW float64
}

// Profile returns, for every bin of xAxis holding content, the weighted
// mean of the yAxis bin centers and its standard error.
func (h *Hist) Profile(xAxis, yAxis int) []ProfilePoint {
	ax := h.axes[xAxis]
	ay := h.axes[yAxis]
	ys := make([][]float64, ax.N)
	ws := make([][]float64, ax.N)
	h.Each(func(idx []int, b Bin) {
		i := idx[xAxis]
		ys[i] = append(ys[i], ay.Center(idx[yAxis]))
		ws[i] = append(ws[i], b.SumW)
	})

	var pts []ProfilePoint
	for i := range ys {
		if len(ys[i]) == 0 {
			continue
		}
		sumw := 0.0
		for _, w := range ws[i] {
			sumw += w
		}
		if sumw <= 0 {
			continue
		}
		mean, variance := stat.MeanVariance(ys[i], ws[i])
		pt := ProfilePoint{X: ax.Center(i), Mean: mean, SumW: sumw}
		if sumw > 1 && !math.IsNaN(variance) {
			pt.Err = math.Sqrt(variance / sumw)
		}
		pts = append(pts, pt)
	}
	return pts
}
