package hist

import (
	"fmt"

	"go-hep.org/x/hep/hbook"
)

// moments overwrites the entry count and the squared weights left by a
// single weighted fill with those of the cell, so hbook bin errors match.
func moments(d *hbook.Dist0D, b Bin) {
	d.N = b.Entries
	d.SumW2 = b.SumW2
}

// ToH1D converts a one-dimensional histogram to hbook. Each cell becomes a
// fill at its center; positions inside a cell are not kept.
func ToH1D(h *Hist) (*hbook.H1D, error) {
	if h.Dim() != 1 {
		return nil, fmt.Errorf("%w: %q has %d axes, want 1", ErrAxisMismatch, h.Name, h.Dim())
	}
	ax := h.axes[0]
	h1 := hbook.NewH1D(ax.N, ax.Min, ax.Max)
	h1.Annotation()["name"] = h.Name
	h1.Annotation()["title"] = h.Title
	var tot Bin
	h.Each(func(idx []int, b Bin) {
		h1.Fill(ax.Center(idx[0]), b.SumW)
		moments(&h1.Binning.Bins[idx[0]].Dist.Dist, b)
		tot.add(b)
	})
	moments(&h1.Binning.Dist.Dist, tot)
	return h1, nil
}

// ToH2D converts a two-dimensional histogram to hbook.
func ToH2D(h *Hist) (*hbook.H2D, error) {
	if h.Dim() != 2 {
		return nil, fmt.Errorf("%w: %q has %d axes, want 2", ErrAxisMismatch, h.Name, h.Dim())
	}
	ax, ay := h.axes[0], h.axes[1]
	h2 := hbook.NewH2D(ax.N, ax.Min, ax.Max, ay.N, ay.Min, ay.Max)
	h2.Annotation()["name"] = h.Name
	h2.Annotation()["title"] = h.Title
	var tot Bin
	h.Each(func(idx []int, b Bin) {
		h2.Fill(ax.Center(idx[0]), ay.Center(idx[1]), b.SumW)
		d := &h2.Binning.Bins[idx[1]*ax.N+idx[0]].Dist
		moments(&d.X.Dist, b)
		moments(&d.Y.Dist, b)
		tot.add(b)
	})
	moments(&h2.Binning.Dist.X.Dist, tot)
	moments(&h2.Binning.Dist.Y.Dist, tot)
	return h2, nil
}
