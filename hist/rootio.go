package hist

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"
)

// cellsSuffix names the tree holding the lossless cell content of a
// histogram. One- and two-dimensional histograms are also stored as
// TH1D/TH2D under their own name for direct use in ROOT.
const cellsSuffix = "_cells"

// WriteROOT writes every histogram of r into a new ROOT file.
func WriteROOT(fname string, r *Registry) error {
	f, err := groot.Create(fname)
	if err != nil {
		return fmt.Errorf("could not create ROOT file %q: %w", fname, err)
	}
	defer f.Close()

	for _, h := range r.order {
		if err := writeHist(f, h); err != nil {
			return fmt.Errorf("could not write %q: %w", h.Name, err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("could not close ROOT file %q: %w", fname, err)
	}
	return nil
}

func writeHist(f *riofs.File, h *Hist) error {
	switch h.Dim() {
	case 1:
		h1, err := ToH1D(h)
		if err != nil {
			return err
		}
		if err := f.Put(h.Name, rhist.NewH1DFrom(h1)); err != nil {
			return err
		}
	case 2:
		h2, err := ToH2D(h)
		if err != nil {
			return err
		}
		if err := f.Put(h.Name, rhist.NewH2DFrom(h2)); err != nil {
			return err
		}
	}
	return writeCells(f, h)
}

// writeCells stores one row per filled cell. A row without indices holds
// the out-of-range content.
func writeCells(f *riofs.File, h *Hist) error {
	var (
		n       int32
		idx     []int32
		entries int64
		sumw    float64
		sumw2   float64
	)
	wvars := []rtree.WriteVar{
		{Name: "n", Value: &n},
		{Name: "idx", Value: &idx, Count: "n"},
		{Name: "entries", Value: &entries},
		{Name: "sumw", Value: &sumw},
		{Name: "sumw2", Value: &sumw2},
	}
	w, err := rtree.NewWriter(f, h.Name+cellsSuffix, wvars, rtree.WithTitle(h.Title))
	if err != nil {
		return fmt.Errorf("could not create cell tree: %w", err)
	}
	defer w.Close()

	row := func(cell []int, b Bin) error {
		idx = idx[:0]
		for _, j := range cell {
			idx = append(idx, int32(j))
		}
		n = int32(len(idx))
		entries, sumw, sumw2 = b.Entries, b.SumW, b.SumW2
		_, err := w.Write()
		return err
	}

	var werr error
	h.Each(func(cell []int, b Bin) {
		if werr == nil {
			werr = row(cell, b)
		}
	})
	if werr != nil {
		return fmt.Errorf("could not write cell: %w", werr)
	}
	if h.lost.Entries > 0 {
		if err := row(nil, h.lost); err != nil {
			return fmt.Errorf("could not write out-of-range cell: %w", err)
		}
	}
	return w.Close()
}

// ReadROOT adds the content stored in fname to the histograms already
// booked in r. Histograms absent from the file are left untouched.
func ReadROOT(fname string, r *Registry) error {
	f, err := groot.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open ROOT file %q: %w", fname, err)
	}
	defer f.Close()

	for _, h := range r.order {
		obj, err := f.Get(h.Name + cellsSuffix)
		if err != nil {
			continue
		}
		t, ok := obj.(rtree.Tree)
		if !ok {
			return fmt.Errorf("object %q in %q is not a tree", h.Name+cellsSuffix, fname)
		}
		if err := readCells(t, h); err != nil {
			return fmt.Errorf("could not read %q from %q: %w", h.Name, fname, err)
		}
	}
	return nil
}

func readCells(t rtree.Tree, h *Hist) error {
	var (
		idx     []int32
		entries int64
		sumw    float64
		sumw2   float64
	)
	rvars := []rtree.ReadVar{
		{Name: "idx", Value: &idx},
		{Name: "entries", Value: &entries},
		{Name: "sumw", Value: &sumw},
		{Name: "sumw2", Value: &sumw2},
	}
	r, err := rtree.NewReader(t, rvars)
	if err != nil {
		return fmt.Errorf("could not create cell reader: %w", err)
	}
	defer r.Close()

	return r.Read(func(ctx rtree.RCtx) error {
		b := Bin{Entries: entries, SumW: sumw, SumW2: sumw2}
		if len(idx) == 0 {
			h.lost.add(b)
			return nil
		}
		cell := make([]int, len(idx))
		for i, j := range idx {
			cell[i] = int(j)
		}
		return h.set(cell, b)
	})
}
