package hist

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"
)

var ErrAxisMismatch = errors.New("hist: axis mismatch")

// Bin holds the accumulated statistics of one cell.
type Bin struct {
	Entries int64
	SumW    float64
	SumW2   float64
}

func (b *Bin) fill(w float64) {
	b.Entries++
	b.SumW += w
	b.SumW2 += w * w
}

func (b *Bin) add(o Bin) {
	b.Entries += o.Entries
	b.SumW += o.SumW
	b.SumW2 += o.SumW2
}

// Hist is an N-dimensional histogram with fixed axes. Only cells that have
// been filled are stored, so wide many-axis histograms stay small.
// Fills with any coordinate outside its axis range are kept apart in Lost
// and never reach a cell.
type Hist struct {
	Name  string
	Title string

	axes []Axis
	bins map[string]*Bin
	lost Bin
}

// New creates an empty histogram. It panics without axes.
func New(name, title string, axes ...Axis) *Hist {
	if len(axes) == 0 {
		panic(fmt.Errorf("hist: %q booked without axes", name))
	}
	if len(axes) > 255 {
		panic(fmt.Errorf("hist: %q has too many axes (%d)", name, len(axes)))
	}
	for _, a := range axes {
		if a.N <= 0 || a.N > 0xffff {
			panic(fmt.Errorf("hist: %q has an axis with %d bins", name, a.N))
		}
	}
	return &Hist{
		Name:  name,
		Title: title,
		axes:  append([]Axis(nil), axes...),
		bins:  make(map[string]*Bin),
	}
}

func (h *Hist) Dim() int { return len(h.axes) }

func (h *Hist) Axes() []Axis {
	return append([]Axis(nil), h.axes...)
}

func (h *Hist) Axis(i int) Axis { return h.axes[i] }

// Fill adds a unit-weight entry at the given coordinates.
func (h *Hist) Fill(xs ...float64) {
	h.FillW(1, xs...)
}

// FillW adds an entry of weight w at the given coordinates. It panics when
// the number of coordinates does not match the number of axes.
func (h *Hist) FillW(w float64, xs ...float64) {
	if len(xs) != len(h.axes) {
		panic(fmt.Errorf("hist: %q filled with %d coordinates, want %d", h.Name, len(xs), len(h.axes)))
	}
	idx := make([]int, len(xs))
	for i, x := range xs {
		j := h.axes[i].Index(x)
		if j < 0 || j >= h.axes[i].N {
			h.lost.fill(w)
			return
		}
		idx[i] = j
	}
	h.cell(idx).fill(w)
}

func (h *Hist) cell(idx []int) *Bin {
	k := key(idx)
	b, ok := h.bins[k]
	if !ok {
		b = new(Bin)
		h.bins[k] = b
	}
	return b
}

// Bin returns the content of the cell at the given bin indices.
func (h *Hist) Bin(idx ...int) Bin {
	if len(idx) != len(h.axes) {
		return Bin{}
	}
	if b, ok := h.bins[key(idx)]; ok {
		return *b
	}
	return Bin{}
}

// At returns the content of the cell holding the given coordinates.
func (h *Hist) At(xs ...float64) Bin {
	if len(xs) != len(h.axes) {
		return Bin{}
	}
	idx := make([]int, len(xs))
	for i, x := range xs {
		idx[i] = h.axes[i].Index(x)
		if idx[i] < 0 || idx[i] >= h.axes[i].N {
			return Bin{}
		}
	}
	return h.Bin(idx...)
}

// Lost returns the fills that fell outside the axis ranges.
func (h *Hist) Lost() Bin { return h.lost }

// Entries returns the number of fills, in range or not.
func (h *Hist) Entries() int64 {
	n := h.lost.Entries
	for _, b := range h.bins {
		n += b.Entries
	}
	return n
}

// SumW returns the sum of in-range weights.
func (h *Hist) SumW() float64 {
	var sum float64
	for _, b := range h.bins {
		sum += b.SumW
	}
	return sum
}

// NCells returns the number of filled cells.
func (h *Hist) NCells() int { return len(h.bins) }

// Each visits the filled cells in increasing index order.
func (h *Hist) Each(fn func(idx []int, b Bin)) {
	keys := make([]string, 0, len(h.bins))
	for k := range h.bins {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(unkey(k), *h.bins[k])
	}
}

// Add sums the content of o into h. Both must have identical axes.
func (h *Hist) Add(o *Hist) error {
	if !sameAxes(h.axes, o.axes) {
		return fmt.Errorf("%w: %q", ErrAxisMismatch, h.Name)
	}
	for k, b := range o.bins {
		dst, ok := h.bins[k]
		if !ok {
			dst = new(Bin)
			h.bins[k] = dst
		}
		dst.add(*b)
	}
	h.lost.add(o.lost)
	return nil
}

func (h *Hist) Clone() *Hist {
	c := New(h.Name, h.Title, h.axes...)
	for k, b := range h.bins {
		v := *b
		c.bins[k] = &v
	}
	c.lost = h.lost
	return c
}

// Reset drops all content, keeping the axes.
func (h *Hist) Reset() {
	h.bins = make(map[string]*Bin)
	h.lost = Bin{}
}

// set stores a cell read back from persistent storage.
func (h *Hist) set(idx []int, b Bin) error {
	if len(idx) != len(h.axes) {
		return fmt.Errorf("%w: %q has %d axes, cell has %d indices", ErrAxisMismatch, h.Name, len(h.axes), len(idx))
	}
	for i, j := range idx {
		if j < 0 || j >= h.axes[i].N {
			return fmt.Errorf("%w: %q index %d out of range on axis %d", ErrAxisMismatch, h.Name, j, i)
		}
	}
	h.cell(idx).add(b)
	return nil
}

func sameAxes(a, b []Axis) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// key packs bin indices big-endian so that string order is index order.
func key(idx []int) string {
	buf := make([]byte, 2*len(idx))
	for i, j := range idx {
		binary.BigEndian.PutUint16(buf[2*i:], uint16(j))
	}
	return string(buf)
}

func unkey(k string) []int {
	idx := make([]int, len(k)/2)
	for i := range idx {
		idx[i] = int(binary.BigEndian.Uint16([]byte(k[2*i : 2*i+2])))
	}
	return idx
}
