package hist

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// Registry is the named, ordered collection of accumulators owned by one
// task instance. Histograms are booked once and never rebinned.
type Registry struct {
	Name string

	order  []*Hist
	byName map[string]*Hist
}

func NewRegistry(name string) *Registry {
	return &Registry{
		Name:   name,
		byName: make(map[string]*Hist),
	}
}

// Book declares a new histogram. It panics if the name is already taken.
func (r *Registry) Book(name, title string, axes ...Axis) *Hist {
	if _, dup := r.byName[name]; dup {
		panic(fmt.Errorf("hist: %q booked twice in %q", name, r.Name))
	}
	h := New(name, title, axes...)
	r.add(h)
	return h
}

func (r *Registry) add(h *Hist) {
	r.order = append(r.order, h)
	r.byName[h.Name] = h
}

// Get returns the named histogram, or nil.
func (r *Registry) Get(name string) *Hist {
	return r.byName[name]
}

// MustGet returns the named histogram and panics if it was never booked.
func (r *Registry) MustGet(name string) *Hist {
	h, ok := r.byName[name]
	if !ok {
		panic(fmt.Errorf("hist: %q not booked in %q", name, r.Name))
	}
	return h
}

func (r *Registry) Len() int { return len(r.order) }

// Hists returns the histograms in booking order.
func (r *Registry) Hists() []*Hist {
	return append([]*Hist(nil), r.order...)
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, h := range r.order {
		names[i] = h.Name
	}
	return names
}

// Merge sums o into r. Histograms missing from r are copied over.
// Merging is associative and commutative on the content, which is what
// makes summing the outputs of independent workers valid.
func (r *Registry) Merge(o *Registry) error {
	for _, h := range o.order {
		dst, ok := r.byName[h.Name]
		if !ok {
			r.add(h.Clone())
			continue
		}
		if err := dst.Add(h); err != nil {
			return fmt.Errorf("could not merge %q into %q: %w", o.Name, r.Name, err)
		}
	}
	return nil
}

func (r *Registry) Clone() *Registry {
	c := NewRegistry(r.Name)
	for _, h := range r.order {
		c.add(h.Clone())
	}
	return c
}

// WriteSummary prints one line per histogram: name, axes, filled cells,
// entries and out-of-range entries.
func (r *Registry) WriteSummary(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "name\tdim\tcells\tentries\tlost\n")
	for _, h := range r.order {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", h.Name, h.Dim(), h.NCells(), h.Entries(), h.Lost().Entries)
	}
	return tw.Flush()
}
