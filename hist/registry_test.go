package hist

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookSmall(r *Registry) {
	r.Book("NoEvents", "", NewAxis(1, 0, 1))
	r.Book("InvmassULS", "Inv mass of ULS (e,e)", NewAxis(500, 0, 0.5))
	r.Book("EPres", "EP resolution",
		NewAxis(100, -1, 1), NewAxis(100, -1, 1), NewAxis(100, -1, 1), NewAxis(90, 0, 90))
}

func TestRegistryBookTwicePanics(t *testing.T) {
	r := NewRegistry("out")
	r.Book("a", "", NewAxis(1, 0, 1))
	assert.Panics(t, func() { r.Book("a", "", NewAxis(1, 0, 1)) })
	assert.Panics(t, func() { r.MustGet("b") })
	assert.Nil(t, r.Get("b"))
}

func TestRegistrySummary(t *testing.T) {
	r := NewRegistry("out")
	bookSmall(r)
	r.MustGet("NoEvents").Fill(0)
	r.MustGet("InvmassULS").Fill(0.005)
	r.MustGet("InvmassULS").Fill(0.2)
	r.MustGet("InvmassULS").Fill(0.7)

	var buf bytes.Buffer
	require.NoError(t, r.WriteSummary(&buf))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "registry_summary", buf.Bytes())
}

func TestRegistryMergeIsOrderIndependent(t *testing.T) {
	fill := func(xs ...float64) *Registry {
		r := NewRegistry("w")
		bookSmall(r)
		for _, x := range xs {
			r.MustGet("InvmassULS").Fill(x)
			r.MustGet("EPres").Fill(x, -x, x, 10*x)
		}
		return r
	}

	a, b, c := fill(0.01, 0.02), fill(0.3), fill(0.02, 0.6)

	ab := a.Clone()
	require.NoError(t, ab.Merge(b))
	require.NoError(t, ab.Merge(c))

	cb := c.Clone()
	require.NoError(t, cb.Merge(b))
	require.NoError(t, cb.Merge(a))

	for _, name := range ab.Names() {
		var left, right []Bin
		ab.MustGet(name).Each(func(_ []int, bin Bin) { left = append(left, bin) })
		cb.MustGet(name).Each(func(_ []int, bin Bin) { right = append(right, bin) })
		assert.Equal(t, left, right, name)
		assert.Equal(t, ab.MustGet(name).Lost(), cb.MustGet(name).Lost(), name)
	}
	assert.Equal(t, int64(5), ab.MustGet("InvmassULS").Entries())
}

func TestRegistryMergeAxisMismatch(t *testing.T) {
	a := NewRegistry("a")
	a.Book("h", "", NewAxis(10, 0, 1))
	b := NewRegistry("b")
	b.Book("h", "", NewAxis(20, 0, 1))

	assert.ErrorIs(t, a.Merge(b), ErrAxisMismatch)
}

func TestRegistryMergeCopiesMissing(t *testing.T) {
	a := NewRegistry("a")
	a.Book("h", "", NewAxis(10, 0, 1))
	b := NewRegistry("b")
	b.Book("extra", "", NewAxis(2, 0, 1)).Fill(0.7)

	require.NoError(t, a.Merge(b))
	require.NotNil(t, a.Get("extra"))
	assert.Equal(t, []string{"h", "extra"}, a.Names())

	b.MustGet("extra").Fill(0.7)
	assert.Equal(t, int64(1), a.MustGet("extra").Entries())
}

func TestROOTRoundTrip(t *testing.T) {
	r := NewRegistry("out")
	bookSmall(r)
	r.MustGet("NoEvents").Fill(0)
	r.MustGet("InvmassULS").FillW(2, 0.005)
	r.MustGet("InvmassULS").Fill(0.9)
	r.MustGet("EPres").Fill(0.5, 0.2, -0.3, 45)

	fname := filepath.Join(t.TempDir(), "out.root")
	require.NoError(t, WriteROOT(fname, r))

	back := NewRegistry("back")
	bookSmall(back)
	require.NoError(t, ReadROOT(fname, back))

	for _, name := range r.Names() {
		want, got := r.MustGet(name), back.MustGet(name)
		assert.Equal(t, want.Entries(), got.Entries(), name)
		assert.Equal(t, want.Lost(), got.Lost(), name)
		assert.Equal(t, want.SumW(), got.SumW(), name)
	}
	assert.Equal(t, Bin{Entries: 1, SumW: 2, SumW2: 4}, back.MustGet("InvmassULS").At(0.005))
	assert.Equal(t, int64(1), back.MustGet("EPres").At(0.5, 0.2, -0.3, 45).Entries)
}
