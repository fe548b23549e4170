package hfe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/decibelcooper/hfeflow/hist"
)

func newTagOutput() *hist.Registry {
	r := hist.NewRegistry("tag")
	Book(r)
	return r
}

func photonPair() fakePair {
	return fakePair{chi2: 0.5, ndf: 1, angle: 0.02, mass: 0.005}
}

func TestTaggerOppositeSign(t *testing.T) {
	ev := event(track(3, 0.1, -1, 80), track(1, 0.12, 1, 80))
	f := newFakeFitter()
	f.pairs[&ev.Tracks[1]] = photonPair()
	tg := NewTagger(DefaultParams(), f)

	out := newTagOutput()
	tag := tg.Tag(ev, 0, out)
	assert.True(t, tag.Photonic)
	assert.False(t, tag.Background)
	assert.Equal(t, [][2]int{{11, -11}}, f.pdgs)
	assert.EqualValues(t, 1, out.MustGet(HInvmassULS).Entries())
	assert.EqualValues(t, 0, out.MustGet(HInvmassLS).Entries())
}

func TestTaggerSameSign(t *testing.T) {
	ev := event(track(3, 0.1, 1, 80), track(1, 0.12, 1, 80))
	f := newFakeFitter()
	f.pairs[&ev.Tracks[1]] = photonPair()
	tg := NewTagger(DefaultParams(), f)

	out := newTagOutput()
	tag := tg.Tag(ev, 0, out)
	assert.False(t, tag.Photonic)
	assert.True(t, tag.Background)
	assert.Equal(t, [][2]int{{-11, -11}}, f.pdgs)
	assert.EqualValues(t, 1, out.MustGet(HOpeningAngleLS).Entries())
	assert.EqualValues(t, 0, out.MustGet(HOpeningAngleULS).Entries())
}

func TestTaggerNeverPairsWithItself(t *testing.T) {
	ev := event(
		track(3, 0.1, -1, 80),
		track(2, 0.2, 1, 80),
		track(1, 0.3, -1, 80),
		track(4, 0.4, 1, 80),
	)
	f := newFakeFitter()
	tg := NewTagger(DefaultParams(), f)
	out := newTagOutput()
	for i := range ev.Tracks {
		tg.Tag(ev, i, out)
	}
	assert.Len(t, f.calls, 12)
	for _, c := range f.calls {
		assert.NotSame(t, c[0], c[1])
	}
}

func TestTaggerAssociateDEdxWindow(t *testing.T) {
	for _, dedx := range []float64{110, 64.9, 100.1} {
		ev := event(track(3, 0.1, -1, 80), track(1, 0.12, 1, dedx))
		f := newFakeFitter()
		f.pairs[&ev.Tracks[1]] = photonPair()
		tg := NewTagger(DefaultParams(), f)

		out := newTagOutput()
		tag := tg.Tag(ev, 0, out)
		assert.Empty(t, f.calls, "dEdx %v", dedx)
		assert.False(t, tag.Photonic)
		assert.EqualValues(t, 0, out.MustGet(HInvmassULS).Entries())
	}
}

func TestTaggerAssociateSelection(t *testing.T) {
	soft := track(0.4, 0.12, 1, 80)
	kink := track(1, 0.12, 1, 80)
	kink.Kink = 2
	noITS := track(1, 0.12, 1, 80)
	noITS.Quality.ITSRefit = false
	fewClusters := track(1, 0.12, 1, 80)
	fewClusters.Quality.TPCClusters = 90
	noSigma := track(1, 0.12, 1, 80)
	noSigma.Quality.NSigmaToVertex = -1

	ev := event(track(3, 0.1, -1, 80), soft, kink, noITS, fewClusters, noSigma)
	f := newFakeFitter()
	for i := 1; i < len(ev.Tracks); i++ {
		f.pairs[&ev.Tracks[i]] = photonPair()
	}
	tag := NewTagger(DefaultParams(), f).Tag(ev, 0, newTagOutput())
	assert.Empty(t, f.calls)
	assert.False(t, tag.Photonic)
}

func TestTaggerPairRejection(t *testing.T) {
	ev := event(
		track(3, 0.1, -1, 80),
		track(1, 0.12, 1, 80), // bad chi2
		track(1, 0.13, 1, 80), // no degrees of freedom
		track(1, 0.14, 1, 80), // wide
		track(1, 0.15, 1, 80), // heavy
	)
	f := newFakeFitter()
	f.pairs[&ev.Tracks[1]] = fakePair{chi2: 9.5, ndf: 1, angle: 0.02, mass: 0.005}
	f.pairs[&ev.Tracks[2]] = fakePair{chi2: 0.1, ndf: 0, angle: 0.02, mass: 0.005}
	f.pairs[&ev.Tracks[3]] = fakePair{chi2: 0.1, ndf: 1, angle: 0.3, mass: 0.005}
	f.pairs[&ev.Tracks[4]] = fakePair{chi2: 0.1, ndf: 1, angle: 0.02, mass: 0.05}

	out := newTagOutput()
	tag := NewTagger(DefaultParams(), f).Tag(ev, 0, out)
	assert.False(t, tag.Photonic)
	assert.EqualValues(t, 2, out.MustGet(HOpeningAngleULS).Entries())
	assert.EqualValues(t, 1, out.MustGet(HInvmassULS).Entries())
}

func TestTaggerFlagsAreMonotonic(t *testing.T) {
	ev := event(
		track(3, 0.1, -1, 80),
		track(1, 0.12, 1, 80),
		track(1, 0.13, -1, 80),
		track(1, 0.14, 1, 80),
	)
	f := newFakeFitter()
	f.pairs[&ev.Tracks[1]] = photonPair()
	f.pairs[&ev.Tracks[2]] = photonPair()
	f.pairs[&ev.Tracks[3]] = fakePair{chi2: 0.1, ndf: 1, angle: 0.02, mass: 0.2}
	tg := NewTagger(DefaultParams(), f)

	tag := tg.Tag(ev, 0, newTagOutput())
	assert.True(t, tag.Photonic)
	assert.True(t, tag.Background)

	// a failing partner added later leaves both flags set
	ev.Tracks = append(ev.Tracks, track(1, 0.2, 1, 80))
	f.pairs = map[*Track]fakePair{
		&ev.Tracks[1]: photonPair(),
		&ev.Tracks[2]: photonPair(),
		&ev.Tracks[4]: {chi2: 50, ndf: 1},
	}
	tag = tg.Tag(ev, 0, newTagOutput())
	assert.True(t, tag.Photonic)
	assert.True(t, tag.Background)
}

func TestTaggerPartitionsByChargeSign(t *testing.T) {
	ev := event(
		track(3, 0.1, 1, 80),
		track(1, 0.12, 1, 80),
		track(1, 0.13, -1, 80),
		track(1, 0.14, -1, 80),
	)
	f := newFakeFitter()
	for i := 1; i < len(ev.Tracks); i++ {
		f.pairs[&ev.Tracks[i]] = photonPair()
	}
	out := newTagOutput()
	NewTagger(DefaultParams(), f).Tag(ev, 0, out)

	assert.EqualValues(t, 1, out.MustGet(HOpeningAngleLS).Entries())
	assert.EqualValues(t, 2, out.MustGet(HOpeningAngleULS).Entries())
	assert.EqualValues(t, 1, out.MustGet(HInvmassLS).Entries())
	assert.EqualValues(t, 2, out.MustGet(HInvmassULS).Entries())
}

func TestTaggerConstrainsToPrimaryVertex(t *testing.T) {
	ev := event(track(3, 0.1, -1, 80), track(1, 0.12, 1, 80))
	var got *fakePair
	f := fitterFunc(func(a, b *Track, pdgA, pdgB int) Composite {
		p := photonPair()
		got = &p
		return got
	})
	NewTagger(DefaultParams(), f).Tag(ev, 0, newTagOutput())
	if assert.NotNil(t, got) {
		assert.True(t, got.prodVertex)
		assert.True(t, got.constraint)
	}

	ev.Vertex = nil
	out := newTagOutput()
	tag := NewTagger(DefaultParams(), f).Tag(ev, 0, out)
	assert.False(t, tag.Photonic)
	assert.EqualValues(t, 0, out.MustGet(HOpeningAngleULS).Entries())
}

type fitterFunc func(a, b *Track, pdgA, pdgB int) Composite

func (f fitterFunc) Fit(a, b *Track, pdgA, pdgB int) Composite { return f(a, b, pdgA, pdgB) }
