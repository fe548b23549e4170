package source

import (
	"context"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/lcio"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/decibelcooper/hfeflow/hfe"
)

func TestLCIOHelixMomentum(t *testing.T) {
	// pt = 0.3 B R with R = 1/omega
	p := helixMomentum(0, 0.299792458e-3*5/2, 0.5, 5)
	assert.InDelta(t, 2, p.X, 1e-12)
	assert.InDelta(t, 0, p.Y, 1e-12)
	assert.InDelta(t, 1, p.Z, 1e-12)

	p = helixMomentum(math.Pi/2, -1e-3, 0, 2)
	assert.InDelta(t, 0, p.X, 1e-12)
	assert.InDelta(t, 0.599584916, p.Y, 1e-9)
	assert.Equal(t, r3.Vec{}, helixMomentum(1, 0, 1, 5))
}

var lcioStates = []lcio.TrackState{
	{D0: 0.5, Phi: 0.3, Omega: -7.4948e-4, Z0: 20, TanL: 0.5},
	{D0: -0.2, Phi: 2, Omega: 1.4990e-3, Z0: 20, TanL: 0},
	// a clone of the first track
	{D0: 0.5, Phi: 0.3, Omega: -7.4948e-4, Z0: 20, TanL: 0.5},
}

func stateMomentum(s lcio.TrackState) r3.Vec {
	return helixMomentum(float64(s.Phi), float64(s.Omega), float64(s.TanL), 5)
}

func rotate(v r3.Vec, dphi float64) r3.Vec {
	c, s := math.Cos(dphi), math.Sin(dphi)
	return r3.Vec{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y, Z: v.Z}
}

func writeLCIO(t *testing.T) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "events.slcio")
	w, err := lcio.Create(fname)
	require.NoError(t, err)
	require.NoError(t, w.WriteRunHeader(&lcio.RunHeader{RunNumber: 7, Detector: "sidloi3"}))

	evt := lcio.Event{RunNumber: 7, EventNumber: 1, Detector: "sidloi3"}

	tracks := lcio.TrackContainer{}
	for i, s := range lcioStates {
		trk := lcio.Track{States: []lcio.TrackState{s}, DEdx: 1e-4}
		if i == 0 {
			trk.Chi2, trk.NdF = 20, 10
		}
		tracks.Tracks = append(tracks.Tracks, trk)
	}

	// clusters sit 1 m along the track direction from the vertex at 20 mm
	at := func(dir r3.Vec) [3]float32 {
		pos := r3.Add(r3.Scale(1000, r3.Unit(dir)), r3.Vec{Z: 20})
		return [3]float32{float32(pos.X), float32(pos.Y), float32(pos.Z)}
	}
	p0, p1 := stateMomentum(lcioStates[0]), stateMomentum(lcioStates[1])
	clusters := lcio.ClusterContainer{Clusters: []lcio.Cluster{
		{Energy: 0.7, Pos: at(rotate(p0, 1))},
		{Energy: 1.8, Pos: at(p0)},
	}}

	mc := lcio.McParticleContainer{Particles: []lcio.McParticle{
		{PDG: 22, GenStatus: 2, P: [3]float64{p0.X, p0.Y, p0.Z}},
		{PDG: 11, GenStatus: 1, Charge: -1, P: [3]float64{p0.X, p0.Y, p0.Z}},
		{PDG: 211, GenStatus: 1, Charge: 1, P: vec3(rotate(p1, 0.05))},
		{PDG: 2212, GenStatus: 1, Charge: 1, P: vec3(p1)},
	}}
	mc.Particles[1].Parents = []*lcio.McParticle{&mc.Particles[0]}
	mc.Particles[0].Children = []*lcio.McParticle{&mc.Particles[1]}

	evt.Add("Tracks", &tracks)
	evt.Add("ReconClusters", &clusters)
	evt.Add("MCParticle", &mc)
	require.NoError(t, w.WriteEvent(&evt))

	empty := lcio.Event{RunNumber: 7, EventNumber: 2, Detector: "sidloi3"}
	require.NoError(t, w.WriteEvent(&empty))
	require.NoError(t, w.Close())
	return fname
}

func vec3(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func TestLCIOReader(t *testing.T) {
	ctx := context.Background()
	src, err := Open(writeLCIO(t), DefaultOptions())
	require.NoError(t, err)
	defer src.Close()

	ev, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, ev.Run)
	require.NotNil(t, ev.Vertex)
	assert.InDelta(t, 2, ev.Vertex.Pos.Z, 1e-6)
	assert.Equal(t, 3, ev.Vertex.NContributors)

	require.Len(t, ev.Tracks, 3)
	e, p, clone := &ev.Tracks[0], &ev.Tracks[1], &ev.Tracks[2]

	assert.Equal(t, -1, e.Charge)
	assert.Equal(t, 1, p.Charge)
	assert.InDelta(t, 2, e.Pt(), 1e-3)
	assert.InDelta(t, 1, e.P.Z, 1e-3)
	assert.InDelta(t, 1, p.Pt(), 1e-3)
	assert.InDelta(t, 0.3, math.Atan2(e.P.Y, e.P.X), 1e-6)

	assert.InDelta(t, 0.05, e.Quality.DCAxy, 1e-6)
	assert.InDelta(t, 0, e.Quality.DCAz, 1e-6)
	assert.InDelta(t, 2, e.Quality.TPCChi2, 1e-6)
	assert.InDelta(t, 2, e.Pos.Z, 1e-6)
	assert.InDelta(t, 60, e.DEdx, 1e-3)
	// tracks without a fit keep the default quality
	assert.Equal(t, DefaultOptions().Quality.TPCChi2, p.Quality.TPCChi2)

	require.Len(t, ev.Clusters, 3)
	assert.Equal(t, 2, e.Cluster)
	assert.Equal(t, 2, clone.Cluster)
	assert.Equal(t, 0, p.Cluster)
	assert.InDelta(t, 1.8, ev.ClusterE(e), 1e-6)

	require.Len(t, ev.MC, 5)
	assert.Equal(t, 2, e.Label)
	assert.Equal(t, 4, p.Label)
	// the electron is taken by the first track
	assert.Equal(t, 0, clone.Label)

	l, ok := ev.Lineage(e)
	require.True(t, ok)
	assert.True(t, l.IsElectron)
	assert.Equal(t, 22, l.Ancestors[0].PDG)
	assert.Equal(t, hfe.FromGamma, l.Ancestors[0].Class)

	l, ok = ev.Lineage(p)
	require.True(t, ok)
	assert.Equal(t, 2212, l.PDG)
	assert.False(t, l.Photonic())

	ev, err = src.Next(ctx)
	require.NoError(t, err)
	assert.Nil(t, ev.Vertex)
	assert.Empty(t, ev.Tracks)

	_, err = src.Next(ctx)
	assert.Equal(t, io.EOF, err)
	assert.NoError(t, src.Close())
}
