package source

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/decibelcooper/hfeflow/hfe"
)

func ptPhi(pt, phi, pz float64) r3.Vec {
	return r3.Vec{X: pt * math.Cos(phi), Y: pt * math.Sin(phi), Z: pz}
}

func TestBuilderTPCPlane(t *testing.T) {
	b := NewBuilder()
	raw := &Raw{
		Run: 1,
		Tracks: []hfe.Track{
			{P: ptPhi(1, 0.3, 0)},
			{P: ptPhi(5, 0.3, 0)},
			{P: ptPhi(0.1, 1, 0)}, // too soft
			{P: ptPhi(1, 1, 5)},   // too forward
			{P: ptPhi(0.5, 0.3, 0)},
		},
	}
	ev := b.Build(raw)
	require.NotNil(t, ev.Planes.TPC)
	assert.InDelta(t, 0.3, hfe.TrackTPCPlane(&ev.Planes, 10), 1e-12)

	// weights 1, 2 (capped) and 0.5
	q := ev.Planes.TPC
	assert.InDelta(t, 3.5*math.Cos(0.6), q.X, 1e-12)
	assert.InDelta(t, 3.5*math.Sin(0.6), q.Y, 1e-12)
	assert.Equal(t, hfe.QVector{}, ev.Planes.Contribution(2))
	assert.InDelta(t, 2*math.Cos(0.6), ev.Planes.Contribution(1).X, 1e-12)

	require.NotNil(t, ev.Planes.TPCSub1)
	require.NotNil(t, ev.Planes.TPCSub2)
	assert.InDelta(t, 1.5*math.Cos(0.6), ev.Planes.TPCSub1.X, 1e-12)
	assert.InDelta(t, 2*math.Cos(0.6), ev.Planes.TPCSub2.X, 1e-12)

	assert.Equal(t, -1., ev.Centrality)
	assert.Len(t, ev.Clusters, 1)

	// the raw tracks are not shared
	raw.Tracks[0].Charge = 5
	assert.Equal(t, 0, ev.Tracks[0].Charge)
}

func TestBuilderNoCentralTracks(t *testing.T) {
	ev := NewBuilder().Build(&Raw{Tracks: []hfe.Track{{P: ptPhi(1, 0, 10)}}})
	assert.Nil(t, ev.Planes.TPC)
	_, ok := hfe.EstimatePlanes(&ev.Planes)
	assert.False(t, ok)
}

func TestBuilderForwardPlanesAndCentrality(t *testing.T) {
	b := NewBuilder()
	b.AddCalibration(&Calibration{Run: 7, Points: []CalibPoint{
		{Mult: 0, Percentile: 100},
		{Mult: 10, Percentile: 0},
	}})

	fwd := func(phi, eta float64) r3.Vec {
		return ptPhi(1, phi, math.Sinh(eta))
	}
	ev := b.Build(&Raw{
		Run: 7,
		Forward: []r3.Vec{
			fwd(0.4, 3), fwd(0.4, 4), // V0A
			fwd(1.2, -2), // V0C
			fwd(2, 0),    // central, ignored
		},
	})
	a, c := hfe.ForwardPlanes(&ev.Planes)
	assert.InDelta(t, 0.4, a, 1e-12)
	assert.InDelta(t, 1.2, c, 1e-12)
	assert.Equal(t, 3., ev.Planes.ForwardMult)
	assert.InDelta(t, 70, ev.Centrality, 1e-9)
}

func TestCalibration(t *testing.T) {
	var nilCalib *Calibration
	assert.Equal(t, -1., nilCalib.Centrality(3))

	mults := make([]float64, 100)
	for i := range mults {
		mults[i] = float64(i + 1)
	}
	c := CalibrationFromSample(3, mults, 10)
	require.Len(t, c.Points, 11)
	assert.Equal(t, 0., c.Centrality(1000))
	assert.Equal(t, 100., c.Centrality(0))

	// more particles, more central
	assert.Less(t, c.Centrality(80), c.Centrality(20))
	assert.InDelta(t, 50, c.Centrality(50), 1.5)
}

func TestSliceAndRange(t *testing.T) {
	ctx := context.Background()
	events := make([]*hfe.Event, 10)
	for i := range events {
		events[i] = &hfe.Event{Run: i}
	}

	src := Range(NewSlice(events...), 3, 4)
	var runs []int
	for {
		ev, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		runs = append(runs, ev.Run)
	}
	assert.Equal(t, []int{3, 4, 5, 6}, runs)

	n, err := Count(ctx, Range(NewSlice(events...), 8, -1))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = Count(ctx, Range(NewSlice(events...), 20, -1))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewSlice(events...).Next(cctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenUnknownFormat(t *testing.T) {
	_, err := Open("events.root", DefaultOptions())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestMedianVertex(t *testing.T) {
	assert.Nil(t, medianVertex(nil))
	v := medianVertex([]float64{1, 9, 2, 3, 2.5})
	assert.Equal(t, 2.5, v.Pos.Z)
	assert.Equal(t, 5, v.NContributors)
}

func TestHelixMomentum(t *testing.T) {
	p := helixMomentum(0.5, 1e-3, 1, 5)
	pt := 0.299792458 * 5
	assert.InDelta(t, pt, math.Hypot(p.X, p.Y), 1e-12)
	assert.InDelta(t, pt, p.Z, 1e-12)
	assert.Equal(t, r3.Vec{}, helixMomentum(0.5, 0, 1, 5))
}
