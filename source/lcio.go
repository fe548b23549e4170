package source

import (
	"context"
	"fmt"
	"io"
	"math"

	"go-hep.org/x/hep/lcio"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/decibelcooper/hfeflow/hfe"
)

// LCIOReader reads LCIO files. Tracks are helix-parametrised; clusters
// and truth particles are matched to them by direction.
type LCIOReader struct {
	opts   Options
	reader *lcio.Reader
	fname  string
}

func OpenLCIO(fname string, opts Options) (*LCIOReader, error) {
	opts.fill()
	reader, err := lcio.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("source: could not open %s: %w", fname, err)
	}
	return &LCIOReader{opts: opts, reader: reader, fname: fname}, nil
}

func (r *LCIOReader) Next(ctx context.Context) (*hfe.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.reader.Next() {
		if err := r.reader.Err(); err != nil && err != io.EOF {
			return nil, fmt.Errorf("source: reading %s: %w", r.fname, err)
		}
		return nil, io.EOF
	}
	event := r.reader.Event()
	return r.opts.Builder.Build(r.convert(&event)), nil
}

func (r *LCIOReader) Close() error {
	return r.reader.Close()
}

// helixMomentum converts the helix parameters of a track to a momentum in
// GeV, for a field in T and a curvature in 1/mm.
func helixMomentum(phi, omega, tanL, bfield float64) r3.Vec {
	if omega == 0 {
		return r3.Vec{}
	}
	pt := 0.299792458e-3 * bfield / math.Abs(omega)
	return r3.Vec{X: pt * math.Cos(phi), Y: pt * math.Sin(phi), Z: pt * tanL}
}

func angle(a, b r3.Vec) float64 {
	return math.Atan2(r3.Norm(r3.Cross(a, b)), r3.Dot(a, b))
}

func (r *LCIOReader) convert(event *lcio.Event) *Raw {
	raw := &Raw{Run: int(event.RunNumber)}

	var tracks []lcio.Track
	if coll, ok := event.Get(r.opts.TrackCollection).(*lcio.TrackContainer); ok {
		tracks = coll.Tracks
	}

	var z0 []float64
	for i := range tracks {
		z0 = append(z0, tracks[i].Z0()/10)
	}
	raw.Vertex = medianVertex(z0)

	raw.Clusters = []hfe.Cluster{{}}
	var clusterDirs []r3.Vec
	if coll, ok := event.Get(r.opts.ClusterCollection).(*lcio.ClusterContainer); ok {
		for _, c := range coll.Clusters {
			pos := r3.Vec{X: float64(c.Pos[0]), Y: float64(c.Pos[1]), Z: float64(c.Pos[2])}
			if raw.Vertex != nil {
				pos = r3.Sub(pos, r3.Scale(10, raw.Vertex.Pos))
			}
			clusterDirs = append(clusterDirs, pos)
			raw.Clusters = append(raw.Clusters, hfe.Cluster{E: float64(c.Energy), EMCal: true})
		}
	}

	// truth, index 0 left empty
	type candidate struct {
		index int
		p     r3.Vec
	}
	var stable []candidate
	if coll, ok := event.Get(r.opts.MCCollection).(*lcio.McParticleContainer); ok && len(coll.Particles) > 0 {
		index := make(map[*lcio.McParticle]int, len(coll.Particles))
		for i := range coll.Particles {
			index[&coll.Particles[i]] = i + 1
		}
		raw.MC = make([]hfe.Particle, len(coll.Particles)+1)
		for i := range coll.Particles {
			mc := &coll.Particles[i]
			p := r3.Vec{X: mc.P[0], Y: mc.P[1], Z: mc.P[2]}
			raw.MC[i+1] = hfe.Particle{PDG: int(mc.PDG), P: p}
			if len(mc.Parents) > 0 {
				raw.MC[i+1].Mother = index[mc.Parents[0]]
			}
			if mc.GenStatus != 1 || mc.Charge == 0 {
				continue
			}
			raw.Forward = append(raw.Forward, p)
			stable = append(stable, candidate{index: i + 1, p: p})
		}
	}

	for i := range tracks {
		trk := &tracks[i]
		phi, omega := trk.Phi(), trk.Omega()
		d0 := trk.D0() / 10
		charge := 1
		if omega < 0 {
			charge = -1
		}
		t := hfe.Track{
			P:       helixMomentum(phi, omega, trk.TanL(), r.opts.BField),
			Pos:     r3.Vec{X: -d0 * math.Sin(phi), Y: d0 * math.Cos(phi), Z: trk.Z0() / 10},
			PosErr:  0.01,
			Charge:  charge,
			DEdx:    float64(trk.DEdx) * r.opts.DEdxScale,
			Quality: r.opts.Quality,
		}
		t.Quality.DCAxy = d0
		if raw.Vertex != nil {
			t.Quality.DCAz = t.Pos.Z - raw.Vertex.Pos.Z
		}
		if trk.NdF > 0 {
			t.Quality.TPCChi2 = float64(trk.Chi2) / float64(trk.NdF)
		}

		best, bestAngle := -1, r.opts.MaxClusterAngle
		for j, dir := range clusterDirs {
			if a := angle(t.P, dir); a < bestAngle {
				best, bestAngle = j, a
			}
		}
		if best >= 0 {
			t.Cluster = best + 1
		}

		best, bestAngle = -1, r.opts.MaxTruthAngle
		for j, c := range stable {
			if a := angle(t.P, c.p); a < bestAngle {
				best, bestAngle = j, a
			}
		}
		if best >= 0 {
			t.Label = stable[best].index
			stable = append(stable[:best], stable[best+1:]...)
		}
		raw.Tracks = append(raw.Tracks, t)
	}
	return raw
}

var _ Source = (*LCIOReader)(nil)
