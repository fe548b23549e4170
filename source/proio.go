package source

import (
	"context"
	"fmt"
	"io"

	proio "github.com/proio-org/go-proio"
	"github.com/proio-org/go-proio-pb/model/eic"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/decibelcooper/hfeflow/hfe"
)

// ProioReader reads EIC proio files. Reconstructed tracks are matched to
// the generated particle leaving most of their hits; the forward planes
// and the vertex come from the stable generated particles.
type ProioReader struct {
	opts   Options
	reader *proio.Reader
	events <-chan *proio.Event
	fname  string
	n      int
}

func OpenProio(fname string, opts Options) (*ProioReader, error) {
	opts.fill()
	reader, err := proio.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("source: could not open %s: %w", fname, err)
	}
	return &ProioReader{
		opts:   opts,
		reader: reader,
		events: reader.ScanEvents(),
		fname:  fname,
	}, nil
}

func (r *ProioReader) Next(ctx context.Context) (*hfe.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case event, ok := <-r.events:
		if !ok {
			// the scanner stops on the first error and leaves it on Err
			select {
			case err, ok := <-r.reader.Err:
				if ok && err != nil && err != io.EOF {
					return nil, fmt.Errorf("source: reading %s after %d events: %w", r.fname, r.n, err)
				}
			default:
			}
			return nil, io.EOF
		}
		r.n++
		raw := r.convert(event)
		return r.opts.Builder.Build(raw), nil
	}
}

// Close stops the scan and waits for it to exit before the reader closes
// its error channel.
func (r *ProioReader) Close() error {
	r.reader.StopScan()
	for range r.events {
	}
	r.reader.Close()
	return nil
}

// truth collects the generated particles reached from the tracks, with
// index 0 left empty.
type truth struct {
	event *proio.Event
	index map[uint64]int
	mc    []hfe.Particle
}

func (t *truth) add(id uint64, depth int) int {
	if i, ok := t.index[id]; ok {
		return i
	}
	part, ok := t.event.GetEntry(id).(*eic.Particle)
	if !ok {
		return 0
	}
	i := len(t.mc)
	t.index[id] = i
	t.mc = append(t.mc, hfe.Particle{
		PDG: int(part.GetPdg()),
		P: r3.Vec{
			X: float64(part.GetP().GetX()),
			Y: float64(part.GetP().GetY()),
			Z: float64(part.GetP().GetZ()),
		},
	})
	if depth > 0 && len(part.Parent) > 0 {
		m := t.add(part.Parent[0], depth-1)
		t.mc[i].Mother = m
	}
	return i
}

func (r *ProioReader) convert(event *proio.Event) *Raw {
	raw := &Raw{Run: r.opts.Run}
	tr := &truth{event: event, index: make(map[uint64]int), mc: []hfe.Particle{{}}}

	var vz []float64
	for _, id := range event.TaggedEntries("GenStable") {
		part, ok := event.GetEntry(id).(*eic.Particle)
		if !ok || part.GetCharge() == 0 {
			continue
		}
		raw.Forward = append(raw.Forward, r3.Vec{
			X: float64(part.GetP().GetX()),
			Y: float64(part.GetP().GetY()),
			Z: float64(part.GetP().GetZ()),
		})
		// vertices are stored in mm
		vz = append(vz, float64(part.GetVertex().GetZ())/10)
	}
	raw.Vertex = medianVertex(vz)

	for _, id := range event.TaggedEntries("Reconstructed") {
		track, ok := event.GetEntry(id).(*eic.Track)
		if !ok || len(track.Segment) == 0 {
			continue
		}
		seg := track.Segment[0]
		poq := seg.GetPoq()
		sign := float64(seg.GetChargesign())
		charge := 1
		if sign < 0 {
			charge = -1
		}

		var edep float64
		var nobs int
		hits := make(map[uint64]int)
		for _, obsID := range track.Observation {
			eDep, ok := event.GetEntry(obsID).(*eic.EnergyDep)
			if !ok {
				continue
			}
			edep += float64(eDep.GetMean())
			nobs++
			for _, sourceID := range eDep.Source {
				simHit, ok := event.GetEntry(sourceID).(*eic.SimHit)
				if !ok {
					continue
				}
				hits[simHit.GetParticle()]++
			}
		}

		t := hfe.Track{
			P: r3.Vec{
				X: float64(poq.GetX()),
				Y: float64(poq.GetY()),
				Z: float64(poq.GetZ()),
			},
			Charge:  charge,
			Quality: r.opts.Quality,
		}
		if nobs > 0 {
			t.DEdx = edep / float64(nobs) * r.opts.DEdxScale
		}
		if raw.Vertex != nil {
			t.Pos = raw.Vertex.Pos
		}

		partID, best := uint64(0), 0
		for id, n := range hits {
			if n > best || (n == best && id < partID) {
				partID, best = id, n
			}
		}
		if best > 0 {
			// label, mother, grandmother, great-grandmother
			t.Label = tr.add(partID, 3)
		}
		raw.Tracks = append(raw.Tracks, t)
	}
	if len(tr.mc) > 1 {
		raw.MC = tr.mc
	}
	return raw
}

var _ Source = (*ProioReader)(nil)
