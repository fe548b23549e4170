package source

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/decibelcooper/hfeflow/hfe"
)

// Raw is the detector-level content of one event before the event-plane
// and centrality estimators have run.
type Raw struct {
	Run      int
	Vertex   *hfe.Vertex
	Tracks   []hfe.Track
	Clusters []hfe.Cluster
	// Forward holds the momenta of charged particles seen by the forward
	// scintillators.
	Forward []r3.Vec
	MC      []hfe.Particle
}

// Acceptance is a pseudorapidity window.
type Acceptance struct {
	EtaMin, EtaMax float64
}

func (a Acceptance) Contains(eta float64) bool {
	return eta > a.EtaMin && eta < a.EtaMax
}

// Builder turns raw events into analysis events: it fills the flow
// vectors, the forward event planes and the centrality.
type Builder struct {
	TPC      Acceptance
	TPCPtMin float64
	TPCPtMax float64
	// TPCMaxWeight caps the pT weight of a track in the flow vector.
	TPCMaxWeight float64

	V0A Acceptance
	V0C Acceptance

	// Calibrations holds the centrality calibration by run.
	Calibrations map[int]*Calibration
}

func NewBuilder() *Builder {
	return &Builder{
		TPC:          Acceptance{-0.8, 0.8},
		TPCPtMin:     0.15,
		TPCPtMax:     20,
		TPCMaxWeight: 2,
		V0A:          Acceptance{2.8, 5.1},
		V0C:          Acceptance{-3.7, -1.7},
		Calibrations: make(map[int]*Calibration),
	}
}

// AddCalibration registers the centrality calibration of a run.
func (b *Builder) AddCalibration(c *Calibration) {
	if b.Calibrations == nil {
		b.Calibrations = make(map[int]*Calibration)
	}
	b.Calibrations[c.Run] = c
}

func harmonic2(phi, w float64) hfe.QVector {
	return hfe.QVector{X: w * math.Cos(2*phi), Y: w * math.Sin(2*phi)}
}

func eta(p r3.Vec) float64 {
	t := hfe.Track{P: p}
	return t.Eta()
}

// Build assembles the event. The raw content is copied, never shared.
func (b *Builder) Build(raw *Raw) *hfe.Event {
	ev := &hfe.Event{
		Run:      raw.Run,
		Vertex:   raw.Vertex,
		Tracks:   append([]hfe.Track(nil), raw.Tracks...),
		Clusters: append([]hfe.Cluster(nil), raw.Clusters...),
		MC:       append([]hfe.Particle(nil), raw.MC...),
	}
	if len(ev.Clusters) == 0 {
		ev.Clusters = []hfe.Cluster{{}}
	}
	b.tpcPlane(ev)

	var v0a, v0c hfe.QVector
	var mult float64
	for _, p := range raw.Forward {
		e := eta(p)
		phi := math.Atan2(p.Y, p.X)
		switch {
		case b.V0A.Contains(e):
			q := harmonic2(phi, 1)
			v0a.X, v0a.Y = v0a.X+q.X, v0a.Y+q.Y
			mult++
		case b.V0C.Contains(e):
			q := harmonic2(phi, 1)
			v0c.X, v0c.Y = v0c.X+q.X, v0c.Y+q.Y
			mult++
		}
	}
	ev.Planes.V0A = math.Atan2(v0a.Y, v0a.X) / 2
	ev.Planes.V0C = math.Atan2(v0c.Y, v0c.X) / 2
	ev.Planes.ForwardMult = mult
	ev.Centrality = b.Calibrations[raw.Run].Centrality(mult)
	return ev
}

// tpcPlane fills the central flow vector, the per-track contributions and
// the two sub-events, alternating accepted tracks between them.
func (b *Builder) tpcPlane(ev *hfe.Event) {
	var q hfe.QVector
	var sub [2]hfe.QVector
	var nsub [2]int
	contrib := make([]hfe.QVector, len(ev.Tracks))
	n := 0
	for i := range ev.Tracks {
		t := &ev.Tracks[i]
		pt := t.Pt()
		if !b.TPC.Contains(t.Eta()) || pt <= b.TPCPtMin || pt >= b.TPCPtMax {
			continue
		}
		w := math.Min(pt, b.TPCMaxWeight)
		c := harmonic2(math.Atan2(t.P.Y, t.P.X), w)
		contrib[i] = c
		q.X += c.X
		q.Y += c.Y
		s := n % 2
		sub[s].X += c.X
		sub[s].Y += c.Y
		nsub[s]++
		n++
	}
	if n == 0 {
		return
	}
	ev.Planes.TPC = &q
	ev.Planes.Contrib = contrib
	if nsub[0] > 0 {
		s := sub[0]
		ev.Planes.TPCSub1 = &s
	}
	if nsub[1] > 0 {
		s := sub[1]
		ev.Planes.TPCSub2 = &s
	}
}

// medianVertex estimates the primary vertex from the z positions of its
// tracks or particles.
func medianVertex(z []float64) *hfe.Vertex {
	if len(z) == 0 {
		return nil
	}
	x := append([]float64(nil), z...)
	sort.Float64s(x)
	med := stat.Quantile(0.5, stat.Empirical, x, nil)
	sigma := 0.01
	if len(x) > 1 {
		sigma = math.Max(stat.StdDev(x, nil)/math.Sqrt(float64(len(x))), sigma)
	}
	return &hfe.Vertex{
		Pos:           r3.Vec{Z: med},
		Sigma:         sigma,
		NContributors: len(x),
	}
}
