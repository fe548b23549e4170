package hfe

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/decibelcooper/hfeflow/hist"
)

type fakePair struct {
	chi2  float64
	ndf   int
	angle float64
	mass  float64

	prodVertex bool
	constraint bool
}

func (p *fakePair) NDF() int                       { return p.ndf }
func (p *fakePair) Chi2() float64                  { return p.chi2 }
func (p *fakePair) SetProductionVertex(*Vertex)    { p.prodVertex = true }
func (p *fakePair) SetMassConstraint(m, s float64) { p.constraint = true }
func (p *fakePair) OpeningAngle() float64          { return p.angle }
func (p *fakePair) Mass() (float64, float64)       { return p.mass, 0.001 }

// fakeFitter returns the pair registered for the associate track, or a
// failed fit.
type fakeFitter struct {
	pairs map[*Track]fakePair
	calls [][2]*Track
	pdgs  [][2]int
}

func newFakeFitter() *fakeFitter {
	return &fakeFitter{pairs: make(map[*Track]fakePair)}
}

func (f *fakeFitter) Fit(a, b *Track, pdgA, pdgB int) Composite {
	f.calls = append(f.calls, [2]*Track{a, b})
	f.pdgs = append(f.pdgs, [2]int{pdgA, pdgB})
	p, ok := f.pairs[b]
	if !ok {
		return &fakePair{}
	}
	return &p
}

type fixedResponse float64

func (r fixedResponse) NumberOfSigmasTPC(*Track, Species) float64 { return float64(r) }

func goodQuality() Quality {
	return Quality{
		TPCRefit:       true,
		ITSRefit:       true,
		TPCClusters:    120,
		TPCFindable:    130,
		TPCChi2:        2,
		ITSClusters:    4,
		ITSPixels:      3,
		DCAxy:          0.1,
		DCAz:           0.2,
		NSigmaToVertex: 1,
	}
}

// track returns a good mid-rapidity track with transverse momentum pt
// along phi.
func track(pt, phi float64, charge int, dedx float64) Track {
	return Track{
		P:       r3.Vec{X: pt * math.Cos(phi), Y: pt * math.Sin(phi)},
		Charge:  charge,
		DEdx:    dedx,
		Quality: goodQuality(),
	}
}

func event(tracks ...Track) *Event {
	return &Event{
		Run:        137000,
		Vertex:     &Vertex{Pos: r3.Vec{Z: 1}, Sigma: 0.01, NContributors: len(tracks)},
		Centrality: 30,
		Tracks:     tracks,
		Clusters:   []Cluster{{}},
		Planes: Planes{
			V0A:     0.4,
			V0C:     0.5,
			TPC:     &QVector{X: 1, Y: 0.2},
			TPCSub1: &QVector{X: 1, Y: 0.1},
			TPCSub2: &QVector{X: 1, Y: 0.3},
		},
	}
}

// withCluster attaches an EMCal cluster of energy e to track i.
func withCluster(ev *Event, i int, e float64) {
	ev.Clusters = append(ev.Clusters, Cluster{E: e, EMCal: true})
	ev.Tracks[i].Cluster = len(ev.Clusters) - 1
}

func newTestTask(f VertexFitter, nsigma float64) (*ElecV2, *hist.Registry) {
	task := NewElecV2(DefaultParams())
	task.Fitter = f
	task.PID.SetResponse(fixedResponse(nsigma))
	out := hist.NewRegistry("test")
	if err := task.Initialize(out); err != nil {
		panic(err)
	}
	return task, out
}
