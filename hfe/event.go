// Package hfe implements the heavy-flavour electron elliptic-flow analysis:
// event selection, event-plane estimation, track selection, photonic
// electron tagging and the histograms they feed.
package hfe

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vertex is a reconstructed primary vertex, positions in cm.
type Vertex struct {
	Pos           r3.Vec
	Sigma         float64
	NContributors int
}

// QVector is a second-harmonic flow vector.
type QVector struct {
	X, Y float64
}

// Phi returns the vector angle in [0, 2pi).
func (q QVector) Phi() float64 {
	return phi0To2Pi(math.Atan2(q.Y, q.X))
}

func (q QVector) Sub(o QVector) QVector {
	return QVector{X: q.X - o.X, Y: q.Y - o.Y}
}

// Planes carries the raw event-plane inputs of one event.
type Planes struct {
	// V0A and V0C are the forward-detector second-harmonic angles, in any
	// range.
	V0A, V0C float64
	// ForwardMult is the summed forward-detector multiplicity.
	ForwardMult float64

	// TPC is the central-barrel flow vector, nil when unavailable.
	TPC *QVector
	// TPCSub1 and TPCSub2 are built from two disjoint halves of the
	// central-barrel tracks.
	TPCSub1, TPCSub2 *QVector
	// Contrib holds each track's contribution to TPC, by track index.
	Contrib []QVector
}

// Contribution returns the share of track i in the TPC flow vector.
func (p *Planes) Contribution(i int) QVector {
	if i < 0 || i >= len(p.Contrib) {
		return QVector{}
	}
	return p.Contrib[i]
}

// Cluster is a calorimeter cluster.
type Cluster struct {
	E     float64
	EMCal bool
}

// Quality holds the reconstruction information the track cuts look at.
type Quality struct {
	TPCRefit    bool
	ITSRefit    bool
	TPCClusters int
	TPCFindable int
	// TPCChi2 is the TPC fit chi2 per cluster.
	TPCChi2     float64
	ITSClusters int
	// ITSPixels has bit 0 set for a hit on the inner pixel layer and bit 1
	// for the outer one.
	ITSPixels uint8
	DCAxy     float64
	DCAz      float64
	// NSigmaToVertex is negative when it could not be computed.
	NSigmaToVertex float64
}

// Track is a reconstructed charged track.
type Track struct {
	P      r3.Vec // momentum, GeV
	Pos    r3.Vec // reference point near the vertex, cm
	PosErr float64
	Charge int
	DEdx   float64

	// Cluster indexes Event.Clusters; values <= 0 mean no matched cluster.
	Cluster int
	// Label indexes Event.MC; values <= 0 mean no truth.
	Label int
	// Kink is negative for kink mothers and positive for kink daughters.
	Kink int

	Quality Quality
}

func (t *Track) Pt() float64 {
	return math.Hypot(t.P.X, t.P.Y)
}

func (t *Track) Mom() float64 {
	return r3.Norm(t.P)
}

// Eta returns the pseudorapidity.
func (t *Track) Eta() float64 {
	p := t.Mom()
	if p == 0 {
		return 0
	}
	ct := t.P.Z / p
	if ct >= 1 {
		return math.Inf(1)
	}
	if ct <= -1 {
		return math.Inf(-1)
	}
	return math.Atanh(ct)
}

// Phi returns the azimuth in [0, 2pi).
func (t *Track) Phi() float64 {
	return phi0To2Pi(math.Atan2(t.P.Y, t.P.X))
}

// Particle is one entry of the Monte-Carlo particle stack.
type Particle struct {
	PDG int
	P   r3.Vec
	// Mother indexes the stack; values <= 0 mean none.
	Mother int
	// FromBackground is set for particles of the underlying event rather
	// than of an injected signal.
	FromBackground bool
}

func (p *Particle) Pt() float64 {
	return math.Hypot(p.P.X, p.P.Y)
}

// Event is one reconstructed collision. It is never modified by the
// analysis.
type Event struct {
	Run        int
	Vertex     *Vertex
	Centrality float64
	Tracks     []Track
	Clusters   []Cluster
	Planes     Planes

	// MC is the particle stack; nil for real data.
	MC []Particle
}

// Track returns track i, or nil.
func (ev *Event) Track(i int) *Track {
	if i < 0 || i >= len(ev.Tracks) {
		return nil
	}
	return &ev.Tracks[i]
}

// ClusterE returns the energy of the EMCal cluster matched to t, or -999.
func (ev *Event) ClusterE(t *Track) float64 {
	if t.Cluster <= 0 || t.Cluster >= len(ev.Clusters) {
		return -999
	}
	c := ev.Clusters[t.Cluster]
	if !c.EMCal {
		return -999
	}
	return c.E
}
