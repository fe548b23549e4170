package hfe

import (
	"math"

	"go-hep.org/x/hep/fmom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Composite is a two-track candidate produced by a VertexFitter.
// A non-positive NDF signals a failed fit.
type Composite interface {
	NDF() int
	Chi2() float64
	// SetProductionVertex constrains the candidate to originate from v.
	SetProductionVertex(v *Vertex)
	// SetMassConstraint constrains the candidate mass to m within sigma.
	SetMassConstraint(m, sigma float64)
	// OpeningAngle returns the angle between the two daughters' momenta.
	OpeningAngle() float64
	// Mass returns the invariant mass and its uncertainty.
	Mass() (m, sigma float64)
}

// VertexFitter builds a two-track candidate under the given PDG mass
// hypotheses.
type VertexFitter interface {
	Fit(a, b *Track, pdgA, pdgB int) Composite
}

// LinearFitter fits two straight-line tracks to a common vertex. It is
// adequate for the short extrapolation between the reference points of
// close pairs.
type LinearFitter struct {
	// DefaultPosErr replaces non-positive track position errors, cm.
	DefaultPosErr float64
	// MomRes is the relative momentum resolution.
	MomRes float64
	// AngleRes is the angular resolution, rad.
	AngleRes float64
}

func NewLinearFitter() *LinearFitter {
	return &LinearFitter{
		DefaultPosErr: 0.1,
		MomRes:        0.01,
		AngleRes:      0.001,
	}
}

type linearPair struct {
	fitter *LinearFitter

	pa, pb     r3.Vec
	ma, mb     float64
	vertex     r3.Vec
	vertexErr2 float64

	chi2 float64
	ndf  int
}

func (f *LinearFitter) posErr(t *Track) float64 {
	if t.PosErr > 0 {
		return t.PosErr
	}
	return f.DefaultPosErr
}

func (f *LinearFitter) Fit(a, b *Track, pdgA, pdgB int) Composite {
	c := &linearPair{fitter: f, pa: a.P, pb: b.P}
	sa, oka := SpeciesFromPDG(pdgA)
	sb, okb := SpeciesFromPDG(pdgB)
	if !oka || !okb || r3.Norm(a.P) == 0 || r3.Norm(b.P) == 0 {
		return c
	}
	c.ma, c.mb = sa.Mass(), sb.Mass()

	da, db := r3.Unit(a.P), r3.Unit(b.P)
	w0 := r3.Sub(a.Pos, b.Pos)
	cosab := r3.Dot(da, db)
	d := r3.Dot(da, w0)
	e := r3.Dot(db, w0)
	den := 1 - cosab*cosab

	var s, t float64
	if den < 1e-12 {
		// parallel lines: closest point on b to a's reference point
		s, t = 0, e
	} else {
		s = (cosab*e - d) / den
		t = (e - cosab*d) / den
	}
	ca := r3.Add(a.Pos, r3.Scale(s, da))
	cb := r3.Add(b.Pos, r3.Scale(t, db))

	ea2 := sq(f.posErr(a))
	eb2 := sq(f.posErr(b))
	c.vertex = r3.Scale(1/(1/ea2+1/eb2), r3.Add(r3.Scale(1/ea2, ca), r3.Scale(1/eb2, cb)))
	c.vertexErr2 = ea2 * eb2 / (ea2 + eb2)

	dist := r3.Sub(ca, cb)
	c.chi2 = r3.Dot(dist, dist) / (ea2 + eb2)
	c.ndf = 1
	return c
}

func (c *linearPair) NDF() int      { return c.ndf }
func (c *linearPair) Chi2() float64 { return c.chi2 }

func (c *linearPair) SetProductionVertex(v *Vertex) {
	if c.ndf <= 0 || v == nil {
		return
	}
	ptot := r3.Add(c.pa, c.pb)
	if r3.Norm(ptot) == 0 {
		return
	}
	// distance of the production vertex from the candidate's line of flight
	u := r3.Unit(ptot)
	w := r3.Sub(v.Pos, c.vertex)
	perp := r3.Sub(w, r3.Scale(r3.Dot(w, u), u))
	c.chi2 += r3.Dot(perp, perp) / (c.vertexErr2 + sq(v.Sigma))
	c.ndf += 2
}

func (c *linearPair) SetMassConstraint(m, sigma float64) {
	if c.ndf <= 0 {
		return
	}
	mass, err := c.Mass()
	c.chi2 += sq(mass-m) / (sq(err) + sq(sigma))
	c.ndf++
}

func (c *linearPair) OpeningAngle() float64 {
	return math.Atan2(r3.Norm(r3.Cross(c.pa, c.pb)), r3.Dot(c.pa, c.pb))
}

func (c *linearPair) Mass() (float64, float64) {
	p1 := fmom.NewPxPyPzE(c.pa.X, c.pa.Y, c.pa.Z, math.Sqrt(r3.Dot(c.pa, c.pa)+sq(c.ma)))
	p2 := fmom.NewPxPyPzE(c.pb.X, c.pb.Y, c.pb.Z, math.Sqrt(r3.Dot(c.pb, c.pb)+sq(c.mb)))
	m := fmom.InvMass(&p1, &p2)
	if math.IsNaN(m) {
		m = 0
	}

	// massless approximation: m^2 = 2 p1 p2 (1-cos theta)
	na, nb := r3.Norm(c.pa), r3.Norm(c.pb)
	theta := c.OpeningAngle()
	m2 := 2 * na * nb * (1 - math.Cos(theta))
	res := c.fitter.MomRes
	dm2 := math.Sqrt(sq(m2*res) + sq(m2*res) + sq(2*na*nb*math.Sin(theta)*c.fitter.AngleRes))
	if m > 0 {
		return m, dm2 / (2 * m)
	}
	return m, math.Sqrt(dm2)
}

func sq(x float64) float64 { return x * x }
