package hfe

import "math"

// Unset marks an angle or resolution that could not be computed.
const Unset = -999.

func phi0To2Pi(x float64) float64 {
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	if x >= 2*math.Pi {
		x = 0
	}
	return x
}

// foldPi maps a second-harmonic angle into [0, pi).
func foldPi(x float64) float64 {
	x = math.Mod(x, math.Pi)
	if x < 0 {
		x += math.Pi
	}
	if x >= math.Pi {
		x = 0
	}
	return x
}

// DeltaPhi returns phiA-phiB folded into [0, pi).
func DeltaPhi(phiA, phiB float64) float64 {
	return foldPi(phiA - phiB)
}

// Cos2DeltaPhi returns cos(2(phiA-phiB)). It is symmetric in its
// arguments.
func Cos2DeltaPhi(phiA, phiB float64) float64 {
	d := math.Abs(math.Remainder(phiA-phiB, math.Pi))
	return math.Cos(2 * d)
}

// PlaneAngles are the event-plane angles of one event, all in [0, pi).
type PlaneAngles struct {
	V0A float64
	V0C float64
	TPC float64

	// SubRes is cos(2(psi1-psi2)) of the two TPC sub-events, Unset if a
	// half is missing.
	SubRes float64
}

// Resolutions returns the pairwise correction factors V0A-V0C, V0A-TPC
// and V0C-TPC.
func (pa PlaneAngles) Resolutions() [3]float64 {
	return [3]float64{
		Cos2DeltaPhi(pa.V0A, pa.V0C),
		Cos2DeltaPhi(pa.V0A, pa.TPC),
		Cos2DeltaPhi(pa.V0C, pa.TPC),
	}
}

// ForwardPlanes folds the forward-detector angles.
func ForwardPlanes(p *Planes) (v0a, v0c float64) {
	return foldPi(phi0To2Pi(p.V0A)), foldPi(phi0To2Pi(p.V0C))
}

// EstimatePlanes computes the three event-plane angles and the TPC
// sub-event resolution. It reports false when the central-barrel flow
// vector is missing.
func EstimatePlanes(p *Planes) (PlaneAngles, bool) {
	var pa PlaneAngles
	pa.V0A, pa.V0C = ForwardPlanes(p)
	if p.TPC == nil {
		return pa, false
	}
	pa.TPC = tpcAngle(*p.TPC)
	pa.SubRes = Unset
	if p.TPCSub1 != nil && p.TPCSub2 != nil {
		pa.SubRes = math.Cos(2 * phi0To2Pi(p.TPCSub1.Phi()/2-p.TPCSub2.Phi()/2))
	}
	return pa, true
}

func tpcAngle(q QVector) float64 {
	return foldPi(q.Phi() / 2)
}

// TrackTPCPlane returns the TPC event-plane angle with track i's own
// contribution removed from the flow vector.
func TrackTPCPlane(p *Planes, i int) float64 {
	if p.TPC == nil {
		return Unset
	}
	return tpcAngle(p.TPC.Sub(p.Contribution(i)))
}

// Resolution3Sub returns the resolution of detector A from the three
// sub-event averages <cos2(A-B)>, <cos2(A-C)> and <cos2(B-C)>, or NaN when
// the combination is not positive.
func Resolution3Sub(ab, ac, bc float64) float64 {
	if bc == 0 {
		return math.NaN()
	}
	r2 := ab * ac / bc
	if r2 <= 0 {
		return math.NaN()
	}
	return math.Sqrt(r2)
}
