package hfe

import "math"

// Species is a particle-identification hypothesis.
type Species int

const (
	Electron Species = iota
	Muon
	Pion
	Kaon
	Proton
)

// Mass returns the species mass in GeV.
func (s Species) Mass() float64 {
	switch s {
	case Electron:
		return 0.000510999
	case Muon:
		return 0.105658
	case Pion:
		return 0.139570
	case Kaon:
		return 0.493677
	case Proton:
		return 0.938272
	}
	return 0
}

// SpeciesFromPDG maps a PDG code to a species, charge ignored.
func SpeciesFromPDG(pdg int) (Species, bool) {
	if pdg < 0 {
		pdg = -pdg
	}
	switch pdg {
	case 11:
		return Electron, true
	case 13:
		return Muon, true
	case 211:
		return Pion, true
	case 321:
		return Kaon, true
	case 2212:
		return Proton, true
	}
	return 0, false
}

// NSigmaUnavailable is returned when no PID response can be computed.
const NSigmaUnavailable = 1000.

// PIDResponse gives the deviation of a track's measured signal from the
// expectation for a species, in units of the resolution.
type PIDResponse interface {
	NumberOfSigmasTPC(t *Track, s Species) float64
}

// BetheBloch is a TPC response built on the ALEPH parametrisation of the
// specific energy loss.
type BetheBloch struct {
	Params [5]float64
	// MIP is the signal of a minimum-ionising particle.
	MIP float64
	// Resolution is the relative dE/dx resolution.
	Resolution float64
}

func aleph(bg float64, p [5]float64) float64 {
	beta := bg / math.Sqrt(1+bg*bg)
	aa := math.Pow(beta, p[3])
	bb := math.Pow(1/bg, p[4])
	bb = math.Log(p[2] + bb)
	return (p[1] - aa - bb) * p[0] / aa
}

// Expected returns the expected signal at momentum p for species s.
func (bb *BetheBloch) Expected(p float64, s Species) float64 {
	m := s.Mass()
	if p <= 0 || m <= 0 {
		return 0
	}
	return bb.MIP * aleph(p/m, bb.Params)
}

func (bb *BetheBloch) NumberOfSigmasTPC(t *Track, s Species) float64 {
	if t.DEdx <= 0 {
		return NSigmaUnavailable
	}
	exp := bb.Expected(t.Mom(), s)
	if exp <= 0 || bb.Resolution <= 0 {
		return NSigmaUnavailable
	}
	return (t.DEdx - exp) / (bb.Resolution * exp)
}

type period struct {
	first, last int
	response    BetheBloch
}

var periods = []period{
	{ // 2010 Pb-Pb
		first: 136851, last: 139517,
		response: BetheBloch{
			Params:     [5]float64{0.0283086 / 0.97, 2.63394e+01, 5.04114e-11, 2.12543e+00, 4.88663e+00},
			MIP:        50,
			Resolution: 0.07,
		},
	},
	{ // 2011 Pb-Pb
		first: 167915, last: 170593,
		response: BetheBloch{
			Params:     [5]float64{0.0283086 / 0.97, 2.63394e+01, 5.04114e-11, 2.12543e+00, 4.88663e+00},
			MIP:        55,
			Resolution: 0.065,
		},
	},
}

// DefaultResponse returns the response used for runs outside any known
// period.
func DefaultResponse() *BetheBloch {
	r := periods[len(periods)-1].response
	return &r
}

// ResponseForRun returns the TPC response calibrated for the given run.
func ResponseForRun(run int) *BetheBloch {
	for _, p := range periods {
		if run >= p.first && run <= p.last {
			r := p.response
			return &r
		}
	}
	return DefaultResponse()
}

// PID is the electron selection combining the TPC n-sigma window with the
// EMCal E/p window.
type PID struct {
	TPCMin, TPCMax       float64
	EoverPMin, EoverPMax float64
	// UseEMCal enables the E/p requirement.
	UseEMCal bool

	response    PIDResponse
	run         int
	initialized bool
}

// NewPID returns the selection with the default windows.
func NewPID() *PID {
	return DefaultParams().newPID()
}

func (p *PID) Initialized() bool { return p.initialized }

// Run returns the run number the response was initialised for.
func (p *PID) Run() int { return p.run }

// InitializeForRun loads the response of the period holding run.
func (p *PID) InitializeForRun(run int) {
	p.response = ResponseForRun(run)
	p.run = run
	p.initialized = true
}

// SetResponse installs an externally provided response, not tied to a
// run.
func (p *PID) SetResponse(r PIDResponse) {
	p.response = r
	p.run = 0
	p.initialized = r != nil
}

func (p *PID) Response() PIDResponse { return p.response }

// NSigma returns the TPC electron n-sigma, NSigmaUnavailable without a
// response.
func (p *PID) NSigma(t *Track) float64 {
	if p.response == nil {
		return NSigmaUnavailable
	}
	return p.response.NumberOfSigmasTPC(t, Electron)
}

// IsSelected reports whether a track with the given TPC n-sigma and E/p
// is identified as an electron.
func (p *PID) IsSelected(nsigma, eoverp float64) bool {
	if nsigma == NSigmaUnavailable || nsigma < p.TPCMin || nsigma > p.TPCMax {
		return false
	}
	if p.UseEMCal && (eoverp < p.EoverPMin || eoverp > p.EoverPMax) {
		return false
	}
	return true
}
