package hfe

// Ancestor classes used in the truth histogram.
const (
	FromEta   = 1
	FromPi0   = 2
	FromGamma = 3
)

const noTruth = -99

// Ancestor is one generation above a truth particle.
type Ancestor struct {
	PDG   int
	Pt    float64
	Class int
}

// Lineage is the Monte-Carlo history of a reconstructed track: the
// matched particle and up to three generations of ancestors.
type Lineage struct {
	PDG            int
	Pt             float64
	IsElectron     bool
	FromBackground bool
	Ancestors      [3]Ancestor
}

// classes lists the decay sources tracked at each generation.
var classes = [3]map[int]int{
	{22: FromGamma, 111: FromPi0, 221: FromEta},
	{111: FromPi0, 221: FromEta},
	{221: FromEta},
}

func (ev *Event) particle(i int) *Particle {
	if i <= 0 || i >= len(ev.MC) {
		return nil
	}
	return &ev.MC[i]
}

// Lineage returns the truth history of t. It reports false for real data
// or an unmatched track.
func (ev *Event) Lineage(t *Track) (Lineage, bool) {
	p := ev.particle(t.Label)
	if p == nil {
		return Lineage{}, false
	}
	l := Lineage{
		PDG:            p.PDG,
		Pt:             p.Pt(),
		IsElectron:     p.PDG == 11 || p.PDG == -11,
		FromBackground: p.FromBackground,
	}
	for i := range l.Ancestors {
		l.Ancestors[i] = Ancestor{PDG: noTruth, Pt: noTruth}
	}
	cur := p
	for gen := range l.Ancestors {
		cur = ev.particle(cur.Mother)
		if cur == nil {
			break
		}
		l.Ancestors[gen] = Ancestor{
			PDG:   cur.PDG,
			Pt:    cur.Pt(),
			Class: classes[gen][cur.PDG],
		}
	}
	return l, true
}

// Photonic reports whether the direct mother is a photon, pi0 or eta.
func (l Lineage) Photonic() bool {
	switch l.Ancestors[0].PDG {
	case 22, 111, 221:
		return true
	}
	return false
}
