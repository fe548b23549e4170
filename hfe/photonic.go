package hfe

import (
	"math"

	"github.com/decibelcooper/hfeflow/hist"
)

// Tag is the photonic classification of one candidate track.
type Tag struct {
	// Photonic is set by an opposite-sign partner passing the mass cut.
	Photonic bool
	// Background is set by a same-sign partner passing the mass cut.
	Background bool
}

// Tagger identifies photonic electrons by pairing a candidate with every
// other track of the event and looking for a low invariant mass.
type Tagger struct {
	Assoc  AssociationCuts
	Fitter VertexFitter

	MinPt           float64
	DEdxMin         float64
	DEdxMax         float64
	MaxChi2         float64
	MassConstraint  float64
	MassSigma       float64
	OpeningAngleCut float64
	InvMassCut      float64
}

// NewTagger returns a tagger configured from p.
func NewTagger(p Params, fitter VertexFitter) *Tagger {
	return &Tagger{
		Assoc:           DefaultAssociationCuts(),
		Fitter:          fitter,
		MinPt:           p.AssocMinPt,
		DEdxMin:         p.AssocDEdxMin,
		DEdxMax:         p.AssocDEdxMax,
		MaxChi2:         p.MaxPairChi2,
		MassConstraint:  p.MassConstraint,
		MassSigma:       p.MassConstraintSigma,
		OpeningAngleCut: p.OpeningAngleCut,
		InvMassCut:      p.InvMassCut,
	}
}

func electronPDG(charge int) int {
	if charge > 0 {
		return -11
	}
	return 11
}

// Accepts reports whether track a may be used as a partner.
func (tg *Tagger) Accepts(a *Track) bool {
	if a.Pt() < tg.MinPt {
		return false
	}
	if !tg.Assoc.Accept(a) {
		return false
	}
	return a.DEdx >= tg.DEdxMin && a.DEdx <= tg.DEdxMax
}

// Tag classifies track i of ev. Opening angles and masses of the pairs
// reaching each stage are filled into the LS/ULS histograms of out.
// The first qualifying partner sets a flag; later ones never clear it.
func (tg *Tagger) Tag(ev *Event, i int, out *hist.Registry) Tag {
	var tag Tag
	t := ev.Track(i)
	if t == nil {
		return tag
	}
	pdgT := electronPDG(t.Charge)

	for j := range ev.Tracks {
		if j == i {
			continue
		}
		a := &ev.Tracks[j]
		if !tg.Accepts(a) {
			continue
		}

		like := t.Charge == a.Charge

		pair := tg.Fitter.Fit(t, a, pdgT, electronPDG(a.Charge))
		if pair == nil || pair.NDF() < 1 {
			continue
		}
		if math.Sqrt(math.Abs(pair.Chi2()/float64(pair.NDF()))) > math.Sqrt(tg.MaxChi2) {
			continue
		}
		if ev.Vertex == nil {
			continue
		}
		pair.SetProductionVertex(ev.Vertex)
		pair.SetMassConstraint(tg.MassConstraint, tg.MassSigma)

		angle := pair.OpeningAngle()
		if like {
			out.MustGet(HOpeningAngleLS).Fill(angle)
		} else {
			out.MustGet(HOpeningAngleULS).Fill(angle)
		}
		if angle > tg.OpeningAngleCut {
			continue
		}

		mass, _ := pair.Mass()
		if like {
			out.MustGet(HInvmassLS).Fill(mass)
		} else {
			out.MustGet(HInvmassULS).Fill(mass)
		}

		if mass < tg.InvMassCut {
			if like {
				tag.Background = true
			} else {
				tag.Photonic = true
			}
		}
	}
	return tag
}
