package hfe

import "math"

// CutStep identifies one stage of the reconstructed-track selection.
type CutStep int

const (
	StepRecKineITSTPC CutStep = iota
	StepRecPrim
	StepHFEcutsITS
	StepHFEcutsTPC
)

func (s CutStep) String() string {
	switch s {
	case StepRecKineITSTPC:
		return "RecKineITSTPC"
	case StepRecPrim:
		return "RecPrim"
	case StepHFEcutsITS:
		return "HFEcutsITS"
	case StepHFEcutsTPC:
		return "HFEcutsTPC"
	}
	return "unknown"
}

// TrackCuts evaluates one cut step on a track.
type TrackCuts interface {
	Accept(step CutStep, t *Track) bool
}

// PixelRequirement selects which inner pixel layers must carry a hit.
type PixelRequirement int

const (
	PixelNone PixelRequirement = iota
	PixelFirst
	PixelSecond
	PixelAny
	PixelBoth
)

// StandardCuts is the default electron track selection. A step listed in
// Disabled always passes.
type StandardCuts struct {
	Disabled map[CutStep]bool

	// RecKineITSTPC
	MinTPCClusters  int
	MaxTPCChi2      float64
	MinClusterRatio float64
	RequireTPCRefit bool
	RequireITSRefit bool
	MinPt, MaxPt    float64
	MaxEta          float64

	// RecPrim
	MaxDCAxy            float64
	MaxDCAz             float64
	RejectKinkDaughters bool

	// HFEcutsITS
	MinITSClusters int
	Pixels         PixelRequirement

	// HFEcutsTPC
	MinTPCClustersHFE int
}

// NewStandardCuts returns the standard selection.
func NewStandardCuts() *StandardCuts {
	return &StandardCuts{
		MinTPCClusters:      80,
		MaxTPCChi2:          4,
		MinClusterRatio:     0.6,
		RequireTPCRefit:     true,
		RequireITSRefit:     true,
		MinPt:               0.1,
		MaxPt:               100,
		MaxEta:              0.8,
		MaxDCAxy:            1,
		MaxDCAz:             2,
		RejectKinkDaughters: true,
		MinITSClusters:      3,
		Pixels:              PixelAny,
		MinTPCClustersHFE:   100,
	}
}

func (c *StandardCuts) Accept(step CutStep, t *Track) bool {
	if c.Disabled[step] {
		return true
	}
	q := &t.Quality
	switch step {
	case StepRecKineITSTPC:
		if c.RequireTPCRefit && !q.TPCRefit {
			return false
		}
		if c.RequireITSRefit && !q.ITSRefit {
			return false
		}
		if q.TPCClusters < c.MinTPCClusters {
			return false
		}
		if c.MaxTPCChi2 > 0 && q.TPCChi2 > c.MaxTPCChi2 {
			return false
		}
		if c.MinClusterRatio > 0 {
			if q.TPCFindable <= 0 || float64(q.TPCClusters)/float64(q.TPCFindable) < c.MinClusterRatio {
				return false
			}
		}
		pt := t.Pt()
		if pt < c.MinPt || pt > c.MaxPt {
			return false
		}
		return math.Abs(t.Eta()) <= c.MaxEta
	case StepRecPrim:
		if c.RejectKinkDaughters && t.Kink > 0 {
			return false
		}
		return math.Abs(q.DCAxy) <= c.MaxDCAxy && math.Abs(q.DCAz) <= c.MaxDCAz
	case StepHFEcutsITS:
		if q.ITSClusters < c.MinITSClusters {
			return false
		}
		return pixelsOK(c.Pixels, q.ITSPixels)
	case StepHFEcutsTPC:
		return q.TPCClusters >= c.MinTPCClustersHFE
	}
	return false
}

func pixelsOK(req PixelRequirement, hits uint8) bool {
	first, second := hits&1 != 0, hits&2 != 0
	switch req {
	case PixelFirst:
		return first
	case PixelSecond:
		return second
	case PixelAny:
		return first || second
	case PixelBoth:
		return first && second
	}
	return true
}

// Stage is a position in the track filter chain.
type Stage int

const (
	StageEta Stage = iota
	StageRecKine
	StageKink
	StageRecPrim
	StageITS
	StageTPC
	StagePassed
)

// Chain is the ordered candidate-track selection. Evaluation stops at the
// first failing stage.
type Chain struct {
	MaxEta      float64
	RejectKinks bool
	Cuts        TrackCuts
}

// AcceptEta is the first stage, applied before any quality cut.
func (c *Chain) AcceptEta(t *Track) bool {
	return math.Abs(t.Eta()) <= c.MaxEta
}

// Quality runs the stages after the pseudorapidity cut and returns the
// first one that failed, or StagePassed.
func (c *Chain) Quality(t *Track) Stage {
	if !c.Cuts.Accept(StepRecKineITSTPC, t) {
		return StageRecKine
	}
	if c.RejectKinks && t.Kink != 0 {
		return StageKink
	}
	if !c.Cuts.Accept(StepRecPrim, t) {
		return StageRecPrim
	}
	if !c.Cuts.Accept(StepHFEcutsITS, t) {
		return StageITS
	}
	if !c.Cuts.Accept(StepHFEcutsTPC, t) {
		return StageTPC
	}
	return StagePassed
}

// Evaluate runs the whole chain.
func (c *Chain) Evaluate(t *Track) Stage {
	if !c.AcceptEta(t) {
		return StageEta
	}
	return c.Quality(t)
}

// AssociationCuts is the looser, fixed selection of partner tracks in the
// photonic tagging.
type AssociationCuts struct {
	AcceptKinkDaughters  bool
	RequireTPCRefit      bool
	RequireITSRefit      bool
	EtaMin, EtaMax       float64
	RequireSigmaToVertex bool
	MaxNSigmaToVertex    float64
	MaxTPCChi2           float64
	MinTPCClusters       int
}

func DefaultAssociationCuts() AssociationCuts {
	return AssociationCuts{
		RequireTPCRefit:      true,
		RequireITSRefit:      true,
		EtaMin:               -0.7,
		EtaMax:               0.7,
		RequireSigmaToVertex: true,
		MaxNSigmaToVertex:    1e10,
		MaxTPCChi2:           3.5,
		MinTPCClusters:       100,
	}
}

func (c AssociationCuts) Accept(t *Track) bool {
	q := &t.Quality
	if !c.AcceptKinkDaughters && t.Kink > 0 {
		return false
	}
	if c.RequireTPCRefit && !q.TPCRefit {
		return false
	}
	if c.RequireITSRefit && !q.ITSRefit {
		return false
	}
	eta := t.Eta()
	if eta < c.EtaMin || eta > c.EtaMax {
		return false
	}
	if c.RequireSigmaToVertex && (q.NSigmaToVertex < 0 || q.NSigmaToVertex > c.MaxNSigmaToVertex) {
		return false
	}
	if q.TPCChi2 > c.MaxTPCChi2 {
		return false
	}
	return q.TPCClusters >= c.MinTPCClusters
}
