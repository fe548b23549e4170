package hfe

import (
	"errors"
	"log/slog"
	"math"

	"github.com/decibelcooper/hfeflow/hist"
)

// Task is an event-loop analysis driven by an external caller.
type Task interface {
	// Initialize books the task's histograms into out.
	Initialize(out *hist.Registry) error
	// ProcessEvent analyses one event, filling out. Events rejected by a
	// precondition are reported with a *SkipError.
	ProcessEvent(ev *Event, out *hist.Registry) error
	Finalize(out *hist.Registry) error
}

// ErrEventSkipped is wrapped by every *SkipError.
var ErrEventSkipped = errors.New("hfe: event skipped")

// Reasons an event is skipped.
const (
	SkipNoEvent    = "no event"
	SkipNoCuts     = "no cuts"
	SkipNoVertex   = "no vertex"
	SkipVertexZ    = "vertex z"
	SkipFewTracks  = "few tracks"
	SkipCentrality = "centrality"
	SkipNoTPCPlane = "no tpc plane"
)

// SkipReasons lists every skip reason.
var SkipReasons = []string{
	SkipNoEvent, SkipNoCuts, SkipNoVertex, SkipVertexZ,
	SkipFewTracks, SkipCentrality, SkipNoTPCPlane,
}

type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string { return "hfe: event skipped: " + e.Reason }

func (e *SkipError) Unwrap() error { return ErrEventSkipped }

func skip(reason string) error { return &SkipError{Reason: reason} }

// Counts are running totals kept by ElecV2.
type Counts struct {
	Events     int64
	Accepted   int64
	Candidates int64
	Photonic   int64
	Background int64
	Electrons  int64
}

// ElecV2 measures the elliptic flow of inclusive and photonic electrons.
type ElecV2 struct {
	Params Params
	// Cuts is the candidate track selection. Standard cuts are used when
	// nil at Initialize.
	Cuts   TrackCuts
	PID    *PID
	Fitter VertexFitter
	Logger *slog.Logger

	Counts Counts

	chain  *Chain
	tagger *Tagger
}

// NewElecV2 returns a task with the given parameters and the default PID
// and pair fitter.
func NewElecV2(p Params) *ElecV2 {
	return &ElecV2{
		Params: p,
		PID:    p.newPID(),
		Fitter: NewLinearFitter(),
		Logger: slog.Default(),
	}
}

func (t *ElecV2) Initialize(out *hist.Registry) error {
	if t.Logger == nil {
		t.Logger = slog.Default()
	}
	if t.Cuts == nil {
		t.Logger.Warn("cuts not available, using standard cuts")
		t.Cuts = NewStandardCuts()
	}
	if t.PID == nil {
		t.PID = t.Params.newPID()
	}
	if t.Fitter == nil {
		t.Fitter = NewLinearFitter()
	}
	t.chain = &Chain{
		MaxEta:      t.Params.MaxEta,
		RejectKinks: t.Params.RejectKinks,
		Cuts:        t.Cuts,
	}
	t.tagger = NewTagger(t.Params, t.Fitter)
	Book(out)
	return nil
}

func (t *ElecV2) Finalize(out *hist.Registry) error {
	t.Logger.Info("analysis done",
		"events", t.Counts.Events,
		"accepted", t.Counts.Accepted,
		"electrons", t.Counts.Electrons,
		"photonic", t.Counts.Photonic,
	)
	return nil
}

func (t *ElecV2) initPID(run int) {
	switch {
	case !t.PID.Initialized():
		t.Logger.Warn("PID not initialised, initialising from run number", "run", run)
		t.PID.InitializeForRun(run)
	case t.PID.Run() != 0 && t.PID.Run() != run:
		t.Logger.Debug("run changed, reinitialising PID", "run", run)
		t.PID.InitializeForRun(run)
	}
}

func (t *ElecV2) ProcessEvent(ev *Event, out *hist.Registry) error {
	t.Counts.Events++
	if ev == nil {
		return skip(SkipNoEvent)
	}
	if t.chain == nil {
		return skip(SkipNoCuts)
	}
	t.initPID(ev.Run)

	p := &t.Params
	if ev.Vertex == nil {
		return skip(SkipNoVertex)
	}
	if math.Abs(ev.Vertex.Pos.Z) > p.MaxVertexZ {
		return skip(SkipVertexZ)
	}
	out.MustGet(HNoEvents).Fill(0)

	if len(ev.Tracks) < p.MinTracks {
		return skip(SkipFewTracks)
	}

	cent := ev.Centrality
	out.MustGet(HCent).Fill(cent)
	if cent > p.MaxCentrality {
		return skip(SkipCentrality)
	}

	v0a, v0c := ForwardPlanes(&ev.Planes)
	out.MustGet(HevPlaneV0A).Fill(v0a, cent)
	out.MustGet(HevPlaneV0C).Fill(v0c, cent)

	planes, ok := EstimatePlanes(&ev.Planes)
	if !ok {
		return skip(SkipNoTPCPlane)
	}
	out.MustGet(HevPlaneTPC).Fill(planes.TPC, cent)
	out.MustGet(HTPCsubEPres).Fill(planes.SubRes, cent)
	res := planes.Resolutions()
	out.MustGet(HEPres).Fill(res[0], res[1], res[2], cent)

	t.Counts.Accepted++
	for i := range ev.Tracks {
		t.processTrack(ev, i, planes, out)
	}
	return nil
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (t *ElecV2) processTrack(ev *Event, i int, planes PlaneAngles, out *hist.Registry) {
	p := &t.Params
	trk := &ev.Tracks[i]
	cent := ev.Centrality

	if !t.chain.AcceptEta(trk) {
		return
	}
	pt := trk.Pt()
	out.MustGet(HTrackPtBefTrkCuts).Fill(pt)
	if t.chain.Quality(trk) != StagePassed {
		return
	}
	out.MustGet(HTrackPtAftTrkCuts).Fill(pt)

	if pt < p.MinPt {
		return
	}
	out.MustGet(HTrkpt).Fill(pt)
	t.Counts.Candidates++

	mom := trk.Mom()
	phi := trk.Phi()
	dedx := trk.DEdx
	eovp := ev.ClusterE(trk) / mom
	nsigma := t.PID.NSigma(trk)
	out.MustGet(HdEdxBef).Fill(mom, dedx)
	out.MustGet(HTPCnsigma).Fill(mom, nsigma)

	corrTPC := Unset
	if dedx > p.CorrDEdxMin && dedx < p.CorrDEdxMax {
		corrTPC = TrackTPCPlane(&ev.Planes, i)
	}

	tag := t.tagger.Tag(ev, i, out)
	if tag.Photonic {
		t.Counts.Photonic++
	}
	if tag.Background {
		t.Counts.Background++
	}

	out.MustGet(HCorr).Fill(
		phi, nsigma, cent, pt, eovp,
		DeltaPhi(phi, corrTPC), DeltaPhi(phi, planes.V0A), DeltaPhi(phi, planes.V0C),
		b2f(tag.Photonic), b2f(tag.Background),
	)

	if l, ok := ev.Lineage(trk); ok && l.Photonic() {
		a := l.Ancestors
		out.MustGet(HMCphotoElecPt).Fill(
			eovp, nsigma, l.Pt, b2f(tag.Photonic), b2f(tag.Background),
			b2f(l.IsElectron), cent, pt,
			float64(a[0].Class), float64(a[1].Class), float64(a[2].Class),
			b2f(l.FromBackground), a[0].Pt, a[1].Pt, a[2].Pt,
		)
	}

	if nsigma >= p.EoverPNSigmaMin && nsigma <= p.EoverPNSigmaMax {
		out.MustGet(HTrkEovPBef).Fill(pt, eovp)
	}

	out.MustGet(HChargPartV2).Fill(
		phi, cent, pt, eovp,
		Cos2DeltaPhi(phi, planes.TPC), Cos2DeltaPhi(phi, planes.V0A), Cos2DeltaPhi(phi, planes.V0C),
	)

	corrected := []float64{
		cent, pt,
		Cos2DeltaPhi(phi, corrTPC), Cos2DeltaPhi(phi, planes.V0A), Cos2DeltaPhi(phi, planes.V0C),
	}
	if nsigma >= p.TPCV2NSigmaMin {
		out.MustGet(HeTPCV2).Fill(corrected...)
	}

	if !t.PID.IsSelected(nsigma, eovp) {
		return
	}
	t.Counts.Electrons++
	out.MustGet(HeV2).Fill(corrected...)
	out.MustGet(HTrkEovPAft).Fill(pt, eovp)
	out.MustGet(HdEdxAft).Fill(mom, dedx)

	if tag.Photonic {
		out.MustGet(HphoteV2).Fill(corrected...)
		out.MustGet(HPhotoElecPt).Fill(pt)
	} else {
		out.MustGet(HSemiInclElecPt).Fill(pt)
	}
}

var _ Task = (*ElecV2)(nil)
