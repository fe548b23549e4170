package hfe

import (
	"math"

	"github.com/decibelcooper/hfeflow/hist"
)

// Names of the histograms booked by ElecV2.
const (
	HNoEvents          = "NoEvents"
	HTrkpt             = "Trkpt"
	HTrackPtBefTrkCuts = "TrackPtBefTrkCuts"
	HTrackPtAftTrkCuts = "TrackPtAftTrkCuts"
	HTPCnsigma         = "TPCnsigma"
	HTrkEovPBef        = "TrkEovPBef"
	HTrkEovPAft        = "TrkEovPAft"
	HdEdxBef           = "dEdxBef"
	HdEdxAft           = "dEdxAft"
	HInvmassLS         = "InvmassLS"
	HInvmassULS        = "InvmassULS"
	HOpeningAngleLS    = "OpeningAngleLS"
	HOpeningAngleULS   = "OpeningAngleULS"
	HPhotoElecPt       = "PhotoElecPt"
	HSemiInclElecPt    = "SemiInclElecPt"
	HCent              = "Cent"
	HevPlaneV0A        = "evPlaneV0A"
	HevPlaneV0C        = "evPlaneV0C"
	HevPlaneTPC        = "evPlaneTPC"
	HTPCsubEPres       = "TPCsubEPres"
	HEPres             = "EPres"
	HCorr              = "Corr"
	HeV2               = "eV2"
	HphoteV2           = "photeV2"
	HChargPartV2       = "ChargPartV2"
	HeTPCV2            = "eTPCV2"
	HMCphotoElecPt     = "MCphotoElecPt"
)

func axes(bins []int, min, max []float64) []hist.Axis {
	out := make([]hist.Axis, len(bins))
	for i := range bins {
		out[i] = hist.NewAxis(bins[i], min[i], max[i])
	}
	return out
}

func v2Axes() []hist.Axis {
	// cent, pt, cos2dphi TPC, V0A, V0C
	return axes(
		[]int{90, 100, 100, 100, 100},
		[]float64{0, 0, -1, -1, -1},
		[]float64{90, 50, 1, 1, 1},
	)
}

// Book declares the analysis histograms in r.
func Book(r *hist.Registry) {
	ax := hist.NewAxis
	ptAxis := ax(100, 0, 50)
	centAxis := ax(90, 0, 90)

	r.Book(HNoEvents, "", ax(1, 0, 1))
	r.Book(HTrkpt, "track pt", ptAxis)
	r.Book(HTrackPtBefTrkCuts, "track pt before track cuts", ptAxis)
	r.Book(HTrackPtAftTrkCuts, "track pt after track cuts", ptAxis)
	r.Book(HTPCnsigma, "TPC - n sigma", ptAxis, ax(200, -10, 10))
	r.Book(HTrkEovPBef, "track E/p before HFE pid", ptAxis, ax(100, 0, 2))
	r.Book(HTrkEovPAft, "track E/p after HFE pid", ptAxis, ax(100, 0, 2))
	r.Book(HdEdxBef, "track dEdx vs p before HFE pid", ptAxis, ax(150, 0, 150))
	r.Book(HdEdxAft, "track dEdx vs p after HFE pid", ptAxis, ax(150, 0, 150))
	r.Book(HInvmassLS, "Inv mass of LS (e,e); mass(GeV/c^2); counts;", ax(500, 0, 0.5))
	r.Book(HInvmassULS, "Inv mass of ULS (e,e); mass(GeV/c^2); counts;", ax(500, 0, 0.5))
	r.Book(HOpeningAngleLS, "Opening angle for LS pairs", ax(100, 0, 1))
	r.Book(HOpeningAngleULS, "Opening angle for ULS pairs", ax(100, 0, 1))
	r.Book(HPhotoElecPt, "photonic electron pt", ptAxis)
	r.Book(HSemiInclElecPt, "Semi-inclusive electron pt", ptAxis)
	r.Book(HCent, "Centrality", ax(100, 0, 100))
	r.Book(HevPlaneV0A, "V0A EP", ax(100, 0, math.Pi), centAxis)
	r.Book(HevPlaneV0C, "V0C EP", ax(100, 0, math.Pi), centAxis)
	r.Book(HevPlaneTPC, "TPC EP", ax(100, 0, math.Pi), centAxis)
	r.Book(HTPCsubEPres, "TPC subevent plane resolution", ax(100, -1, 1), centAxis)

	// V0A-V0C, V0A-TPC, V0C-TPC, cent
	r.Book(HEPres, "EP resolution", axes(
		[]int{100, 100, 100, 90},
		[]float64{-1, -1, -1, 0},
		[]float64{1, 1, 1, 90},
	)...)

	// phi, nsigma, cent, pt, E/p, dphi TPC, V0A, V0C, photonic, background
	r.Book(HCorr, "Correlations", axes(
		[]int{100, 100, 90, 100, 100, 100, 100, 100, 3, 3},
		[]float64{0, -3.5, 0, 0, 0, 0, 0, 0, -1, -1},
		[]float64{2 * math.Pi, 3.5, 90, 50, 3, math.Pi, math.Pi, math.Pi, 2, 2},
	)...)

	r.Book(HeV2, "inclusive electron v2", v2Axes()...)
	r.Book(HphoteV2, "photonic electron v2", v2Axes()...)

	// phi, cent, pt, E/p, cos2dphi TPC, V0A, V0C
	r.Book(HChargPartV2, "Charged particle v2", axes(
		[]int{100, 90, 100, 100, 100, 100, 100},
		[]float64{0, 0, 0, 0, -1, -1, -1},
		[]float64{2 * math.Pi, 90, 50, 3, 1, 1, 1},
	)...)

	r.Book(HeTPCV2, "inclusive electron v2 (TPC)", v2Axes()...)

	// E/p, nsigma, true pt, photonic, background, is electron, cent, pt,
	// first/second/third ancestor class, background event, ancestor pts
	r.Book(HMCphotoElecPt, "pt distribution (MC)", axes(
		[]int{100, 100, 100, 3, 3, 3, 90, 100, 5, 5, 5, 3, 100, 100, 100},
		[]float64{0, -3.5, 0, -1, -1, -1, 0, 0, -1, -1, -1, -1, 0, 0, 0},
		[]float64{3, 3.5, 50, 2, 2, 2, 90, 50, 4, 4, 4, 2, 50, 50, 50},
	)...)
}
