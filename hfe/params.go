package hfe

// Params holds the cuts and constants of the electron flow analysis.
type Params struct {
	MaxEta        float64 `mapstructure:"max_eta" yaml:"max_eta"`
	MaxVertexZ    float64 `mapstructure:"max_vertex_z" yaml:"max_vertex_z"`
	MaxCentrality float64 `mapstructure:"max_centrality" yaml:"max_centrality"`
	MinTracks     int     `mapstructure:"min_tracks" yaml:"min_tracks"`
	MinPt         float64 `mapstructure:"min_pt" yaml:"min_pt"`
	RejectKinks   bool    `mapstructure:"reject_kinks" yaml:"reject_kinks"`

	// dE/dx window of tracks removed from the TPC event plane
	CorrDEdxMin float64 `mapstructure:"corr_dedx_min" yaml:"corr_dedx_min"`
	CorrDEdxMax float64 `mapstructure:"corr_dedx_max" yaml:"corr_dedx_max"`

	OpeningAngleCut     float64 `mapstructure:"opening_angle_cut" yaml:"opening_angle_cut"`
	InvMassCut          float64 `mapstructure:"inv_mass_cut" yaml:"inv_mass_cut"`
	AssocMinPt          float64 `mapstructure:"assoc_min_pt" yaml:"assoc_min_pt"`
	AssocDEdxMin        float64 `mapstructure:"assoc_dedx_min" yaml:"assoc_dedx_min"`
	AssocDEdxMax        float64 `mapstructure:"assoc_dedx_max" yaml:"assoc_dedx_max"`
	MaxPairChi2         float64 `mapstructure:"max_pair_chi2" yaml:"max_pair_chi2"`
	MassConstraint      float64 `mapstructure:"mass_constraint" yaml:"mass_constraint"`
	MassConstraintSigma float64 `mapstructure:"mass_constraint_sigma" yaml:"mass_constraint_sigma"`

	EoverPNSigmaMin float64 `mapstructure:"eoverp_nsigma_min" yaml:"eoverp_nsigma_min"`
	EoverPNSigmaMax float64 `mapstructure:"eoverp_nsigma_max" yaml:"eoverp_nsigma_max"`
	TPCV2NSigmaMin  float64 `mapstructure:"tpc_v2_nsigma_min" yaml:"tpc_v2_nsigma_min"`

	PIDNSigmaMin float64 `mapstructure:"pid_nsigma_min" yaml:"pid_nsigma_min"`
	PIDNSigmaMax float64 `mapstructure:"pid_nsigma_max" yaml:"pid_nsigma_max"`
	PIDEoverPMin float64 `mapstructure:"pid_eoverp_min" yaml:"pid_eoverp_min"`
	PIDEoverPMax float64 `mapstructure:"pid_eoverp_max" yaml:"pid_eoverp_max"`
	UseEMCal     bool    `mapstructure:"use_emcal" yaml:"use_emcal"`
}

func DefaultParams() Params {
	return Params{
		MaxEta:        0.7,
		MaxVertexZ:    10,
		MaxCentrality: 90,
		MinTracks:     2,
		MinPt:         2,

		CorrDEdxMin: 70,
		CorrDEdxMax: 90,

		OpeningAngleCut:     0.1,
		InvMassCut:          0.01,
		AssocMinPt:          0.5,
		AssocDEdxMin:        65,
		AssocDEdxMax:        100,
		MaxPairChi2:         9,
		MassConstraint:      0,
		MassConstraintSigma: 0.0001,

		EoverPNSigmaMin: 1.5,
		EoverPNSigmaMax: 3,
		TPCV2NSigmaMin:  -0.5,

		PIDNSigmaMin: -1,
		PIDNSigmaMax: 3,
		PIDEoverPMin: 0.8,
		PIDEoverPMax: 1.2,
		UseEMCal:     true,
	}
}

func (p Params) newPID() *PID {
	return &PID{
		TPCMin:    p.PIDNSigmaMin,
		TPCMax:    p.PIDNSigmaMax,
		EoverPMin: p.PIDEoverPMin,
		EoverPMax: p.PIDEoverPMax,
		UseEMCal:  p.UseEMCal,
	}
}
