package source

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// CalibPoint maps a forward multiplicity to a centrality percentile.
type CalibPoint struct {
	Mult       float64 `db:"mult" yaml:"mult"`
	Percentile float64 `db:"percentile" yaml:"percentile"`
}

// Calibration converts the summed forward multiplicity of a run into a
// centrality percentile. Higher multiplicity means more central.
type Calibration struct {
	Run    int
	Points []CalibPoint
}

// CalibrationFromSample builds a calibration from the multiplicities of a
// minimum-bias sample, with a point every step percent.
func CalibrationFromSample(run int, mults []float64, step float64) *Calibration {
	if len(mults) == 0 || step <= 0 {
		return &Calibration{Run: run}
	}
	x := append([]float64(nil), mults...)
	sort.Float64s(x)

	c := &Calibration{Run: run}
	for pct := 0.; pct <= 100; pct += step {
		q := 1 - pct/100
		if q <= 0 {
			q = 0
		}
		var m float64
		if q == 0 {
			m = x[0]
		} else {
			m = stat.Quantile(q, stat.Empirical, x, nil)
		}
		c.Points = append(c.Points, CalibPoint{Mult: m, Percentile: pct})
	}
	c.sort()
	return c
}

func (c *Calibration) sort() {
	sort.SliceStable(c.Points, func(i, j int) bool {
		return c.Points[i].Mult < c.Points[j].Mult
	})
}

// Centrality returns the percentile of multiplicity mult by linear
// interpolation between calibration points, or -1 without calibration.
func (c *Calibration) Centrality(mult float64) float64 {
	if c == nil || len(c.Points) == 0 {
		return -1
	}
	pts := c.Points
	if !sort.SliceIsSorted(pts, func(i, j int) bool { return pts[i].Mult < pts[j].Mult }) {
		c.sort()
		pts = c.Points
	}
	if mult <= pts[0].Mult {
		return pts[0].Percentile
	}
	last := pts[len(pts)-1]
	if mult >= last.Mult {
		return last.Percentile
	}
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Mult >= mult })
	lo, hi := pts[i-1], pts[i]
	if hi.Mult == lo.Mult {
		return hi.Percentile
	}
	f := (mult - lo.Mult) / (hi.Mult - lo.Mult)
	return lo.Percentile + f*(hi.Percentile-lo.Percentile)
}
