package hfeflow

import (
	"image/color"

	"github.com/decibelcooper/hfeflow/hfe"
	"github.com/decibelcooper/hfeflow/hist"
)

// LoadResults reads the analysis histograms from the ROOT files written by
// hfeflow jobs, summing them.
func LoadResults(fnames ...string) (*hist.Registry, error) {
	r := hist.NewRegistry("hfeflow")
	hfe.Book(r)
	for _, fname := range fnames {
		if err := hist.ReadROOT(fname, r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

var seriesColors = []color.Color{
	color.RGBA{A: 255},
	color.RGBA{R: 220, A: 255},
	color.RGBA{B: 220, A: 255},
	color.RGBA{G: 160, A: 255},
	color.RGBA{R: 255, B: 127, G: 127, A: 255},
}

// SeriesColor returns the line color of the i-th overlaid series.
func SeriesColor(i int) color.Color {
	return seriesColors[i%len(seriesColors)]
}
