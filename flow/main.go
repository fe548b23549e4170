package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/hfeflow"
	"github.com/decibelcooper/hfeflow/hfe"
	"github.com/decibelcooper/hfeflow/hist"
)

var (
	pTMin     = flag.Float64("minpt", 2, "minimum transverse momentum")
	pTMax     = flag.Float64("maxpt", 10, "maximum transverse momentum")
	detector  = flag.String("plane", "v0a", "event plane: tpc, v0a or v0c")
	photonic  = flag.Bool("photonic", false, "plot photonic instead of inclusive electrons")
	centEdges = hfeflow.FloatArrayFlags{Array: []float64{0, 10, 20, 40}}
	title     = flag.String("title", "", "plot title")
	prefix    = flag.String("prefix", "flow", "output file prefix")
)

func init() {
	flag.Var(&centEdges, "cent", "centrality class edges, repeated or comma-separated")
}

// plane axes of the v2 histograms and of the resolution histogram
var planes = map[string]struct {
	v2Axis int
	// resolution pairs (AB, AC, BC) for the detector as A
	ab, ac, bc int
}{
	"tpc": {2, 1, 2, 0},
	"v0a": {3, 0, 1, 2},
	"v0c": {4, 0, 2, 1},
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: `+os.Args[0]+` [options] <hfeflow-output-files>...

Draws the electron elliptic flow against transverse momentum per
centrality class, corrected by the three sub-event resolution.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 {
		printUsage()
		log.Fatal("Invalid arguments")
	}
	plane, ok := planes[*detector]
	if !ok {
		log.Fatalf("unknown event plane %q", *detector)
	}
	classes, err := centEdges.Ranges()
	if err != nil {
		log.Fatal(err)
	}

	results, err := hfeflow.LoadResults(flag.Args()...)
	if err != nil {
		log.Fatal(err)
	}
	name := hfe.HeV2
	if *photonic {
		name = hfe.HphoteV2
	}
	v2Hist := results.MustGet(name)
	resHist := results.MustGet(hfe.HEPres)

	p := plot.New()
	p.Title.Text = *title
	p.X.Label.Text = "p_T (GeV)"
	p.Y.Label.Text = "v_2"
	p.X.Tick.Marker = hfeflow.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = hfeflow.PreciseTicks{NSuggestedTicks: 5}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, class := range classes {
		res := resolution(resHist.Slice(3, class.Low, class.High), plane.ab, plane.ac, plane.bc)
		if math.IsNaN(res) {
			log.Printf("no event-plane resolution for centrality %v, skipping", class)
			continue
		}

		prof := v2Hist.Slice(0, class.Low, class.High).Profile(1, plane.v2Axis)
		var (
			points  plotter.XYs
			xErrors plotter.XErrors
			yErrors plotter.YErrors
		)
		halfWidth := v2Hist.Axis(1).Width() / 2
		for _, pt := range prof {
			if pt.X < *pTMin || pt.X > *pTMax {
				continue
			}
			points = append(points, plotter.XY{X: pt.X, Y: pt.Mean / res})
			xErrors = append(xErrors, struct{ Low, High float64 }{halfWidth, halfWidth})
			yErrors = append(yErrors, struct{ Low, High float64 }{pt.Err / res, pt.Err / res})
		}
		if len(points) == 0 {
			continue
		}

		errPoints := plotutil.ErrorPoints{XYs: points, XErrors: xErrors, YErrors: yErrors}
		xerr, err := plotter.NewXErrorBars(errPoints)
		if err != nil {
			log.Fatal(err)
		}
		yerr, err := plotter.NewYErrorBars(errPoints)
		if err != nil {
			log.Fatal(err)
		}
		scatter, err := plotter.NewScatter(points)
		if err != nil {
			log.Fatal(err)
		}

		c := hfeflow.SeriesColor(i)
		xerr.LineStyle.Color = c
		yerr.LineStyle.Color = c
		scatter.GlyphStyle.Color = c

		p.Add(xerr, yerr, scatter)
		p.Legend.Add(fmt.Sprintf("%v%% (R = %.2f)", class, res), scatter)
	}

	for _, ext := range []string{".pdf", ".png"} {
		if err := p.Save(6*vg.Inch, 4*vg.Inch, *prefix+ext); err != nil {
			log.Fatal(err)
		}
	}
}

// resolution returns the resolution of detector A from the weighted means
// of the pairwise correlation axes of h.
func resolution(h *hist.Hist, ab, ac, bc int) float64 {
	return hfe.Resolution3Sub(axisMean(h, ab), axisMean(h, ac), axisMean(h, bc))
}

func axisMean(h *hist.Hist, axis int) float64 {
	ax := h.Axis(axis)
	var sum, sumw float64
	h.Each(func(idx []int, b hist.Bin) {
		sum += b.SumW * ax.Center(idx[axis])
		sumw += b.SumW
	})
	if sumw == 0 {
		return math.NaN()
	}
	return sum / sumw
}
