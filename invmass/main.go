package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/hfeflow"
	"github.com/decibelcooper/hfeflow/hfe"
	"github.com/decibelcooper/hfeflow/hist"
)

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: `+os.Args[0]+` [options] <hfeflow-output-files>...

Overlays the like-sign and unlike-sign invariant mass of the photonic
electron pairs, summed over the input files.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	var (
		maxMass = flag.Float64("maxmass", 0.1, "upper edge of the mass axis (GeV)")
		logY    = flag.Bool("logy", false, "logarithmic counts axis")
		diff    = flag.Bool("subtract", false, "also draw ULS minus LS")
		title   = flag.String("title", "", "plot title")
		output  = flag.String("output", "invmass.png", "output file")
	)
	flag.Usage = printUsage
	flag.Parse()
	if flag.NArg() < 1 {
		printUsage()
		log.Fatal("Invalid arguments")
	}

	results, err := hfeflow.LoadResults(flag.Args()...)
	if err != nil {
		log.Fatal(err)
	}

	p := plot.New()
	p.Title.Text = *title
	p.X.Label.Text = "Mass (GeV)"
	p.Y.Label.Text = "pairs"
	p.X.Tick.Marker = hfeflow.PreciseTicks{NSuggestedTicks: 5}
	if *logY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	} else {
		p.Y.Tick.Marker = hfeflow.PreciseTicks{NSuggestedTicks: 5}
	}
	p.Legend.Top = true

	uls := massHist(results, hfe.HInvmassULS, *maxMass)
	ls := massHist(results, hfe.HInvmassLS, *maxMass)
	series := []struct {
		name string
		h    *hbook.H1D
	}{
		{"unlike sign", uls},
		{"like sign", ls},
	}
	if *diff {
		series = append(series, struct {
			name string
			h    *hbook.H1D
		}{"ULS - LS", subtract(uls, ls)})
	}

	for i, s := range series {
		h := hplot.NewH1D(s.h)
		h.FillColor = nil
		h.LineStyle.Color = hfeflow.SeriesColor(i)
		h.Infos.Style = hplot.HInfoNone
		h.LogY = *logY
		p.Add(h)
		p.Legend.Add(s.name, h)
	}
	p.Add(plotter.NewGrid())

	if err := p.Save(6*vg.Inch, 4*vg.Inch, *output); err != nil {
		log.Fatal(err)
	}
}

// massHist rebooks the mass distribution name up to maxMass.
func massHist(r *hist.Registry, name string, maxMass float64) *hbook.H1D {
	src := r.MustGet(name)
	ax := src.Axis(0)
	n := int(float64(ax.N) * (maxMass - ax.Min) / (ax.Max - ax.Min))
	if n < 1 || n > ax.N {
		n = ax.N
	}
	hi := ax.Low(n)
	h := hbook.NewH1D(n, ax.Min, hi)
	src.Each(func(idx []int, b hist.Bin) {
		if x := ax.Center(idx[0]); x < hi {
			h.Fill(x, b.SumW)
		}
	})
	return h
}

// subtract returns a - b bin by bin; both share the binning.
func subtract(a, b *hbook.H1D) *hbook.H1D {
	h := hbook.NewH1D(a.Len(), a.XMin(), a.XMax())
	halfWidth := 0.5 * (a.XMax() - a.XMin()) / float64(a.Len())
	for i := 0; i < a.Len(); i++ {
		x, ya := a.XY(i)
		_, yb := b.XY(i)
		h.Fill(x+halfWidth, ya-yb)
	}
	return h
}
