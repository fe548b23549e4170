package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/decibelcooper/hfeflow"
	"github.com/decibelcooper/hfeflow/hfe"
	"github.com/decibelcooper/hfeflow/hist"
)

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: `+os.Args[0]+` [options] <hfeflow-output-files>...

Draws the TPC dE/dx of the tracks in a momentum window, before and after
the electron identification.

options:
`,
	)
	flag.PrintDefaults()
}

var (
	pMin   = flag.Float64("minp", 2, "minimum momentum")
	pMax   = flag.Float64("maxp", 3, "maximum momentum")
	output = flag.String("output", "dedx.png", "output file")
)

func main() {
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
	p.Title.Text = fmt.Sprintf("%g < p < %g GeV", *pMin, *pMax)
	p.X.Label.Text = "dE/dx (a.u.)"
	p.X.Tick.Marker = hfeflow.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Scale = plot.LogScale{}
	p.Legend.Top = true

	for i, name := range []string{hfe.HdEdxBef, hfe.HdEdxAft} {
		window := results.MustGet(name).Slice(0, *pMin, *pMax)
		h1, err := hist.ToH1D(window.Project(name, 1))
		if err != nil {
			log.Fatal(err)
		}
		if h1.Entries() == 0 {
			log.Printf("%s is empty in the momentum window", name)
			continue
		}

		h := hplot.NewH1D(h1)
		h.FillColor = nil
		h.LogY = true
		h.LineStyle.Color = hfeflow.SeriesColor(i)
		h.Infos.Style = hplot.HInfoNone
		p.Add(h)
		p.Legend.Add(results.MustGet(name).Title, h)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, *output); err != nil {
		log.Fatal(err)
	}
}
