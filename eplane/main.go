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

Overlays the event-plane angle distributions of the three detectors in a
centrality class. Flat distributions indicate a well calibrated plane.

options:
`,
	)
	flag.PrintDefaults()
}

func main() {
	var (
		centMin = flag.Float64("mincent", 0, "minimum centrality")
		centMax = flag.Float64("maxcent", 90, "maximum centrality")
		title   = flag.String("title", "", "plot title")
		output  = flag.String("output", "eplane.png", "output file")
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
	p.X.Label.Text = "Ψ_2 (rad)"
	p.Y.Label.Text = "events"
	p.X.Tick.Marker = hfeflow.PiTicks{Divisions: 4}
	p.Y.Tick.Marker = hfeflow.PreciseTicks{NSuggestedTicks: 5}
	p.Legend.Top = true

	for i, s := range []struct{ name, label string }{
		{hfe.HevPlaneV0A, "V0A"},
		{hfe.HevPlaneV0C, "V0C"},
		{hfe.HevPlaneTPC, "TPC"},
	} {
		class := results.MustGet(s.name).Slice(1, *centMin, *centMax)
		h1, err := hist.ToH1D(class.Project(s.name, 0))
		if err != nil {
			log.Fatal(err)
		}

		h := hplot.NewH1D(h1)
		h.FillColor = nil
		h.LineStyle.Color = hfeflow.SeriesColor(i)
		h.Infos.Style = hplot.HInfoNone
		p.Add(h)
		p.Legend.Add(s.label, h)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, *output); err != nil {
		log.Fatal(err)
	}
}
