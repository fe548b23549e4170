package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/decibelcooper/hfeflow"
	"github.com/decibelcooper/hfeflow/hfe"
	"github.com/decibelcooper/hfeflow/hist"
)

var (
	before   = flag.Bool("before", false, "plot E/p before the electron identification")
	maxPt    = flag.Float64("maxpt", 10, "maximum transverse momentum")
	colorMax = flag.Float64("max", 0, "upper end of the color scale, the largest cell if zero")
	title    = flag.String("title", "", "plot title")
	output   = flag.String("output", "eovp.png", "output file")
)

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: `+os.Args[0]+` [options] <hfeflow-output-files>...

Draws the track E/p against transverse momentum as a heat map.

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

	results, err := hfeflow.LoadResults(flag.Args()...)
	if err != nil {
		log.Fatal(err)
	}
	name := hfe.HTrkEovPAft
	if *before {
		name = hfe.HTrkEovPBef
	}
	grid := NewCellGrid(results.MustGet(name), *maxPt)

	p := plot.New()
	p.Title.Text = *title
	p.X.Label.Text = "p_T (GeV)"
	p.Y.Label.Text = "E/p"
	p.X.Tick.Marker = hfeflow.PreciseTicks{NSuggestedTicks: 5}
	p.Y.Tick.Marker = hfeflow.PreciseTicks{NSuggestedTicks: 5}

	img := vgimg.New(670, 400)
	dc := draw.New(img)
	dc0 := draw.Crop(dc, 0, -70, 0, 0)
	dc1 := draw.Crop(dc, 620, 0, 0, 0)

	zMax := *colorMax
	if zMax <= 0 {
		zMax = grid.Max()
	}
	if zMax <= 0 {
		log.Fatalf("%s is empty", name)
	}
	colorMap := moreland.ExtendedBlackBody()
	colorMap.SetMin(0)
	colorMap.SetMax(zMax)
	heatMap := plotter.NewHeatMap(grid, colorMap.Palette(1000))
	heatMap.Min = 0
	heatMap.Max = zMax
	p.Add(heatMap)

	p.Draw(dc0)

	p = plot.New()
	colorBar := &plotter.ColorBar{ColorMap: colorMap}
	colorBar.Vertical = true
	p.Add(colorBar)
	p.HideX()
	p.Y.Padding = 0

	p.Draw(dc1)

	w, err := os.Create(*output)
	if err != nil {
		log.Fatal(err)
	}
	defer w.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err = png.WriteTo(w); err != nil {
		log.Fatal(err)
	}
}

// CellGrid exposes the first two axes of a histogram, up to a maximum of
// the first, as a heat map grid.
type CellGrid struct {
	x, y hist.Axis
	z    [][]float64
}

func NewCellGrid(h *hist.Hist, xMax float64) *CellGrid {
	x, y := h.Axis(0), h.Axis(1)
	if n := x.Index(xMax); n > 0 && n < x.N {
		x = hist.NewAxis(n, x.Min, x.Low(n))
	}
	g := &CellGrid{x: x, y: y, z: make([][]float64, x.N)}
	for i := range g.z {
		g.z[i] = make([]float64, y.N)
	}
	h.Each(func(idx []int, b hist.Bin) {
		if idx[0] < x.N {
			g.z[idx[0]][idx[1]] += b.SumW
		}
	})
	return g
}

func (g *CellGrid) Dims() (int, int)   { return g.x.N, g.y.N }
func (g *CellGrid) Z(i, j int) float64 { return g.z[i][j] }
func (g *CellGrid) X(i int) float64    { return g.x.Center(i) }
func (g *CellGrid) Y(j int) float64    { return g.y.Center(j) }

func (g *CellGrid) Max() float64 {
	m := 0.0
	for _, col := range g.z {
		for _, z := range col {
			m = max(m, z)
		}
	}
	return m
}
