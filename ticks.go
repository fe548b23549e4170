package hfeflow

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// PreciseTicks places major ticks on round values with labels that carry
// no more digits than the tick spacing needs.
type PreciseTicks struct {
	NSuggestedTicks int
}

func (t PreciseTicks) Ticks(min, max float64) []plot.Tick {
	n := t.NSuggestedTicks
	if n < 2 {
		n = 4
	}
	if max <= min {
		panic("illegal range")
	}

	major, mult := majorStep(max-min, n)
	prec := 1 - int(math.Floor(math.Log10(major)))
	var ticks []plot.Tick
	for _, val := range multiples(min, max, major) {
		v := round(val, prec)
		ticks = append(ticks, plot.Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
	}
	return append(ticks, minorTicks(min, max, major, mult, ticks)...)
}

// majorStep returns the spacing of about n major ticks over span and its
// leading digit.
func majorStep(span float64, n int) (float64, int) {
	tens := math.Pow10(int(math.Floor(math.Log10(span))))
	for span/tens < float64(n-1) {
		tens /= 10
	}
	mult := int(span / tens / float64(n-1))
	switch mult {
	case 7:
		mult = 6
	case 9:
		mult = 8
	}
	return float64(mult) * tens, mult
}

func minorTicks(min, max, major float64, mult int, majors []plot.Tick) []plot.Tick {
	minor := major / 2
	switch mult {
	case 3, 6:
		minor = major / 3
	case 5:
		minor = major / 5
	}

	var ticks []plot.Tick
	for _, val := range multiples(min, max, minor) {
		if !isMajor(val, majors, minor*1e-6) {
			ticks = append(ticks, plot.Tick{Value: val})
		}
	}
	return ticks
}

// multiples returns the multiples of step within [min, max], allowing for
// rounding at both ends.
func multiples(min, max, step float64) []float64 {
	const eps = 1e-9
	var vals []float64
	for k := math.Ceil(min/step - eps); k <= math.Floor(max/step+eps); k++ {
		vals = append(vals, k*step)
	}
	return vals
}

func isMajor(v float64, majors []plot.Tick, tol float64) bool {
	for _, t := range majors {
		if math.Abs(t.Value-v) < tol {
			return true
		}
	}
	return false
}

func round(x float64, prec int) float64 {
	if x == 0 {
		return 0
	}
	if prec >= 0 && x == math.Trunc(x) {
		return x
	}
	pow := math.Pow10(prec)
	scaled := x * pow
	if math.IsInf(scaled, 0) {
		return x
	}
	r := math.Round(scaled) / pow
	if r == 0 {
		// drop the sign of negative zero
		return 0
	}
	return r
}

// PiTicks marks azimuthal axes at multiples of pi/Divisions.
type PiTicks struct {
	Divisions int
}

func (t PiTicks) Ticks(min, max float64) []plot.Tick {
	div := t.Divisions
	if div <= 0 {
		div = 4
	}
	step := math.Pi / float64(div)
	var ticks []plot.Tick
	for _, val := range multiples(min, max, step) {
		k := int(math.Round(val / step))
		ticks = append(ticks, plot.Tick{Value: val, Label: piLabel(k, div)})
	}
	return ticks
}

func piLabel(k, div int) string {
	if k == 0 {
		return "0"
	}
	g := gcd(abs(k), div)
	num, den := k/g, div/g
	s := "π"
	switch num {
	case 1:
	case -1:
		s = "-π"
	default:
		s = strconv.Itoa(num) + "π"
	}
	if den != 1 {
		s += "/" + strconv.Itoa(den)
	}
	return s
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
