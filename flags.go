// Package hfeflow holds the helpers shared by the plotting tools: repeated
// numeric flags, axis tick markers, series styles and loading of analysis
// output files.
package hfeflow

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FloatArrayFlags collects a repeated numeric flag. Each occurrence may
// hold a comma-separated list. Values given on the command line replace
// the defaults rather than extending them.
type FloatArrayFlags struct {
	Array   []float64
	beenSet bool
}

func (f *FloatArrayFlags) Set(valueStr string) error {
	if !f.beenSet {
		f.beenSet = true
		f.Array = nil
	}

	for _, s := range strings.Split(valueStr, ",") {
		value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return err
		}
		f.Array = append(f.Array, value)
	}
	return nil
}

func (f *FloatArrayFlags) String() string {
	return fmt.Sprint(f.Array)
}

// Range is a half-open interval [Low, High).
type Range struct {
	Low, High float64
}

func (r Range) String() string {
	return fmt.Sprintf("%g-%g", r.Low, r.High)
}

// Ranges interprets the values as sorted bin edges and returns the
// consecutive intervals between them.
func (f *FloatArrayFlags) Ranges() ([]Range, error) {
	if len(f.Array) < 2 {
		return nil, errors.New("at least two edges are needed")
	}
	if !sort.Float64sAreSorted(f.Array) {
		return nil, fmt.Errorf("edges %v are not sorted", f.Array)
	}
	ranges := make([]Range, 0, len(f.Array)-1)
	for i := 1; i < len(f.Array); i++ {
		if f.Array[i] == f.Array[i-1] {
			return nil, fmt.Errorf("repeated edge %g", f.Array[i])
		}
		ranges = append(ranges, Range{f.Array[i-1], f.Array[i]})
	}
	return ranges, nil
}
