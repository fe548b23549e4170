package hfeflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
)

func labelled(ticks []plot.Tick) []string {
	var labels []string
	for _, t := range ticks {
		if t.Label != "" {
			labels = append(labels, t.Label)
		}
	}
	return labels
}

func TestPreciseTicks(t *testing.T) {
	ticks := PreciseTicks{NSuggestedTicks: 5}.Ticks(0, 1)
	assert.Equal(t, []string{"0", "0.2", "0.4", "0.6", "0.8", "1"}, labelled(ticks))
	assert.Len(t, ticks, 11)

	ticks = PreciseTicks{}.Ticks(0, 3)
	assert.Equal(t, []string{"0", "1", "2", "3"}, labelled(ticks))
	assert.Len(t, ticks, 7)

	assert.Panics(t, func() { PreciseTicks{}.Ticks(1, 1) })
}

func TestPiTicks(t *testing.T) {
	ticks := PiTicks{Divisions: 2}.Ticks(0, 6.3)
	assert.Equal(t, []string{"0", "π/2", "π", "3π/2", "2π"}, labelled(ticks))
	require.Len(t, ticks, 5)
	assert.Equal(t, 0., ticks[0].Value)

	ticks = PiTicks{}.Ticks(-1.6, 1.6)
	assert.Equal(t, []string{"-π/2", "-π/4", "0", "π/4", "π/2"}, labelled(ticks))
}

func TestFloatArrayFlags(t *testing.T) {
	f := FloatArrayFlags{Array: []float64{0, 100}}
	require.NoError(t, f.Set("0,10"))
	require.NoError(t, f.Set("30"))
	require.NoError(t, f.Set(" 50 "))
	assert.Equal(t, []float64{0, 10, 30, 50}, f.Array)
	assert.Equal(t, "[0 10 30 50]", f.String())

	r, err := f.Ranges()
	require.NoError(t, err)
	assert.Equal(t, []Range{{0, 10}, {10, 30}, {30, 50}}, r)
	assert.Equal(t, "10-30", r[1].String())

	assert.Error(t, f.Set("x"))

	bad := FloatArrayFlags{Array: []float64{10, 0}}
	_, err = bad.Ranges()
	assert.Error(t, err)
	_, err = (&FloatArrayFlags{Array: []float64{1}}).Ranges()
	assert.Error(t, err)
}
