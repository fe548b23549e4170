package hfe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPIDSelection(t *testing.T) {
	p := NewPID()
	assert.True(t, p.IsSelected(0, 1))
	assert.True(t, p.IsSelected(-1, 0.8))
	assert.False(t, p.IsSelected(-1.1, 1))
	assert.False(t, p.IsSelected(3.1, 1))
	assert.False(t, p.IsSelected(0, 1.3))
	assert.False(t, p.IsSelected(NSigmaUnavailable, 1))

	p.UseEMCal = false
	assert.True(t, p.IsSelected(0, -333))
}

func TestPIDWithoutResponse(t *testing.T) {
	p := NewPID()
	trk := track(3, 0, 1, 80)
	assert.False(t, p.Initialized())
	assert.Equal(t, NSigmaUnavailable, p.NSigma(&trk))

	p.InitializeForRun(137000)
	assert.True(t, p.Initialized())
	assert.NotEqual(t, NSigmaUnavailable, p.NSigma(&trk))

	trk.DEdx = 0
	assert.Equal(t, NSigmaUnavailable, p.NSigma(&trk))
}

func TestResponseForRun(t *testing.T) {
	assert.Equal(t, 50., ResponseForRun(137000).MIP)
	assert.Equal(t, 55., ResponseForRun(168000).MIP)
	assert.Equal(t, DefaultResponse().MIP, ResponseForRun(1).MIP)
}

func TestBetheBlochSeparatesElectrons(t *testing.T) {
	bb := ResponseForRun(137000)
	// electrons sit on the Fermi plateau, pions near minimum ionisation
	e := bb.Expected(3, Electron)
	pi := bb.Expected(3, Pion)
	assert.Greater(t, e, pi)

	trk := track(3, 0, -1, e)
	assert.InDelta(t, 0, bb.NumberOfSigmasTPC(&trk, Electron), 1e-9)
	assert.Greater(t, bb.NumberOfSigmasTPC(&trk, Pion), 0.)
}
