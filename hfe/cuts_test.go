package hfe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingCuts struct {
	fail  CutStep
	steps []CutStep
}

func (c *recordingCuts) Accept(step CutStep, t *Track) bool {
	c.steps = append(c.steps, step)
	return step != c.fail
}

func TestChainShortCircuits(t *testing.T) {
	cuts := &recordingCuts{fail: StepRecPrim}
	c := &Chain{MaxEta: 0.7, Cuts: cuts}
	trk := track(3, 0, 1, 80)

	assert.Equal(t, StageRecPrim, c.Evaluate(&trk))
	assert.Equal(t, []CutStep{StepRecKineITSTPC, StepRecPrim}, cuts.steps)
}

func TestChainKinkRejection(t *testing.T) {
	cuts := &recordingCuts{fail: -1}
	trk := track(3, 0, 1, 80)
	trk.Kink = -1

	c := &Chain{MaxEta: 0.7, Cuts: cuts}
	assert.Equal(t, StagePassed, c.Evaluate(&trk))

	cuts.steps = nil
	c.RejectKinks = true
	assert.Equal(t, StageKink, c.Evaluate(&trk))
	assert.Equal(t, []CutStep{StepRecKineITSTPC}, cuts.steps)
}

func TestChainEtaFirst(t *testing.T) {
	cuts := &recordingCuts{fail: -1}
	trk := track(3, 0, 1, 80)
	trk.P.Z = 3
	c := &Chain{MaxEta: 0.7, Cuts: cuts}
	assert.Equal(t, StageEta, c.Evaluate(&trk))
	assert.Empty(t, cuts.steps)
}

func TestStandardCuts(t *testing.T) {
	c := NewStandardCuts()
	good := track(3, 0, 1, 80)
	for _, s := range []CutStep{StepRecKineITSTPC, StepRecPrim, StepHFEcutsITS, StepHFEcutsTPC} {
		assert.True(t, c.Accept(s, &good), s.String())
	}

	noPixel := good
	noPixel.Quality.ITSPixels = 0
	assert.False(t, c.Accept(StepHFEcutsITS, &noPixel))
	c.Disabled = map[CutStep]bool{StepHFEcutsITS: true}
	assert.True(t, c.Accept(StepHFEcutsITS, &noPixel))

	far := good
	far.Quality.DCAxy = 1.5
	assert.False(t, c.Accept(StepRecPrim, &far))

	daughter := good
	daughter.Kink = 1
	assert.False(t, c.Accept(StepRecPrim, &daughter))

	sparse := good
	sparse.Quality.TPCFindable = 300
	assert.False(t, c.Accept(StepRecKineITSTPC, &sparse))
}

func TestPixelRequirement(t *testing.T) {
	assert.True(t, pixelsOK(PixelNone, 0))
	assert.True(t, pixelsOK(PixelFirst, 1))
	assert.False(t, pixelsOK(PixelFirst, 2))
	assert.True(t, pixelsOK(PixelSecond, 2))
	assert.True(t, pixelsOK(PixelAny, 2))
	assert.False(t, pixelsOK(PixelBoth, 2))
	assert.True(t, pixelsOK(PixelBoth, 3))
}
