package job

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decibelcooper/hfeflow/hfe"
)

const testManifest = `
name: elecv2-10h
dataset: LHC10h
events: 1000
workers: 4
version: v1.2.0
output: out.root
params:
  max_centrality: 50
  use_emcal: false
`

func TestDecodeManifestKeepsDefaults(t *testing.T) {
	m, err := DecodeManifest(strings.NewReader(testManifest))
	require.NoError(t, err)

	assert.Equal(t, "elecv2-10h", m.Name)
	assert.Equal(t, "LHC10h", m.Dataset)
	assert.Equal(t, 1000, m.Events)
	assert.Equal(t, 4, m.Workers)
	assert.Equal(t, 50.0, m.Params.MaxCentrality)
	assert.False(t, m.Params.UseEMCal)

	def := hfe.DefaultParams()
	assert.Equal(t, def.MaxEta, m.Params.MaxEta)
	assert.Equal(t, def.OpeningAngleCut, m.Params.OpeningAngleCut)
}

func TestDecodeManifestErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		doc  string
	}{
		{"no input", "name: x\n"},
		{"negative first", "files: [a.slcio]\nfirst_event: -1\n"},
		{"unknown field", "files: [a.slcio]\nbogus: 1\n"},
		{"unknown param", "files: [a.slcio]\nparams:\n  bogus: 1\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeManifest(strings.NewReader(tc.doc))
			assert.Error(t, err)
		})
	}

	_, err := DecodeManifest(strings.NewReader("name: x\n"))
	assert.ErrorIs(t, err, ErrInvalidManifest)
}

func TestManifestWorkersDefault(t *testing.T) {
	m, err := DecodeManifest(strings.NewReader("files: [a.slcio]\nworkers: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Workers)
}

func TestCheckVersion(t *testing.T) {
	m := DefaultManifest()
	assert.NoError(t, m.CheckVersion("dev"))

	m.Version = "v1.2.0"
	assert.NoError(t, m.CheckVersion("v1.2.0"))
	assert.ErrorIs(t, m.CheckVersion("v1.3.0"), ErrVersionMismatch)

	m.Force = true
	assert.NoError(t, m.CheckVersion("v1.3.0"))
}

func TestManifestEncodeRoundTrip(t *testing.T) {
	m, err := DecodeManifest(strings.NewReader(testManifest))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Encode(&buf))
	got, err := DecodeManifest(&buf)
	require.NoError(t, err)
	assert.Equal(t, m, got)
}
