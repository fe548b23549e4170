// Package job runs the analysis over a dataset: it resolves the input
// files, spreads disjoint event ranges over a pool of workers, each with
// its own task and histograms, and merges the results.
package job

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decibelcooper/hfeflow/hfe"
)

var (
	ErrVersionMismatch = errors.New("job: framework version mismatch")
	ErrInvalidManifest = errors.New("job: invalid manifest")
)

// Manifest describes one batch job.
type Manifest struct {
	Name string `yaml:"name"`
	// Dataset is resolved through the catalog. Files is used instead when
	// no catalog is available.
	Dataset string   `yaml:"dataset"`
	Files   []string `yaml:"files,omitempty"`
	Run     int      `yaml:"run"`

	// Events is the number of events to process, all when not positive.
	Events     int `yaml:"events"`
	FirstEvent int `yaml:"first_event"`
	Workers    int `yaml:"workers"`

	// Version pins the analysis build the job was prepared for.
	Version string `yaml:"version"`
	Force   bool   `yaml:"force"`

	Output  string `yaml:"output"`
	Metrics string `yaml:"metrics"`

	Params hfe.Params `yaml:"params"`
}

// DefaultManifest returns a manifest with the default analysis parameters
// and a single worker.
func DefaultManifest() *Manifest {
	return &Manifest{
		Name:    "hfeflow",
		Workers: 1,
		Params:  hfe.DefaultParams(),
	}
}

// DecodeManifest reads a YAML manifest. Parameters it does not set keep
// their default values.
func DecodeManifest(r io.Reader) (*Manifest, error) {
	m := DefaultManifest()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("job: decoding manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func LoadManifest(fname string) (*Manifest, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("job: %w", err)
	}
	defer f.Close()
	return DecodeManifest(f)
}

func (m *Manifest) Validate() error {
	if m.Dataset == "" && len(m.Files) == 0 {
		return fmt.Errorf("%w: no dataset or files", ErrInvalidManifest)
	}
	if m.FirstEvent < 0 {
		return fmt.Errorf("%w: negative first event", ErrInvalidManifest)
	}
	if m.Workers < 1 {
		m.Workers = 1
	}
	return nil
}

// CheckVersion verifies the build version against the manifest pin. An
// empty pin accepts any build.
func (m *Manifest) CheckVersion(build string) error {
	if m.Version == "" || m.Version == build || m.Force {
		return nil
	}
	return fmt.Errorf("%w: manifest wants %q, build is %q", ErrVersionMismatch, m.Version, build)
}

// Encode writes the manifest as YAML.
func (m *Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}
