// Package source reads collision events from files and builds the
// analysis event model from them.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/decibelcooper/hfeflow/hfe"
)

// ErrUnknownFormat is returned by Open for files it cannot read.
var ErrUnknownFormat = errors.New("source: unknown file format")

// Source supplies events one at a time. Next returns io.EOF after the last
// event.
type Source interface {
	Next(ctx context.Context) (*hfe.Event, error)
	Close() error
}

// Options configures the file readers.
type Options struct {
	// Run is used for formats that carry no run number.
	Run     int          `mapstructure:"run"`
	Builder *Builder     `mapstructure:"-"`
	Logger  *slog.Logger `mapstructure:"-"`

	// DEdxScale converts the deposited energy of a track to the TPC
	// signal scale.
	DEdxScale float64 `mapstructure:"dedx_scale"`
	// Quality is assigned to tracks of formats without reconstruction
	// quality information.
	Quality hfe.Quality `mapstructure:"-"`
	// MaxClusterAngle is the largest track-cluster angular distance of a
	// calorimeter match, rad.
	MaxClusterAngle float64 `mapstructure:"max_cluster_angle"`
	// MaxTruthAngle is the largest track-particle angular distance of a
	// truth match, rad.
	MaxTruthAngle float64 `mapstructure:"max_truth_angle"`

	// BField is the solenoid field in T for helix-parametrised tracks.
	BField float64 `mapstructure:"bfield"`

	TrackCollection   string `mapstructure:"track_collection"`
	ClusterCollection string `mapstructure:"cluster_collection"`
	MCCollection      string `mapstructure:"mc_collection"`
}

func DefaultOptions() Options {
	return Options{
		Builder:   NewBuilder(),
		Logger:    slog.Default(),
		DEdxScale: 6e5,
		Quality: hfe.Quality{
			TPCRefit:       true,
			ITSRefit:       true,
			TPCClusters:    120,
			TPCFindable:    130,
			TPCChi2:        1,
			ITSClusters:    4,
			ITSPixels:      3,
			NSigmaToVertex: 0,
		},
		MaxClusterAngle:   0.05,
		MaxTruthAngle:     0.01,
		BField:            5,
		TrackCollection:   "Tracks",
		ClusterCollection: "ReconClusters",
		MCCollection:      "MCParticle",
	}
}

func (o *Options) fill() {
	def := DefaultOptions()
	if o.Builder == nil {
		o.Builder = def.Builder
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	if o.DEdxScale == 0 {
		o.DEdxScale = def.DEdxScale
	}
	if o.MaxClusterAngle == 0 {
		o.MaxClusterAngle = def.MaxClusterAngle
	}
	if o.MaxTruthAngle == 0 {
		o.MaxTruthAngle = def.MaxTruthAngle
	}
	if o.BField == 0 {
		o.BField = def.BField
	}
	if o.TrackCollection == "" {
		o.TrackCollection = def.TrackCollection
	}
	if o.ClusterCollection == "" {
		o.ClusterCollection = def.ClusterCollection
	}
	if o.MCCollection == "" {
		o.MCCollection = def.MCCollection
	}
}

// Open opens fname with the reader matching its extension.
func Open(fname string, opts Options) (Source, error) {
	opts.fill()
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".proio":
		return OpenProio(fname, opts)
	case ".slcio":
		return OpenLCIO(fname, opts)
	}
	return nil, fmt.Errorf("%s: %w", fname, ErrUnknownFormat)
}

// Slice is an in-memory source.
type Slice struct {
	events []*hfe.Event
	pos    int
}

func NewSlice(events ...*hfe.Event) *Slice {
	return &Slice{events: events}
}

func (s *Slice) Next(ctx context.Context) (*hfe.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.events) {
		return nil, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

func (s *Slice) Close() error { return nil }

type rangeSource struct {
	Source
	skip int
	left int
}

// Range restricts src to n events starting at first. A negative n means
// no limit.
func Range(src Source, first, n int) Source {
	return &rangeSource{Source: src, skip: first, left: n}
}

func (r *rangeSource) Next(ctx context.Context) (*hfe.Event, error) {
	for r.skip > 0 {
		if _, err := r.Source.Next(ctx); err != nil {
			return nil, err
		}
		r.skip--
	}
	if r.left == 0 {
		return nil, io.EOF
	}
	ev, err := r.Source.Next(ctx)
	if err != nil {
		return nil, err
	}
	if r.left > 0 {
		r.left--
	}
	return ev, nil
}

// Count returns the number of events in src and closes it.
func Count(ctx context.Context, src Source) (int, error) {
	defer src.Close()
	n := 0
	for {
		_, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}
