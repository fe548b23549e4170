package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/decibelcooper/hfeflow/catalog"
	"github.com/decibelcooper/hfeflow/hfe"
	"github.com/decibelcooper/hfeflow/hist"
	"github.com/decibelcooper/hfeflow/source"
)

// OpenFunc opens one input file.
type OpenFunc func(fname string, opts source.Options) (source.Source, error)

// Runner executes manifests locally.
type Runner struct {
	// Catalog resolves datasets and stores job records; optional.
	Catalog *catalog.Catalog
	Open    OpenFunc
	// NewTask creates the task of one worker. The default is an ElecV2
	// with the manifest parameters.
	NewTask       func(p hfe.Params) hfe.Task
	SourceOptions source.Options
	Metrics       *Metrics
	Logger        *slog.Logger
	// Version is the build version checked against the manifest pin.
	Version string
}

// Result is the outcome of a job.
type Result struct {
	JobID          string
	Registry       *hist.Registry
	EventsRead     int64
	EventsAccepted int64
	Skipped        map[string]int64
}

// unit is a contiguous event range of one file.
type unit struct {
	path  string
	first int
	n     int
}

// Collector holds the output registry posted by each worker. Posting the
// same registry again is a no-op.
type Collector struct {
	mu   sync.Mutex
	regs map[int]*hist.Registry
}

func NewCollector() *Collector {
	return &Collector{regs: make(map[int]*hist.Registry)}
}

func (c *Collector) Post(worker int, r *hist.Registry) {
	c.mu.Lock()
	c.regs[worker] = r
	c.mu.Unlock()
}

// Merge sums the posted registries into a new one.
func (c *Collector) Merge(name string) (*hist.Registry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := hist.NewRegistry(name)
	for w := 0; w < len(c.regs); w++ {
		r, ok := c.regs[w]
		if !ok {
			continue
		}
		if err := out.Merge(r); err != nil {
			return nil, fmt.Errorf("job: merging worker %d: %w", w, err)
		}
	}
	return out, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) open(fname string, opts source.Options) (source.Source, error) {
	if r.Open != nil {
		return r.Open(fname, opts)
	}
	return source.Open(fname, opts)
}

func (r *Runner) resolve(ctx context.Context, m *Manifest, opts *source.Options) ([]string, []int, error) {
	if m.Dataset == "" || r.Catalog == nil {
		if len(m.Files) == 0 {
			return nil, nil, fmt.Errorf("%w: dataset %q needs a catalog", ErrInvalidManifest, m.Dataset)
		}
		return m.Files, make([]int, len(m.Files)), nil
	}
	ds, err := r.Catalog.Dataset(ctx, m.Dataset)
	if err != nil {
		return nil, nil, err
	}
	if m.Run == 0 {
		opts.Run = ds.Run
	}
	files, err := r.Catalog.Files(ctx, m.Dataset)
	if err != nil {
		return nil, nil, err
	}
	calib, err := r.Catalog.Calibration(ctx, opts.Run)
	switch {
	case err == nil:
		opts.Builder.AddCalibration(calib)
	case errors.Is(err, catalog.ErrCalibrationNotFound):
		r.logger().Warn("no centrality calibration", "run", opts.Run)
	default:
		return nil, nil, err
	}
	paths := make([]string, len(files))
	events := make([]int, len(files))
	for i, f := range files {
		paths[i], events[i] = f.Path, f.Events
	}
	return paths, events, nil
}

// plan splits the global event range [first, first+n) over the files.
// Files of unknown length are counted.
func (r *Runner) plan(ctx context.Context, paths []string, events []int, first, n int, opts source.Options) ([]unit, error) {
	var units []unit
	offset := 0
	for i, p := range paths {
		if n > 0 && offset >= first+n {
			break
		}
		size := events[i]
		if size <= 0 {
			src, err := r.open(p, opts)
			if err != nil {
				return nil, err
			}
			size, err = source.Count(ctx, src)
			if err != nil {
				return nil, fmt.Errorf("job: counting %s: %w", p, err)
			}
		}
		lo := max(first-offset, 0)
		hi := size
		if n > 0 {
			hi = min(hi, first+n-offset)
		}
		if lo < hi {
			units = append(units, unit{path: p, first: lo, n: hi - lo})
		}
		offset += size
	}
	return units, nil
}

type workerStats struct {
	read, accepted int64
	skipped        map[string]int64
}

func (r *Runner) work(ctx context.Context, id int, m *Manifest, units <-chan unit, opts source.Options, col *Collector) (*workerStats, error) {
	log := r.logger().With("worker", id)
	st := &workerStats{skipped: make(map[string]int64)}

	newTask := r.NewTask
	if newTask == nil {
		newTask = func(p hfe.Params) hfe.Task {
			t := hfe.NewElecV2(p)
			t.Logger = log
			return t
		}
	}
	task := newTask(m.Params)
	out := hist.NewRegistry(m.Name)
	if err := task.Initialize(out); err != nil {
		return nil, fmt.Errorf("job: worker %d: %w", id, err)
	}
	col.Post(id, out)

	for u := range units {
		src, err := r.open(u.path, opts)
		if err != nil {
			return nil, err
		}
		src = source.Range(src, u.first, u.n)
		log.Debug("processing", "file", u.path, "first", u.first, "events", u.n)
		for {
			ev, err := src.Next(ctx)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				src.Close()
				return nil, fmt.Errorf("job: reading %s: %w", u.path, err)
			}
			st.read++
			err = task.ProcessEvent(ev, out)
			var skip *hfe.SkipError
			switch {
			case err == nil:
				st.accepted++
			case errors.As(err, &skip):
				st.skipped[skip.Reason]++
			default:
				src.Close()
				return nil, fmt.Errorf("job: %s: %w", u.path, err)
			}
			col.Post(id, out)
		}
		src.Close()
		if r.Metrics != nil {
			r.Metrics.FilesDone.Inc()
		}
	}

	if err := task.Finalize(out); err != nil {
		return nil, fmt.Errorf("job: worker %d: %w", id, err)
	}
	col.Post(id, out)
	if ev, ok := task.(*hfe.ElecV2); ok && r.Metrics != nil {
		r.Metrics.AddCounts(ev.Counts)
	}
	return st, nil
}

// Run executes m and returns the merged histograms. The merged registry is
// written to m.Output when set.
func (r *Runner) Run(ctx context.Context, m *Manifest) (*Result, error) {
	start := time.Now()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := m.CheckVersion(r.Version); err != nil {
		return nil, err
	}

	opts := r.SourceOptions
	if opts.Builder == nil {
		opts.Builder = source.NewBuilder()
	}
	if opts.Logger == nil {
		opts.Logger = r.logger()
	}
	if m.Run != 0 {
		opts.Run = m.Run
	}

	jobID := uuid.NewString()
	log := r.logger().With("job", jobID)

	paths, events, err := r.resolve(ctx, m, &opts)
	if err != nil {
		return nil, err
	}
	units, err := r.plan(ctx, paths, events, m.FirstEvent, m.Events, opts)
	if err != nil {
		return nil, err
	}
	log.Info("starting job", "files", len(paths), "units", len(units), "workers", m.Workers)

	queue := make(chan unit)
	col := NewCollector()
	stats := make([]*workerStats, m.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(queue)
		for _, u := range units {
			select {
			case queue <- u:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < m.Workers; w++ {
		g.Go(func() error {
			st, err := r.work(gctx, w, m, queue, opts, col)
			if err != nil {
				return err
			}
			stats[w] = st
			return nil
		})
	}
	runErr := g.Wait()

	res := &Result{JobID: jobID, Skipped: make(map[string]int64)}
	for _, st := range stats {
		if st == nil {
			continue
		}
		res.EventsRead += st.read
		res.EventsAccepted += st.accepted
		for k, v := range st.skipped {
			res.Skipped[k] += v
		}
	}
	if runErr == nil {
		res.Registry, runErr = col.Merge(m.Name)
	}
	if runErr == nil && m.Output != "" {
		if err := hist.WriteROOT(m.Output, res.Registry); err != nil {
			runErr = fmt.Errorf("job: writing output: %w", err)
		}
	}

	r.finish(ctx, m, res, start, runErr)
	if runErr != nil {
		return nil, runErr
	}
	log.Info("job done", "read", res.EventsRead, "accepted", res.EventsAccepted, "elapsed", time.Since(start))
	return res, nil
}

// finish records the job in the metrics and the catalog.
func (r *Runner) finish(ctx context.Context, m *Manifest, res *Result, start time.Time, runErr error) {
	end := time.Now()
	if r.Metrics != nil {
		r.Metrics.EventsRead.Add(float64(res.EventsRead))
		r.Metrics.EventsAccepted.Add(float64(res.EventsAccepted))
		for reason, n := range res.Skipped {
			r.Metrics.EventsSkipped.WithLabelValues(reason).Add(float64(n))
		}
		r.Metrics.Duration.Set(end.Sub(start).Seconds())
		if m.Metrics != "" {
			if err := r.Metrics.WriteTextfile(m.Metrics); err != nil {
				r.logger().Error("could not write metrics", "file", m.Metrics, "error", err)
			}
		}
	}
	if r.Catalog == nil {
		return
	}
	status := "done"
	if runErr != nil {
		status = "failed"
	}
	dataset := m.Dataset
	if dataset == "" {
		dataset = m.Name
	}
	err := r.Catalog.RecordJob(ctx, catalog.Job{
		ID:             res.JobID,
		Dataset:        dataset,
		Version:        r.Version,
		Output:         m.Output,
		EventsRead:     res.EventsRead,
		EventsAccepted: res.EventsAccepted,
		StartedAt:      start.Unix(),
		FinishedAt:     end.Unix(),
		Status:         status,
	})
	if err != nil {
		r.logger().Error("could not record job", "job", res.JobID, "error", err)
	}
}
