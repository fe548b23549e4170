package job

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/decibelcooper/hfeflow/hfe"
)

// Metrics are the batch counters of one job, kept in their own registry
// and exported as a node-exporter textfile.
type Metrics struct {
	Registry *prometheus.Registry

	EventsRead     prometheus.Counter
	EventsAccepted prometheus.Counter
	EventsSkipped  *prometheus.CounterVec
	Tracks         *prometheus.CounterVec
	FilesDone      prometheus.Counter
	Duration       prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	m := &Metrics{
		Registry: reg,
		EventsRead: f.NewCounter(prometheus.CounterOpts{
			Name: "hfeflow_events_read_total",
			Help: "Events read from the input files",
		}),
		EventsAccepted: f.NewCounter(prometheus.CounterOpts{
			Name: "hfeflow_events_accepted_total",
			Help: "Events passing the event selection",
		}),
		EventsSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hfeflow_events_skipped_total",
			Help: "Events skipped by reason",
		}, []string{"reason"}),
		Tracks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hfeflow_tracks_total",
			Help: "Candidate tracks by classification",
		}, []string{"class"}),
		FilesDone: f.NewCounter(prometheus.CounterOpts{
			Name: "hfeflow_files_done_total",
			Help: "Input file ranges processed",
		}),
		Duration: f.NewGauge(prometheus.GaugeOpts{
			Name: "hfeflow_job_duration_seconds",
			Help: "Wall time of the last job",
		}),
	}
	for _, r := range hfe.SkipReasons {
		m.EventsSkipped.WithLabelValues(r)
	}
	return m
}

// AddCounts adds the track totals of one task.
func (m *Metrics) AddCounts(c hfe.Counts) {
	m.Tracks.WithLabelValues("candidate").Add(float64(c.Candidates))
	m.Tracks.WithLabelValues("electron").Add(float64(c.Electrons))
	m.Tracks.WithLabelValues("photonic").Add(float64(c.Photonic))
	m.Tracks.WithLabelValues("background").Add(float64(c.Background))
}

// WriteTextfile writes the metrics in the text exposition format.
func (m *Metrics) WriteTextfile(fname string) error {
	return prometheus.WriteToTextfile(fname, m.Registry)
}
