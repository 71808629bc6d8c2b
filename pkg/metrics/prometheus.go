package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	datasetRows   prometheus.Gauge
	rendersTotal  *prometheus.CounterVec
	renderLatency *prometheus.HistogramVec
	sessions      prometheus.Gauge
}

// New creates a recorder whose collectors are registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorpulse_dataset_fetch_total",
				Help: "Dataset download attempts by result",
			},
			[]string{"result"},
		),
		fetchDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sectorpulse_dataset_fetch_duration_seconds",
				Help:    "Time to download and parse the dataset",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		datasetRows: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "sectorpulse_dataset_rows",
				Help: "Rows in the loaded dataset",
			},
		),
		rendersTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sectorpulse_renders_total",
				Help: "Dashboard views rendered by surface",
			},
			[]string{"surface"},
		),
		renderLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sectorpulse_render_duration_seconds",
				Help:    "Time to build a dashboard view",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"surface"},
		),
		sessions: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "sectorpulse_ws_sessions",
				Help: "Open websocket sessions",
			},
		),
	}
}

// RecordFetch records one dataset download attempt.
func (r *Recorder) RecordFetch(result string, seconds float64) {
	r.fetchTotal.WithLabelValues(result).Inc()
	r.fetchDuration.Observe(seconds)
}

func (r *Recorder) RecordDatasetRows(n int) {
	r.datasetRows.Set(float64(n))
}

// RecordRender records a view build for a surface (page, api, ws).
func (r *Recorder) RecordRender(surface string, seconds float64) {
	r.rendersTotal.WithLabelValues(surface).Inc()
	r.renderLatency.WithLabelValues(surface).Observe(seconds)
}

func (r *Recorder) SessionOpened() { r.sessions.Inc() }

func (r *Recorder) SessionClosed() { r.sessions.Dec() }
