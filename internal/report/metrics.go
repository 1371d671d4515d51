package report

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/idelchi/fcrypt/internal/engine"
)

const (
	resultSucceeded = "succeeded"
	resultFailed    = "failed"
)

// MetricsSink counts files, bytes and runs in a Prometheus registry.
type MetricsSink struct {
	registry *prometheus.Registry

	files    *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	warnings *prometheus.CounterVec
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetricsSink registers the fcrypt metrics in a fresh registry.
func NewMetricsSink() *MetricsSink {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &MetricsSink{
		registry: registry,
		files: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fcrypt_files_total",
				Help: "Files handed to the transformer",
			},
			[]string{"mode", "result"},
		),
		bytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fcrypt_bytes_written_total",
				Help: "Bytes written to output files",
			},
			[]string{"mode"},
		),
		warnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fcrypt_cleanup_warnings_total",
				Help: "Transforms whose source file could not be removed",
			},
			[]string{"mode"},
		),
		runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fcrypt_runs_total",
				Help: "Invocations by final status",
			},
			[]string{"mode", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fcrypt_run_duration_seconds",
				Help:    "Wall time of finished invocations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
	}
}

// Emit updates the counters for event.
func (m *MetricsSink) Emit(event engine.Event) {
	mode := event.Mode.String()

	switch event.Kind {
	case engine.FileDone:
		if event.Err != nil {
			m.files.WithLabelValues(mode, resultFailed).Inc()

			return
		}

		m.files.WithLabelValues(mode, resultSucceeded).Inc()
		m.bytes.WithLabelValues(mode).Add(float64(event.Outcome.Size))

		if event.Outcome.Warning != nil {
			m.warnings.WithLabelValues(mode).Inc()
		}

	case engine.Finished:
		status := string(engine.StatusCompleted)

		if event.Summary != nil {
			status = string(event.Summary.Status())
			m.duration.WithLabelValues(mode).Observe(event.Summary.Duration.Seconds())
		}

		m.runs.WithLabelValues(mode, status).Inc()

	case engine.Failed:
		m.runs.WithLabelValues(mode, resultFailed).Inc()

	default:
	}
}

// Gatherer exposes the underlying registry.
func (m *MetricsSink) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the current values in the text exposition format,
// atomically replacing path.
func (m *MetricsSink) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %q: %w", path, err)
	}

	return nil
}
