package usecase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the export and save collectors. A nil *Metrics records nothing.
type Metrics struct {
	exports        *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
	saves          *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_exports_total",
				Help: "Total number of PDF exports by outcome.",
			},
			[]string{"template", "result"},
		),
		exportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resume_export_duration_seconds",
				Help:    "Time spent in each export stage.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "resume_saves_total",
				Help: "Total number of saves by remote persistence outcome.",
			},
			[]string{"result"},
		),
	}
	for _, c := range []prometheus.Collector{m.exports, m.exportDuration, m.saves} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeExport(template, result string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(template, result).Inc()
}

func (m *Metrics) observeStage(stage ExportState, since time.Time) {
	if m == nil {
		return
	}
	m.exportDuration.WithLabelValues(string(stage)).Observe(time.Since(since).Seconds())
}

func (m *Metrics) observeSave(result string) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(result).Inc()
}
