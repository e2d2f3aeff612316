package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joseph-ayodele/ingredient-scanner/constants"
	"github.com/joseph-ayodele/ingredient-scanner/internal/ingredients"
)

// Metrics is the scanner's Prometheus instrumentation. A nil *Metrics is a
// valid no-op recorder.
type Metrics struct {
	scans       *prometheus.CounterVec
	flags       *prometheus.CounterVec
	score       prometheus.Histogram
	ocrDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_scans_total",
			Help: "Scan attempts by terminal status",
		}, []string{"status"}),
		flags: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_flagged_ingredients_total",
			Help: "Flagged ingredient matches by keyword",
		}, []string{"keyword"}),
		score: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scanner_score_percent",
			Help:    "Distribution of healthiness scores",
			Buckets: []float64{35, 55, 70, 90},
		}),
		ocrDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scanner_ocr_duration_seconds",
			Help:    "Time spent in OCR recognition",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.scans, m.flags, m.score, m.ocrDuration)

	// pre-create series so dashboards see zeros
	for _, s := range constants.ScanStatuses {
		m.scans.WithLabelValues(string(s))
	}
	for _, r := range ingredients.Rules() {
		m.flags.WithLabelValues(r.Keyword)
	}
	return m
}

// ObserveScan counts a finished scan attempt.
func (m *Metrics) ObserveScan(status constants.ScanStatus) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(string(status)).Inc()
}

// ObserveResult records the score and every matched rule.
func (m *Metrics) ObserveResult(r ingredients.Result) {
	if m == nil {
		return
	}
	m.score.Observe(float64(r.Percent))
	for _, f := range r.Flags {
		m.flags.WithLabelValues(f.Keyword).Inc()
	}
}

// ObserveOCR records one recognition call.
func (m *Metrics) ObserveOCR(d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ocrDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
