package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/insightdelivered/payslip-converter/internal/summary"
)

const namespace = "payslip"

// Source labels for parse attempts.
const (
	SourceAPI = "api"
	SourceCLI = "cli"
)

// Outcome labels for parse attempts.
const (
	OutcomeOK       = "ok"
	OutcomeNoText   = "no_text"
	OutcomeNotPDF   = "not_pdf"
	OutcomeBadInput = "bad_input"
	OutcomeError    = "error"
)

// Recorder owns the collectors for one registry. The zero value is not
// usable; build one with New. A nil *Recorder ignores every call.
type Recorder struct {
	registry *prometheus.Registry

	parses      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	artRows     *prometheus.CounterVec
	rowsMatched *prometheus.CounterVec
}

// New registers the payslip collectors plus the Go and process collectors
// on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "Payslip parse attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent extracting and summarizing one payslip.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"source"}),
		artRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "art_rows_total",
			Help:      "ART rows seen, by article code.",
		}, []string{"art"}),
		rowsMatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "art_rows_matched_total",
			Help:      "ART rows a summarizer could read, by article code.",
		}, []string{"art"}),
	}

	r.registry.MustRegister(
		r.parses,
		r.duration,
		r.artRows,
		r.rowsMatched,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveParse records one parse attempt.
func (r *Recorder) ObserveParse(source, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.parses.WithLabelValues(source, outcome).Inc()
	r.duration.WithLabelValues(source).Observe(elapsed.Seconds())
}

// ObserveOverview records row coverage for every summarized article code.
// Only dictionary codes are labelled so the label set stays bounded.
func (r *Recorder) ObserveOverview(ov *summary.Overview) {
	if r == nil || ov == nil {
		return
	}
	for code, s := range ov.Summaries {
		b := s.Info()
		r.artRows.WithLabelValues(code).Add(float64(b.RowsTotal))
		r.rowsMatched.WithLabelValues(code).Add(float64(b.RowsMatched))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Gatherer exposes the registry for tests and embedding.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the registry to path in the text exposition format,
// for runs that end before anything could scrape them.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
