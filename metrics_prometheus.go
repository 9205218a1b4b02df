package tidyse

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsCollector exports Tidier metrics as Prometheus collectors.
type PrometheusMetricsCollector struct {
	flattens        *prometheus.CounterVec
	flattenRows     prometheus.Counter
	flattenDuration prometheus.Histogram
	reconstructs    *prometheus.CounterVec
	reconstructTime prometheus.Histogram
	verbs           *prometheus.CounterVec
	verbDuration    *prometheus.HistogramVec
}

// NewPrometheusMetricsCollector creates the collectors and registers them
// with reg. A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusMetricsCollector(reg prometheus.Registerer) (*PrometheusMetricsCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &PrometheusMetricsCollector{
		flattens: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tidyse",
				Subsystem: "flatten",
				Name:      "total",
				Help:      "Number of experiments flattened into long tables",
			},
			[]string{"status"},
		),
		flattenRows: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "tidyse",
				Subsystem: "flatten",
				Name:      "rows_total",
				Help:      "Rows produced by successful flattens",
			},
		),
		flattenDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "tidyse",
				Subsystem: "flatten",
				Name:      "duration_seconds",
				Help:      "Flatten duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		reconstructs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tidyse",
				Subsystem: "reconstruct",
				Name:      "total",
				Help:      "Reconstruction attempts by outcome (experiment or table)",
			},
			[]string{"result"},
		),
		reconstructTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "tidyse",
				Subsystem: "reconstruct",
				Name:      "duration_seconds",
				Help:      "Reconstruction duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		verbs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tidyse",
				Subsystem: "verb",
				Name:      "total",
				Help:      "Verb calls by verb and status",
			},
			[]string{"verb", "status"},
		),
		verbDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tidyse",
				Subsystem: "verb",
				Name:      "duration_seconds",
				Help:      "Verb duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"verb"},
		),
	}

	for _, c := range []prometheus.Collector{
		p.flattens, p.flattenRows, p.flattenDuration,
		p.reconstructs, p.reconstructTime, p.verbs, p.verbDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// RecordFlatten implements MetricsCollector.
func (p *PrometheusMetricsCollector) RecordFlatten(rows int, duration time.Duration, err error) {
	p.flattens.WithLabelValues(status(err)).Inc()
	p.flattenDuration.Observe(duration.Seconds())
	if err == nil {
		p.flattenRows.Add(float64(rows))
	}
}

// RecordReconstruct implements MetricsCollector.
func (p *PrometheusMetricsCollector) RecordReconstruct(ok bool, duration time.Duration) {
	p.reconstructTime.Observe(duration.Seconds())
	result := KindExperiment
	if !ok {
		result = KindTable
	}
	p.reconstructs.WithLabelValues(result.String()).Inc()
}

// RecordVerb implements MetricsCollector.
func (p *PrometheusMetricsCollector) RecordVerb(verb string, duration time.Duration, err error) {
	p.verbs.WithLabelValues(verb, status(err)).Inc()
	p.verbDuration.WithLabelValues(verb).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
