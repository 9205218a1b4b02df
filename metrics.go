package tidyse

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordFlatten is called after each experiment is flattened into a long table.
	// rows is the size of the long table, err is nil if successful.
	RecordFlatten(rows int, duration time.Duration, err error)

	// RecordReconstruct is called after each attempt to rebuild an experiment.
	// ok is false when the long table was returned instead.
	RecordReconstruct(ok bool, duration time.Duration)

	// RecordVerb is called after each verb call.
	RecordVerb(verb string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFlatten(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordReconstruct(bool, time.Duration) {}
func (NoopMetricsCollector) RecordVerb(string, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FlattenCount          atomic.Int64
	FlattenErrors         atomic.Int64
	FlattenRows           atomic.Int64
	FlattenTotalNanos     atomic.Int64
	ReconstructCount      atomic.Int64
	ReconstructFallback   atomic.Int64
	ReconstructTotalNanos atomic.Int64
	VerbCount             atomic.Int64
	VerbErrors            atomic.Int64
	VerbTotalNanos        atomic.Int64
}

// RecordFlatten implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFlatten(rows int, duration time.Duration, err error) {
	b.FlattenCount.Add(1)
	b.FlattenTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FlattenErrors.Add(1)
		return
	}
	b.FlattenRows.Add(int64(rows))
}

// RecordReconstruct implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReconstruct(ok bool, duration time.Duration) {
	b.ReconstructCount.Add(1)
	b.ReconstructTotalNanos.Add(duration.Nanoseconds())
	if !ok {
		b.ReconstructFallback.Add(1)
	}
}

// RecordVerb implements MetricsCollector.
func (b *BasicMetricsCollector) RecordVerb(verb string, duration time.Duration, err error) {
	b.VerbCount.Add(1)
	b.VerbTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.VerbErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FlattenCount:        b.FlattenCount.Load(),
		FlattenErrors:       b.FlattenErrors.Load(),
		FlattenRows:         b.FlattenRows.Load(),
		FlattenAvgNanos:     avg(b.FlattenTotalNanos.Load(), b.FlattenCount.Load()),
		ReconstructCount:    b.ReconstructCount.Load(),
		ReconstructFallback: b.ReconstructFallback.Load(),
		ReconstructAvgNanos: avg(b.ReconstructTotalNanos.Load(), b.ReconstructCount.Load()),
		VerbCount:           b.VerbCount.Load(),
		VerbErrors:          b.VerbErrors.Load(),
		VerbAvgNanos:        avg(b.VerbTotalNanos.Load(), b.VerbCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FlattenCount        int64
	FlattenErrors       int64
	FlattenRows         int64
	FlattenAvgNanos     int64
	ReconstructCount    int64
	ReconstructFallback int64
	ReconstructAvgNanos int64
	VerbCount           int64
	VerbErrors          int64
	VerbAvgNanos        int64
}
