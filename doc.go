// Package tidyse provides tidy verbs for SummarizedExperiment containers.
//
// An experiment keeps sample metadata, feature metadata and assay matrices
// in separate, positionally aligned blocks. tidyse lets you treat it as one
// long table with a row per (sample, feature) pair, run table verbs on it and
// get an experiment back whenever the result still fits one.
//
// # Quick Start
//
//	td := tidyse.New()
//	lt, _ := td.AsTibble(ctx, e)  // sample, <sample metadata>, transcript, <assays>, <feature metadata>, <ranges>
//
//	out, _ := td.Separate(ctx, tidyse.FromExperiment(e), table.SeparateSpec{
//	    Col:  "condition",
//	    Into: []string{"treatment", "dose"},
//	})
//	if e2, ok := out.Experiment(); ok {
//	    // treatment and dose became sample metadata
//	}
//
// # Reconstruction
//
// After a verb ran, the long table is split back into an experiment when it
// still has exactly one row per (sample, feature) pair. Every other column is
// placed in the block it depends on: sample metadata when it is constant per
// sample, feature metadata when constant per feature, an assay when numeric.
// If that fails the verb returns the long table. This is not an error.
//
//	out, _ := td.PivotLonger(ctx, tidyse.FromExperiment(e), table.PivotLongerSpec{
//	    Cols: []string{"counts", "normalized"},
//	})
//	lt, ok := out.Table() // ok: the row count doubled
//
// # Protected Columns
//
// The keys sample and transcript and every metadata column are protected:
// a verb may read them, but removing one fails with a ProtectedColumnError.
// Copy the column first if you need to consume it.
//
// # Nesting
//
//	nested, _ := td.Nest(ctx, tidyse.FromExperiment(e), "data", "condition")
//	for i := range nested.Len() {
//	    sub, _ := nested.Item(i).Experiment() // samples of one condition
//	}
//	lt, _ := td.Unnest(ctx, nested)
//
// Nesting by sample or transcript fails with a ReservedKeyError.
//
// # Observability
//
// Tidiers accept a structured Logger and a MetricsCollector:
//
//	metrics := &tidyse.BasicMetricsCollector{}
//	td := tidyse.New(
//	    tidyse.WithLogger(tidyse.NewJSONLogger(slog.LevelDebug)),
//	    tidyse.WithMetricsCollector(metrics),
//	)
//
// NewPrometheusMetricsCollector exports the same counters to a Prometheus
// registry.
package tidyse
