package tidyse

import (
	"context"
	"time"

	"github.com/hupe1980/tidyse/experiment"
	"github.com/hupe1980/tidyse/table"
)

// Tidier runs tidy verbs over tables and experiments.
//
// A Tidier holds only immutable configuration and is safe for concurrent use.
type Tidier struct {
	logger      *Logger
	metrics     MetricsCollector
	policy      CollisionPolicy
	parallelism int
}

// New creates a Tidier.
//
// Example:
//
//	td := tidyse.New(
//	    tidyse.WithCollisionPolicy(tidyse.CollisionReject),
//	    tidyse.WithParallelism(4),
//	)
//	lt, err := td.AsTibble(ctx, e)
func New(optFns ...Option) *Tidier {
	o := applyOptions(optFns)
	return &Tidier{
		logger:      o.logger,
		metrics:     o.metricsCollector,
		policy:      o.collisionPolicy,
		parallelism: o.parallelism,
	}
}

// AsTibble flattens e into its long table: one row per (sample, feature)
// pair in sample-major order.
func (td *Tidier) AsTibble(ctx context.Context, e *experiment.Experiment) (*table.Table, error) {
	lt, _, err := td.flatten(ctx, e)
	return lt, err
}

// Shape returns the column provenance of the long table AsTibble builds
// for e, reserved-name renames included.
func (td *Tidier) Shape(e *experiment.Experiment) experiment.Shape {
	s := e.Shape()
	s.SampleColumns = resolvedNames(s.SampleColumns)
	s.FeatureColumns = resolvedNames(s.FeatureColumns)
	return s
}

// Tidy splits a long table back into an experiment. When the table no
// longer covers every (sample, feature) pair exactly once, or a column
// cannot be assigned to a block, the table itself is returned.
func (td *Tidier) Tidy(ctx context.Context, lt *table.Table, shape experiment.Shape) Data {
	if lt == nil {
		return Data{}
	}
	start := time.Now()
	e, err := td.reconstruct(ctx, lt, shape)
	td.metrics.RecordReconstruct(err == nil, time.Since(start))
	td.logger.LogReconstruct(ctx, lt.NumRows(), err)
	if err != nil {
		return FromTable(lt)
	}
	return FromExperiment(e)
}

// scoped returns a copy of td whose log lines carry the verb name.
func (td *Tidier) scoped(verb string) *Tidier {
	c := *td
	c.logger = td.logger.WithVerb(verb)
	return &c
}

func resolvedNames(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		if isReserved(n) {
			n = renamed(n)
		}
		out[i] = n
	}
	return out
}
