package tidyse

import (
	"log/slog"
)

// CollisionPolicy decides what happens when sample or feature metadata
// carries a column named like a reserved key (sample or transcript).
type CollisionPolicy uint8

const (
	// CollisionWarnRename renames the column to "<name>.original" and logs a warning.
	CollisionWarnRename CollisionPolicy = iota
	// CollisionRename renames the column to "<name>.original" silently.
	CollisionRename
	// CollisionReject fails the flatten with a NameCollisionError.
	CollisionReject
)

// String returns the policy name.
func (p CollisionPolicy) String() string {
	switch p {
	case CollisionWarnRename:
		return "warn-rename"
	case CollisionRename:
		return "rename"
	case CollisionReject:
		return "reject"
	default:
		return "unknown"
	}
}

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	collisionPolicy  CollisionPolicy
	parallelism      int
}

// Option configures a Tidier.
type Option func(*options)

// WithCollisionPolicy configures how reserved key names in metadata are handled.
//
// The default is CollisionWarnRename.
func WithCollisionPolicy(p CollisionPolicy) Option {
	return func(o *options) {
		o.collisionPolicy = p
	}
}

// WithParallelism bounds the number of assays converted concurrently while
// flattening and reconstructing. Values below 1 mean sequential.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.parallelism = n
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &tidyse.BasicMetricsCollector{}
//	td := tidyse.New(tidyse.WithMetricsCollector(metrics))
//	// ... use td ...
//	stats := metrics.GetStats()
//	fmt.Printf("Verbs: %d, fallbacks: %d\n", stats.VerbCount, stats.ReconstructFallback)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := tidyse.NewJSONLogger(slog.LevelDebug)
//	td := tidyse.New(tidyse.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		collisionPolicy:  CollisionWarnRename,
		parallelism:      1,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
