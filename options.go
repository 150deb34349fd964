package sheetmem

import (
	"log/slog"

	"github.com/hupe1980/sheetmem/internal/resource"
)

// ResourceController tracks memory, background worker slots and snapshot IO
// for one or more sheets. Share one controller to give several sheets a
// common memory budget.
type ResourceController = resource.Controller

// ResourceConfig holds the limits of a ResourceController.
type ResourceConfig = resource.Config

// NewResourceController creates a ResourceController.
func NewResourceController(cfg ResourceConfig) *ResourceController {
	return resource.NewController(cfg)
}

type options struct {
	metricsCollector   MetricsCollector
	logger             *Logger
	resourceController *resource.Controller
	memoryLimit        int64
	parallelism        int
}

// Option configures NewSheet and LoadSheet.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &sheetmem.BasicMetricsCollector{}
//	sheet, _ := sheetmem.NewSheet(cfg, sheetmem.WithMetricsCollector(metrics))
//	// ... use sheet ...
//	stats := metrics.GetStats()
//	fmt.Printf("Row edits: %d, live bytes: %d\n", stats.RowEditCount, stats.LiveBytes)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := sheetmem.NewJSONLogger(slog.LevelDebug)
//	sheet, _ := sheetmem.NewSheet(cfg, sheetmem.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
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

// WithResourceController sets the controller that accounts for column memory
// and bounds row edit fan-out. By default every sheet gets its own unlimited
// controller with one background slot per parallel worker.
func WithResourceController(rc *ResourceController) Option {
	return func(o *options) {
		o.resourceController = rc
	}
}

// WithMemoryLimit gives the sheet its own controller with the given memory
// budget in bytes. It is ignored when WithResourceController is set.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithParallelism sets the maximum number of goroutines a row edit fans out
// to. Values below 1 are treated as 1.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = max(n, 1)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		parallelism:      defaultParallelism(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.resourceController == nil {
		o.resourceController = resource.NewController(resource.Config{
			MemoryLimitBytes:     o.memoryLimit,
			MaxBackgroundWorkers: int64(o.parallelism),
		})
	}
	return o
}
