package store

import "log/slog"

// GrowHook observes buffer (re)allocations. oldBytes and newBytes are buffer
// sizes before and after the change; newBytes is zero when the buffer is released.
type GrowHook func(oldBytes, newBytes int)

type options struct {
	logger   *slog.Logger
	growHook GrowHook
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger used for construction diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithGrowHook registers a callback invoked after every buffer change.
func WithGrowHook(fn GrowHook) Option {
	return func(o *options) {
		o.growHook = fn
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger: slog.Default(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
