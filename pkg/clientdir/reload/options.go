package reload

import (
	"log/slog"
	"time"

	"github.com/randalmurphal/clientdir/pkg/clientdir"
	"github.com/randalmurphal/clientdir/pkg/clientdir/config"
	"github.com/randalmurphal/clientdir/pkg/clientdir/observability"
)

// reloaderConfig holds Reloader settings.
type reloaderConfig struct {
	name     string
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
	spans    observability.SpanManager
	retry    RetryConfig
	debounce time.Duration
	onReload []func(*clientdir.Snapshot)
}

// defaultReloaderConfig returns the default Reloader configuration.
func defaultReloaderConfig() reloaderConfig {
	return reloaderConfig{
		name:     "registrations",
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
		retry:    DefaultRetry,
		debounce: config.DefaultDebounce,
	}
}

// Option configures a Reloader.
type Option func(*reloaderConfig)

// WithName labels logs, metrics and spans with the source's name.
// Default: "registrations"
func WithName(name string) Option {
	return func(c *reloaderConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger enables structured logging of reload outcomes.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *reloaderConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry reload metrics via the global meter provider.
func WithMetrics(enabled bool) Option {
	return func(c *reloaderConfig) {
		if enabled {
			c.metrics = observability.NewMetricsRecorder()
		} else {
			c.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(c *reloaderConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing enables OpenTelemetry reload spans via the global tracer provider.
func WithTracing(enabled bool) Option {
	return func(c *reloaderConfig) {
		if enabled {
			c.spans = observability.NewSpanManager()
		} else {
			c.spans = observability.NoopSpanManager{}
		}
	}
}

// WithRetry sets the retry policy for loading from the source.
// Default: DefaultRetry
func WithRetry(cfg RetryConfig) Option {
	return func(c *reloaderConfig) {
		c.retry = cfg
	}
}

// WithDebounce sets how long Watch waits for file events to settle.
func WithDebounce(d time.Duration) Option {
	return func(c *reloaderConfig) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// OnReload registers fn to run after each successful swap. Callbacks run
// synchronously on the reloading goroutine and must not block.
func OnReload(fn func(*clientdir.Snapshot)) Option {
	return func(c *reloaderConfig) {
		if fn != nil {
			c.onReload = append(c.onReload, fn)
		}
	}
}

// FromSettings translates config.Settings into options.
func FromSettings(s config.Settings) []Option {
	return []Option{
		WithName(s.Source),
		WithDebounce(s.Debounce),
		WithRetry(RetryFromSettings(s.Retry)),
	}
}
