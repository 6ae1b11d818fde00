// Package observability provides logging, metrics, and tracing for
// registration reloads.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// Lookups on a Directory are never instrumented; only reloads are.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds reload context to a logger.
func EnrichLogger(logger *slog.Logger, sourceName string, attempt int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("source", sourceName),
		slog.Int("attempt", attempt),
	)
}

// LogReloadStart logs the start of a reload.
func LogReloadStart(logger *slog.Logger, sourceName, trigger string) {
	if logger == nil {
		return
	}
	logger.Debug("registration reload starting",
		slog.String("source", sourceName),
		slog.String("trigger", trigger),
	)
}

// LogReloadComplete logs a successful swap.
func LogReloadComplete(logger *slog.Logger, sourceName string, generation uint64, snapshotID string, count int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("registrations reloaded",
		slog.String("source", sourceName),
		slog.Uint64("generation", generation),
		slog.String("snapshot_id", snapshotID),
		slog.Int("registrations", count),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogReloadError logs a rejected or failed reload. The previous snapshot
// stays in service, so this is a warning rather than an error.
func LogReloadError(logger *slog.Logger, sourceName string, err error, attempts int, generation uint64) {
	if logger == nil {
		return
	}
	logger.Warn("registration reload failed, keeping current set",
		slog.String("source", sourceName),
		slog.String("error", err.Error()),
		slog.Int("attempts", attempts),
		slog.Uint64("current_generation", generation),
	)
}

// LogReloadRetry logs a transient failure that will be retried.
func LogReloadRetry(logger *slog.Logger, sourceName string, err error, attempt int, backoff time.Duration) {
	if logger == nil {
		return
	}
	logger.Debug("registration load failed, retrying",
		slog.String("source", sourceName),
		slog.String("error", err.Error()),
		slog.Int("attempt", attempt),
		slog.Duration("backoff", backoff),
	)
}

// LogWatchError logs a file watcher error (non-fatal).
func LogWatchError(logger *slog.Logger, path string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("registration watcher error",
		slog.String("path", path),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
