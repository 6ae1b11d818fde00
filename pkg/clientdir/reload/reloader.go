package reload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/clientdir/pkg/clientdir"
	"github.com/randalmurphal/clientdir/pkg/clientdir/config"
	"github.com/randalmurphal/clientdir/pkg/clientdir/observability"
	"github.com/randalmurphal/clientdir/pkg/clientdir/source"
)

// Reload triggers, reported in logs and spans.
const (
	TriggerManual = "manual"
	TriggerWatch  = "watch"
	TriggerSignal = "signal"
)

// ErrNotWatchable indicates Watch was called on a source with no files.
var ErrNotWatchable = errors.New("source has no files to watch")

// Reloader refreshes a Directory from a Source.
//
// Each reload loads the full set, retries transient failures, and hands the
// result to Directory.Reload. A rejected set leaves the directory serving
// its previous snapshot.
type Reloader struct {
	dir *clientdir.Directory
	src source.Source
	cfg reloaderConfig

	// mu keeps load+swap pairs from interleaving, so an older load can
	// never replace a newer one.
	mu sync.Mutex
}

// New creates a Reloader for dir. It does not load anything.
func New(dir *clientdir.Directory, src source.Source, opts ...Option) *Reloader {
	cfg := defaultReloaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Reloader{dir: dir, src: src, cfg: cfg}
}

// Bootstrap creates a Directory populated from src and a Reloader for it.
// It fails if the initial load fails or the set is rejected.
func Bootstrap(ctx context.Context, src source.Source, opts ...Option) (*Reloader, error) {
	r := New(&clientdir.Directory{}, src, opts...)
	if err := r.ReloadNow(ctx); err != nil {
		return nil, fmt.Errorf("initial registration load: %w", err)
	}
	return r, nil
}

// Directory returns the directory this Reloader feeds.
func (r *Reloader) Directory() *clientdir.Directory {
	return r.dir
}

// ReloadNow loads from the source and swaps the result in.
func (r *Reloader) ReloadNow(ctx context.Context) error {
	return r.reload(ctx, TriggerManual)
}

// Run reloads each time trigger fires, until ctx is done or trigger is
// closed. Failed reloads are logged and do not stop the loop.
func (r *Reloader) Run(ctx context.Context, trigger <-chan struct{}) error {
	return r.run(ctx, trigger, TriggerWatch)
}

// ReloadOnSignal reloads each time one of sigs is delivered (typically
// SIGHUP), until ctx is done.
func (r *Reloader) ReloadOnSignal(ctx context.Context, sigs ...os.Signal) error {
	if len(sigs) == 0 {
		return fmt.Errorf("reload on signal: no signals given")
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	defer signal.Stop(ch)

	trigger := make(chan struct{}, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
				select {
				case trigger <- struct{}{}:
				default:
				}
			}
		}
	}()
	return r.run(ctx, trigger, TriggerSignal)
}

func (r *Reloader) run(ctx context.Context, trigger <-chan struct{}, name string) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-trigger:
			if !ok {
				return nil
			}
			_ = r.reload(ctx, name)
		}
	}
}

// Watch reloads whenever the source's files change, until ctx is done.
// The source must implement source.Watchable.
func (r *Reloader) Watch(ctx context.Context) error {
	w, ok := r.src.(source.Watchable)
	if !ok || len(w.WatchPaths()) == 0 {
		return ErrNotWatchable
	}

	watcher, err := NewWatcher(w.WatchPaths(), r.cfg.debounce, r.cfg.logger)
	if err != nil {
		return err
	}
	defer watcher.Stop()

	changes, err := watcher.Start()
	if err != nil {
		return err
	}
	return r.Run(ctx, changes)
}

// Start applies the runtime part of s to r. With s.Watch set it watches the
// source's files until ctx is done, so callers usually run it in a
// goroutine; otherwise it returns nil at once.
func Start(ctx context.Context, r *Reloader, s config.Settings) error {
	if !s.Watch {
		return nil
	}
	return r.Watch(ctx)
}

func (r *Reloader) reload(ctx context.Context, trigger string) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := r.cfg.name
	start := time.Now()
	done := observability.TimedOperation()

	ctx, span := r.cfg.spans.StartReloadSpan(ctx, name, trigger)
	observability.LogReloadStart(r.cfg.logger, name, trigger)

	attempts := 0
	defer func() {
		r.cfg.metrics.RecordReload(ctx, name, err == nil, time.Since(start))
		r.cfg.spans.EndSpanWithError(span, err)
		if err != nil {
			observability.LogReloadError(r.cfg.logger, name, err, attempts, r.dir.Generation())
		}
	}()

	onRetry := func(err error, attempt int, backoff time.Duration) {
		observability.LogReloadRetry(r.cfg.logger, name, err, attempt, backoff)
		r.cfg.spans.AddSpanEvent(ctx, "registrations.retry",
			attribute.Int("attempt", attempt),
			attribute.String("error", err.Error()),
		)
	}

	var snap *clientdir.Snapshot
	snap, attempts, err = withRetry(ctx, r.cfg.retry, onRetry, func(ctx context.Context) (*clientdir.Snapshot, error) {
		regs, err := r.src.Load(ctx)
		if err != nil {
			return nil, err
		}
		r.cfg.spans.AddSpanEvent(ctx, "registrations.loaded", attribute.Int("count", len(regs)))
		return r.dir.Install(regs)
	})
	if err != nil {
		return err
	}

	r.cfg.metrics.RecordRegistrations(ctx, name, snap.Len())
	observability.LogReloadComplete(r.cfg.logger, name, snap.Generation(), snap.ID().String(), snap.Len(), done())
	for _, fn := range r.cfg.onReload {
		fn(snap)
	}
	return nil
}
