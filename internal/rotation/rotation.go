// Package rotation recomputes the featured selection on a cron schedule and
// serves the latest result as a snapshot.
package rotation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/adhocore/gronx"
)

const DefaultCron = "*/5 * * * *"

// SelectFunc produces a fresh selection, usually catalog.Service.Featured.
type SelectFunc func(ctx context.Context) ([]domain.Product, error)

type Snapshot struct {
	Items      []domain.Product
	ComputedAt time.Time
}

type Rotator struct {
	cron     string
	selectFn SelectFunc
	now      func() time.Time
	onRun    func(error)

	current atomic.Pointer[Snapshot]

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

type Option func(*Rotator)

func WithClock(now func() time.Time) Option {
	return func(r *Rotator) {
		r.now = now
	}
}

// WithRunHook is called after every scheduled or manual recomputation.
func WithRunHook(fn func(error)) Option {
	return func(r *Rotator) {
		r.onRun = fn
	}
}

func New(cron string, fn SelectFunc, opts ...Option) (*Rotator, error) {
	if cron != "" && !gronx.IsValid(cron) {
		return nil, fmt.Errorf("invalid rotation cron expression: %s", cron)
	}
	r := &Rotator{
		cron:     cron,
		selectFn: fn,
		now:      time.Now,
		onRun:    func(error) {},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Rotator) Enabled() bool {
	return r.cron != ""
}

// Snapshot returns the last computed selection, nil before the first run.
func (r *Rotator) Snapshot() *Snapshot {
	return r.current.Load()
}

// Refresh recomputes the selection now and replaces the snapshot on success.
// On failure the previous snapshot is kept.
func (r *Rotator) Refresh(ctx context.Context) (*Snapshot, error) {
	items, err := r.selectFn(ctx)
	r.onRun(err)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Items: items, ComputedAt: r.now()}
	r.current.Store(snap)
	return snap, nil
}

// Start computes an initial snapshot and schedules recomputation until ctx is
// done or Stop is called. It is a no-op when rotation is disabled.
func (r *Rotator) Start(ctx context.Context) error {
	if !r.Enabled() {
		slog.Info("Featured rotation disabled")
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return fmt.Errorf("rotation already started")
	}

	if _, err := r.Refresh(ctx); err != nil {
		slog.Warn("Initial featured rotation failed", "error", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.run(runCtx, r.done)

	slog.Info("Featured rotation started", "cron", r.cron)
	return nil
}

// Stop cancels the schedule and waits for the loop to exit.
func (r *Rotator) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *Rotator) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for {
		now := r.now().UTC()
		next, err := gronx.NextTickAfter(r.cron, now, false)
		wait := next.Sub(now)
		if err != nil {
			slog.Error("Failed to compute next rotation tick", "cron", r.cron, "error", err)
			wait = 30 * time.Second
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("Featured rotation stopping")
			return
		case <-timer.C:
		}
		if err != nil {
			continue
		}

		if _, err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Featured rotation failed", "error", err)
		}
	}
}
