package interview

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper deletes sessions that have been idle longer than a TTL. It only
// uses the store's List and Delete operations.
type Sweeper struct {
	store    SessionStore
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper creates a sweeper. It does nothing until Start is called.
func NewSweeper(store SessionStore, ttl, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		store:    store,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs the sweep loop in a background goroutine until ctx is done or
// Stop is called. A non-positive ttl or interval disables sweeping.
func (w *Sweeper) Start(ctx context.Context) {
	if w.ttl <= 0 || w.interval <= 0 {
		w.logger.Info("Session sweeper disabled")
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})

	go func() {
		defer close(w.done)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.logger.Info("Session sweeper started",
			zap.Duration("ttl", w.ttl),
			zap.Duration("interval", w.interval))

		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Session sweeper shutting down")
				return
			case <-ticker.C:
				w.Sweep(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit. It is safe to call Stop
// even if Start never ran the loop.
func (w *Sweeper) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}

// Sweep removes every session idle for longer than the TTL and returns how
// many were removed.
func (w *Sweeper) Sweep(ctx context.Context) int {
	sessions, err := w.store.List(ctx)
	if err != nil {
		w.logger.Error("Session sweeper failed to list sessions", zap.Error(err))
		return 0
	}

	cutoff := w.now().Add(-w.ttl)
	removed := 0
	for _, session := range sessions {
		if !session.lastActive().Before(cutoff) {
			continue
		}
		// A concurrent delete already removed it; nothing to do.
		if err := w.store.Delete(ctx, session.ID); err != nil {
			continue
		}
		removed++
	}

	if removed > 0 {
		w.logger.Info("Session sweeper removed idle sessions", zap.Int("count", removed))
	}
	return removed
}
