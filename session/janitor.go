// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/danielhkuo/bandit-demo/metrics"
)

// RunJanitor reaps sessions idle for longer than ttl every interval until
// ctx is cancelled. A zero ttl disables reaping.
func RunJanitor(ctx context.Context, store Store, ttl, interval time.Duration) {
	if ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ReapIdle(ctx, store, now.Add(-ttl))
		}
	}
}

// ReapIdle runs one reaping pass and records it.
func ReapIdle(ctx context.Context, store Store, cutoff time.Time) int {
	n, err := store.Reap(ctx, cutoff)
	if err != nil {
		slog.Error("failed to reap idle sessions", "error", err)
		return 0
	}
	if n > 0 {
		metrics.SessionsEnded.WithLabelValues("idle").Add(float64(n))
		slog.Info("reaped idle sessions", "count", n)
	}
	SyncActive(ctx, store)
	return n
}

// SyncActive sets the active-sessions gauge from the store's count, which
// includes sessions opened before this process started.
func SyncActive(ctx context.Context, store Store) {
	n, err := store.Count(ctx)
	if err != nil {
		slog.Error("failed to count sessions", "error", err)
		return
	}
	metrics.SessionsActive.Set(float64(n))
}
