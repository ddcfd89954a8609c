// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/bandit-demo/bandit"
	"github.com/danielhkuo/bandit-demo/db"
	"github.com/danielhkuo/bandit-demo/metrics"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 11, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type storeFactory func(t *testing.T, src bandit.Source, clock *fakeClock) Store

func newSQLiteStore(t *testing.T, src bandit.Source, clock *fakeClock) Store {
	t.Helper()
	conn, err := db.Open(db.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.CreateSchema(conn))
	return NewSQLStore(conn, db.SQLite, src, WithClock(clock.Now))
}

func newMemStore(t *testing.T, src bandit.Source, clock *fakeClock) Store {
	return NewMemoryStore(src, WithClock(clock.Now))
}

// forEachStore runs the same contract against every backend.
func forEachStore(t *testing.T, fn func(t *testing.T, factory storeFactory)) {
	t.Run("memory", func(t *testing.T) { fn(t, newMemStore) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteStore) })
}

func TestCreateAndGet(t *testing.T) {
	forEachStore(t, func(t *testing.T, factory storeFactory) {
		ctx := context.Background()
		clock := newFakeClock()
		store := factory(t, bandit.NewFixed(0.5), clock)

		s, err := store.Create(ctx, 10, Meta{IPHash: "abc", UserAgent: "test"})
		require.NoError(t, err)
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, bandit.Ledger{{TokensRemaining: 10, Source: bandit.None}}, s.Ledger)
		assert.True(t, s.CreatedAt.Equal(clock.Now()))

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Ledger, got.Ledger)
		assert.True(t, got.CreatedAt.Equal(s.CreatedAt))

		_, err = store.Create(ctx, 0, Meta{})
		assert.ErrorIs(t, err, bandit.ErrInvalidBudget)
	})
}

func TestPlayForcedDraw(t *testing.T) {
	forEachStore(t, func(t *testing.T, factory storeFactory) {
		ctx := context.Background()
		store := factory(t, bandit.NewFixed(0.85), newFakeClock())

		s, err := store.Create(ctx, 10, Meta{})
		require.NoError(t, err)

		s, played, err := store.Play(ctx, s.ID, bandit.Bandit1)
		require.NoError(t, err)
		assert.True(t, played)
		assert.Equal(t, bandit.Round{TokensRemaining: 9, Source: bandit.Bandit1, Payout: 13, CumulativeTotal: 13}, s.Ledger.Latest())

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Ledger, got.Ledger)
	})
}

func TestPlayUntilExhausted(t *testing.T) {
	forEachStore(t, func(t *testing.T, factory storeFactory) {
		ctx := context.Background()
		store := factory(t, bandit.NewSeededSource(3), newFakeClock())

		s, err := store.Create(ctx, 10, Meta{})
		require.NoError(t, err)

		for i := range 10 {
			var played bool
			s, played, err = store.Play(ctx, s.ID, bandit.All[i%3])
			require.NoError(t, err)
			require.True(t, played)
		}
		require.Len(t, s.Ledger, 11)
		assert.Equal(t, 0, s.Ledger.TokensRemaining())
		require.NoError(t, bandit.Verify(s.Ledger))

		final := s.Ledger
		for _, b := range bandit.All {
			s, played, err := store.Play(ctx, s.ID, b)
			require.NoError(t, err)
			assert.False(t, played)
			assert.Equal(t, final, s.Ledger)
		}

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, final, got.Ledger)
	})
}

func TestPlayUnknownBandit(t *testing.T) {
	forEachStore(t, func(t *testing.T, factory storeFactory) {
		ctx := context.Background()
		store := factory(t, bandit.NewFixed(0.5), newFakeClock())

		s, err := store.Create(ctx, 3, Meta{})
		require.NoError(t, err)

		_, _, err = store.Play(ctx, s.ID, bandit.Bandit(42))
		assert.ErrorIs(t, err, bandit.ErrUnknownBandit)

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Len(t, got.Ledger, 1)
	})
}

func TestUnknownSession(t *testing.T) {
	forEachStore(t, func(t *testing.T, factory storeFactory) {
		ctx := context.Background()
		store := factory(t, bandit.NewFixed(0.5), newFakeClock())
		id := "00000000-0000-4000-8000-000000000000"

		_, err := store.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)

		_, _, err = store.Play(ctx, id, bandit.Bandit1)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, store.End(ctx, id), ErrNotFound)
	})
}

func TestEnd(t *testing.T) {
	forEachStore(t, func(t *testing.T, factory storeFactory) {
		ctx := context.Background()
		store := factory(t, bandit.NewFixed(0.5), newFakeClock())

		s, err := store.Create(ctx, 5, Meta{})
		require.NoError(t, err)
		_, _, err = store.Play(ctx, s.ID, bandit.Bandit2)
		require.NoError(t, err)

		require.NoError(t, store.End(ctx, s.ID))

		_, err = store.Get(ctx, s.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, _, err = store.Play(ctx, s.ID, bandit.Bandit2)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.End(ctx, s.ID), ErrNotFound)
	})
}

func TestReap(t *testing.T) {
	forEachStore(t, func(t *testing.T, factory storeFactory) {
		ctx := context.Background()
		clock := newFakeClock()
		store := factory(t, bandit.NewFixed(0.5), clock)

		idle, err := store.Create(ctx, 5, Meta{})
		require.NoError(t, err)
		busy, err := store.Create(ctx, 5, Meta{})
		require.NoError(t, err)

		clock.Advance(time.Hour)
		_, _, err = store.Play(ctx, busy.ID, bandit.Bandit3)
		require.NoError(t, err)

		n := ReapIdle(ctx, store, clock.Now().Add(-30*time.Minute))
		assert.Equal(t, 1, n)

		_, err = store.Get(ctx, idle.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		got, err := store.Get(ctx, busy.ID)
		require.NoError(t, err)
		assert.Len(t, got.Ledger, 2)

		n, err = store.Reap(ctx, clock.Now().Add(-30*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestCount(t *testing.T) {
	forEachStore(t, func(t *testing.T, factory storeFactory) {
		ctx := context.Background()
		store := factory(t, bandit.NewFixed(0.5), newFakeClock())

		n, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, n)

		a, err := store.Create(ctx, 3, Meta{})
		require.NoError(t, err)
		_, err = store.Create(ctx, 3, Meta{})
		require.NoError(t, err)
		require.NoError(t, store.End(ctx, a.ID))

		n, err = store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

// TestActiveGaugeAcrossRestart reaps sessions a previous process left in
// the database and checks the gauge tracks the store, never going negative.
func TestActiveGaugeAcrossRestart(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()

	conn, err := db.Open(db.SQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.CreateSchema(conn))

	before := NewSQLStore(conn, db.SQLite, bandit.NewFixed(0.5), WithClock(clock.Now))
	for range 3 {
		_, err := before.Create(ctx, 5, Meta{})
		require.NoError(t, err)
	}

	// A fresh process starts with the gauge at zero
	metrics.SessionsActive.Set(0)
	after := NewSQLStore(conn, db.SQLite, bandit.NewFixed(0.5), WithClock(clock.Now))
	SyncActive(ctx, after)
	assert.Equal(t, 3.0, promtest.ToFloat64(metrics.SessionsActive))

	clock.Advance(time.Hour)
	n := ReapIdle(ctx, after, clock.Now().Add(-30*time.Minute))
	assert.Equal(t, 3, n)
	assert.Equal(t, 0.0, promtest.ToFloat64(metrics.SessionsActive))
}

// TestConcurrentPlays verifies that simultaneous plays on one session are
// serialized: every token is spent exactly once.
func TestConcurrentPlays(t *testing.T) {
	forEachStore(t, func(t *testing.T, factory storeFactory) {
		ctx := context.Background()
		store := factory(t, bandit.NewSeededSource(11), newFakeClock())

		const budget = 20
		const attempts = 50

		s, err := store.Create(ctx, budget, Meta{})
		require.NoError(t, err)

		var played, noop atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, ok, err := store.Play(ctx, s.ID, bandit.All[i%3])
				if err != nil {
					t.Errorf("play %d: %v", i, err)
					return
				}
				if ok {
					played.Add(1)
				} else {
					noop.Add(1)
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int32(budget), played.Load())
		assert.Equal(t, int32(attempts-budget), noop.Load())

		got, err := store.Get(ctx, s.ID)
		require.NoError(t, err)
		assert.Len(t, got.Ledger, budget+1)
		assert.NoError(t, bandit.Verify(got.Ledger))
	})
}

// TestParallelSessions verifies that sessions never share state.
func TestParallelSessions(t *testing.T) {
	forEachStore(t, func(t *testing.T, factory storeFactory) {
		ctx := context.Background()
		store := factory(t, bandit.NewSeededSource(5), newFakeClock())

		ids := make([]string, 5)
		for i := range ids {
			s, err := store.Create(ctx, 3+i, Meta{})
			require.NoError(t, err)
			ids[i] = s.ID
		}

		var wg sync.WaitGroup
		for _, id := range ids {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					if _, _, err := store.Play(ctx, id, bandit.Bandit2); err != nil {
						t.Errorf("play on %s: %v", id, err)
					}
				}
			}(id)
		}
		wg.Wait()

		for i, id := range ids {
			got, err := store.Get(ctx, id)
			require.NoError(t, err)
			assert.Len(t, got.Ledger, 3+i+1)
			assert.Equal(t, 3+i, got.Ledger.Budget())
			assert.NoError(t, bandit.Verify(got.Ledger))
		}
	})
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(bandit.NewFixed(0.5))

	s, err := store.Create(ctx, 4, Meta{})
	require.NoError(t, err)
	s.Ledger[0].TokensRemaining = 99

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Ledger.Budget())
	assert.Equal(t, 1, store.Len())
}

func TestCancelledContext(t *testing.T) {
	forEachStore(t, func(t *testing.T, factory storeFactory) {
		store := factory(t, bandit.NewFixed(0.5), newFakeClock())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.Create(ctx, 5, Meta{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
