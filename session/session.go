// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"time"

	"github.com/danielhkuo/bandit-demo/bandit"
)

var ErrNotFound = errors.New("session not found")

// Session is one player's game: an id and the ledger it owns.
type Session struct {
	ID           string
	Ledger       bandit.Ledger
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// Meta is request context recorded when a session is opened.
type Meta struct {
	IPHash    string
	UserAgent string
}

// Store holds live sessions. Play must behave as one atomic
// read-resolve-append per session: concurrent plays against the same
// session are applied one after another.
type Store interface {
	Create(ctx context.Context, budget int, meta Meta) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	// Play resolves one play. played is false when the budget was already
	// exhausted and the ledger is unchanged.
	Play(ctx context.Context, id string, b bandit.Bandit) (s Session, played bool, err error)
	End(ctx context.Context, id string) error
	// Reap ends every session idle since before cutoff and returns how
	// many were removed.
	Reap(ctx context.Context, cutoff time.Time) (int, error)
	// Count is the number of live sessions, including any the store held
	// before this process started.
	Count(ctx context.Context) (int, error)
}

type options struct {
	now func() time.Time
}

// Option configures a store.
type Option func(*options)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
