// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/danielhkuo/bandit-demo/auth"
	"github.com/danielhkuo/bandit-demo/bandit"
)

type memoryEntry struct {
	mu    sync.Mutex
	s     Session
	meta  Meta
	ended bool
}

// MemoryStore keeps sessions in process memory. The map lock only guards
// membership; each session has its own lock so plays on different
// sessions never wait on each other.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryEntry
	src      bandit.Source
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(src bandit.Source, opts ...Option) *MemoryStore {
	o := buildOptions(opts)
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		src:      src,
		now:      o.now,
	}
}

func (m *MemoryStore) Create(ctx context.Context, budget int, meta Meta) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	l, err := bandit.NewLedger(budget)
	if err != nil {
		return Session{}, err
	}

	now := m.now()
	s := Session{
		ID:           auth.GenerateSessionID(),
		Ledger:       l,
		CreatedAt:    now,
		LastActiveAt: now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = &memoryEntry{s: s, meta: meta}
	m.mu.Unlock()

	return clone(s), nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	e, err := m.entry(id)
	if err != nil {
		return Session{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return Session{}, ErrNotFound
	}
	return clone(e.s), nil
}

func (m *MemoryStore) Play(ctx context.Context, id string, b bandit.Bandit) (Session, bool, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, false, err
	}
	e, err := m.entry(id)
	if err != nil {
		return Session{}, false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ended {
		return Session{}, false, ErrNotFound
	}

	next, err := bandit.Play(e.s.Ledger, b, m.src)
	if err != nil {
		return Session{}, false, err
	}
	played := len(next) > len(e.s.Ledger)
	e.s.Ledger = next
	e.s.LastActiveAt = m.now()
	return clone(e.s), played, nil
}

func (m *MemoryStore) End(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	e, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	// A play already holding the entry lock finishes first; later ones
	// see ended.
	e.mu.Lock()
	e.ended = true
	e.mu.Unlock()
	return nil
}

func (m *MemoryStore) Reap(ctx context.Context, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, e := range m.sessions {
		e.mu.Lock()
		if e.s.LastActiveAt.Before(cutoff) {
			e.ended = true
			delete(m.sessions, id)
			n++
		}
		e.mu.Unlock()
	}
	return n, nil
}

func (m *MemoryStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return m.Len(), nil
}

// Len is the number of live sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) entry(id string) (*memoryEntry, error) {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func clone(s Session) Session {
	s.Ledger = slices.Clone(s.Ledger)
	return s
}
