// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/bandit-demo/auth"
	"github.com/danielhkuo/bandit-demo/bandit"
	"github.com/danielhkuo/bandit-demo/db"
)

// SQLStore keeps sessions in the session and ledger_round tables. Rows
// live only as long as the session: End and Reap delete them.
type SQLStore struct {
	conn    *sql.DB
	dialect db.Dialect
	src     bandit.Source
	now     func() time.Time
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore expects the schema from db.CreateSchema to exist.
func NewSQLStore(conn *sql.DB, dialect db.Dialect, src bandit.Source, opts ...Option) *SQLStore {
	o := buildOptions(opts)
	return &SQLStore{conn: conn, dialect: dialect, src: src, now: o.now}
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(ms int64) time.Time { return time.UnixMilli(ms).UTC() }

func (s *SQLStore) Create(ctx context.Context, budget int, meta Meta) (Session, error) {
	l, err := bandit.NewLedger(budget)
	if err != nil {
		return Session{}, err
	}

	now := fromMillis(toMillis(s.now()))
	sess := Session{
		ID:           auth.GenerateSessionID(),
		Ledger:       l,
		CreatedAt:    now,
		LastActiveAt: now,
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return Session{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.dialect.Rebind(`
		INSERT INTO session (id, token_budget, ip_hash, user_agent, created_at, last_active_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`), sess.ID, budget, nullString(meta.IPHash), nullString(meta.UserAgent), toMillis(now), toMillis(now))
	if err != nil {
		return Session{}, fmt.Errorf("failed to insert session: %w", err)
	}

	if err := s.insertRound(ctx, tx, sess.ID, 0, l[0], now); err != nil {
		return Session{}, err
	}

	if err := tx.Commit(); err != nil {
		return Session{}, fmt.Errorf("failed to commit session: %w", err)
	}
	return sess, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Session, error) {
	return s.load(ctx, s.conn, id)
}

func (s *SQLStore) Play(ctx context.Context, id string, b bandit.Bandit) (Session, bool, error) {
	if !b.Valid() {
		return Session{}, false, fmt.Errorf("%w: %s", bandit.ErrUnknownBandit, b)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return Session{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Touch the session row first: Postgres holds its row lock until
	// commit, so concurrent plays on one session queue here. SQLite takes
	// the database write lock.
	now := fromMillis(toMillis(s.now()))
	res, err := tx.ExecContext(ctx, s.dialect.Rebind(`
		UPDATE session SET last_active_at = $1 WHERE id = $2
	`), toMillis(now), id)
	if err != nil {
		return Session{}, false, fmt.Errorf("failed to lock session: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return Session{}, false, fmt.Errorf("failed to lock session: %w", err)
	} else if n == 0 {
		return Session{}, false, ErrNotFound
	}

	sess, err := s.load(ctx, tx, id)
	if err != nil {
		return Session{}, false, err
	}

	next, err := bandit.Play(sess.Ledger, b, s.src)
	if err != nil {
		return Session{}, false, err
	}
	played := len(next) > len(sess.Ledger)
	if played {
		seq := len(next) - 1
		if err := s.insertRound(ctx, tx, id, seq, next[seq], now); err != nil {
			return Session{}, false, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Session{}, false, fmt.Errorf("failed to commit play: %w", err)
	}

	sess.Ledger = next
	return sess, played, nil
}

func (s *SQLStore) End(ctx context.Context, id string) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.dialect.Rebind(`
		DELETE FROM ledger_round WHERE session_id = $1
	`), id); err != nil {
		return fmt.Errorf("failed to delete rounds: %w", err)
	}

	res, err := tx.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM session WHERE id = $1`), id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session delete: %w", err)
	}
	return nil
}

func (s *SQLStore) Reap(ctx context.Context, cutoff time.Time) (int, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ms := toMillis(cutoff)
	if _, err := tx.ExecContext(ctx, s.dialect.Rebind(`
		DELETE FROM ledger_round
		WHERE session_id IN (SELECT id FROM session WHERE last_active_at < $1)
	`), ms); err != nil {
		return 0, fmt.Errorf("failed to reap rounds: %w", err)
	}

	res, err := tx.ExecContext(ctx, s.dialect.Rebind(`
		DELETE FROM session WHERE last_active_at < $1
	`), ms)
	if err != nil {
		return 0, fmt.Errorf("failed to reap sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to reap sessions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit reap: %w", err)
	}
	return int(n), nil
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM session`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

func (s *SQLStore) load(ctx context.Context, q querier, id string) (Session, error) {
	sess := Session{ID: id}

	var created, active int64
	err := q.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT created_at, last_active_at FROM session WHERE id = $1
	`), id).Scan(&created, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to query session: %w", err)
	}
	sess.CreatedAt = fromMillis(created)
	sess.LastActiveAt = fromMillis(active)

	rows, err := q.QueryContext(ctx, s.dialect.Rebind(`
		SELECT seq, tokens_remaining, source, payout, cumulative_total
		FROM ledger_round
		WHERE session_id = $1
		ORDER BY seq
	`), id)
	if err != nil {
		return Session{}, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			seq    int
			source string
			r      bandit.Round
		)
		if err := rows.Scan(&seq, &r.TokensRemaining, &source, &r.Payout, &r.CumulativeTotal); err != nil {
			return Session{}, fmt.Errorf("failed to scan round: %w", err)
		}
		if seq != len(sess.Ledger) {
			return Session{}, fmt.Errorf("%w: session %s missing round %d", bandit.ErrCorruptLedger, id, len(sess.Ledger))
		}
		if r.Source, err = bandit.Parse(source); err != nil {
			return Session{}, fmt.Errorf("%w: session %s round %d: %v", bandit.ErrCorruptLedger, id, seq, err)
		}
		sess.Ledger = append(sess.Ledger, r)
	}
	if err := rows.Err(); err != nil {
		return Session{}, fmt.Errorf("failed to read rounds: %w", err)
	}

	if err := bandit.Verify(sess.Ledger); err != nil {
		return Session{}, fmt.Errorf("session %s: %w", id, err)
	}
	return sess, nil
}

func (s *SQLStore) insertRound(ctx context.Context, tx *sql.Tx, id string, seq int, r bandit.Round, at time.Time) error {
	_, err := tx.ExecContext(ctx, s.dialect.Rebind(`
		INSERT INTO ledger_round (session_id, seq, tokens_remaining, source, payout, cumulative_total, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`), id, seq, r.TokensRemaining, r.Source.String(), r.Payout, r.CumulativeTotal, toMillis(at))
	if err != nil {
		return fmt.Errorf("failed to insert round: %w", err)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
