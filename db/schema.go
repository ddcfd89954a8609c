// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// DropSchema removes every table CreateSchema makes.
func DropSchema(db *sql.DB) error {
	for _, stmt := range []string{
		`DROP TABLE IF EXISTS ledger_round`,
		`DROP TABLE IF EXISTS session`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
	}
	return nil
}

// Statements are kept separate because lib/pq and modernc sqlite differ in
// multi-statement Exec support. Timestamps are unix milliseconds so both
// backends compare them numerically.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS session (
    id TEXT PRIMARY KEY,
    token_budget INTEGER NOT NULL CHECK (token_budget > 0),
    ip_hash TEXT,
    user_agent TEXT,
    created_at BIGINT NOT NULL,
    last_active_at BIGINT NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_session_last_active_at ON session(last_active_at)`,
	`CREATE TABLE IF NOT EXISTS ledger_round (
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    seq INTEGER NOT NULL CHECK (seq >= 0),
    tokens_remaining INTEGER NOT NULL CHECK (tokens_remaining >= 0),
    source TEXT NOT NULL,
    payout INTEGER NOT NULL CHECK (payout >= 0),
    cumulative_total INTEGER NOT NULL CHECK (cumulative_total >= 0),
    played_at BIGINT NOT NULL,
    PRIMARY KEY (session_id, seq)
)`,
}
