// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the session database and creates its schema.

# Connections

Open picks the driver for the configured backend and pings it:

	conn, err := db.Open(db.SQLite, "file:bandit.db")
	conn, err := db.Open(db.Postgres, "postgres://...")

SQLite connections are limited to one open connection, which serializes
writers and keeps ":memory:" databases alive.

# Placeholders

Queries are written with Postgres-style $N placeholders. Dialect.Rebind
turns them into SQLite's ?N form:

	conn.QueryRow(dialect.Rebind(`SELECT ... WHERE id = $1`), id)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - session: One row per live session (budget, ip hash, activity times)
  - ledger_round: One row per round, keyed by (session_id, seq)

seq 0 is the sentinel round. Timestamps are unix milliseconds.
*/
package db
