// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the bandit-demo API server.

bandit-demo is a multi-armed bandit game: a player spends a fixed budget of
tokens, one per play, choosing each time among three slot machines with
hidden payout odds, and watches their cumulative profit grow.

# Starting the Server

With no configuration the server keeps sessions in memory:

	SESSION_KEY_SALT=secret go run .

Or backed by a database:

	go run . -t sqlite -d bandit.db -key-salt secret
	go run . -t postgres -d "postgres://..." -key-salt secret

Settings may also live in a .env file in the working directory.

# Configuration

Required settings:

  - SESSION_KEY_SALT (-key-salt): Secret for session key HMAC
  - DATABASE_URL (-d): Connection string, for sqlite and postgres only

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): memory, sqlite or postgres (default: memory)
  - TOKEN_BUDGET (-budget): Tokens per session (default: 10)
  - SESSION_TTL (-session-ttl): Idle time before a session is discarded (default: 30m)
  - RANDOM_SEED (-seed): Seed for reproducible draws

# Architecture

  - bandit: Payout policies, the round ledger and chart projections
  - session: Session stores (memory and SQL) and the idle janitor
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Session ids and keys
  - metrics: Prometheus instruments
  - db: Connections and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
