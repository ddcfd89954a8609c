// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - DatabaseType: memory, sqlite or postgres (default: memory)
  - DatabaseURL: Connection string (required for sqlite and postgres)
  - TokenBudget: Tokens per new session (default: 10)
  - SessionTTL: Idle time before a session is discarded (default: 30m)
  - RandomSeed: Seed for reproducible draws (default: 0, non-deterministic)
  - SessionKeySalt: Secret for session key HMAC (required)

# CLI Flags

	-p            Server port
	-t            Database type
	-d            Database URL
	-budget       Tokens per session
	-session-ttl  Idle session lifetime
	-seed         Random seed
	-key-salt     Session key salt
	-env-file     Dotenv file to load (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT             → -p
	DATABASE_TYPE    → -t
	DATABASE_URL     → -d
	TOKEN_BUDGET     → -budget
	SESSION_TTL      → -session-ttl
	RANDOM_SEED      → -seed
	SESSION_KEY_SALT → -key-salt

CLI flags take precedence over environment variables. Variables from the
dotenv file only fill in what the environment does not already set; a
missing file is ignored.

# Validation

ParseFlags returns an error if:

  - SESSION_KEY_SALT is missing
  - DATABASE_URL is missing for a sqlite or postgres backend
  - the database type is unknown
  - the token budget is not positive
*/
package cliparse
