// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSessionRequest: token_budget (optional)
  - PlayRequest: bandit ("bandit1", "bandit2" or "bandit3")

# Response Types

Types for JSON responses:

  - ListBanditsResponse: bandits (id, label)
  - SessionView: session_id, summary, rounds, series, bounds, tally
  - CreateSessionResponse: SessionView plus session_key
  - PlayResponse: SessionView plus played
  - ErrorResponse: error, message

# Views

NewSessionView projects a ledger into a SessionView. Every field is
derived from the rounds; nothing is stored separately:

	view := models.NewSessionView(s.ID, s.CreatedAt, s.LastActiveAt, s.Ledger)

Expected payouts are deliberately absent from every response.
*/
package models
