// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the bandit-demo API.

# Handler Types

  - SessionHandler: Session lifecycle and plays
  - ListBandits: Static bandit catalogue

SessionHandler is created with a session store and configuration:

	sessionHandler := handlers.NewSessionHandler(store, cfg)

# Session Lifecycle

	POST   /sessions            → CreateSession (returns session_key)
	GET    /sessions/{id}       → GetSession
	POST   /sessions/{id}/plays → Play
	DELETE /sessions/{id}       → EndSession

Play and EndSession require the X-Session-Key header.

# Plays

A play names one bandit:

	{"bandit": "bandit2"}

The response carries the whole ledger and a played flag. When no tokens
remain the play is ignored: the status is still 200, played is false and
the ledger is unchanged. An unknown bandit name is a 400.
*/
package handlers
