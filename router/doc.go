// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the bandit-demo API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cfg)

# Endpoints

Health and monitoring:

	GET /health  - Liveness probe
	GET /metrics - Prometheus metrics

Catalogue:

	GET /bandits - Bandit ids and labels

Sessions:

	POST   /sessions            - Open a session (returns session_key)
	GET    /sessions/{id}       - Ledger, summary, chart series, tally
	POST   /sessions/{id}/plays - Spend one token (requires X-Session-Key)
	DELETE /sessions/{id}       - End the session (requires X-Session-Key)

# Handler Initialization

The router creates handler instances with dependency injection:

	sessionHandler := handlers.NewSessionHandler(store, cfg)

The store may be a session.MemoryStore or a session.SQLStore; handlers
only see the session.Store interface.
*/
package router
