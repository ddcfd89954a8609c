// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/bandit-demo/cliparse"
	"github.com/danielhkuo/bandit-demo/handlers"
	"github.com/danielhkuo/bandit-demo/metrics"
	"github.com/danielhkuo/bandit-demo/middleware"
	"github.com/danielhkuo/bandit-demo/session"
)

func NewRouter(store session.Store, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(store, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", metrics.Handler())

	// Bandit catalogue
	mux.HandleFunc("GET /bandits", middleware.WithLogging(handlers.ListBandits))

	// Sessions
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.CreateSession))
	mux.HandleFunc("GET /sessions/{id}", middleware.WithLogging(sessionHandler.GetSession))
	mux.HandleFunc("POST /sessions/{id}/plays", middleware.WithLogging(sessionHandler.Play))
	mux.HandleFunc("DELETE /sessions/{id}", middleware.WithLogging(sessionHandler.EndSession))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("bandit-demo API v1"))
	})

	return mux
}
