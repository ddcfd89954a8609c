// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/bandit-demo/auth"
	"github.com/danielhkuo/bandit-demo/bandit"
	"github.com/danielhkuo/bandit-demo/cliparse"
	"github.com/danielhkuo/bandit-demo/db"
	"github.com/danielhkuo/bandit-demo/session"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a SQLite-backed session store drawing from src
func SetupTestStore(t *testing.T, src bandit.Source) *session.SQLStore {
	t.Helper()
	return session.NewSQLStore(SetupTestDB(t), db.SQLite, src)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		DatabaseType:   cliparse.DatabaseSQLite,
		DatabaseURL:    ":memory:",
		TokenBudget:    bandit.DefaultBudget,
		SessionKeySalt: "test-session-salt",
	}
}

// CreateTestSession opens a session directly in the store and returns its ID and key
func CreateTestSession(t *testing.T, store session.Store, cfg cliparse.Config, budget int) (sessionID, sessionKey string) {
	t.Helper()

	s, err := store.Create(context.Background(), budget, session.Meta{})
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return s.ID, auth.GenerateSessionKey(s.ID, cfg.SessionKeySalt)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
