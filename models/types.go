package models

import (
	"time"

	"github.com/danielhkuo/bandit-demo/bandit"
)

// Request types

// TokenBudget is optional; zero means the server default.
type CreateSessionRequest struct {
	TokenBudget int `json:"token_budget"`
}

type PlayRequest struct {
	Bandit string `json:"bandit"`
}

// Response types

type BanditInfo struct {
	ID    bandit.Bandit `json:"id"`
	Label string        `json:"label"`
}

type ListBanditsResponse struct {
	Bandits []BanditInfo `json:"bandits"`
}

// Summary holds the display values derived from the latest round
type Summary struct {
	TokensRemaining int           `json:"tokens_remaining"`
	TotalProfit     int           `json:"total_profit"`
	LastBandit      bandit.Bandit `json:"last_bandit"`
	LastPayout      int           `json:"last_payout"`
	Plays           int           `json:"plays"`
	Exhausted       bool          `json:"exhausted"`
}

type SessionView struct {
	SessionID    string             `json:"session_id"`
	CreatedAt    time.Time          `json:"created_at"`
	LastActiveAt time.Time          `json:"last_active_at"`
	Summary      Summary            `json:"summary"`
	Rounds       []bandit.Round     `json:"rounds"`
	Series       []bandit.Point     `json:"series"`
	Bounds       bandit.ChartBounds `json:"bounds"`
	Tally        []bandit.Tally     `json:"tally"`
}

type CreateSessionResponse struct {
	SessionKey string `json:"session_key"`
	SessionView
}

type PlayResponse struct {
	Played bool `json:"played"`
	SessionView
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
