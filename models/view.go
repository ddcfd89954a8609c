package models

import (
	"time"

	"github.com/danielhkuo/bandit-demo/bandit"
)

// NewSessionView projects a ledger into its API representation
func NewSessionView(id string, createdAt, lastActiveAt time.Time, l bandit.Ledger) SessionView {
	latest := l.Latest()
	return SessionView{
		SessionID:    id,
		CreatedAt:    createdAt,
		LastActiveAt: lastActiveAt,
		Summary: Summary{
			TokensRemaining: latest.TokensRemaining,
			TotalProfit:     latest.CumulativeTotal,
			LastBandit:      latest.Source,
			LastPayout:      latest.Payout,
			Plays:           l.Plays(),
			Exhausted:       l.Exhausted(),
		},
		Rounds: l,
		Series: l.Series(),
		Bounds: l.Bounds(),
		Tally:  l.Tally(),
	}
}

// Catalogue lists every playable bandit with its caption
func Catalogue() []BanditInfo {
	out := make([]BanditInfo, 0, len(bandit.All))
	for _, b := range bandit.All {
		out = append(out, BanditInfo{ID: b, Label: b.Label()})
	}
	return out
}
