// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bandit

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBudget = errors.New("token budget must be positive")
	ErrEmptyLedger   = errors.New("ledger has no rounds")
	ErrCorruptLedger = errors.New("ledger invariant violated")
)

const (
	// DefaultBudget is the number of tokens a new session starts with.
	DefaultBudget = 10
	// MaxBudget caps the tokens a session may be opened with.
	MaxBudget = 100
)

// Round is one ledger entry: the sentinel before any play, or one
// resolved play.
type Round struct {
	TokensRemaining int    `json:"tokens_remaining"`
	Source          Bandit `json:"source"`
	Payout          int    `json:"payout"`
	CumulativeTotal int    `json:"cumulative_total"`
}

// Ledger is the ordered round history of one session. Index 0 is the
// sentinel. A Ledger is a value: Play never modifies its input.
type Ledger []Round

// NewLedger returns a ledger holding only the sentinel round.
func NewLedger(budget int) (Ledger, error) {
	if budget <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBudget, budget)
	}
	return Ledger{{TokensRemaining: budget, Source: None}}, nil
}

// Play resolves one play of b against l.
//
// Once the budget is exhausted the ledger is returned unchanged with a nil
// error. An unknown bandit is a caller error.
func Play(l Ledger, b Bandit, src Source) (Ledger, error) {
	if len(l) == 0 {
		return l, ErrEmptyLedger
	}
	if !b.Valid() {
		return l, fmt.Errorf("%w: %s", ErrUnknownBandit, b)
	}

	prev := l.Latest()
	if prev.TokensRemaining == 0 {
		return l, nil
	}

	payout, err := Generate(b, src)
	if err != nil {
		return l, err
	}

	next := make(Ledger, len(l), len(l)+1)
	copy(next, l)
	return append(next, Round{
		TokensRemaining: prev.TokensRemaining - 1,
		Source:          b,
		Payout:          payout,
		CumulativeTotal: prev.CumulativeTotal + payout,
	}), nil
}

// Latest returns the most recent round, or the zero Round for an empty
// ledger.
func (l Ledger) Latest() Round {
	if len(l) == 0 {
		return Round{}
	}
	return l[len(l)-1]
}

// TokensRemaining is the unspent budget after the latest round.
func (l Ledger) TokensRemaining() int { return l.Latest().TokensRemaining }

// TotalProfit is the sum of every payout so far.
func (l Ledger) TotalProfit() int { return l.Latest().CumulativeTotal }

// Exhausted reports whether further plays are no-ops.
func (l Ledger) Exhausted() bool { return l.TokensRemaining() == 0 }

// Budget is the token count of the sentinel round.
func (l Ledger) Budget() int {
	if len(l) == 0 {
		return 0
	}
	return l[0].TokensRemaining
}

// Plays is the number of resolved plays, excluding the sentinel.
func (l Ledger) Plays() int {
	if len(l) == 0 {
		return 0
	}
	return len(l) - 1
}

// Verify checks every round-to-round invariant of l.
func Verify(l Ledger) error {
	if len(l) == 0 {
		return ErrEmptyLedger
	}
	s := l[0]
	if s.Source != None || s.Payout != 0 || s.CumulativeTotal != 0 || s.TokensRemaining <= 0 {
		return fmt.Errorf("%w: bad sentinel %+v", ErrCorruptLedger, s)
	}
	for i := 1; i < len(l); i++ {
		prev, cur := l[i-1], l[i]
		switch {
		case !cur.Source.Valid():
			return fmt.Errorf("%w: round %d has source %s", ErrCorruptLedger, i, cur.Source)
		case cur.Payout < 0:
			return fmt.Errorf("%w: round %d has negative payout", ErrCorruptLedger, i)
		case cur.TokensRemaining != prev.TokensRemaining-1 || cur.TokensRemaining < 0:
			return fmt.Errorf("%w: round %d tokens %d after %d", ErrCorruptLedger, i, cur.TokensRemaining, prev.TokensRemaining)
		case cur.CumulativeTotal != prev.CumulativeTotal+cur.Payout:
			return fmt.Errorf("%w: round %d total %d != %d+%d", ErrCorruptLedger, i, cur.CumulativeTotal, prev.CumulativeTotal, cur.Payout)
		}
	}
	return nil
}
