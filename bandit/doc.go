// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package bandit implements the three-armed bandit game: the reward
generators and the session ledger they feed.

# Generators

Each bandit is a two-outcome Policy applied to one uniform draw:

	bandit1: 13 with probability 0.2, else 2   (mean 4.2)
	bandit2:  5 with probability 0.5, else 3   (mean 4.0)
	bandit3: 45 with probability 0.1, else 0   (mean 4.5)

Draws come from an injected Source, so tests can force outcomes:

	payout, err := bandit.Generate(bandit.Bandit1, bandit.NewFixed(0.85)) // 13

# Ledger

A Ledger starts with one sentinel Round and grows by one Round per
accepted play:

	l, _ := bandit.NewLedger(bandit.DefaultBudget)
	l, err := bandit.Play(l, bandit.Bandit2, src)

Play never modifies its input. Once tokens run out it returns the ledger
unchanged and a nil error; an unknown bandit returns ErrUnknownBandit.

# Projections

Latest, TokensRemaining, TotalProfit, Series, Bounds and Tally are pure
reads of a ledger for display.
*/
package bandit
