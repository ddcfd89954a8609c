// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bandit

import (
	"errors"
	"fmt"
)

// ErrUnknownBandit is returned for a bandit outside All.
var ErrUnknownBandit = errors.New("unknown bandit")

// Bandit identifies one reward generator. None marks the sentinel round.
type Bandit int

const (
	None Bandit = iota
	Bandit1
	Bandit2
	Bandit3
)

// All lists the playable bandits in display order.
var All = []Bandit{Bandit1, Bandit2, Bandit3}

// Policy is a two-outcome payout rule: a draw at or above Threshold pays
// High, anything below pays Low.
type Policy struct {
	Threshold float64
	High      int
	Low       int
}

// Pay maps one uniform draw in [0,1) to a payout.
func (p Policy) Pay(r float64) int {
	if r >= p.Threshold {
		return p.High
	}
	return p.Low
}

// HighProbability is the chance of the High payout.
func (p Policy) HighProbability() float64 {
	return 1 - p.Threshold
}

// ExpectedValue is the mean payout per play.
func (p Policy) ExpectedValue() float64 {
	return p.HighProbability()*float64(p.High) + p.Threshold*float64(p.Low)
}

var policies = map[Bandit]Policy{
	// 13 w.p. 0.2, else 2. E = 4.2
	Bandit1: {Threshold: 0.8, High: 13, Low: 2},
	// 5 w.p. 0.5, else 3. E = 4.0
	Bandit2: {Threshold: 0.5, High: 5, Low: 3},
	// 45 w.p. 0.1, else 0. E = 4.5
	Bandit3: {Threshold: 0.9, High: 45, Low: 0},
}

var labels = map[Bandit]string{
	Bandit1: `No dream is ever just a dream`,
	Bandit2: `Initiative comes to thems that wait`,
	Bandit3: `Here's Johnny!`,
}

var names = map[Bandit]string{
	None:    "none",
	Bandit1: "bandit1",
	Bandit2: "bandit2",
	Bandit3: "bandit3",
}

// PolicyFor returns the payout rule of a playable bandit.
func PolicyFor(b Bandit) (Policy, error) {
	p, ok := policies[b]
	if !ok {
		return Policy{}, fmt.Errorf("%w: %d", ErrUnknownBandit, int(b))
	}
	return p, nil
}

// Generate draws one sample from src and returns b's payout for it.
func Generate(b Bandit, src Source) (int, error) {
	p, err := PolicyFor(b)
	if err != nil {
		return 0, err
	}
	return p.Pay(src.Float64()), nil
}

// Valid reports whether b is a playable bandit.
func (b Bandit) Valid() bool {
	_, ok := policies[b]
	return ok
}

// Label is the caption shown on the bandit's button.
func (b Bandit) Label() string {
	return labels[b]
}

func (b Bandit) String() string {
	if n, ok := names[b]; ok {
		return n
	}
	return fmt.Sprintf("bandit(%d)", int(b))
}

// Parse converts a wire name such as "bandit2" into a Bandit.
// "none" parses to None so stored sentinel rounds round-trip.
func Parse(s string) (Bandit, error) {
	for b, n := range names {
		if n == s {
			return b, nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownBandit, s)
}

// MarshalText encodes the bandit by name.
func (b Bandit) MarshalText() ([]byte, error) {
	if _, ok := names[b]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownBandit, int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText decodes a bandit name.
func (b *Bandit) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
