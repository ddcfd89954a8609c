// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bandit

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyPay(t *testing.T) {
	tests := []struct {
		name   string
		bandit Bandit
		draw   float64
		want   int
	}{
		{"bandit1 low", Bandit1, 0.0, 2},
		{"bandit1 just below threshold", Bandit1, 0.7999, 2},
		{"bandit1 at threshold", Bandit1, 0.8, 13},
		{"bandit1 high", Bandit1, 0.85, 13},
		{"bandit2 low", Bandit2, 0.49, 3},
		{"bandit2 at threshold", Bandit2, 0.5, 5},
		{"bandit3 low", Bandit3, 0.89, 0},
		{"bandit3 at threshold", Bandit3, 0.9, 45},
		{"bandit3 top of range", Bandit3, 0.9999, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.bandit, NewFixed(tt.draw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpectedValues(t *testing.T) {
	want := map[Bandit]float64{
		Bandit1: 4.2,
		Bandit2: 4.0,
		Bandit3: 4.5,
	}
	for b, ev := range want {
		p, err := PolicyFor(b)
		require.NoError(t, err)
		assert.InDelta(t, ev, p.ExpectedValue(), 1e-9, b.String())
	}
}

func TestGenerateUnknownBandit(t *testing.T) {
	for _, b := range []Bandit{None, Bandit(4), Bandit(-1)} {
		_, err := Generate(b, NewFixed(0.5))
		assert.True(t, errors.Is(err, ErrUnknownBandit), "bandit %d", int(b))
	}
}

func TestGeneratorFrequencies(t *testing.T) {
	const samples = 100_000
	src := NewSeededSource(42)

	for _, b := range All {
		t.Run(b.String(), func(t *testing.T) {
			p, err := PolicyFor(b)
			require.NoError(t, err)

			high, sum := 0, 0
			for range samples {
				v, err := Generate(b, src)
				require.NoError(t, err)
				switch v {
				case p.High:
					high++
				case p.Low:
				default:
					t.Fatalf("payout %d is neither %d nor %d", v, p.High, p.Low)
				}
				sum += v
			}

			assert.InDelta(t, p.HighProbability(), float64(high)/samples, 0.01)
			assert.InDelta(t, p.ExpectedValue(), float64(sum)/samples, 0.25)
		})
	}
}

// Draws from one bandit must not shift another's outcomes.
func TestGeneratorsIndependent(t *testing.T) {
	src := NewFixed(0.85, 0.85, 0.85)
	a, _ := Generate(Bandit1, src)
	b, _ := Generate(Bandit2, src)
	c, _ := Generate(Bandit3, src)
	assert.Equal(t, []int{13, 5, 0}, []int{a, b, c})
}

func TestParse(t *testing.T) {
	for _, b := range append([]Bandit{None}, All...) {
		got, err := Parse(b.String())
		require.NoError(t, err)
		assert.Equal(t, b, got)
	}

	_, err := Parse("bandit9")
	assert.ErrorIs(t, err, ErrUnknownBandit)
}

func TestBanditJSON(t *testing.T) {
	raw, err := json.Marshal(Round{TokensRemaining: 9, Source: Bandit1, Payout: 13, CumulativeTotal: 13})
	require.NoError(t, err)
	assert.JSONEq(t, `{"tokens_remaining":9,"source":"bandit1","payout":13,"cumulative_total":13}`, string(raw))

	var req struct {
		Bandit Bandit `json:"bandit"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"bandit":"lever"}`), &req))
}

func TestLabels(t *testing.T) {
	for _, b := range All {
		assert.NotEmpty(t, b.Label())
	}
	assert.Empty(t, None.Label())
}
