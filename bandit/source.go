// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package bandit

import (
	"math/rand/v2"
	"sync"
)

// Source produces uniform draws in [0,1). Implementations handed to a
// session store must be safe for concurrent use.
type Source interface {
	Float64() float64
}

type systemSource struct{}

func (systemSource) Float64() float64 { return rand.Float64() }

// SystemSource draws from the runtime's global generator.
func SystemSource() Source { return systemSource{} }

type seededSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededSource returns a reproducible source. Safe for concurrent use.
func NewSeededSource(seed uint64) Source {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Fixed replays a list of draws in order, cycling when exhausted.
// Used to force outcomes in tests.
type Fixed struct {
	mu    sync.Mutex
	draws []float64
	next  int
}

// NewFixed returns a source yielding draws in order. With no draws it
// always yields 0.
func NewFixed(draws ...float64) *Fixed {
	if len(draws) == 0 {
		draws = []float64{0}
	}
	return &Fixed{draws: draws}
}

func (f *Fixed) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.draws[f.next%len(f.draws)]
	f.next++
	return v
}
