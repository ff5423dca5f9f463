// Package rng provides domain.RNG sources backed by math/rand/v2.
package rng

import (
	"math/rand/v2"
	"sync"
)

// Std delegates to the auto-seeded global math/rand/v2 source.
type Std struct{}

func (Std) Intn(n int) int { return rand.IntN(n) }

// Seeded is a deterministic source. It is safe for concurrent use.
type Seeded struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeeded creates a PCG-backed source from seed.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

func (s *Seeded) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}
