package types

import "math/rand"

// Rand is the random source every jitter/selection step draws from.
// Production wiring uses NewRand with a time seed; tests inject a fixed
// seed (or a stub) to make selection deterministic.
type Rand interface {
	// Float64 returns the next value in [0, 1).
	Float64() float64
	// Intn returns a uniform value in [0, n). n must be > 0.
	Intn(n int) int
}

type mathRand struct {
	r *rand.Rand
}

// NewRand returns a Rand backed by math/rand with the given seed.
func NewRand(seed int64) Rand {
	return &mathRand{r: rand.New(rand.NewSource(seed))}
}

func (m *mathRand) Float64() float64 { return m.r.Float64() }
func (m *mathRand) Intn(n int) int   { return m.r.Intn(n) }
