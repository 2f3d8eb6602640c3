package core

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Draw is one random sample consumed by a corruption. R lies in [0, 1);
// Seed is the raw value R was derived from and feeds the oscillatory
// strategy.
type Draw struct {
	Seed int64
	R    float64
}

// Source produces the draws used to corrupt results.
//
// Implementations must be safe for concurrent use: the HTTP service shares
// one Source between all sessions.
type Source interface {
	Draw() Draw
}

// ClockSource seeds every draw from the wall clock in milliseconds. Two
// draws inside the same millisecond are identical.
type ClockSource struct {
	// Now defaults to time.Now.
	Now func() time.Time
}

func (c ClockSource) Draw() Draw {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return DrawFromSeed(now().UnixMilli())
}

// DrawFromSeed derives R as the fractional part of sin(seed)*10000.
func DrawFromSeed(seed int64) Draw {
	x := math.Sin(float64(seed)) * 10000
	return Draw{Seed: seed, R: normalizeR(x - math.Floor(x))}
}

// SeededSource is a reproducible Source backed by a PCG generator.
type SeededSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSeededSource(seed uint64) *SeededSource {
	return &SeededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *SeededSource) Draw() Draw {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Draw{Seed: s.rng.Int64(), R: s.rng.Float64()}
}

// FixedSource returns the same draw forever.
type FixedSource Draw

func (f FixedSource) Draw() Draw {
	return Draw{Seed: f.Seed, R: normalizeR(f.R)}
}

// normalizeR folds any value into [0, 1).
func normalizeR(r float64) float64 {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	r -= math.Floor(r)
	if r >= 1 {
		return 0
	}
	return r
}
