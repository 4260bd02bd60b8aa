package tuning

import "math/rand"

// Stream is the sole source of randomness for a search run. Every component
// that needs a sample draws it here, in a fixed call order, so that a seed
// fully determines the run.
type Stream struct {
	rng *rand.Rand
}

// NewStream returns a deterministic stream seeded with seed.
func NewStream(seed int64) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(seed))}
}

// Uniform returns a sample from the half-open interval [lo, hi).
func (s *Stream) Uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}
