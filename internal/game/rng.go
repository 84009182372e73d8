package game

import (
	"math/rand/v2"
)

// RandomSource is the randomness the engine consumes: wheel draws and
// question sampling. Injectable so tests can fix outcomes.
type RandomSource interface {
	IntN(n int) int
}

type defaultSource struct{}

func (defaultSource) IntN(n int) int { return rand.IntN(n) }

// DefaultRNG returns the process-wide random source.
func DefaultRNG() RandomSource { return defaultSource{} }

type seededSource struct {
	r *rand.Rand
}

// NewSeededRNG returns a reproducible source for tests.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededSource{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededSource) IntN(n int) int { return s.r.IntN(n) }

// sampleIDs picks count ids without replacement, uniformly.
// The candidate slice is reordered in place.
func sampleIDs(rng RandomSource, ids []uint, count int) []uint {
	for i := 0; i < count; i++ {
		j := i + rng.IntN(len(ids)-i)
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids[:count]
}
