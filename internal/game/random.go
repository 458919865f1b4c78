package game

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type pcgSource struct {
	r *rand.Rand
}

func (s *pcgSource) Float64() float64 { return s.r.Float64() }

// NewSeededRNG returns a deterministic source; equal seeds replay equal encounters.
func NewSeededRNG(seed int64) RandomSource {
	// Non-cryptographic PRNG is intentional for deterministic simulation behavior.
	// #nosec G404
	return &pcgSource{r: rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))}
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// bernoulli draws true with probability p. p <= 0 never hits, p >= 1 always hits.
func bernoulli(p float64, rng RandomSource) bool {
	if math.IsNaN(p) || p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}

func uniform(rng RandomSource, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

func uniformDuration(rng RandomSource, lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rng.Float64()*float64(hi-lo))
}

func intn(rng RandomSource, n int) int {
	if n <= 1 {
		return 0
	}
	v := int(rng.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
