package util

import (
	"math/rand"

	"github.com/seehuhn/mt19937"
)

// RNG struct encapsulates the random number generator and seed.
//
// The source is a Mersenne Twister so that a run is reproducible from the
// seed recorded in its state file: the sampler, the plus scheduler and the
// plus engine all draw from this single generator, and identical seeds
// replay identical searches.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	mt := mt19937.New()
	mt.Seed(seed)
	return &RNG{
		rand: rand.New(mt), // nolint gosec
		seed: seed,
	}
}

// Seed returns the seed the generator was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Uint32 returns the next 32-bit random word.
func (r *RNG) Uint32() uint32 {
	return r.rand.Uint32()
}

// Mod returns the next random word reduced mod n.
func (r *RNG) Mod(n int) int {
	return int(r.rand.Uint32() % uint32(n))
}
