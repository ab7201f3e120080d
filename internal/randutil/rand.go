// Package randutil centralises how the engine and its harnesses obtain
// random number generators, so every call site can be made reproducible.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// New returns a *rand.Rand seeded deterministically from the provided int64.
// The two 64-bit PCG seeds are derived with a splitmix step so nearby seeds
// still produce unrelated streams.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewTimeSeeded returns a generator seeded from the wall clock along with the
// seed used, so callers can log it and reproduce the run later.
func NewTimeSeeded() (*rand.Rand, int64) {
	seed := time.Now().UnixNano()
	return New(seed), seed
}

// SeedFor derives the seed of the i-th independent stream of a run.
func SeedFor(base int64, i int) int64 {
	return int64(mix(uint64(base) + uint64(i)*goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
