package world

import (
	crand "crypto/rand"
	"encoding/binary"
	"log/slog"
	"math/rand/v2"
)

// Rand is the source of randomness for weather and encounter draws.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// NewRand returns a PCG-backed Rand. A zero seed is replaced with one read
// from crypto/rand.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = randomSeed()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func randomSeed() uint64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		slog.Warn("reading random seed, falling back to fixed seed", "error", err)
		return 1
	}
	return binary.LittleEndian.Uint64(b[:])
}
