package rng

import (
	"math/rand/v2"

	"gosppt/ports"
)

// PCGAdapter derives one PCG stream per (seed, variable, draw). The triple is
// mixed with splitmix64 so neighbouring draw indices land on unrelated states.
type PCGAdapter struct{}

// NewPCGAdapter returns the production RNGPort.
func NewPCGAdapter() ports.RNGPort {
	return PCGAdapter{}
}

// DrawStream implements ports.RNGPort.
func (PCGAdapter) DrawStream(seed int64, variable, draw int) *rand.Rand {
	// variable offsets the seed exactly like seed + i in the per-variable loop
	base := uint64(seed) + uint64(variable)
	hi := splitmix64(base)
	lo := splitmix64(hi ^ splitmix64(uint64(draw)+0x632be59bd9b4e019))
	return rand.New(rand.NewPCG(hi, lo))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
