package ports

import (
	"math/rand/v2"
)

// RNGPort provides seeded random number generation for deterministic operations.
// Every (seed, variable, draw) triple maps to its own independent stream, so
// draws can be generated in any order or in parallel with identical output.
type RNGPort interface {
	DrawStream(seed int64, variable, draw int) *rand.Rand
}
