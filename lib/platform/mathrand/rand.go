package mathrand

import (
	"math/rand"

	"example.com/swarmpolicy/lib/core/adapter/random"
)

// New returns a deterministic source; equal seeds give equal decisions.
func New(seed int64) random.Rand {
	return rand.New(rand.NewSource(seed))
}
