package random

// Rand is the randomness a policy is allowed to use. *math/rand.Rand
// satisfies it, so a seeded source makes every decision reproducible.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}
