package ga

import "math/rand"

// rng wraps math/rand.Rand so every reproducibility-sensitive draw flows
// through one object, confined to the calling goroutine per §5: worker
// goroutines receive decoded chromosomes, never RNG state.
type rng struct {
	*rand.Rand
}

func newRNG(seed int64) *rng {
	return &rng{rand.New(rand.NewSource(seed))}
}

// intn returns a uniform int in [0, n), panicking behavior avoided by the
// n<=0 guard (callers never pass a zero-width domain in practice, but a
// zero-length rate alphabet is caught at validation time, not here).
func (r *rng) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.Intn(n)
}
