package engine

// MSRand reproduces the Microsoft C runtime rand() generator that the
// original FreeCell deal numbering is defined against. The constants are a
// compatibility contract: changing them changes every numbered deal.
type MSRand struct {
	seed uint32
}

// NewMSRand creates a generator seeded with the given deal number.
// Seeding is total over the full uint32 domain; range validation is the
// caller's responsibility.
func NewMSRand(seed uint32) *MSRand {
	return &MSRand{seed: seed}
}

// Next advances the linear congruential state and returns the next
// 15-bit value in [0, 32767].
func (r *MSRand) Next() int {
	r.seed = r.seed*214013 + 2531011
	return int((r.seed >> 16) & 0x7FFF)
}

// Intn returns a value in [0, n) drawn from the generator, matching the
// classic `rand() % n` idiom the deal algorithm uses. n must be positive.
func (r *MSRand) Intn(n int) int {
	return r.Next() % n
}

// Seq generates the first count values for a seed. Convenience for golden
// tests and debug tooling.
func Seq(seed uint32, count int) []int {
	rng := NewMSRand(seed)
	out := make([]int, count)
	for i := range out {
		out[i] = rng.Next()
	}
	return out
}
