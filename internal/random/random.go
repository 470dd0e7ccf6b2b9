// Package random is the randomness seam for gameplay: dice, question picks
// and hint eliminations all draw from a Source so tests can be deterministic.
package random

import "math/rand"

// Source provides a non-negative random int in [0, n).
//
// Implementations must be safe for use from the session goroutine only;
// gameplay is single-actor so no locking is required.
type Source interface {
	Intn(n int) int
}

// New returns a Source seeded from the provided seed.
func New(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}

// Die rolls a standard six-sided die.
func Die(src Source) int {
	return src.Intn(6) + 1
}

// Fixed is a Source replaying a scripted sequence, for tests. Once the
// sequence is exhausted it returns zero.
type Fixed struct {
	Values []int
	idx    int
}

func (f *Fixed) Intn(n int) int {
	if f.idx >= len(f.Values) {
		return 0
	}
	v := f.Values[f.idx] % n
	f.idx++
	return v
}
