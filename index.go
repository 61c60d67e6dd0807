package hoteldash

import (
	"math/rand/v2"
	"strconv"
)

// auditIndexRange is the exclusive upper bound of a sampled audit index.
const auditIndexRange = 100

// IndexSource supplies the random sample index for audit requests.
//
// IntN returns a value in [0, n). A panel calls it once per poll, from a
// single goroutine, so implementations need not be safe for concurrent use.
// *rand.Rand from math/rand/v2 satisfies IndexSource.
type IndexSource interface {
	IntN(n int) int
}

// IndexFunc adapts an ordinary function to [IndexSource].
//
// Example, always sampling index 42:
//
//	hoteldash.WithIndexSource(hoteldash.IndexFunc(func(int) int { return 42 }))
type IndexFunc func(n int) int

// IntN calls f(n).
func (f IndexFunc) IntN(n int) int {
	return f(n)
}

// newIndexSource returns an independently seeded source for one panel.
func newIndexSource() IndexSource {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// drawIndex draws one audit index from src. Out-of-range values are wrapped
// into [0, auditIndexRange).
func drawIndex(src IndexSource) string {
	n := src.IntN(auditIndexRange)
	if n < 0 || n >= auditIndexRange {
		n = ((n % auditIndexRange) + auditIndexRange) % auditIndexRange
	}
	return strconv.Itoa(n)
}
