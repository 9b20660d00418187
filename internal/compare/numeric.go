// Package compare holds the value comparison primitives behind the cut assertions.
//
// Every function is pure: it reports whether the values match and a message that
// is printed next to the assertion location. Mismatch messages start with a newline
// so that the proper/actual block lines up under the "file:line: FAIL" prefix.
package compare

import "fmt"

// Epsilon is the default relative tolerance for floating point comparisons.
const Epsilon = 1e-6

// IntIn reports whether actual lies in [lo, hi). When lo == hi the range
// degenerates to an exact match.
func IntIn(lo, hi, actual int64) (bool, string) {
	if lo == hi {
		return lo == actual, fmt.Sprintf("\n  Proper: %10d (0x%08X)\n  Actual: %10d (0x%08X)",
			lo, uint64(lo), actual, uint64(actual))
	}

	ok := lo <= actual && actual < hi
	return ok, fmt.Sprintf("\n  Lower:  %10d (0x%08X)\n  Actual: %10d (0x%08X)\n  Upper:  %10d (0x%08X)",
		lo, uint64(lo), actual, uint64(actual), hi, uint64(hi))
}

// Int is an exact integer comparison.
func Int(proper, actual int64) (bool, string) {
	return IntIn(proper, proper, actual)
}

// DoubleIn reports whether actual lies in [lo, hi), or equals lo when lo == hi.
func DoubleIn(lo, hi, actual float64) (bool, string) {
	if lo == hi {
		return lo == actual, fmt.Sprintf("\n  Proper: %18.15E (%g)\n  Actual: %18.15E (%g)",
			lo, lo, actual, actual)
	}

	ok := lo <= actual && actual < hi
	return ok, fmt.Sprintf("\n  Lower:  %18.15E (%g)\n  Actual: %18.15E (%g)\n  Upper:  %18.15E (%g)",
		lo, lo, actual, actual, hi, hi)
}

// NearRange returns the half-open range proper*(1-eps) .. proper*(1+eps).
// The bounds are ordered so that a negative proper value still yields lo <= hi.
func NearRange(proper, eps float64) (lo, hi float64) {
	lo = proper * (1 - eps)
	hi = proper * (1 + eps)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// DoubleNear compares actual against proper with a relative tolerance.
func DoubleNear(proper, actual, eps float64) (bool, string) {
	lo, hi := NearRange(proper, eps)
	return DoubleIn(lo, hi, actual)
}
