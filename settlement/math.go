package settlement

import "math/bits"

// IntegerSqrt returns the largest s with s*s <= n, using Newton's method on
// integers only. No floating point is involved anywhere, so the result agrees
// with the on-chain fixed-point computation for every input.
func IntegerSqrt(n uint64) uint64 {
	if n < 2 {
		return n
	}
	// Initial guess: a power of two no smaller than the true root, so the
	// Newton iteration decreases monotonically onto the floor.
	x := uint64(1) << ((bits.Len64(n) + 1) / 2)
	for {
		y := (x + n/x) / 2
		if y >= x {
			return x
		}
		x = y
	}
}

// mulDiv computes floor(a*b/den) with a full 128-bit intermediate product, so
// pool values near the 64-bit ceiling never silently wrap. The denominator
// must be non-zero; the per-formula zero-denominator guards live at the call
// sites where the settlement rules define them.
func mulDiv(a, b, den uint64) (uint64, error) {
	if den == 0 {
		return 0, newError(KindInternal, "SETTLE-INT-001", "mulDiv: zero denominator")
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= den {
		return 0, newError(KindOverflow, "SETTLE-OVF-001", "mulDiv: quotient exceeds 64 bits")
	}
	q, _ := bits.Div64(hi, lo, den)
	return q, nil
}

// mulChecked computes a*b, failing instead of wrapping.
func mulChecked(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, newError(KindOverflow, "SETTLE-OVF-002", "product exceeds 64 bits")
	}
	return lo, nil
}

// addChecked computes a+b, failing instead of wrapping.
func addChecked(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, newError(KindOverflow, "SETTLE-OVF-003", "sum exceeds 64 bits")
	}
	return sum, nil
}
