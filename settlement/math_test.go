package settlement

import (
	"math"
	"testing"
)

func checkSqrtInvariant(t *testing.T, n uint64) {
	t.Helper()
	s := IntegerSqrt(n)
	if s*s > n {
		t.Fatalf("IntegerSqrt(%d) = %d: square exceeds input", n, s)
	}
	// (s+1)^2 can wrap for huge n; compare via division instead.
	if (s+1) <= n/(s+1) {
		t.Fatalf("IntegerSqrt(%d) = %d: not the floor root", n, s)
	}
}

func TestIntegerSqrt_Invariant(t *testing.T) {
	for n := uint64(0); n <= 1<<16; n++ {
		checkSqrtInvariant(t, n)
	}
	// Stride across the full [0, 1e9] display domain.
	for n := uint64(0); n <= 1_000_000_000; n += 999_983 {
		checkSqrtInvariant(t, n)
	}
	// Perfect squares and their neighbors.
	for _, r := range []uint64{1, 2, 1000, 7071, 7072, 10000, 31623, 3_037_000_499} {
		sq := r * r
		checkSqrtInvariant(t, sq-1)
		checkSqrtInvariant(t, sq)
		checkSqrtInvariant(t, sq+1)
	}
	for _, n := range []uint64{math.MaxInt64, math.MaxUint64, math.MaxUint64 - 1} {
		checkSqrtInvariant(t, n)
	}
}

func TestIntegerSqrt_KnownValues(t *testing.T) {
	cases := []struct{ in, want uint64 }{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 2},
		{25_000_000, 5000},
		{50_000_000, 7071},
		{100_000_000, 10000},
	}
	for _, c := range cases {
		if got := IntegerSqrt(c.in); got != c.want {
			t.Errorf("IntegerSqrt(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestMulDiv_WideIntermediate(t *testing.T) {
	// The product is 2^124: far beyond 64 bits, but the quotient fits.
	got, err := mulDiv(1<<62, 1<<62, 1<<62)
	if err != nil {
		t.Fatalf("mulDiv: %v", err)
	}
	if got != 1<<62 {
		t.Fatalf("mulDiv = %d, want %d", got, uint64(1)<<62)
	}
}

func TestMulDiv_QuotientOverflowFails(t *testing.T) {
	_, err := mulDiv(math.MaxUint64, 4, 2)
	if err == nil {
		t.Fatal("expected overflow error")
	}
	if !IsKind(err, KindOverflow) {
		t.Fatalf("expected KindOverflow, got %v", err)
	}
}

func TestMulDiv_ZeroDenominatorFails(t *testing.T) {
	_, err := mulDiv(1, 1, 0)
	if err == nil {
		t.Fatal("expected error for zero denominator")
	}
	if !IsKind(err, KindInternal) {
		t.Fatalf("expected KindInternal, got %v", err)
	}
}

func TestMulChecked(t *testing.T) {
	got, err := mulChecked(1<<31, 1<<31)
	if err != nil {
		t.Fatalf("mulChecked: %v", err)
	}
	if got != 1<<62 {
		t.Fatalf("mulChecked = %d, want %d", got, uint64(1)<<62)
	}
	if _, err := mulChecked(1<<32, 1<<32); err == nil {
		t.Fatal("expected overflow error")
	}
}
