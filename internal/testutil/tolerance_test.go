package testutil

import (
	"math"
	"testing"
)

func TestCents(t *testing.T) {
	if c := Cents(880, 440); math.Abs(c-1200) > 1e-9 {
		t.Fatalf("Cents(880, 440) = %v, want 1200", c)
	}
	if c := Cents(440, 440); c != 0 {
		t.Fatalf("Cents(440, 440) = %v, want 0", c)
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Fatalf("RMS(nil) = %v, want 0", got)
	}

	x := DeterministicSine(1000, 48000, 1, 48000)
	if got := RMS(x); math.Abs(got-1/math.Sqrt2) > 1e-6 {
		t.Fatalf("RMS(sine) = %v, want %v", got, 1/math.Sqrt2)
	}
}

func TestRequireSliceNearlyEqualPasses(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2}, []float64{1, 2.0000001}, 1e-6)
}
