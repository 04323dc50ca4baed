package interp

import "testing"

func TestHermite4IdentityOnLinearRamp(t *testing.T) {
	xm1, x0, x1, x2 := -1.0, 0.0, 1.0, 2.0
	for _, tc := range []struct {
		t float64
		w float64
	}{
		{t: 0.0, w: 0.0},
		{t: 0.25, w: 0.25},
		{t: 0.5, w: 0.5},
		{t: 1.0, w: 1.0},
	} {
		got := Hermite4(tc.t, xm1, x0, x1, x2)
		if diff := got - tc.w; diff < -1e-12 || diff > 1e-12 {
			t.Fatalf("t=%v: got %v want %v", tc.t, got, tc.w)
		}
	}
}

func TestHermiteAtClampsEdges(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	if got := HermiteAt(x, 1.5); got != 1.5 {
		t.Fatalf("HermiteAt(1.5) = %v, want 1.5", got)
	}
	if got := HermiteAt(x, -3); got != 0 {
		t.Fatalf("HermiteAt(-3) = %v, want 0", got)
	}
	if got := HermiteAt(x, 10); got != 3 {
		t.Fatalf("HermiteAt(10) = %v, want 3", got)
	}
	if got := HermiteAt(nil, 1); got != 0 {
		t.Fatalf("HermiteAt(nil) = %v, want 0", got)
	}
}

func TestLinear2(t *testing.T) {
	if got := Linear2(0.25, 2, 4); got != 2.5 {
		t.Fatalf("Linear2 got %v want 2.5", got)
	}
}

func TestParabolic(t *testing.T) {
	// y = -(x-0.25)^2 sampled at -1, 0, 1.
	f := func(x float64) float64 { return -(x - 0.25) * (x - 0.25) }
	got := Parabolic(f(-1), f(0), f(1))
	if diff := got - 0.25; diff < -1e-12 || diff > 1e-12 {
		t.Fatalf("Parabolic vertex = %v, want 0.25", got)
	}
	if Parabolic(1, 1, 1) != 0 {
		t.Fatal("flat triple should return 0")
	}
}
