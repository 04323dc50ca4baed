package level

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-autotalent/internal/testutil"
)

func TestMeterEmpty(t *testing.T) {
	var m Meter
	s := m.Result()
	if s.Samples != 0 || !math.IsInf(s.RMSdB, -1) || !math.IsInf(s.PeakdB, -1) {
		t.Fatalf("empty Result() = %+v", s)
	}
}

func TestMeterSine(t *testing.T) {
	var m Meter
	x := testutil.DeterministicSine(1000, 48000, 0.5, 48000)
	m.Update(x[:1000])
	m.Update(x[1000:])

	s := m.Result()
	if s.Samples != 48000 {
		t.Fatalf("Samples = %d", s.Samples)
	}
	if math.Abs(s.RMS-0.5/math.Sqrt2) > 1e-6 {
		t.Fatalf("RMS = %v", s.RMS)
	}
	if math.Abs(s.Peak-0.5) > 1e-6 {
		t.Fatalf("Peak = %v", s.Peak)
	}
	if math.Abs(s.PeakdB-20*math.Log10(0.5)) > 1e-4 {
		t.Fatalf("PeakdB = %v", s.PeakdB)
	}
	if math.Abs(s.CrestFactor-math.Sqrt2) > 1e-4 {
		t.Fatalf("CrestFactor = %v", s.CrestFactor)
	}
	if math.Abs(s.DC) > 1e-9 {
		t.Fatalf("DC = %v", s.DC)
	}
	// 1000 cycles, two crossings each, minus the exact zero samples.
	if s.ZeroCrossings < 1990 || s.ZeroCrossings > 2000 {
		t.Fatalf("ZeroCrossings = %d", s.ZeroCrossings)
	}
}

func TestMeterClippedAndReset(t *testing.T) {
	var m Meter
	m.Update([]float64{1, -1, 1, -1})
	m.AddClipped(2)
	m.AddClipped(-5)

	s := m.Result()
	if s.Clipped != 2 || s.ZeroCrossings != 3 {
		t.Fatalf("Result() = %+v", s)
	}

	m.Reset()
	if m.Result().Samples != 0 || m.Result().Clipped != 0 {
		t.Fatal("Reset did not clear meter")
	}
}
