package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-autotalent/internal/testutil"
)

func TestNewShifterValidation(t *testing.T) {
	for _, n := range []int{0, 100, 128, 3000} {
		if _, err := NewShifter(n); err == nil {
			t.Fatalf("expected error for frame size %d", n)
		}
	}
}

func TestShifterUnityRatioIsDelay(t *testing.T) {
	s, err := NewShifter(1024)
	if err != nil {
		t.Fatal(err)
	}
	s.SetInputPeriod(97.3)

	in := testutil.DeterministicNoise(3, 0.5, 8192)
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = s.ProcessSample(x)
	}

	lat := s.Latency()
	for i := lat; i < len(in); i++ {
		if math.Abs(out[i]-in[i-lat]) > 1e-9 {
			t.Fatalf("out[%d] = %v, want in[%d] = %v", i, out[i], i-lat, in[i-lat])
		}
	}
}

func TestShifterSilenceStaysSilent(t *testing.T) {
	s, err := NewShifter(2048)
	if err != nil {
		t.Fatal(err)
	}
	s.SetInputPeriod(150)
	s.SetRatio(1.3)

	buf := make([]float64, 10000)
	s.Process(buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestShifterShiftsPitch(t *testing.T) {
	const sampleRate = 44100.0

	tests := []struct {
		name      string
		freq      float64
		semitones float64
	}{
		{name: "up minor third", freq: 220, semitones: 3},
		{name: "down whole tone", freq: 330, semitones: -2},
		{name: "up fifth", freq: 146.83, semitones: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewShifter(2048)
			if err != nil {
				t.Fatal(err)
			}
			s.SetInputPeriod(sampleRate / tt.freq)
			s.SetSemitones(tt.semitones)

			buf := testutil.HarmonicTone(tt.freq, sampleRate, 0.5, 6, 16384)
			s.Process(buf)
			testutil.RequireFinite(t, buf)

			got := testutil.EstimateFrequency(buf[8192:], sampleRate, 60, 1000)
			want := tt.freq * math.Exp2(tt.semitones/12)
			testutil.RequireCentsWithin(t, got, want, 10)
		})
	}
}

func TestShifterRatioClamp(t *testing.T) {
	s, err := NewShifter(1024)
	if err != nil {
		t.Fatal(err)
	}

	s.SetRatio(10)
	if s.Ratio() != maxShifterRatio {
		t.Fatalf("Ratio() = %v, want %v", s.Ratio(), maxShifterRatio)
	}
	s.SetRatio(0.01)
	if s.Ratio() != minShifterRatio {
		t.Fatalf("Ratio() = %v, want %v", s.Ratio(), minShifterRatio)
	}
	s.SetRatio(math.NaN())
	if s.Ratio() != minShifterRatio {
		t.Fatal("NaN ratio should be ignored")
	}

	s.SetInputPeriod(5000)
	if s.InputPeriod() != float64(s.FrameSize()/2-1) {
		t.Fatalf("InputPeriod() = %v, want clamp to %d", s.InputPeriod(), s.FrameSize()/2-1)
	}
}

func TestShifterResetIsDeterministic(t *testing.T) {
	s, err := NewShifter(1024)
	if err != nil {
		t.Fatal(err)
	}
	s.SetInputPeriod(120)
	s.SetRatio(1.2)

	in := testutil.HarmonicTone(367, 44100, 0.5, 4, 4096)

	first := append([]float64(nil), in...)
	s.Process(first)
	s.Reset()
	second := append([]float64(nil), in...)
	s.Process(second)

	testutil.RequireSliceNearlyEqual(t, second, first, 0)
}
