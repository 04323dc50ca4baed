package formant

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-autotalent/dsp/spectrum"
	"github.com/cwbudde/algo-autotalent/internal/testutil"
)

func TestLPCFirstOrderProcess(t *testing.T) {
	acf := []float64{1, 0.9, 0.81, 0.729}
	c, err := LPC(acf, 3)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireSliceNearlyEqual(t, c.K, []float64{-0.9, 0, 0}, 1e-12)
	testutil.RequireSliceNearlyEqual(t, c.A, []float64{1, -0.9, 0, 0}, 1e-12)
	if math.Abs(c.Err-0.19) > 1e-12 {
		t.Fatalf("Err = %v, want 0.19", c.Err)
	}
}

func TestLPCValidation(t *testing.T) {
	if _, err := LPC([]float64{1, 0.5}, 0); err == nil {
		t.Fatal("expected error for order 0")
	}
	if _, err := LPC([]float64{1, 0.5}, 4); err == nil {
		t.Fatal("expected error for short acf")
	}
	if _, err := LPC([]float64{0, 0, 0}, 2); err == nil {
		t.Fatal("expected error for zero energy")
	}
}

func TestReflectionToPredictorMatchesLPC(t *testing.T) {
	x := testutil.HarmonicTone(180, 16000, 0.5, 10, 1024)
	acf := make([]float64, 11)
	for k := range acf {
		for n := 0; n+k < len(x); n++ {
			acf[k] += x[n] * x[n+k]
		}
	}

	c, err := LPC(acf, 10)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, ReflectionToPredictor(c.K), c.A, 1e-9)
}

func TestLatticeAnalyzeMatchesDirectForm(t *testing.T) {
	k := []float64{-0.8, 0.5, -0.2, 0.1}
	a := ReflectionToPredictor(k)

	l := NewLattice(len(k))
	l.SetReflection(k)

	x := testutil.DeterministicNoise(11, 1, 256)
	for n := range x {
		want := 0.0
		for i, ai := range a {
			if n-i >= 0 {
				want += ai * x[n-i]
			}
		}
		got := l.Analyze(x[n])
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("e[%d] = %v, want %v", n, got, want)
		}
	}
}

func TestLatticeSynthesisInvertsAnalysis(t *testing.T) {
	sets := [][]float64{
		{-0.9, 0.4, -0.1},
		{0.3, -0.6, 0.2},
		{0, 0, 0},
	}

	an := NewLattice(3)
	syn := NewLattice(3)
	x := testutil.DeterministicNoise(5, 1, 3000)

	for n, v := range x {
		if n%1000 == 0 {
			an.SetReflection(sets[n/1000])
			syn.SetReflection(sets[n/1000])
		}
		got := syn.Synthesize(an.Analyze(v))
		if math.Abs(got-v) > 1e-9 {
			t.Fatalf("sample %d: got %v, want %v", n, got, v)
		}
	}

	an.Reset()
	if an.Analyze(0) != 0 {
		t.Fatal("Reset did not clear state")
	}
}

func TestOrderForRate(t *testing.T) {
	tests := []struct {
		rate float64
		want int
	}{
		{rate: 8000, want: 8},
		{rate: 22050, want: 15},
		{rate: 44100, want: 26},
		{rate: 48000, want: 28},
		{rate: 96000, want: 32},
	}
	for _, tt := range tests {
		if got := OrderForRate(tt.rate); got != tt.want {
			t.Fatalf("OrderForRate(%v) = %d, want %d", tt.rate, got, tt.want)
		}
	}
}

func TestNewCorrectorValidation(t *testing.T) {
	if _, err := NewCorrector(0, 4); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewCorrector(44100, -1); err == nil {
		t.Fatal("expected error for negative delay")
	}

	c, err := NewCorrector(44100, 4)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range []float64{-1.5, 2, math.NaN()} {
		if err := c.SetWarp(w); err == nil {
			t.Fatalf("expected error for warp %v", w)
		}
	}
}

// frameACF returns the raw autocorrelation of the last frame samples
// before end, as the pitch detector would hand it over.
func frameACF(x []float64, end, frame, lags int) []float64 {
	acf := make([]float64, lags)
	seg := x[end-frame : end]
	for k := range acf {
		for n := 0; n+k < len(seg); n++ {
			acf[k] += seg[n] * seg[n+k]
		}
	}
	return acf
}

func TestCorrectorRoundTripThroughDelay(t *testing.T) {
	const (
		sampleRate = 16000.0
		hop        = 128
		frame      = 512
		delayHops  = 4
		latency    = hop * delayHops
	)

	c, err := NewCorrector(sampleRate, delayHops)
	if err != nil {
		t.Fatal(err)
	}

	x := testutil.HarmonicTone(200, sampleRate, 0.5, 12, 8192)
	ring := make([]float64, latency)
	out := make([]float64, len(x))

	for n, v := range x {
		if n%hop == 0 && n >= frame {
			c.Update(frameACF(x, n, frame, c.Order()+1))
		}
		e := c.Analyze(v)
		delayed := ring[n%latency]
		ring[n%latency] = e
		out[n] = c.Synthesize(delayed)
	}

	for n := latency; n < len(x); n++ {
		if math.Abs(out[n]-x[n-latency]) > 1e-9 {
			t.Fatalf("out[%d] = %v, want %v", n, out[n], x[n-latency])
		}
	}
}

func TestCorrectorSilenceSelectsFlatEnvelope(t *testing.T) {
	c, err := NewCorrector(44100, 0)
	if err != nil {
		t.Fatal(err)
	}

	c.Update(make([]float64, c.Order()+1))
	if got := c.Analyze(0.25); got != 0.25 {
		t.Fatalf("Analyze() = %v, want identity", got)
	}
	if c.Gain() != 1 {
		t.Fatalf("Gain() = %v, want 1", c.Gain())
	}

	c.Update(nil)
	if got := c.Synthesize(0.5); got != 0.5 {
		t.Fatalf("Synthesize() = %v, want identity", got)
	}
}

// resonanceACF is the autocorrelation of a two-pole resonator at freq.
func resonanceACF(freq, sampleRate float64, lags int) []float64 {
	r := 0.97
	a1 := -2 * r * math.Cos(2*math.Pi*freq/sampleRate)
	a2 := r * r

	x := make([]float64, 8192)
	noise := testutil.DeterministicNoise(21, 1, len(x))
	for n := range x {
		v := noise[n]
		if n >= 1 {
			v -= a1 * x[n-1]
		}
		if n >= 2 {
			v -= a2 * x[n-2]
		}
		x[n] = v
	}
	return frameACF(x, len(x), 4096, lags)
}

func envelopePeakHz(t *testing.T, k []float64, sampleRate float64) float64 {
	t.Helper()
	ac, err := spectrum.NewAutocorrelator(1024)
	if err != nil {
		t.Fatal(err)
	}
	p := make([]float64, ac.Bins())
	if err := ac.PowerSpectrum(p, ReflectionToPredictor(k)); err != nil {
		t.Fatal(err)
	}
	best := 1
	for i := 1; i < len(p)-1; i++ {
		if p[i] < p[best] {
			best = i
		}
	}
	return float64(best) * sampleRate / float64(ac.FFTSize())
}

func TestCorrectorWarpMovesFormant(t *testing.T) {
	const sampleRate = 16000.0
	acf := resonanceACF(1000, sampleRate, OrderForRate(sampleRate)+1)

	tests := []struct {
		name string
		warp float64
		cmp  func(peak float64) bool
	}{
		{name: "none", warp: 0, cmp: func(p float64) bool { return math.Abs(p-1000) < 60 }},
		{name: "up", warp: 0.5, cmp: func(p float64) bool { return p > 1200 }},
		{name: "down", warp: -0.5, cmp: func(p float64) bool { return p < 800 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCorrector(sampleRate, 0)
			if err != nil {
				t.Fatal(err)
			}
			if err := c.SetWarp(tt.warp); err != nil {
				t.Fatal(err)
			}
			c.Update(acf)

			peak := envelopePeakHz(t, c.synthesis.k, sampleRate)
			if !tt.cmp(peak) {
				t.Fatalf("synthesis envelope peak at %.1f Hz", peak)
			}
			if !(c.Gain() > 0) || math.IsInf(c.Gain(), 0) {
				t.Fatalf("Gain() = %v", c.Gain())
			}
		})
	}
}
