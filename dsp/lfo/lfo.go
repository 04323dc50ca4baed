// Package lfo generates the vibrato modulation layered onto the corrected
// pitch.
package lfo

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-autotalent/dsp/core"
)

const (
	// MaxDepth is the largest accepted depth in semitones.
	MaxDepth = 12.0
	// MaxRate is the largest accepted rate in Hz.
	MaxRate = 20.0

	minSplit = 1e-3

	// squareExponent is the power applied to a sine at shape -1.
	squareExponent = 0.05
)

// Params describes the modulation.
type Params struct {
	// Depth is the peak deviation in semitones, 0..12.
	Depth float64
	// Rate is the frequency in Hz, 0..20. Rate 0 freezes the phase.
	Rate float64
	// Shape morphs the waveform: -1 square, 0 sine, 1 triangle.
	Shape float64
	// Symmetry moves the split between the positive and the negative
	// half-cycle: -1 puts it at the start of the period, 1 at the end.
	Symmetry float64
	// QuantizeSteps > 0 holds the phase on that many steps per period.
	QuantizeSteps int
}

// Validate checks parameter ranges.
func (p Params) Validate() error {
	if !(p.Depth >= 0 && p.Depth <= MaxDepth) {
		return fmt.Errorf("lfo depth must be in [0, %g]: %f", MaxDepth, p.Depth)
	}
	if !(p.Rate >= 0 && p.Rate <= MaxRate) {
		return fmt.Errorf("lfo rate must be in [0, %g]: %f", MaxRate, p.Rate)
	}
	if !(p.Shape >= -1 && p.Shape <= 1) {
		return fmt.Errorf("lfo shape must be in [-1, 1]: %f", p.Shape)
	}
	if !(p.Symmetry >= -1 && p.Symmetry <= 1) {
		return fmt.Errorf("lfo symmetry must be in [-1, 1]: %f", p.Symmetry)
	}
	if p.QuantizeSteps < 0 {
		return fmt.Errorf("lfo quantize steps must be >= 0: %d", p.QuantizeSteps)
	}
	return nil
}

// LFO is a deterministic low-frequency oscillator. The phase lives in
// [0, 1) and persists until Reset.
type LFO struct {
	sampleRate float64
	params     Params
	phase      float64
}

// New creates an LFO with zero depth.
func New(sampleRate float64) (*LFO, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("lfo sample rate must be > 0 and finite: %f", sampleRate)
	}
	return &LFO{sampleRate: sampleRate}, nil
}

// Params returns the current parameters.
func (l *LFO) Params() Params { return l.params }

// SetParams validates and applies p. The phase is kept.
func (l *LFO) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	l.params = p
	return nil
}

// Phase returns the current phase in [0, 1).
func (l *LFO) Phase() float64 { return l.phase }

// Advance moves the phase forward by the given number of samples. Callers
// that update the modulation at a fixed hop pass the hop length, so Value
// is sampled at hop boundaries regardless of how audio is blocked.
func (l *LFO) Advance(samples int) {
	if samples <= 0 || l.params.Rate == 0 {
		return
	}
	l.phase += l.params.Rate * float64(samples) / l.sampleRate
	l.phase -= math.Floor(l.phase)
}

// Value returns the modulation at the current phase in semitones.
func (l *LFO) Value() float64 {
	if l.params.Depth == 0 {
		return 0
	}
	return l.params.Depth * Waveform(l.phase, l.params)
}

// Reset sets the phase back to 0.
func (l *LFO) Reset() { l.phase = 0 }

// Waveform evaluates the unit-amplitude waveform of p at phase in [0, 1).
// It starts at 0 and rises into the positive half-cycle.
func Waveform(phase float64, p Params) float64 {
	if p.QuantizeSteps > 0 {
		n := float64(p.QuantizeSteps)
		phase = math.Floor(phase*n) / n
	}

	split := core.Clamp((p.Symmetry+1)/2, minSplit, 1-minSplit)
	var theta float64
	if phase < split {
		theta = 0.5 * phase / split
	} else {
		theta = 0.5 + 0.5*(phase-split)/(1-split)
	}

	sine := math.Sin(2 * math.Pi * theta)
	switch {
	case p.Shape > 0:
		return (1-p.Shape)*sine + p.Shape*triangle(theta)
	case p.Shape < 0:
		exp := 1 + p.Shape*(1-squareExponent)
		return math.Copysign(math.Pow(math.Abs(sine), exp), sine)
	default:
		return sine
	}
}

func triangle(theta float64) float64 {
	switch {
	case theta < 0.25:
		return 4 * theta
	case theta < 0.75:
		return 2 - 4*theta
	default:
		return 4*theta - 4
	}
}
