package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-autotalent/dsp/core"
	"github.com/cwbudde/algo-autotalent/internal/fastmath"
)

// maxSmoothingSeconds is the time constant reached at smoothness 1.
const maxSmoothingSeconds = 0.5

// CorrectionSmoother glides a pitch correction, in semitones, towards its
// target once per analysis hop with a one-pole low-pass. The time constant
// is smoothness*0.5 s; smoothness 0 applies corrections instantly.
type CorrectionSmoother struct {
	sampleRate float64
	hop        int
	smoothness float64
	coeff      float64
	value      float64
}

// NewCorrectionSmoother creates a smoother updated every hop samples.
func NewCorrectionSmoother(sampleRate float64, hop int) (*CorrectionSmoother, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("smoother sample rate must be > 0 and finite: %f", sampleRate)
	}
	if hop <= 0 {
		return nil, fmt.Errorf("smoother hop must be > 0: %d", hop)
	}
	return &CorrectionSmoother{sampleRate: sampleRate, hop: hop}, nil
}

// Smoothness returns the current smoothness in [0, 1].
func (c *CorrectionSmoother) Smoothness() float64 { return c.smoothness }

// SetSmoothness sets smoothness in [0, 1].
func (c *CorrectionSmoother) SetSmoothness(smoothness float64) error {
	if !core.InUnitRange(smoothness) {
		return fmt.Errorf("smoothness must be in [0, 1]: %f", smoothness)
	}
	c.smoothness = smoothness

	tau := smoothness * maxSmoothingSeconds
	if tau <= 0 {
		c.coeff = 0
		return nil
	}
	c.coeff = math.Exp(-float64(c.hop) / (tau * c.sampleRate))
	return nil
}

// Next advances one hop towards target and returns the smoothed value.
func (c *CorrectionSmoother) Next(target float64) float64 {
	c.value = core.FlushDenormals(c.coeff*c.value + (1-c.coeff)*target)
	return c.value
}

// Value returns the current smoothed correction.
func (c *CorrectionSmoother) Value() float64 { return c.value }

// Reset returns the correction to 0.
func (c *CorrectionSmoother) Reset() { c.value = 0 }

// Ratio converts a shift in semitones to a frequency ratio.
func Ratio(semitones float64) float64 {
	return fastmath.Exp2(semitones / 12)
}
