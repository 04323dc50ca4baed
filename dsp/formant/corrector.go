package formant

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-autotalent/dsp/core"
	"github.com/cwbudde/algo-autotalent/dsp/spectrum"
	"github.com/cwbudde/algo-autotalent/internal/fastmath"
)

const (
	minOrder = 8
	maxOrder = 32

	// warpScale maps warp in [-1, 1] to the allpass coefficient.
	warpScale = 0.6

	// envelopeSize is the frame length of the envelope transform; its
	// padded FFT yields envelopeSize+1 bins between 0 and Nyquist.
	envelopeSize = 256

	lagWindowHz      = 60.0
	noiseFloorFactor = 1.0001
	minEnvelopePower = 1e-30
)

// OrderForRate returns the LPC order used at sampleRate: two poles per
// 2 kHz of bandwidth plus four, clamped to 8..32.
func OrderForRate(sampleRate float64) int {
	order := int(math.Round(sampleRate/2000)) + 4
	return min(max(order, minOrder), maxOrder)
}

// Corrector tracks the spectral envelope and applies it around a pitch
// shifter. Call Update once per analysis hop, Analyze on every sample
// going into the shifter and Synthesize on every sample coming out.
//
// The synthesis side lags the analysis side by a fixed number of hops so
// that each output sample is re-coloured with the envelope its input was
// whitened with.
//
// A Corrector is not safe for concurrent use.
type Corrector struct {
	sampleRate float64
	order      int
	warp       float64

	analysis  *Lattice
	synthesis *Lattice

	lagWindow []float64
	acf       []float64
	acfWarped []float64

	env    *spectrum.Autocorrelator
	power  []float64
	warped []float64

	queueK    [][]float64
	queueGain []float64
	head      int
	gain      float64
}

// NewCorrector creates a corrector whose synthesis envelope trails the
// analysis envelope by delayHops updates.
func NewCorrector(sampleRate float64, delayHops int) (*Corrector, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("formant corrector sample rate must be > 0 and finite: %f", sampleRate)
	}
	if delayHops < 0 {
		return nil, fmt.Errorf("formant corrector delay must be >= 0: %d", delayHops)
	}

	env, err := spectrum.NewAutocorrelator(envelopeSize)
	if err != nil {
		return nil, fmt.Errorf("formant corrector: %w", err)
	}

	order := OrderForRate(sampleRate)
	c := &Corrector{
		sampleRate: sampleRate,
		order:      order,
		analysis:   NewLattice(order),
		synthesis:  NewLattice(order),
		lagWindow:  make([]float64, order+1),
		acf:        make([]float64, order+1),
		acfWarped:  make([]float64, order+1),
		env:        env,
		power:      make([]float64, env.Bins()),
		warped:     make([]float64, env.Bins()),
		queueK:     make([][]float64, delayHops+1),
		queueGain:  make([]float64, delayHops+1),
		gain:       1,
	}

	for k := range c.lagWindow {
		x := 2 * math.Pi * lagWindowHz * float64(k) / sampleRate
		c.lagWindow[k] = math.Exp(-0.5 * x * x)
	}
	for i := range c.queueK {
		c.queueK[i] = make([]float64, order)
		c.queueGain[i] = 1
	}

	return c, nil
}

// Order returns the LPC order.
func (c *Corrector) Order() int { return c.order }

// DelayHops returns how many updates the synthesis envelope trails.
func (c *Corrector) DelayHops() int { return len(c.queueK) - 1 }

// Warp returns the current warp amount.
func (c *Corrector) Warp() float64 { return c.warp }

// SetWarp sets the formant warp in [-1, 1]; positive values move formants
// up.
func (c *Corrector) SetWarp(warp float64) error {
	if !(warp >= -1 && warp <= 1) {
		return fmt.Errorf("formant warp must be in [-1, 1]: %f", warp)
	}
	c.warp = warp
	return nil
}

// Gain returns the output gain currently applied by Synthesize.
func (c *Corrector) Gain() float64 { return c.gain }

// Update fits a new envelope to the raw autocorrelation of the current
// analysis frame. Frames without energy select a flat envelope.
func (c *Corrector) Update(acf []float64) {
	slot := c.head
	c.head = (c.head + 1) % len(c.queueK)

	coeffs, ok := c.fit(acf)
	if !ok {
		c.analysis.SetReflection(nil)
		core.Zero(c.queueK[slot])
		c.queueGain[slot] = 1
		c.advanceSynthesis()
		return
	}

	c.analysis.SetReflection(coeffs.K)

	if c.warp == 0 {
		copy(c.queueK[slot], coeffs.K)
		c.queueGain[slot] = 1
		c.advanceSynthesis()
		return
	}

	warpedK, gain, ok := c.warpEnvelope(coeffs)
	if !ok {
		copy(c.queueK[slot], coeffs.K)
		c.queueGain[slot] = 1
	} else {
		copy(c.queueK[slot], warpedK)
		c.queueGain[slot] = gain
	}
	c.advanceSynthesis()
}

func (c *Corrector) advanceSynthesis() {
	// c.head now points at the oldest entry.
	c.synthesis.SetReflection(c.queueK[c.head])
	c.gain = c.queueGain[c.head]
}

func (c *Corrector) fit(acf []float64) (Coeffs, bool) {
	if len(acf) < c.order+1 || !(acf[0] > 0) || !core.IsFinite(acf[0]) {
		return Coeffs{}, false
	}

	for k := range c.acf {
		c.acf[k] = acf[k] * c.lagWindow[k]
	}
	c.acf[0] *= noiseFloorFactor

	coeffs, err := LPC(c.acf, c.order)
	if err != nil || !(coeffs.Err > 0) {
		return Coeffs{}, false
	}
	return coeffs, true
}

// warpEnvelope resamples the all-pole power envelope through the allpass
// frequency map and refits it.
func (c *Corrector) warpEnvelope(coeffs Coeffs) ([]float64, float64, bool) {
	if err := c.env.PowerSpectrum(c.power, coeffs.A); err != nil {
		return nil, 0, false
	}
	for i, p := range c.power {
		c.power[i] = coeffs.Err / math.Max(p, minEnvelopePower)
	}

	lambda := warpScale * c.warp
	last := len(c.power) - 1
	for i := range c.warped {
		w := math.Pi * float64(i) / float64(last)
		src := allpassMap(w, -lambda) / math.Pi * float64(last)
		c.warped[i] = sampleAt(c.power, src)
	}

	if err := c.env.FromPower(c.acfWarped, c.warped); err != nil {
		return nil, 0, false
	}
	c.acfWarped[0] *= noiseFloorFactor

	warped, err := LPC(c.acfWarped, c.order)
	if err != nil || !(warped.Err > 0) {
		return nil, 0, false
	}

	return warped.K, fastmath.Sqrt(warped.Err / coeffs.Err), true
}

// Analyze whitens one input sample.
func (c *Corrector) Analyze(x float64) float64 {
	return c.analysis.Analyze(x)
}

// Synthesize re-applies the envelope to one shifted sample.
func (c *Corrector) Synthesize(e float64) float64 {
	return c.gain * c.synthesis.Synthesize(e)
}

// Reset clears filter state and envelope history.
func (c *Corrector) Reset() {
	c.analysis.Reset()
	c.synthesis.Reset()
	c.analysis.SetReflection(nil)
	c.synthesis.SetReflection(nil)
	for i := range c.queueK {
		core.Zero(c.queueK[i])
		c.queueGain[i] = 1
	}
	c.head = 0
	c.gain = 1
}

// allpassMap returns the image of normalized angular frequency w under the
// first-order allpass z^-1 -> (z^-1 - a)/(1 - a z^-1).
func allpassMap(w, a float64) float64 {
	return w + 2*math.Atan2(a*math.Sin(w), 1-a*math.Cos(w))
}

func sampleAt(x []float64, pos float64) float64 {
	if pos <= 0 {
		return x[0]
	}
	last := len(x) - 1
	if pos >= float64(last) {
		return x[last]
	}
	i := int(pos)
	t := pos - float64(i)
	return x[i] + t*(x[i+1]-x[i])
}
