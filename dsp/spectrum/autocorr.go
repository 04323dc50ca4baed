package spectrum

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

const minAutocorrSize = 2

// Autocorrelator computes linear (non-circular) autocorrelation of frames
// up to Size() samples. Frames are zero-padded to twice their length so
// the circular FFT product does not wrap.
//
// An Autocorrelator owns its scratch buffers and is not safe for concurrent
// use.
type Autocorrelator struct {
	size    int
	fftSize int

	plan *algofft.Plan[complex128]

	// invScale corrects for whatever normalization the backend applies on
	// the forward/inverse round trip.
	invScale float64

	buf []complex128
	re  []float64
	im  []float64
	pow []float64
}

// NewAutocorrelator returns an autocorrelator for frames of at most size
// samples. size must be a power of two.
func NewAutocorrelator(size int) (*Autocorrelator, error) {
	if size < minAutocorrSize || size&(size-1) != 0 {
		return nil, fmt.Errorf("autocorrelator size must be a power of two >= %d: %d", minAutocorrSize, size)
	}

	fftSize := 2 * size
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("autocorrelator: failed to create FFT plan: %w", err)
	}

	a := &Autocorrelator{
		size:    size,
		fftSize: fftSize,
		plan:    plan,
		buf:     make([]complex128, fftSize),
		re:      make([]float64, fftSize),
		im:      make([]float64, fftSize),
		pow:     make([]float64, fftSize),
	}

	if err := a.calibrate(); err != nil {
		return nil, err
	}

	return a, nil
}

// Size returns the maximum frame length.
func (a *Autocorrelator) Size() int { return a.size }

// FFTSize returns the padded transform length.
func (a *Autocorrelator) FFTSize() int { return a.fftSize }

// Bins returns the number of non-redundant power spectrum bins
// (FFTSize()/2 + 1).
func (a *Autocorrelator) Bins() int { return a.fftSize/2 + 1 }

// Compute writes the raw autocorrelation r[k] = sum x[n]*x[n+k] for
// k = 0..len(dst)-1 into dst. len(x) must not exceed Size() and len(dst)
// must not exceed len(x).
func (a *Autocorrelator) Compute(dst, x []float64) error {
	if len(x) > a.size {
		return fmt.Errorf("autocorrelator frame length %d exceeds size %d", len(x), a.size)
	}
	if len(dst) > len(x) {
		return fmt.Errorf("autocorrelator lag count %d exceeds frame length %d", len(dst), len(x))
	}

	if err := a.forward(x); err != nil {
		return err
	}

	for i := range a.buf {
		a.buf[i] = complex(a.pow[i], 0)
	}

	return a.inverseReal(dst)
}

// PowerSpectrum writes |X[k]|^2 of x zero-padded to FFTSize() into dst for
// k = 0..len(dst)-1. len(dst) must not exceed Bins().
func (a *Autocorrelator) PowerSpectrum(dst, x []float64) error {
	if len(x) > a.fftSize {
		return fmt.Errorf("power spectrum input length %d exceeds FFT size %d", len(x), a.fftSize)
	}
	if len(dst) > a.Bins() {
		return fmt.Errorf("power spectrum bin count %d exceeds %d", len(dst), a.Bins())
	}

	if err := a.forward(x); err != nil {
		return err
	}

	copy(dst, a.pow[:len(dst)])
	return nil
}

// FromPower treats power as the non-redundant half of a real, even power
// spectrum (length Bins()) and writes the matching autocorrelation lags
// r[0..len(dst)-1] into dst.
func (a *Autocorrelator) FromPower(dst, power []float64) error {
	if len(power) != a.Bins() {
		return fmt.Errorf("power spectrum length must be %d: %d", a.Bins(), len(power))
	}
	if len(dst) > a.fftSize/2 {
		return fmt.Errorf("autocorrelation lag count %d exceeds %d", len(dst), a.fftSize/2)
	}

	half := a.fftSize / 2
	a.buf[0] = complex(power[0], 0)
	a.buf[half] = complex(power[half], 0)
	for k := 1; k < half; k++ {
		a.buf[k] = complex(power[k], 0)
		a.buf[a.fftSize-k] = complex(power[k], 0)
	}

	return a.inverseReal(dst)
}

func (a *Autocorrelator) forward(x []float64) error {
	for i := range a.buf {
		a.buf[i] = 0
	}
	for i, v := range x {
		a.buf[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.buf, a.buf); err != nil {
		return fmt.Errorf("autocorrelator: forward FFT failed: %w", err)
	}

	for i, c := range a.buf {
		a.re[i] = real(c)
		a.im[i] = imag(c)
	}
	vecmath.Power(a.pow, a.re, a.im)
	return nil
}

func (a *Autocorrelator) inverseReal(dst []float64) error {
	if err := a.plan.Inverse(a.buf, a.buf); err != nil {
		return fmt.Errorf("autocorrelator: inverse FFT failed: %w", err)
	}

	for i := range dst {
		dst[i] = real(a.buf[i]) * a.invScale
	}
	return nil
}

// calibrate measures the round-trip gain of the backend with a unit
// impulse so results do not depend on its scaling convention.
func (a *Autocorrelator) calibrate() error {
	for i := range a.buf {
		a.buf[i] = 0
	}
	a.buf[0] = 1

	if err := a.plan.Forward(a.buf, a.buf); err != nil {
		return fmt.Errorf("autocorrelator: forward FFT failed: %w", err)
	}
	if err := a.plan.Inverse(a.buf, a.buf); err != nil {
		return fmt.Errorf("autocorrelator: inverse FFT failed: %w", err)
	}

	gain := real(a.buf[0])
	if gain == 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
		return fmt.Errorf("autocorrelator: degenerate FFT round trip gain: %v", gain)
	}
	a.invScale = 1 / gain
	return nil
}
