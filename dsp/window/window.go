package window

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

// Supported windows.
const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
)

var (
	hannCoeffs     = []float64{0.5, -0.5}
	hammingCoeffs  = []float64{0.54, -0.46}
	blackmanCoeffs = []float64{0.42, -0.5, 0.08}
)

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "Rectangular"
	case TypeHann:
		return "Hann"
	case TypeHamming:
		return "Hamming"
	case TypeBlackman:
		return "Blackman"
	default:
		return "Unknown"
	}
}

// Valid reports whether t is a known window.
func (t Type) Valid() bool {
	return t >= TypeRectangular && t <= TypeBlackman
}

// ParseType parses a window name such as "hann" or "Blackman".
func ParseType(name string) (Type, error) {
	for t := TypeRectangular; t <= TypeBlackman; t++ {
		if strings.EqualFold(strings.TrimSpace(name), t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown window: %q", name)
}

// Generate returns symmetric window coefficients of the given length.
func Generate(t Type, length int) ([]float64, error) {
	if length <= 0 {
		return nil, fmt.Errorf("window size must be > 0: %d", length)
	}
	if !t.Valid() {
		return nil, fmt.Errorf("unknown window type: %d", int(t))
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = evalWindow(t, samplePosition(i, length))
	}

	return out, nil
}

// ApplyCoefficients multiplies samples with coefficients into dst.
func ApplyCoefficients(dst, samples, coeffs []float64) error {
	if len(samples) != len(coeffs) || len(dst) != len(samples) {
		return errMismatchedLength
	}

	vecmath.MulBlock(dst, samples, coeffs)

	return nil
}

// Autocorrelation returns the linear autocorrelation of the window for lags
// 0..maxLag, normalized so that lag 0 equals 1. Pitch detectors divide a
// windowed signal's autocorrelation by this curve to undo the taper bias.
func Autocorrelation(coeffs []float64, maxLag int) ([]float64, error) {
	if len(coeffs) == 0 {
		return nil, errEmptyCoeffs
	}

	if maxLag >= len(coeffs) {
		maxLag = len(coeffs) - 1
	}

	out := make([]float64, maxLag+1)
	for lag := range out {
		sum := 0.0
		for i := 0; i+lag < len(coeffs); i++ {
			sum += coeffs[i] * coeffs[i+lag]
		}
		out[lag] = sum
	}

	if out[0] == 0 {
		return nil, errZeroEnergy
	}

	norm := out[0]
	for i := range out {
		out[i] /= norm
	}

	return out, nil
}

func evalWindow(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return cosineFromCoeffs(x, hannCoeffs)
	case TypeHamming:
		return cosineFromCoeffs(x, hammingCoeffs)
	case TypeBlackman:
		return cosineFromCoeffs(x, blackmanCoeffs)
	default:
		return 1
	}
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}

	return sum
}

func samplePosition(n, size int) float64 {
	if size <= 1 {
		return 0
	}

	return float64(n) / float64(size-1)
}
