// Package mix blends corrected and original signals and converts between
// floating point and 16-bit PCM.
package mix

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-autotalent/dsp/core"
)

// pcmScale maps int16 full scale to [-1, 1).
const pcmScale = 32768.0

// Mode selects how a vocal is combined with an instrumental track.
type Mode int

const (
	// ModeSum adds both signals and saturates.
	ModeSum Mode = iota
	// ModeDigimix combines same-signed samples as a+b-ab (or a+b+ab when
	// both are negative), which never leaves [-1, 1].
	ModeDigimix
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSum:
		return "sum"
	case ModeDigimix:
		return "digimix"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "sum" or "digimix".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sum", "":
		return ModeSum, nil
	case "digimix":
		return ModeDigimix, nil
	default:
		return 0, fmt.Errorf("unknown mix mode: %q", s)
	}
}

// FromInt16 converts a PCM sample to [-1, 1).
func FromInt16(s int16) float64 {
	return float64(s) / pcmScale
}

// ToInt16 converts x to PCM with rounding and saturation. NaN maps to 0.
// It reports whether the value had to be clipped.
func ToInt16(x float64) (int16, bool) {
	if math.IsNaN(x) {
		return 0, false
	}
	v := math.Round(x * pcmScale)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16, true
	case v < math.MinInt16:
		return math.MinInt16, true
	default:
		return int16(v), false
	}
}

// Blend returns mix*corrected + (1-mix)*original. Non-finite corrected
// samples are treated as silence.
func Blend(corrected, original, mix float64) float64 {
	if !core.IsFinite(corrected) {
		corrected = 0
	}
	switch mix {
	case 0:
		return original
	case 1:
		return corrected
	}
	return mix*corrected + (1-mix)*original
}

// Instrumental combines a vocal with an instrumental sample.
func Instrumental(vocal, instrumental float64, mode Mode) float64 {
	if mode != ModeDigimix {
		return vocal + instrumental
	}
	switch {
	case vocal >= 0 && instrumental >= 0:
		return vocal + instrumental - vocal*instrumental
	case vocal < 0 && instrumental < 0:
		return vocal + instrumental + vocal*instrumental
	default:
		return vocal + instrumental
	}
}

// BlendInto writes the blend of corrected and original into dst and
// returns the number of clipped samples. All slices must have the same
// length.
func BlendInto(dst []int16, corrected []float64, original []int16, mix float64) (int, error) {
	if len(dst) != len(corrected) || len(dst) != len(original) {
		return 0, fmt.Errorf("mix length mismatch: dst=%d corrected=%d original=%d",
			len(dst), len(corrected), len(original))
	}
	if !core.InUnitRange(mix) {
		return 0, fmt.Errorf("mix must be in [0, 1]: %f", mix)
	}

	clipped := 0
	for i := range dst {
		s, clip := ToInt16(Blend(corrected[i], FromInt16(original[i]), mix))
		dst[i] = s
		if clip {
			clipped++
		}
	}
	return clipped, nil
}

// InstrumentalInto mixes instrumental into samples in place and returns the
// number of clipped samples.
func InstrumentalInto(samples, instrumental []int16, mode Mode) (int, error) {
	if len(samples) != len(instrumental) {
		return 0, fmt.Errorf("instrumental length mismatch: %d != %d", len(samples), len(instrumental))
	}

	clipped := 0
	for i := range samples {
		s, clip := ToInt16(Instrumental(FromInt16(samples[i]), FromInt16(instrumental[i]), mode))
		samples[i] = s
		if clip {
			clipped++
		}
	}
	return clipped, nil
}
