package autotalent

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-autotalent/dsp/core"
	"github.com/cwbudde/algo-autotalent/dsp/lfo"
	"github.com/cwbudde/algo-autotalent/dsp/scale"
)

const (
	defaultConcertA = 440.0

	// MaxPitchShift is the largest accepted fixed shift in semitones.
	MaxPitchShift = 24.0
)

// Config is the full parameter set of a Session. Configure replaces it as
// a whole.
type Config struct {
	// ConcertA is the reference tuning of A4 in Hz.
	ConcertA float64
	// Key is the root of the scale.
	Key scale.Key
	// Scale lists the allowed degrees above Key.
	Scale scale.Mask
	// ScaleRotate selects a mode of Scale on the same root, in degrees.
	ScaleRotate int

	// FixedPitch is a pitch in semitones relative to ConcertA.
	FixedPitch float64
	// FixedPull in [0, 1] pulls the snapped pitch towards FixedPitch;
	// 0 disables fixed-pitch mode.
	FixedPull float64

	// Strength in [0, 1] scales the correction; 0 leaves the pitch alone.
	Strength float64
	// Smoothness in [0, 1] sets how slowly corrections glide, up to a
	// 0.5 s time constant.
	Smoothness float64
	// PitchShift in semitones is added to every voiced target.
	PitchShift float64

	// LFO adds vibrato on top of the corrected pitch. Its phase advances
	// once per analysis hop, not per Process call, so the modulation does
	// not depend on the block length.
	LFO lfo.Params

	// FormantCorrect keeps the spectral envelope in place while shifting.
	FormantCorrect bool
	// FormantWarp in [-1, 1] moves formants down or up.
	FormantWarp float64

	// Mix in [0, 1] blends original (0) and corrected (1) signal.
	Mix float64
}

// DefaultConfig returns full-strength, instant correction to C major at
// A = 440 Hz with every effect neutral.
func DefaultConfig() Config {
	return Config{
		ConcertA: defaultConcertA,
		Key:      scale.C,
		Scale:    scale.Major,
		Strength: 1,
		Mix:      1,
	}
}

// Validate reports the first out-of-range parameter, wrapped in
// ErrInvalidConfiguration.
func (c Config) Validate() error {
	if !core.IsFinitePositive(c.ConcertA) {
		return invalidf("concert A must be > 0 and finite: %f", c.ConcertA)
	}
	if !c.Key.Valid() {
		return invalidf("key must be in 0..11: %d", int(c.Key))
	}
	if c.Scale.Empty() {
		return invalidf("scale allows no notes: %s", c.Scale)
	}
	if !core.IsFinite(c.FixedPitch) {
		return invalidf("fixed pitch must be finite: %f", c.FixedPitch)
	}
	if !core.InUnitRange(c.FixedPull) {
		return invalidf("fixed pull must be in [0, 1]: %f", c.FixedPull)
	}
	if !core.InUnitRange(c.Strength) {
		return invalidf("strength must be in [0, 1]: %f", c.Strength)
	}
	if !core.InUnitRange(c.Smoothness) {
		return invalidf("smoothness must be in [0, 1]: %f", c.Smoothness)
	}
	if !(math.Abs(c.PitchShift) <= MaxPitchShift) {
		return invalidf("pitch shift must be in [-%g, %g]: %f", MaxPitchShift, MaxPitchShift, c.PitchShift)
	}
	if err := c.LFO.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	if !(c.FormantWarp >= -1 && c.FormantWarp <= 1) {
		return invalidf("formant warp must be in [-1, 1]: %f", c.FormantWarp)
	}
	if !core.InUnitRange(c.Mix) {
		return invalidf("mix must be in [0, 1]: %f", c.Mix)
	}
	return nil
}

// Table returns the scale table selected by c.
func (c Config) Table() (scale.Table, error) {
	tab, err := scale.NewTable(c.Key, c.Scale, c.ScaleRotate)
	if err != nil {
		return scale.Table{}, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}
	return tab, nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfiguration}, args...)...)
}
