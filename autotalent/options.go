package autotalent

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-autotalent/dsp/core"
	"github.com/cwbudde/algo-autotalent/dsp/mix"
	"github.com/cwbudde/algo-autotalent/dsp/pitch"
)

// Option configures a Session at instantiation.
type Option func(*sessionConfig) error

type sessionConfig struct {
	blockSize        int
	frameSize        int
	logger           *log.Logger
	instrumentalMode mix.Mode
	detectorOpts     []pitch.DetectorOption
}

// WithBlockSize fixes the block length up front instead of taking it from
// the first process call.
func WithBlockSize(n int) Option {
	return func(cfg *sessionConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: block size must be > 0: %d", ErrInvalidConfiguration, n)
		}
		cfg.blockSize = n
		return nil
	}
}

// WithFrameSize overrides the analysis frame length (a power of two of at
// least 256). By default it depends on the sample rate.
func WithFrameSize(n int) Option {
	return func(cfg *sessionConfig) error {
		if n < 256 || !core.IsPowerOfTwo(n) {
			return fmt.Errorf("%w: frame size must be a power of two >= 256: %d", ErrInvalidConfiguration, n)
		}
		cfg.frameSize = n
		return nil
	}
}

// WithLogger sets the session logger. The session adds its ID to every
// line.
func WithLogger(l *log.Logger) Option {
	return func(cfg *sessionConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithInstrumentalMode selects how ProcessMixed combines vocal and
// instrumental.
func WithInstrumentalMode(m mix.Mode) Option {
	return func(cfg *sessionConfig) error {
		if m != mix.ModeSum && m != mix.ModeDigimix {
			return fmt.Errorf("%w: unknown instrumental mode %v", ErrInvalidConfiguration, m)
		}
		cfg.instrumentalMode = m
		return nil
	}
}

// WithDetectorOptions passes options to the pitch detector, e.g. a
// narrower frequency range.
func WithDetectorOptions(opts ...pitch.DetectorOption) Option {
	return func(cfg *sessionConfig) error {
		cfg.detectorOpts = append(cfg.detectorOpts, opts...)
		return nil
	}
}
