package core

const (
	defaultOverlap = 4

	// highRateThreshold is the sample rate from which the analysis frame
	// doubles so that the lowest detectable pitch still fits twice.
	highRateThreshold = 88200
)

// FrameConfig describes the analysis framing shared by the pitch detector,
// the formant stage and the resynthesizer of one engine instance.
type FrameConfig struct {
	SampleRate float64
	FrameSize  int
	Overlap    int
}

// FrameOption mutates a FrameConfig.
type FrameOption func(*FrameConfig)

// Hop returns the number of samples between two analysis frames.
func (c FrameConfig) Hop() int {
	if c.Overlap <= 0 {
		return c.FrameSize
	}
	return c.FrameSize / c.Overlap
}

// DefaultFrameConfig returns the framing used for sampleRate.
func DefaultFrameConfig(sampleRate float64) FrameConfig {
	return FrameConfig{
		SampleRate: sampleRate,
		FrameSize:  FrameSizeForRate(sampleRate),
		Overlap:    defaultOverlap,
	}
}

// WithFrameSize overrides the analysis frame length. Non power-of-two
// values are ignored.
func WithFrameSize(n int) FrameOption {
	return func(cfg *FrameConfig) {
		if IsPowerOfTwo(n) {
			cfg.FrameSize = n
		}
	}
}

// WithOverlap sets how many hops fit into one frame.
func WithOverlap(n int) FrameOption {
	return func(cfg *FrameConfig) {
		if n > 0 {
			cfg.Overlap = n
		}
	}
}

// ApplyFrameOptions applies zero or more options to the default framing.
func ApplyFrameOptions(sampleRate float64, opts ...FrameOption) FrameConfig {
	cfg := DefaultFrameConfig(sampleRate)
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// FrameSizeForRate returns the analysis frame length for sampleRate:
// 2048 samples below 88.2 kHz and 4096 from there on.
func FrameSizeForRate(sampleRate float64) int {
	if sampleRate >= highRateThreshold {
		return 4096
	}
	return 2048
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
