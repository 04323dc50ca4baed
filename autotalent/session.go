package autotalent

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cwbudde/algo-autotalent/dsp/core"
	"github.com/cwbudde/algo-autotalent/dsp/delay"
	"github.com/cwbudde/algo-autotalent/dsp/formant"
	"github.com/cwbudde/algo-autotalent/dsp/lfo"
	"github.com/cwbudde/algo-autotalent/dsp/mix"
	"github.com/cwbudde/algo-autotalent/dsp/pitch"
	"github.com/cwbudde/algo-autotalent/dsp/scale"
	"github.com/cwbudde/algo-autotalent/stats/level"
)

// State is the lifecycle position of a Session.
type State int

const (
	// StateReady follows New; the session needs a configuration.
	StateReady State = iota
	// StateConfigured follows Configure.
	StateConfigured
	// StateProcessing follows the first successful process call after a
	// Configure.
	StateProcessing
	// StateDestroyed is terminal.
	StateDestroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateConfigured:
		return "configured"
	case StateProcessing:
		return "processing"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Session is one pitch-correction engine bound to a sample rate.
type Session struct {
	id         uuid.UUID
	logger     *log.Logger
	sampleRate int
	state      State
	cfg        Config

	blockSize        int
	instrumentalMode mix.Mode
	frame            core.FrameConfig

	history   *delay.Line
	frameBuf  []float64
	detector  *pitch.Detector
	shifter   *pitch.Shifter
	smoother  *pitch.CorrectionSmoother
	formant   *formant.Corrector
	lfo       *lfo.LFO
	quantizer scale.Quantizer

	hopPos     int
	formantOn  bool
	last       pitch.Estimate
	correction float64

	wet []float64
	buf []float64

	inMeter  level.Meter
	outMeter level.Meter
}

// New instantiates a session for sampleRate. Init must have been called.
func New(sampleRate int, opts ...Option) (*Session, error) {
	baseLogger, ok := packageLogger()
	if !ok {
		return nil, fmt.Errorf("%w: Init has not been called", ErrInvalidState)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	cfg := sessionConfig{}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	rate := float64(sampleRate)
	frame := core.ApplyFrameOptions(rate, core.WithFrameSize(cfg.frameSize))

	detector, err := pitch.NewDetector(rate,
		append(cfg.detectorOpts, pitch.WithFrameSize(frame.FrameSize))...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSampleRate, err)
	}
	shifter, err := pitch.NewShifter(frame.FrameSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSampleRate, err)
	}
	smoother, err := pitch.NewCorrectionSmoother(rate, frame.Hop())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSampleRate, err)
	}
	corrector, err := formant.NewCorrector(rate, shifter.Latency()/frame.Hop())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSampleRate, err)
	}
	osc, err := lfo.New(rate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSampleRate, err)
	}
	history, err := delay.New(frame.FrameSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSampleRate, err)
	}

	id := uuid.New()
	logger := cfg.logger
	if logger == nil {
		logger = baseLogger
	}
	logger = logger.With("session", id.String())

	s := &Session{
		id:               id,
		logger:           logger,
		sampleRate:       sampleRate,
		state:            StateReady,
		cfg:              DefaultConfig(),
		instrumentalMode: cfg.instrumentalMode,
		frame:            frame,
		history:          history,
		frameBuf:         make([]float64, frame.FrameSize),
		detector:         detector,
		shifter:          shifter,
		smoother:         smoother,
		formant:          corrector,
		lfo:              osc,
	}
	if cfg.blockSize > 0 {
		s.allocateBlock(cfg.blockSize)
	}

	s.logger.Debug("instantiated",
		"sampleRate", sampleRate,
		"frame", frame.FrameSize,
		"hop", frame.Hop(),
		"blockSize", s.blockSize)
	return s, nil
}

// ID returns the unique session identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// SampleRate returns the sample rate in Hz.
func (s *Session) SampleRate() int { return s.sampleRate }

// BlockSize returns the established block length, 0 while none is set.
func (s *Session) BlockSize() int { return s.blockSize }

// FrameSize returns the analysis frame length.
func (s *Session) FrameSize() int { return s.frame.FrameSize }

// Config returns the active configuration.
func (s *Session) Config() Config { return s.cfg }

// Latency returns the delay of the corrected signal in samples.
func (s *Session) Latency() int { return s.shifter.Latency() }

// LastEstimate returns the pitch estimate of the most recent analysis hop.
func (s *Session) LastEstimate() pitch.Estimate { return s.last }

// Correction returns the smoothed correction in semitones applied during
// the most recent hop, including pitch shift and vibrato.
func (s *Session) Correction() float64 { return s.correction }

// Levels returns input and output level statistics since instantiation.
func (s *Session) Levels() (in, out level.Stats) {
	return s.inMeter.Result(), s.outMeter.Result()
}

// Configure validates cfg and makes it active. On error the previous
// configuration stays in place.
//
// Ranges are capped: PitchShift within +-[MaxPitchShift] (24 semitones),
// LFO depth up to [lfo.MaxDepth] (12 semitones) and LFO rate up to
// [lfo.MaxRate] (20 Hz). Values outside fail with [ErrInvalidConfiguration].
func (s *Session) Configure(cfg Config) error {
	if s.state == StateDestroyed {
		return fmt.Errorf("%w: configure on destroyed session", ErrInvalidState)
	}

	if err := cfg.Validate(); err != nil {
		s.logger.Warn("configuration rejected", "err", err)
		return err
	}
	tab, err := cfg.Table()
	if err != nil {
		s.logger.Warn("configuration rejected", "err", err)
		return err
	}

	// Everything below has been validated and cannot fail.
	_ = s.smoother.SetSmoothness(cfg.Smoothness)
	_ = s.lfo.SetParams(cfg.LFO)
	_ = s.formant.SetWarp(cfg.FormantWarp)
	if cfg.FormantCorrect && !s.formantOn {
		s.formant.Reset()
	}
	s.formantOn = cfg.FormantCorrect

	s.quantizer = scale.Quantizer{
		ConcertA:   cfg.ConcertA,
		Table:      tab,
		FixedPitch: cfg.FixedPitch,
		FixedPull:  cfg.FixedPull,
	}
	s.cfg = cfg
	s.state = StateConfigured

	s.logger.Debug("configured",
		"key", cfg.Key,
		"scale", cfg.Scale,
		"rotate", cfg.ScaleRotate,
		"concertA", cfg.ConcertA,
		"strength", cfg.Strength,
		"smoothness", cfg.Smoothness,
		"shift", cfg.PitchShift,
		"formant", cfg.FormantCorrect,
		"mix", cfg.Mix)
	return nil
}

// Process corrects samples in place.
func (s *Session) Process(samples []int16) error {
	return s.process(samples, nil)
}

// ProcessMixed corrects samples in place and then mixes in instrumental,
// which must have the same length.
func (s *Session) ProcessMixed(samples, instrumental []int16) error {
	if instrumental == nil {
		instrumental = []int16{}
	}
	return s.process(samples, instrumental)
}

func (s *Session) process(samples, instrumental []int16) error {
	switch s.state {
	case StateConfigured, StateProcessing:
	case StateDestroyed:
		return fmt.Errorf("%w: process on destroyed session", ErrInvalidState)
	default:
		return fmt.Errorf("%w: process before configure", ErrInvalidState)
	}

	if len(samples) == 0 {
		return fmt.Errorf("%w: empty block", ErrBlockSizeMismatch)
	}
	if s.blockSize != 0 && len(samples) != s.blockSize {
		return fmt.Errorf("%w: got %d samples, session uses %d", ErrBlockSizeMismatch, len(samples), s.blockSize)
	}
	if instrumental != nil && len(instrumental) != len(samples) {
		return fmt.Errorf("%w: instrumental has %d samples, block has %d",
			ErrBlockSizeMismatch, len(instrumental), len(samples))
	}

	if s.blockSize == 0 {
		s.allocateBlock(len(samples))
		s.logger.Debug("block size established", "blockSize", s.blockSize)
	}

	for i, v := range samples {
		x := mix.FromInt16(v)
		s.buf[i] = x
		s.wet[i] = s.processSample(x)
	}
	s.inMeter.Update(s.buf)

	clipped, _ := mix.BlendInto(samples, s.wet, samples, s.cfg.Mix)
	if instrumental != nil {
		n, _ := mix.InstrumentalInto(samples, instrumental, s.instrumentalMode)
		clipped += n
	}

	for i, v := range samples {
		s.buf[i] = mix.FromInt16(v)
	}
	s.outMeter.Update(s.buf)
	s.outMeter.AddClipped(clipped)

	s.state = StateProcessing
	return nil
}

func (s *Session) allocateBlock(n int) {
	s.blockSize = n
	s.wet = make([]float64, n)
	s.buf = make([]float64, n)
}

// Destroy releases the session. Every later call fails with
// ErrInvalidState.
func (s *Session) Destroy() error {
	if s.state == StateDestroyed {
		return fmt.Errorf("%w: session already destroyed", ErrInvalidState)
	}

	in, out := s.Levels()
	s.state = StateDestroyed
	s.history = nil
	s.frameBuf = nil
	s.wet = nil
	s.buf = nil

	s.logger.Debug("destroyed",
		"samples", in.Samples,
		"inPeak", in.PeakdB,
		"outPeak", out.PeakdB,
		"clipped", out.Clipped)
	return nil
}
