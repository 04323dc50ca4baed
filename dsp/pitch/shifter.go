package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-autotalent/dsp/core"
	"github.com/cwbudde/algo-autotalent/dsp/delay"
	"github.com/cwbudde/algo-autotalent/dsp/interp"
)

const (
	minShifterRatio = 0.25
	maxShifterRatio = 4.0

	minShifterPeriod = 2.0

	shifterWeightFloor = 1e-12
)

// Shifter is a streaming pitch-synchronous overlap-add (PSOLA) pitch
// shifter.
//
// Input fragments of one frame are captured once per input period. Each
// output period a two-period Hann grain is read from the newest fragment at
// a step of Ratio() and overlap-added into the output ring, so the output
// repeats at the input period divided by the ratio. Overlapping grains are
// normalized by their summed weights; with a ratio of 1 the output equals
// the input delayed by Latency() samples.
//
// One sample goes in and one comes out, so output length always equals
// input length. A Shifter is not safe for concurrent use.
type Shifter struct {
	frameSize int
	center    int
	latency   int

	period float64
	ratio  float64

	in         *delay.Line
	frag       []float64
	fragCenter float64

	acc    []float64
	weight []float64
	pos    int

	inPhase  float64
	outPhase float64
}

// NewShifter creates a shifter working on fragments of frameSize samples.
// The initial input period is a quarter frame and the ratio is 1.
func NewShifter(frameSize int) (*Shifter, error) {
	if frameSize < minDetectorFrameSize || !core.IsPowerOfTwo(frameSize) {
		return nil, fmt.Errorf("shifter frame size must be a power of two >= %d: %d", minDetectorFrameSize, frameSize)
	}

	in, err := delay.New(frameSize)
	if err != nil {
		return nil, fmt.Errorf("shifter: %w", err)
	}

	return &Shifter{
		frameSize:  frameSize,
		center:     frameSize / 2,
		latency:    frameSize,
		period:     float64(frameSize) / 4,
		ratio:      1,
		in:         in,
		frag:       make([]float64, frameSize),
		fragCenter: float64(frameSize / 2),
		acc:        make([]float64, 2*frameSize),
		weight:     make([]float64, 2*frameSize),
	}, nil
}

// FrameSize returns the fragment length in samples.
func (s *Shifter) FrameSize() int { return s.frameSize }

// Latency returns the delay in samples between input and output.
func (s *Shifter) Latency() int { return s.latency }

// Ratio returns the current output/input frequency ratio.
func (s *Shifter) Ratio() float64 { return s.ratio }

// InputPeriod returns the current input period in samples.
func (s *Shifter) InputPeriod() float64 { return s.period }

// SetInputPeriod sets the period of the incoming signal in samples. The
// value is clamped so a two-period grain fits the fragment.
func (s *Shifter) SetInputPeriod(period float64) {
	if !core.IsFinitePositive(period) {
		return
	}
	s.period = core.Clamp(period, minShifterPeriod, float64(s.center-1))
}

// SetRatio sets the pitch ratio, clamped to [0.25, 4]. Non-finite or
// non-positive values are ignored.
func (s *Shifter) SetRatio(ratio float64) {
	if !core.IsFinitePositive(ratio) {
		return
	}
	s.ratio = core.Clamp(ratio, minShifterRatio, maxShifterRatio)
}

// SetSemitones sets the ratio from a shift in semitones.
func (s *Shifter) SetSemitones(semitones float64) {
	s.SetRatio(Ratio(semitones))
}

// ProcessSample pushes one input sample and returns one output sample.
func (s *Shifter) ProcessSample(x float64) float64 {
	s.in.Write(x)

	inc := 1 / s.period
	s.inPhase += inc
	if s.inPhase >= 1 {
		s.inPhase -= math.Floor(s.inPhase)
		s.in.Snapshot(s.frag)
		// The period mark fell inPhase/inc samples before now.
		s.fragCenter = float64(s.center) - s.inPhase/inc
	}

	outInc := s.ratio / s.period
	s.outPhase += outInc
	if s.outPhase >= 1 {
		s.outPhase -= math.Floor(s.outPhase)
		s.addGrain(s.outPhase / outInc)
	}

	size := len(s.acc)
	y := 0.0
	if w := s.weight[s.pos]; w > shifterWeightFloor {
		y = s.acc[s.pos] / w
	}
	s.acc[s.pos] = 0
	s.weight[s.pos] = 0
	s.pos++
	if s.pos >= size {
		s.pos = 0
	}

	return y
}

// Process runs ProcessSample over buf in place.
func (s *Shifter) Process(buf []float64) {
	for i, x := range buf {
		buf[i] = s.ProcessSample(x)
	}
}

// addGrain overlap-adds one grain whose mark lies frac samples in the past.
func (s *Shifter) addGrain(frac float64) {
	half := s.period / s.ratio
	if limit := float64(s.center - 1); half > limit {
		half = limit
	}

	size := len(s.acc)
	lo := int(math.Ceil(-half - frac))
	hi := int(math.Floor(half - frac))
	for i := lo; i <= hi; i++ {
		t := float64(i) + frac
		w := 0.5 + 0.5*math.Cos(math.Pi*t/half)
		if w <= 0 {
			continue
		}
		v := interp.HermiteAt(s.frag, s.fragCenter+t*s.ratio)
		idx := (s.pos + 1 + s.center + i) % size
		s.acc[idx] += w * v
		s.weight[idx] += w
	}
}

// Reset clears all buffered audio and phase state. Period and ratio are
// kept.
func (s *Shifter) Reset() {
	s.in.Reset()
	core.Zero(s.frag)
	core.Zero(s.acc)
	core.Zero(s.weight)
	s.fragCenter = float64(s.center)
	s.pos = 0
	s.inPhase = 0
	s.outPhase = 0
}
