package pitch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-autotalent/dsp/core"
	"github.com/cwbudde/algo-autotalent/dsp/interp"
	"github.com/cwbudde/algo-autotalent/dsp/spectrum"
	"github.com/cwbudde/algo-autotalent/dsp/window"
)

const (
	defaultDetectorMinHz     = 70.0
	defaultDetectorMaxHz     = 1000.0
	defaultVoicingThreshold  = 0.7
	minDetectorFrameSize     = 256
	detectorHistoryLen       = 16
	detectorMinACFLags       = 64
	detectorPeakRatio        = 0.9
	detectorWindowACFFloor   = 1e-3
	detectorSilenceMeanSqr   = 1e-9
	detectorMinLag           = 2
	detectorConfidenceMaxVal = 1.0
)

// Estimate is the result of analysing one frame.
type Estimate struct {
	// Frequency is the fundamental in Hz, 0 when unvoiced.
	Frequency float64
	// Period is the fundamental period in samples, 0 when unvoiced.
	Period float64
	// Confidence is the normalized autocorrelation at the chosen period in
	// [0, 1].
	Confidence float64
	Voiced     bool
}

// DetectorOption mutates detector construction parameters.
type DetectorOption func(*detectorConfig) error

type detectorConfig struct {
	frameSize int
	minHz     float64
	maxHz     float64
	threshold float64
	window    window.Type
}

// WithFrameSize sets the analysis frame length. It must be a power of two
// of at least 256 samples.
func WithFrameSize(n int) DetectorOption {
	return func(cfg *detectorConfig) error {
		if n < minDetectorFrameSize || !core.IsPowerOfTwo(n) {
			return fmt.Errorf("detector frame size must be a power of two >= %d: %d", minDetectorFrameSize, n)
		}
		cfg.frameSize = n
		return nil
	}
}

// WithFrequencyRange limits the search to minHz..maxHz.
func WithFrequencyRange(minHz, maxHz float64) DetectorOption {
	return func(cfg *detectorConfig) error {
		if !core.IsFinitePositive(minHz) || !core.IsFinitePositive(maxHz) || minHz >= maxHz {
			return fmt.Errorf("detector frequency range must satisfy 0 < min < max: %f, %f", minHz, maxHz)
		}
		cfg.minHz = minHz
		cfg.maxHz = maxHz
		return nil
	}
}

// WithVoicingThreshold sets the minimum normalized autocorrelation peak
// for a frame to count as voiced.
func WithVoicingThreshold(v float64) DetectorOption {
	return func(cfg *detectorConfig) error {
		if !(v > 0 && v < 1) {
			return fmt.Errorf("detector voicing threshold must be in (0, 1): %f", v)
		}
		cfg.threshold = v
		return nil
	}
}

// WithWindow selects the analysis taper. The default is [window.TypeHann].
func WithWindow(t window.Type) DetectorOption {
	return func(cfg *detectorConfig) error {
		if !t.Valid() {
			return fmt.Errorf("detector window type is unknown: %d", int(t))
		}
		cfg.window = t
		return nil
	}
}

// Detector estimates the fundamental frequency of fixed-length frames with
// a windowed, FFT-based autocorrelation.
//
// The window's own autocorrelation is divided out so that peaks at longer
// lags are not biased down by the taper; candidate peaks are then scanned
// in lag order and the first one reaching 90% of the strongest is chosen,
// which suppresses sub-octave errors.
//
// A Detector is not safe for concurrent use.
type Detector struct {
	sampleRate float64
	frameSize  int
	minHz      float64
	maxHz      float64
	threshold  float64
	winType    window.Type

	minLag int
	maxLag int

	win       []float64
	winACF    []float64
	winEnergy float64

	ac       *spectrum.Autocorrelator
	windowed []float64
	raw      []float64
	norm     []float64

	history    [detectorHistoryLen]Estimate
	historyPos int
	historyLen int
	lastPeriod float64
	last       Estimate
}

// NewDetector creates a detector for sampleRate. The default frame size
// follows [core.FrameSizeForRate].
func NewDetector(sampleRate float64, opts ...DetectorOption) (*Detector, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("detector sample rate must be > 0 and finite: %f", sampleRate)
	}

	cfg := detectorConfig{
		frameSize: core.FrameSizeForRate(sampleRate),
		minHz:     defaultDetectorMinHz,
		maxHz:     defaultDetectorMaxHz,
		threshold: defaultVoicingThreshold,
		window:    window.TypeHann,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	minLag := int(math.Floor(sampleRate / cfg.maxHz))
	if minLag < detectorMinLag {
		minLag = detectorMinLag
	}
	maxLag := int(math.Ceil(sampleRate / cfg.minHz))
	if maxLag > cfg.frameSize/2-1 {
		maxLag = cfg.frameSize/2 - 1
	}
	if maxLag-minLag < 2 {
		return nil, fmt.Errorf("detector lag range is empty for sample rate %f and range %f..%f Hz",
			sampleRate, cfg.minHz, cfg.maxHz)
	}

	ac, err := spectrum.NewAutocorrelator(cfg.frameSize)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}

	lags := maxLag + 2
	if lags < detectorMinACFLags {
		lags = min(detectorMinACFLags, cfg.frameSize)
	}

	win, err := window.Generate(cfg.window, cfg.frameSize)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}
	winACF, err := window.Autocorrelation(win, lags-1)
	if err != nil {
		return nil, fmt.Errorf("detector: %w", err)
	}
	var winEnergy float64
	for _, w := range win {
		winEnergy += w * w
	}

	return &Detector{
		sampleRate: sampleRate,
		frameSize:  cfg.frameSize,
		minHz:      cfg.minHz,
		maxHz:      cfg.maxHz,
		threshold:  cfg.threshold,
		winType:    cfg.window,
		minLag:     minLag,
		maxLag:     maxLag,
		win:        win,
		winACF:     winACF,
		winEnergy:  winEnergy,
		ac:         ac,
		windowed:   make([]float64, cfg.frameSize),
		raw:        make([]float64, lags),
		norm:       make([]float64, lags),
	}, nil
}

// SampleRate returns the sample rate in Hz.
func (d *Detector) SampleRate() float64 { return d.sampleRate }

// FrameSize returns the analysis frame length in samples.
func (d *Detector) FrameSize() int { return d.frameSize }

// Window returns the analysis taper.
func (d *Detector) Window() window.Type { return d.winType }

// LagRange returns the smallest and largest searched period in samples.
func (d *Detector) LagRange() (int, int) { return d.minLag, d.maxLag }

// VoicingThreshold returns the confidence required for a voiced estimate.
func (d *Detector) VoicingThreshold() float64 { return d.threshold }

// Detect analyses one frame. Frames whose length differs from FrameSize(),
// silent frames and frames without a clear periodicity are reported
// unvoiced.
func (d *Detector) Detect(frame []float64) Estimate {
	est := d.detect(frame)
	d.record(est)
	return est
}

func (d *Detector) detect(frame []float64) Estimate {
	if len(frame) != d.frameSize {
		core.Zero(d.raw)
		return Estimate{}
	}

	if err := window.ApplyCoefficients(d.windowed, frame, d.win); err != nil {
		core.Zero(d.raw)
		return Estimate{}
	}
	if err := d.ac.Compute(d.raw, d.windowed); err != nil {
		core.Zero(d.raw)
		return Estimate{}
	}

	energy := d.raw[0]
	if !core.IsFinite(energy) || energy/d.winEnergy < detectorSilenceMeanSqr {
		return Estimate{}
	}

	for k := range d.norm {
		w := d.winACF[k]
		if w < detectorWindowACFFloor {
			w = detectorWindowACFFloor
		}
		d.norm[k] = d.raw[k] / energy / w
	}

	best := 0.0
	for k := d.minLag; k <= d.maxLag; k++ {
		if d.isPeak(k) && d.norm[k] > best {
			best = d.norm[k]
		}
	}
	if best <= 0 {
		return Estimate{}
	}

	chosen := -1
	for k := d.minLag; k <= d.maxLag; k++ {
		if d.isPeak(k) && d.norm[k] >= detectorPeakRatio*best {
			chosen = k
			break
		}
	}
	if chosen < 0 {
		return Estimate{}
	}

	conf := core.Clamp(d.norm[chosen], 0, detectorConfidenceMaxVal)
	if conf < d.threshold {
		return Estimate{Confidence: conf}
	}

	period := float64(chosen) + interp.Parabolic(d.norm[chosen-1], d.norm[chosen], d.norm[chosen+1])
	return Estimate{
		Frequency:  d.sampleRate / period,
		Period:     period,
		Confidence: conf,
		Voiced:     true,
	}
}

func (d *Detector) isPeak(k int) bool {
	v := d.norm[k]
	return v > 0 && v > d.norm[k-1] && v >= d.norm[k+1]
}

func (d *Detector) record(est Estimate) {
	d.last = est
	d.history[d.historyPos] = est
	d.historyPos = (d.historyPos + 1) % detectorHistoryLen
	if d.historyLen < detectorHistoryLen {
		d.historyLen++
	}
	if est.Voiced {
		d.lastPeriod = est.Period
	}
}

// Last returns the most recent estimate.
func (d *Detector) Last() Estimate { return d.last }

// LastPeriod returns the period of the most recent voiced estimate, or 0
// if no frame was voiced since the last Reset.
func (d *Detector) LastPeriod() float64 { return d.lastPeriod }

// History returns up to the last 16 estimates, oldest first.
func (d *Detector) History() []Estimate {
	out := make([]Estimate, d.historyLen)
	start := d.historyPos - d.historyLen
	if start < 0 {
		start += detectorHistoryLen
	}
	for i := range out {
		out[i] = d.history[(start+i)%detectorHistoryLen]
	}
	return out
}

// Autocorrelation returns the raw autocorrelation of the last windowed
// frame. The slice is owned by the detector and overwritten by the next
// Detect call.
func (d *Detector) Autocorrelation() []float64 { return d.raw }

// Reset clears the estimate history.
func (d *Detector) Reset() {
	d.history = [detectorHistoryLen]Estimate{}
	d.historyPos = 0
	d.historyLen = 0
	d.lastPeriod = 0
	d.last = Estimate{}
	core.Zero(d.raw)
}
