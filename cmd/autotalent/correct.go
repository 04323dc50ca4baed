package main

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-autotalent/autotalent"
	"github.com/cwbudde/algo-autotalent/dsp/pcm"
	"github.com/cwbudde/algo-autotalent/dsp/pitch"
	"github.com/cwbudde/algo-autotalent/dsp/scale"
)

type correctOptions struct {
	seconds   float64
	amplitude float64
	harmonics int
	inputRate int
	channels  int
}

func newCorrectCmd() *cobra.Command {
	var opts correctOptions

	cmd := &cobra.Command{
		Use:   "correct <hz> [hz ...]",
		Short: "Correct synthetic tones and report the resulting pitch",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if opts.channels != 1 && opts.channels != 2 {
				return fmt.Errorf("channels must be 1 or 2: %d", opts.channels)
			}
			cfg, err := loadEngineConfig()
			if err != nil {
				return err
			}

			freqs := make([]float64, len(args))
			for i, a := range args {
				f, err := strconv.ParseFloat(a, 64)
				if err != nil || f <= 0 {
					return fmt.Errorf("invalid frequency %q", a)
				}
				freqs[i] = f
			}
			return runCorrect(cfg, freqs, opts)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.seconds, "seconds", 2, "tone length in seconds")
	flags.Float64Var(&opts.amplitude, "amplitude", 0.4, "tone peak amplitude")
	flags.IntVar(&opts.harmonics, "harmonics", 6, "number of sawtooth-like harmonics")
	flags.IntVar(&opts.inputRate, "input-rate", 0, "render tones at this rate and resample to the session rate")
	flags.IntVar(&opts.channels, "channels", 1, "render interleaved stereo (2) and downmix before processing")
	return cmd
}

type correctResult struct {
	input, target, output float64
	voiced                bool
	peakdB                float64
	clipped               int
}

func runCorrect(cfg autotalent.Config, freqs []float64, opts correctOptions) error {
	tab, err := cfg.Table()
	if err != nil {
		return err
	}
	q := scale.Quantizer{
		ConcertA:   cfg.ConcertA,
		Table:      tab,
		FixedPitch: cfg.FixedPitch,
		FixedPull:  cfg.FixedPull,
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Input [Hz]\tTarget [Hz]\tOutput [Hz]\tError [cent]\tPeak [dB]\tClipped\n"+
		"----------\t-----------\t-----------\t------------\t---------\t-------\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for _, f := range freqs {
		res, err := correctTone(cfg, f, opts)
		if err != nil {
			return err
		}

		// Expected pitch once the smoothed correction has settled.
		semi := scale.Semitones(f, cfg.ConcertA)
		semi += cfg.Strength*(q.TargetSemitones(semi)-semi) + cfg.PitchShift
		res.target = scale.Frequency(semi, cfg.ConcertA)

		out, errCents := "-", "-"
		if res.voiced {
			out = fmt.Sprintf("%.2f", res.output)
			errCents = fmt.Sprintf("%+.1f", scale.Cents(res.output, res.target))
		}
		if _, err := fmt.Fprintf(tw, "%.2f\t%.2f\t%s\t%s\t%.1f\t%d\n",
			f, res.target, out, errCents, res.peakdB, res.clipped); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}
	return tw.Flush()
}

func correctTone(cfg autotalent.Config, freq float64, opts correctOptions) (correctResult, error) {
	sessionOpts, err := settings.sessionOptions()
	if err != nil {
		return correctResult{}, err
	}
	s, err := autotalent.New(settings.SampleRate, sessionOpts...)
	if err != nil {
		return correctResult{}, err
	}
	defer func() { _ = s.Destroy() }()

	if err := s.Configure(cfg); err != nil {
		return correctResult{}, err
	}

	samples, err := renderTone(freq, opts)
	if err != nil {
		return correctResult{}, err
	}

	block := settings.BlockSize
	for start := 0; start+block <= len(samples); start += block {
		if err := s.Process(samples[start : start+block]); err != nil {
			return correctResult{}, err
		}
	}

	est, err := measurePitch(samples, block)
	if err != nil {
		return correctResult{}, err
	}
	_, out := s.Levels()
	return correctResult{
		input:   freq,
		output:  est.Frequency,
		voiced:  est.Voiced,
		peakdB:  out.PeakdB,
		clipped: out.Clipped,
	}, nil
}

// renderTone renders a harmonic tone at the input rate and converts it to
// mono at the session rate.
func renderTone(freq float64, opts correctOptions) ([]int16, error) {
	rate := settings.SampleRate
	if opts.inputRate > 0 {
		rate = opts.inputRate
	}

	n := int(opts.seconds * float64(rate))
	tone := make([]float64, n)
	var norm float64
	for k := 1; k <= opts.harmonics; k++ {
		norm += 1 / float64(k)
	}
	step := 2 * math.Pi * freq / float64(rate)
	for i := range tone {
		var sum float64
		for k := 1; k <= opts.harmonics && float64(k)*freq < float64(rate)/2; k++ {
			sum += math.Sin(step*float64(k)*float64(i)) / float64(k)
		}
		tone[i] = opts.amplitude * sum / norm
	}

	samples := make([]int16, n)
	if _, err := pcm.FromFloat(samples, tone); err != nil {
		return nil, err
	}
	if opts.channels == 2 {
		mono, err := toMono(interleave(samples), 2)
		if err != nil {
			return nil, err
		}
		samples = mono
	}
	if rate == settings.SampleRate {
		return samples, nil
	}
	return pcm.Resample(samples, rate, settings.SampleRate)
}

// interleave duplicates a mono signal into interleaved stereo with the right
// channel one LSB lower, so the downmix path is not a plain copy.
func interleave(mono []int16) []int16 {
	out := make([]int16, 2*len(mono))
	for i, v := range mono {
		out[2*i] = v
		out[2*i+1] = v
		if v > math.MinInt16 {
			out[2*i+1] = v - 1
		}
	}
	return out
}

// toMono converts interleaved samples with the given channel count to mono.
func toMono(samples []int16, channels int) ([]int16, error) {
	switch channels {
	case 1:
		return samples, nil
	case 2:
		left, right, err := pcm.Deinterleave(samples)
		if err != nil {
			return nil, err
		}
		return pcm.Downmix(left, right)
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}
}

// measurePitch runs a detector over the last full frame of processed
// output.
func measurePitch(samples []int16, block int) (pitch.Estimate, error) {
	det, err := pitch.NewDetector(float64(settings.SampleRate))
	if err != nil {
		return pitch.Estimate{}, err
	}

	end := len(samples) - len(samples)%block
	n := det.FrameSize()
	if end < n {
		return pitch.Estimate{}, fmt.Errorf("tone too short for analysis: %d samples, need %d", end, n)
	}

	frame := make([]float64, n)
	if err := pcm.ToFloat(frame, samples[end-n:end]); err != nil {
		return pitch.Estimate{}, err
	}
	return det.Detect(frame), nil
}
