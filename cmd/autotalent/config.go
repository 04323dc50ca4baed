package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-autotalent/autotalent"
	"github.com/cwbudde/algo-autotalent/dsp/lfo"
	"github.com/cwbudde/algo-autotalent/dsp/mix"
	"github.com/cwbudde/algo-autotalent/dsp/pitch"
	"github.com/cwbudde/algo-autotalent/dsp/scale"
	"github.com/cwbudde/algo-autotalent/dsp/window"
)

// processSettings are host-side settings that are not part of the engine
// configuration.
type processSettings struct {
	SampleRate       int    `env:"AUTOTALENT_SAMPLE_RATE" envDefault:"44100"`
	BlockSize        int    `env:"AUTOTALENT_BLOCK_SIZE"  envDefault:"512"`
	LogLevel         string `env:"AUTOTALENT_LOG_LEVEL"   envDefault:"warn"`
	InstrumentalMode string `env:"AUTOTALENT_INSTRUMENTAL_MODE" envDefault:"sum"`
	Window           string `env:"AUTOTALENT_WINDOW"      envDefault:"hann"`
}

func loadProcessSettings(cmd *cobra.Command) (processSettings, error) {
	s, err := env.ParseAs[processSettings]()
	if err != nil {
		return s, fmt.Errorf("error parsing environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("rate") {
		s.SampleRate, _ = flags.GetInt("rate")
	}
	if flags.Changed("block") {
		s.BlockSize, _ = flags.GetInt("block")
	}
	if flags.Changed("window") {
		s.Window, _ = flags.GetString("window")
	}
	if s.SampleRate <= 0 {
		return s, fmt.Errorf("sample rate must be > 0: %d", s.SampleRate)
	}
	if s.BlockSize <= 0 {
		return s, fmt.Errorf("block size must be > 0: %d", s.BlockSize)
	}
	if _, err := window.ParseType(s.Window); err != nil {
		return s, err
	}
	return s, nil
}

func (s processSettings) sessionOptions() ([]autotalent.Option, error) {
	mode, err := mix.ParseMode(s.InstrumentalMode)
	if err != nil {
		return nil, err
	}
	win, err := window.ParseType(s.Window)
	if err != nil {
		return nil, err
	}
	return []autotalent.Option{
		autotalent.WithBlockSize(s.BlockSize),
		autotalent.WithInstrumentalMode(mode),
		autotalent.WithDetectorOptions(pitch.WithWindow(win)),
	}, nil
}

func loadConfigFile(path string) error {
	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("unable to read config file %s: %w", path, err)
	}
	return nil
}

// loadEngineConfig overlays config file values and changed flags onto the
// engine defaults.
func loadEngineConfig() (autotalent.Config, error) {
	cfg := autotalent.DefaultConfig()

	if viper.IsSet("concert_a") {
		cfg.ConcertA = viper.GetFloat64("concert_a")
	}
	if viper.IsSet("key") {
		k, err := scale.ParseKey(viper.GetString("key"))
		if err != nil {
			return cfg, err
		}
		cfg.Key = k
	}
	if viper.IsSet("scale") {
		m, err := scale.ParseMask(viper.GetString("scale"))
		if err != nil {
			return cfg, err
		}
		cfg.Scale = m
	}
	if viper.IsSet("scale_rotate") {
		cfg.ScaleRotate = viper.GetInt("scale_rotate")
	}
	if viper.IsSet("fixed_pitch") {
		cfg.FixedPitch = viper.GetFloat64("fixed_pitch")
	}
	if viper.IsSet("fixed_pull") {
		cfg.FixedPull = viper.GetFloat64("fixed_pull")
	}
	if viper.IsSet("strength") {
		cfg.Strength = viper.GetFloat64("strength")
	}
	if viper.IsSet("smoothness") {
		cfg.Smoothness = viper.GetFloat64("smoothness")
	}
	if viper.IsSet("pitch_shift") {
		cfg.PitchShift = viper.GetFloat64("pitch_shift")
	}
	cfg.LFO = loadLFOParams(cfg.LFO)
	if viper.IsSet("formant.correct") {
		cfg.FormantCorrect = viper.GetBool("formant.correct")
	}
	if viper.IsSet("formant.warp") {
		cfg.FormantWarp = viper.GetFloat64("formant.warp")
	}
	if viper.IsSet("mix") {
		cfg.Mix = viper.GetFloat64("mix")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid engine configuration: %w", err)
	}
	return cfg, nil
}

func loadLFOParams(p lfo.Params) lfo.Params {
	if viper.IsSet("lfo.depth") {
		p.Depth = viper.GetFloat64("lfo.depth")
	}
	if viper.IsSet("lfo.rate") {
		p.Rate = viper.GetFloat64("lfo.rate")
	}
	if viper.IsSet("lfo.shape") {
		p.Shape = viper.GetFloat64("lfo.shape")
	}
	if viper.IsSet("lfo.symmetry") {
		p.Symmetry = viper.GetFloat64("lfo.symmetry")
	}
	if viper.IsSet("lfo.quantize") {
		p.QuantizeSteps = viper.GetInt("lfo.quantize")
	}
	return p
}
