// Command autotalent exercises the pitch corrector without an audio host.
//
// Usage:
//
//	autotalent [flags] <command>
//
// Commands:
//
//	scale    print the scale table for a key, scale and rotation
//	correct  run synthetic tones through a session and report the result
//	bench    process noise on several sessions in parallel
//
// Engine parameters come from an optional config file (--config), then
// flags. Process settings also read AUTOTALENT_* environment variables.
//
// Examples:
//
//	autotalent scale --key F# --scale minor
//	autotalent correct --key F# 440 300 196
//	autotalent correct --window blackman --channels 2 220
//	autotalent bench --sessions 8 --seconds 30
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/algo-autotalent/autotalent"
)

var (
	configFile string
	debug      bool
	settings   processSettings

	rootCmd = &cobra.Command{
		Use:          "autotalent",
		Short:        "Real-time pitch correction diagnostics",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setup(cmd)
		},
	}
)

func setup(cmd *cobra.Command) error {
	if err := loadConfigFile(configFile); err != nil {
		return err
	}

	s, err := loadProcessSettings(cmd)
	if err != nil {
		return err
	}
	settings = s

	level, err := log.ParseLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", settings.LogLevel, err)
	}
	if debug {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "autotalent",
		Level:           level,
		ReportTimestamp: true,
	})
	return autotalent.Init(autotalent.WithDefaultLogger(logger))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file with engine parameters (yaml, toml or json)")
	flags.BoolVar(&debug, "debug", false, "log session lifecycle at debug level")
	flags.Int("rate", 0, "session sample rate in Hz (default $AUTOTALENT_SAMPLE_RATE or 44100)")
	flags.Int("block", 0, "block length in samples (default $AUTOTALENT_BLOCK_SIZE or 512)")
	flags.String("window", "", "detector window: rectangular, hann, hamming or blackman (default $AUTOTALENT_WINDOW or hann)")

	flags.String("key", "C", "scale root, e.g. C, F#, Bb")
	flags.String("scale", "major", "scale preset or 12-character degree pattern")
	flags.Int("rotate", 0, "mode rotation in scale degrees")
	flags.Float64("concert-a", 440, "tuning of A4 in Hz")
	flags.Float64("strength", 1, "correction strength in [0, 1]")
	flags.Float64("smoothness", 0, "correction glide in [0, 1]")
	flags.Float64("shift", 0, "fixed pitch shift in semitones")
	flags.Float64("mix", 1, "wet/dry mix in [0, 1]")
	flags.Bool("formant", false, "enable formant correction")
	flags.Float64("warp", 0, "formant warp in [-1, 1]")

	for key, flag := range map[string]string{
		"key":             "key",
		"scale":           "scale",
		"scale_rotate":    "rotate",
		"concert_a":       "concert-a",
		"strength":        "strength",
		"smoothness":      "smoothness",
		"pitch_shift":     "shift",
		"mix":             "mix",
		"formant.correct": "formant",
		"formant.warp":    "warp",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(newScaleCmd(), newCorrectCmd(), newBenchCmd())
}
