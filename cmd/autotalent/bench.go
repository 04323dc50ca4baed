package main

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-autotalent/autotalent"
)

func newBenchCmd() *cobra.Command {
	var (
		sessions int
		seconds  float64
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure throughput of independent sessions running in parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sessions <= 0 {
				return fmt.Errorf("sessions must be > 0: %d", sessions)
			}
			if seconds <= 0 {
				return fmt.Errorf("seconds must be > 0: %f", seconds)
			}
			cfg, err := loadEngineConfig()
			if err != nil {
				return err
			}
			return runBench(cmd.Context(), cfg, sessions, seconds)
		},
	}
	cmd.Flags().IntVar(&sessions, "sessions", 4, "number of concurrent sessions")
	cmd.Flags().Float64Var(&seconds, "seconds", 10, "audio seconds per session")
	return cmd
}

func runBench(ctx context.Context, cfg autotalent.Config, sessions int, seconds float64) error {
	sessionOpts, err := settings.sessionOptions()
	if err != nil {
		return err
	}

	block := settings.BlockSize
	blocks := int(seconds * float64(settings.SampleRate) / float64(block))
	if blocks < 1 {
		blocks = 1
	}

	var (
		processed atomic.Int64
		clipped   atomic.Int64
	)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for i := range sessions {
		g.Go(func() error {
			s, err := autotalent.New(settings.SampleRate, sessionOpts...)
			if err != nil {
				return err
			}
			defer func() { _ = s.Destroy() }()
			if err := s.Configure(cfg); err != nil {
				return err
			}

			rng := rand.New(rand.NewSource(int64(i) + 1))
			buf := make([]int16, block)
			for range blocks {
				if err := ctx.Err(); err != nil {
					return err
				}
				for j := range buf {
					buf[j] = int16(rng.Intn(16384) - 8192)
				}
				if err := s.Process(buf); err != nil {
					return err
				}
				processed.Add(int64(block))
			}

			_, out := s.Levels()
			clipped.Add(int64(out.Clipped))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	total := processed.Load()
	audio := time.Duration(float64(total) / float64(settings.SampleRate) * float64(time.Second))
	rate := float64(total) / elapsed.Seconds()

	fmt.Printf("sessions:   %d x %d-sample blocks at %s Hz\n",
		sessions, block, humanize.Comma(int64(settings.SampleRate)))
	fmt.Printf("processed:  %s samples (%s of audio)\n", humanize.Comma(total), audio.Round(time.Millisecond))
	fmt.Printf("elapsed:    %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("throughput: %s, %.1fx realtime\n",
		humanize.SIWithDigits(rate, 2, "samples/s"), audio.Seconds()/elapsed.Seconds())
	fmt.Printf("clipped:    %s samples\n", humanize.Comma(clipped.Load()))
	return nil
}
