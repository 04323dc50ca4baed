package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-autotalent/dsp/scale"
)

func newScaleCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "scale",
		Short: "Print the notes the corrector snaps to",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if list {
				for _, name := range scale.Presets() {
					fmt.Println(name)
				}
				return nil
			}

			cfg, err := loadEngineConfig()
			if err != nil {
				return err
			}
			tab, err := cfg.Table()
			if err != nil {
				return err
			}
			return printScale(tab, cfg.ConcertA)
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list scale presets")
	return cmd
}

func printScale(tab scale.Table, concertA float64) error {
	fmt.Printf("key %s, mask %s, %d notes\n\n", tab.Key(), tab.Mask(), tab.Len())

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Degree\tOffset\tNote\tFrequency [Hz]\n------\t------\t----\t--------------\n"); err != nil {
		return fmt.Errorf("failed to write output header: %w", err)
	}

	for i, offset := range tab.Classes() {
		semi := int(tab.Key()) + offset - int(scale.A)
		note := scale.Key((int(tab.Key()) + offset) % 12)
		if _, err := fmt.Fprintf(tw, "%d\t%d\t%s\t%.2f\n",
			i+1, offset, note, scale.Frequency(float64(semi), concertA)); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
	}
	return tw.Flush()
}
