package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/strudel-tools/orchestra/internal/audio"
)

var (
	spliceOut  string
	spliceLoop int
)

// NewSpliceCommand creates the splice command
func NewSpliceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "splice <input>...",
		Short: "Concatenate or loop rendered audio files",
		Long: `Join rendered bounces end to end, or repeat a single bounce, using
ffmpeg. With --loop, exactly one input is repeated N times; otherwise all
inputs are concatenated in argument order.`,
		Example: `  # Join two bounces
  orchestra splice --out set.wav audio/a.wav audio/b.wav

  # Loop one bounce four times
  orchestra splice --loop 4 --out loop.wav audio/a.wav`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSplice,
	}

	cmd.Flags().StringVarP(&spliceOut, "out", "o", "", "Output audio file (required)")
	cmd.Flags().IntVar(&spliceLoop, "loop", 0, "Repeat a single input N times instead of concatenating")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runSplice(cmd *cobra.Command, args []string) error {
	if spliceLoop > 0 {
		if len(args) != 1 {
			return fmt.Errorf("--loop takes exactly one input file, got %d", len(args))
		}
		if err := audio.Loop(args[0], spliceLoop, spliceOut); err != nil {
			return err
		}
	} else {
		if err := audio.Concat(args, spliceOut); err != nil {
			return err
		}
	}

	color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", spliceOut)
	return nil
}
