package main

import (
	"github.com/Veraticus/potability/internal/cli"
	"github.com/Veraticus/potability/internal/guidance"
	"github.com/spf13/cobra"
)

func guideCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Show the advisory range for each measurement",
		Long: `Show what each of the nine measurements means and its advisory safe range.

These ranges are reference text only. They are not the thresholds used by the
physical report, and no verdict is computed from them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cli.RenderGuide(cmd.OutOrStdout(), guidance.Table)
		},
	}
}
