package main

import (
	"github.com/Veraticus/potability/internal/cli"
	"github.com/spf13/cobra"
)

func inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Load the model artifacts and summarize them",
		Long: `Load the scaler and classifier exactly as evaluate does and print what was
loaded: artifact locations, forest size and the fitted feature ranges.

Useful to check a deployment before handing it to users.`,
		RunE: runInspect,
	}

	cmd.Flags().StringP("format", "f", cli.FormatText, "output format (text, json)")

	return cmd
}

func runInspect(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	a, err := bootstrap(cmd.Context(), appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	if format == cli.FormatJSON {
		return cli.RenderJSON(cmd.OutOrStdout(), a.summary)
	}
	return cli.RenderInspect(cmd.OutOrStdout(), a.summary)
}
