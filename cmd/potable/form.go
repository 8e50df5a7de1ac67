package main

import (
	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/tui"
	"github.com/Veraticus/potability/internal/tui/themes"
	"github.com/spf13/cobra"
)

func formCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Open the interactive measurement form",
		Long: `Open a terminal form with the nine measurements. Press enter to evaluate,
r to edit the values again, and esc or q to quit.

Fields start from the usual defaults, or from a JSON measurement record file
given with --input. Artifacts are loaded before the form
opens; if either is unavailable the form never starts.`,
		RunE: runForm,
	}

	cmd.Flags().String("theme", "default", "color theme (default, catppuccin-mocha)")
	cmd.Flags().Bool("help-keys", false, "show all key bindings")
	cmd.Flags().StringP("input", "i", "", "prefill the form from a JSON measurement record file")

	return cmd
}

func runForm(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	opts, err := formOptions(cmd)
	if err != nil {
		return err
	}

	a, err := bootstrap(ctx, appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	return tui.RunForm(ctx, a.evaluator, opts...)
}

func formOptions(cmd *cobra.Command) ([]tui.Option, error) {
	theme, _ := cmd.Flags().GetString("theme")
	showKeys, _ := cmd.Flags().GetBool("help-keys")
	opts := []tui.Option{
		tui.WithTheme(themes.GetTheme(theme)),
		tui.WithHelp(showKeys),
	}

	if input, _ := cmd.Flags().GetString("input"); input != "" {
		if input == "-" {
			return nil, common.NewUserError("the form reads keys from stdin; give --input a file", common.ErrInvalidConfig)
		}
		values, err := readInput(cmd.InOrStdin(), input)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tui.WithDefaults(values))
	}
	return opts, nil
}
