package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Veraticus/potability/internal/cli"
	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/config"
	"github.com/Veraticus/potability/internal/model"
	"github.com/spf13/cobra"
)

func evaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one water sample",
		Long: `Evaluate one water sample and print the verdict, the classifier's confidence,
the rule-based physical report and the profile against safety thresholds.

Values come from flags or from a JSON record (--input file, or - for stdin).
Missing flags take the same defaults as the interactive form. Values outside
a parameter's accepted range are rejected, never clamped.`,
		Example: `  potable evaluate --ph 7 --hardness 150 --solids 500
  echo '{"ph":7,"hardness":150,...}' | potable evaluate --input - --format json`,
		RunE: runEvaluate,
	}

	defaults := model.DefaultValues()
	for _, p := range model.Parameters() {
		d := p.Domain()
		usage := fmt.Sprintf("%s, %v to %v", p, d.Min, d.Max)
		if u := p.Unit(); u != "" {
			usage += " " + u
		}
		cmd.Flags().Float64(flagName(p), defaults[p], usage)
	}
	cmd.Flags().StringP("input", "i", "", "read a JSON measurement record from a file, or - for stdin")
	cmd.Flags().StringP("format", "f", cli.FormatText, "output format (text, json)")

	return cmd
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	values, err := measurementValues(cmd)
	if err != nil {
		return err
	}

	a, err := bootstrap(ctx, appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	evaluation, err := a.evaluator.EvaluateValues(ctx, values)
	if err != nil {
		if errors.Is(err, common.ErrInvalidMeasurement) {
			return common.NewUserError("measurement rejected", err)
		}
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if format == cli.FormatJSON {
		return cli.RenderJSON(cmd.OutOrStdout(), evaluation)
	}
	return cli.RenderEvaluation(cmd.OutOrStdout(), evaluation)
}

// measurementValues resolves the nine values from --input or the per-parameter flags.
func measurementValues(cmd *cobra.Command) ([model.ParameterCount]float64, error) {
	var values [model.ParameterCount]float64

	input, _ := cmd.Flags().GetString("input")
	if input != "" {
		for _, p := range model.Parameters() {
			if cmd.Flags().Changed(flagName(p)) {
				return values, common.NewUserError(
					fmt.Sprintf("--%s cannot be combined with --input", flagName(p)), common.ErrInvalidConfig)
			}
		}
		return readInput(cmd.InOrStdin(), input)
	}

	for _, p := range model.Parameters() {
		v, err := cmd.Flags().GetFloat64(flagName(p))
		if err != nil {
			return values, fmt.Errorf("failed to read --%s: %w", flagName(p), err)
		}
		values[p] = v
	}
	return values, nil
}

func readInput(stdin io.Reader, input string) ([model.ParameterCount]float64, error) {
	r := stdin
	if input != "-" {
		f, err := os.Open(config.ExpandPath(input)) //nolint:gosec // operator-supplied path
		if err != nil {
			return [model.ParameterCount]float64{}, common.NewUserError("failed to open input", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	return readRecord(r)
}

// readRecord decodes one JSON measurement record. Records are validated on decode.
func readRecord(r io.Reader) ([model.ParameterCount]float64, error) {
	var record model.MeasurementRecord
	if err := json.NewDecoder(r).Decode(&record); err != nil {
		return [model.ParameterCount]float64{}, common.NewUserError("measurement rejected", err)
	}
	return record.Values(), nil
}
