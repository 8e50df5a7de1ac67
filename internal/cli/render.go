package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/Veraticus/potability/internal/guidance"
	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/radar"
	"github.com/Veraticus/potability/internal/report"
	"github.com/charmbracelet/lipgloss"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

const radarBarWidth = 24

// ValidFormat reports whether f is a known output format.
func ValidFormat(f string) bool {
	return f == FormatText || f == FormatJSON
}

// RenderJSON writes v as indented JSON.
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// RenderEvaluation writes the full evaluation for a terminal.
func RenderEvaluation(w io.Writer, e model.Evaluation) error {
	sections := []string{
		FormatTitle("Water Potability Evaluation"),
		Verdict(e.Classification),
		"Confidence  " + ConfidenceMeter(e.Classification.Confidence),
		"",
		RenderBox("Physical Report", PhysicalReport(e.PhysicalReport)),
		RenderBox(ChartIcon+" Profile vs. safe boundary", RadarBars(e.RadarProfile)),
		RenderBox(FlaskIcon+" Input", EchoedInput(e.EchoedInput)),
	}

	if _, err := fmt.Fprintln(w, strings.Join(sections, "\n")); err != nil {
		return fmt.Errorf("failed to write evaluation: %w", err)
	}
	return nil
}

// Verdict renders the label as a badge.
func Verdict(c model.ClassificationResult) string {
	if c.Potable() {
		return VerdictPotableStyle.Render(DropIcon + " POTABLE") + "  " +
			SuccessStyle.Render("Safe to drink according to the model.")
	}
	return VerdictNotPotableStyle.Render(ErrorIcon + " NOT POTABLE") + "  " +
		ErrorStyle.Render("Not safe to drink according to the model.")
}

// PhysicalReport renders one line per rule check.
func PhysicalReport(entries []model.PhysicalReportEntry) string {
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := lipgloss.NewStyle().Width(12).Render(entry.ParameterName)
		if entry.Status == model.StatusOK {
			lines = append(lines, name+FormatSuccess(entry.Message))
		} else {
			lines = append(lines, name+FormatWarning(entry.Message))
		}
	}
	return strings.Join(lines, "\n")
}

// RadarBars draws each normalized value as a bar clipped at the display
// ceiling, with a marker at the safe boundary.
func RadarBars(p model.RadarProfile) string {
	boundaryAt := int(radar.Boundary / radar.DisplayCeiling * radarBarWidth)

	lines := make([]string, 0, len(p.Categories))
	for i, category := range p.Categories {
		v := p.NormalizedUserValues[i]
		filled := int(math.Round(radar.Clip(v) / radar.DisplayCeiling * radarBarWidth))

		var bar strings.Builder
		for pos := range radarBarWidth {
			switch {
			case pos == boundaryAt:
				bar.WriteString("│")
			case pos < filled:
				bar.WriteString("█")
			default:
				bar.WriteString("·")
			}
		}

		style := SuccessStyle
		if v > p.NormalizedSafeBoundary[i] {
			style = WarningStyle
		}
		name := lipgloss.NewStyle().Width(16).Render(category)
		lines = append(lines, fmt.Sprintf("%s%s %5.2f", name, style.Render(bar.String()), v))
	}
	return strings.Join(lines, "\n")
}

// EchoedInput lists the raw values that were evaluated.
func EchoedInput(r model.MeasurementRecord) string {
	lines := make([]string, 0, model.ParameterCount)
	for _, p := range model.Parameters() {
		name := lipgloss.NewStyle().Width(16).Render(p.String())
		lines = append(lines, strings.TrimSpace(name+report.FormatValue(r.Value(p))+" "+p.Unit()))
	}
	return strings.Join(lines, "\n")
}

// RenderGuide writes the advisory reference table.
func RenderGuide(w io.Writer, entries []guidance.Entry) error {
	var b strings.Builder
	b.WriteString(FormatTitle("Water Quality Guide") + "\n")
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-16s %-14s %s", "Parameter", "Safe range", "Meaning")) + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-16s %-14s %s\n", e.Parameter, e.Range, SubtleStyle.Render(e.Explanation))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write guide: %w", err)
	}
	return nil
}

// RenderHistory writes journal entries as a table.
func RenderHistory(w io.Writer, entries []model.JournalEntry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, FormatInfo("No evaluations recorded yet"))
		return err
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Render(fmt.Sprintf("%-8s  %-20s  %-12s  %10s  %s",
		"ID", "Evaluated", "Verdict", "Confidence", "Warnings")) + "\n")
	for _, entry := range entries {
		c := entry.Evaluation.Classification
		verdict := SuccessStyle.Render(fmt.Sprintf("%-12s", c.Label))
		if !c.Potable() {
			verdict = ErrorStyle.Render(fmt.Sprintf("%-12s", c.Label))
		}
		fmt.Fprintf(&b, "%-8s  %-20s  %s  %9.1f%%  %d\n",
			shortID(entry.ID),
			entry.EvaluatedAt.Format("2006-01-02 15:04:05"),
			verdict,
			c.Confidence,
			entry.Evaluation.Warnings())
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FeatureRange is one fitted scaler range.
type FeatureRange struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// ArtifactSummary describes what the process loaded at start-up.
type ArtifactSummary struct {
	Scaler     string         `json:"scaler"`
	Classifier string         `json:"classifier"`
	Journal    string         `json:"journal,omitempty"`
	Features   []FeatureRange `json:"features"`
	Trees      int            `json:"trees,omitempty"`
	Nodes      int            `json:"nodes,omitempty"`
	Remote     bool           `json:"remote"`
}

// RenderInspect writes an artifact summary.
func RenderInspect(w io.Writer, s ArtifactSummary) error {
	var b strings.Builder
	b.WriteString(FormatTitle("Loaded Artifacts") + "\n")
	fmt.Fprintf(&b, "Scaler:      %s\n", s.Scaler)
	if s.Remote {
		fmt.Fprintf(&b, "Classifier:  %s (model server)\n", s.Classifier)
	} else {
		fmt.Fprintf(&b, "Classifier:  %s (%d trees, %d nodes)\n", s.Classifier, s.Trees, s.Nodes)
	}
	if s.Journal != "" {
		fmt.Fprintf(&b, "Journal:     %s\n", s.Journal)
	} else {
		b.WriteString("Journal:     disabled\n")
	}
	b.WriteString("\n" + TableHeaderStyle.Render(fmt.Sprintf("%-16s %12s %12s", "Feature", "Fitted min", "Fitted max")) + "\n")
	for _, f := range s.Features {
		fmt.Fprintf(&b, "%-16s %12s %12s\n", f.Name, report.FormatValue(f.Min), report.FormatValue(f.Max))
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}
