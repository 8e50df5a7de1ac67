// Package report builds the rule-based physical report from raw measurements.
// The checks are independent of the classifier.
package report

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/potability/internal/model"
)

// Pass/fail thresholds. These are not the advisory guidance values: Solids passes
// below 1000 ppm here although guidance recommends 500.
const (
	PHMin          = 6.5
	PHMax          = 8.5
	HardnessLimit  = 300.0
	SolidsLimit    = 1000.0
	TurbidityLimit = 5.0
)

// check is one threshold rule of the report.
type check struct {
	pass      func(float64) bool
	okMessage string
	warn      string // format string receiving the raw value
	param     model.Parameter
}

var checks = []check{
	{
		param:     model.PH,
		pass:      func(v float64) bool { return v >= PHMin && v <= PHMax },
		okMessage: "Normal/neutral (safe).",
		warn:      "Not ideal (%s). Safe range: 6.5 - 8.5.",
	},
	{
		param:     model.Hardness,
		pass:      func(v float64) bool { return v < HardnessLimit },
		okMessage: "Soft/reasonable (safe).",
		warn:      "High (%s mg/L). Risk of scale buildup.",
	},
	{
		param:     model.Solids,
		pass:      func(v float64) bool { return v < SolidsLimit },
		okMessage: "Low/reasonable dissolved solids.",
		warn:      "High (%s ppm). Water may taste salty or metallic.",
	},
	{
		param:     model.Turbidity,
		pass:      func(v float64) bool { return v < TurbidityLimit },
		okMessage: "Clear (safe).",
		warn:      "High (%s NTU). Water looks cloudy or dirty.",
	},
}

// Physical runs the threshold checks in fixed order: pH, Hardness, Solids, Turbidity.
func Physical(record model.MeasurementRecord) []model.PhysicalReportEntry {
	entries := make([]model.PhysicalReportEntry, 0, len(checks))
	for _, c := range checks {
		v := record.Value(c.param)
		entry := model.PhysicalReportEntry{
			ParameterName: c.param.String(),
			RawValue:      v,
			Status:        model.StatusOK,
			Message:       c.okMessage,
		}
		if !c.pass(v) {
			entry.Status = model.StatusWarn
			entry.Message = fmt.Sprintf(c.warn, FormatValue(v))
		}
		entries = append(entries, entry)
	}
	return entries
}

// FormatValue renders a raw measurement with the shortest exact representation.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
