package model

import "time"

// ReportStatus is the outcome of one physical threshold check.
type ReportStatus string

// Report status constants.
const (
	StatusOK   ReportStatus = "OK"
	StatusWarn ReportStatus = "WARN"
)

// PhysicalReportEntry is one rule-based check over a raw measurement.
type PhysicalReportEntry struct {
	ParameterName string       `json:"parameterName"`
	Status        ReportStatus `json:"status"`
	Message       string       `json:"message"`
	RawValue      float64      `json:"rawValue"`
}

// RadarProfile holds two parallel sequences keyed by Categories.
type RadarProfile struct {
	Categories             []string  `json:"categories"`
	NormalizedUserValues   []float64 `json:"normalizedUserValues"`
	NormalizedSafeBoundary []float64 `json:"normalizedSafeBoundary"`
}

// Evaluation is the bundle handed to a presentation layer.
type Evaluation struct {
	Classification ClassificationResult  `json:"classification"`
	PhysicalReport []PhysicalReportEntry `json:"physicalReport"`
	RadarProfile   RadarProfile          `json:"radarProfile"`
	EchoedInput    MeasurementRecord     `json:"echoedInput"`
}

// Warnings counts the report entries that did not pass.
func (e Evaluation) Warnings() int {
	n := 0
	for _, entry := range e.PhysicalReport {
		if entry.Status == StatusWarn {
			n++
		}
	}
	return n
}

// JournalEntry is an evaluation as recorded in the operator journal.
type JournalEntry struct {
	EvaluatedAt time.Time  `json:"evaluatedAt"`
	ID          string     `json:"id"`
	Evaluation  Evaluation `json:"evaluation"`
}
