// Package engine assembles the evaluation bundle from a measurement record.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/radar"
	"github.com/Veraticus/potability/internal/report"
	"github.com/Veraticus/potability/internal/service"
)

// Evaluator runs one full evaluation per call. The classifier verdict, the
// physical report and the radar profile are independent projections of the
// same record.
type Evaluator struct {
	pipeline *Pipeline
	journal  service.Journal
}

// New creates an evaluator. journal may be nil.
func New(scaler service.Scaler, classifier service.Classifier, journal service.Journal) *Evaluator {
	return &Evaluator{
		pipeline: NewPipeline(scaler, classifier),
		journal:  journal,
	}
}

// Evaluate produces the full bundle for an already validated record.
func (e *Evaluator) Evaluate(ctx context.Context, record model.MeasurementRecord) (model.Evaluation, error) {
	start := time.Now()

	classification, err := e.pipeline.Decide(ctx, record)
	if err != nil {
		return model.Evaluation{}, err
	}

	evaluation := model.Evaluation{
		Classification: classification,
		PhysicalReport: report.Physical(record),
		RadarProfile:   radar.Normalize(record),
		EchoedInput:    record,
	}

	common.LogDebug("Evaluated measurement", common.Fields{
		"label":      classification.Label,
		"confidence": classification.Confidence,
		"warnings":   evaluation.Warnings(),
		"duration":   time.Since(start),
	})

	e.record(ctx, evaluation)
	return evaluation, nil
}

// EvaluateValues validates raw values before evaluating them. Invalid input
// returns an error wrapping common.ErrInvalidMeasurement and never reaches the
// classifier.
func (e *Evaluator) EvaluateValues(ctx context.Context, values [model.ParameterCount]float64) (model.Evaluation, error) {
	record, err := model.NewMeasurementRecord(values)
	if err != nil {
		return model.Evaluation{}, err
	}
	return e.Evaluate(ctx, record)
}

func (e *Evaluator) record(ctx context.Context, evaluation model.Evaluation) {
	if e.journal == nil {
		return
	}

	entry, err := e.journal.Record(ctx, evaluation)
	if err != nil {
		slog.Warn("Failed to record evaluation in journal", "error", err)
		return
	}

	slog.Debug("Recorded evaluation", "id", entry.ID)
}
