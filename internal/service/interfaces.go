// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/potability/internal/model"
)

// ScaledVector is a measurement vector after the fitted min-max transform.
type ScaledVector [model.ParameterCount]float64

// Scaler applies the externally fitted feature scaling.
type Scaler interface {
	Scale(record model.MeasurementRecord) ScaledVector
}

// Prediction is the raw classifier output: a class index and per-class probabilities.
type Prediction struct {
	Probabilities [2]float64
	Class         int
}

// Classifier wraps the externally trained binary classifier.
type Classifier interface {
	Classify(ctx context.Context, vector ScaledVector) (Prediction, error)
}

// JournalFilter narrows journal listings.
type JournalFilter struct {
	Label model.Label
	Limit int
}

// Journal records completed evaluations for the operator.
type Journal interface {
	Record(ctx context.Context, evaluation model.Evaluation) (*model.JournalEntry, error)
	List(ctx context.Context, filter JournalFilter) ([]model.JournalEntry, error)
	Get(ctx context.Context, id string) (*model.JournalEntry, error)
	Close() error
}
