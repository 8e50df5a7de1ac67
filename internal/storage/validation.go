// Package storage provides the evaluation journal for potable.
package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/service"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrInvalidEvaluation = errors.New("invalid evaluation")
	ErrInvalidFilter     = errors.New("invalid journal filter")
	ErrAmbiguousID       = errors.New("id prefix matches more than one evaluation")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validLabel(label model.Label) bool {
	return label == model.LabelPotable || label == model.LabelNotPotable
}

// validateEvaluation checks the parts of an evaluation the journal indexes.
func validateEvaluation(e *model.Evaluation) error {
	if !validLabel(e.Classification.Label) {
		return fmt.Errorf("%w: label %q", ErrInvalidEvaluation, e.Classification.Label)
	}
	c := e.Classification.Confidence
	if math.IsNaN(c) || c < 0 || c > 100 {
		return fmt.Errorf("%w: confidence %v", ErrInvalidEvaluation, c)
	}
	if len(e.PhysicalReport) == 0 {
		return fmt.Errorf("%w: missing physical report", ErrInvalidEvaluation)
	}
	return nil
}

func validateFilter(f service.JournalFilter) error {
	if f.Label != "" && !validLabel(f.Label) {
		return fmt.Errorf("%w: label %q", ErrInvalidFilter, f.Label)
	}
	if f.Limit < 0 {
		return fmt.Errorf("%w: limit %d", ErrInvalidFilter, f.Limit)
	}
	return nil
}
