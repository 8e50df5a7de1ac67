package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/service"
)

// Pipeline turns a measurement record into a verdict: scale, classify once, map.
type Pipeline struct {
	scaler     service.Scaler
	classifier service.Classifier
}

// NewPipeline creates a decision pipeline over loaded artifacts.
func NewPipeline(scaler service.Scaler, classifier service.Classifier) *Pipeline {
	return &Pipeline{
		scaler:     scaler,
		classifier: classifier,
	}
}

// Decide runs a single inference. Any classifier failure fails the decision
// and no result is produced.
func (p *Pipeline) Decide(ctx context.Context, record model.MeasurementRecord) (model.ClassificationResult, error) {
	vector := p.scaler.Scale(record)

	pred, err := p.classifier.Classify(ctx, vector)
	if err != nil {
		return model.ClassificationResult{}, fmt.Errorf("failed to classify measurement: %w", err)
	}

	if err := checkPrediction(pred); err != nil {
		return model.ClassificationResult{}, err
	}

	return model.ClassificationResult{
		Label:      model.LabelFromClass(pred.Class),
		Confidence: pred.Probabilities[pred.Class] * 100,
	}, nil
}

func checkPrediction(pred service.Prediction) error {
	if pred.Class != 0 && pred.Class != 1 {
		return fmt.Errorf("classifier returned unknown class %d", pred.Class)
	}
	for i, v := range pred.Probabilities {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("classifier returned probability %v for class %d", v, i)
		}
	}
	return nil
}
