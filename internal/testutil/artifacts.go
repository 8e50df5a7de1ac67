// Package testutil provides shared fixtures for tests: small model artifacts
// written to temporary directories and stub pipeline ports.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/service"
)

// ScalerJSON is a scaler artifact fitted on the form domains, so every
// valid measurement scales into [0, 1].
const ScalerJSON = `{
  "kind": "minmax_scaler",
  "feature_names": ["ph", "Hardness", "Solids", "Chloramines", "Sulfate", "Conductivity", "Organic_carbon", "Trihalomethanes", "Turbidity"],
  "data_min": [0, 0, 0, 0, 0, 0, 0, 0, 0],
  "data_max": [14, 400, 60000, 14, 500, 800, 30, 125, 7]
}`

// ForestJSON is a two-stump forest:
//
//	tree 0 splits scaled Solids at 0.5: left leaf 25% / 75%, right leaf 100% / 0%
//	tree 1 splits scaled pH at 0.6:     left leaf 50% / 50%, right leaf 75% / 25%
//
// Columns are [not potable, potable].
const ForestJSON = `{
  "kind": "random_forest",
  "n_features": 9,
  "classes": [0, 1],
  "trees": [
    {
      "children_left":  [1, -1, -1],
      "children_right": [2, -1, -1],
      "feature":        [2, -2, -2],
      "threshold":      [0.5, -2, -2],
      "value":          [[50, 30], [10, 30], [40, 0]]
    },
    {
      "children_left":  [1, -1, -1],
      "children_right": [2, -1, -1],
      "feature":        [0, -2, -2],
      "threshold":      [0.6, -2, -2],
      "value":          [[50, 30], [20, 20], [30, 10]]
    }
  ]
}`

// Artifacts holds the paths of fixture artifacts on disk.
type Artifacts struct {
	ScalerPath     string
	ClassifierPath string
}

// WriteArtifacts writes ScalerJSON and ForestJSON into a temporary directory.
func WriteArtifacts(t *testing.T) Artifacts {
	t.Helper()
	dir := t.TempDir()

	a := Artifacts{
		ScalerPath:     filepath.Join(dir, "minmax_scaler.json"),
		ClassifierPath: filepath.Join(dir, "model_random_forest.json"),
	}
	WriteFile(t, a.ScalerPath, ScalerJSON)
	WriteFile(t, a.ClassifierPath, ForestJSON)
	return a
}

// WriteFile writes content to path or fails the test.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ScenarioA is a sample that passes every physical check.
func ScenarioA() [model.ParameterCount]float64 {
	return [model.ParameterCount]float64{7.0, 150, 500, 7.15, 336, 428, 14, 66, 3.96}
}

// Record builds a validated record from values or fails the test.
func Record(t *testing.T, values [model.ParameterCount]float64) model.MeasurementRecord {
	t.Helper()
	rec, err := model.NewMeasurementRecord(values)
	if err != nil {
		t.Fatalf("invalid fixture record: %v", err)
	}
	return rec
}

// IdentityScaler returns raw values unchanged and counts calls.
type IdentityScaler struct {
	Calls int
}

// Scale implements service.Scaler.
func (s *IdentityScaler) Scale(record model.MeasurementRecord) service.ScaledVector {
	s.Calls++
	return service.ScaledVector(record.Values())
}

// StubClassifier returns a fixed prediction or error and records its input.
type StubClassifier struct {
	Err        error
	LastVector service.ScaledVector
	Prediction service.Prediction
	Calls      int
}

// Classify implements service.Classifier.
func (c *StubClassifier) Classify(_ context.Context, vector service.ScaledVector) (service.Prediction, error) {
	c.Calls++
	c.LastVector = vector
	if c.Err != nil {
		return service.Prediction{}, c.Err
	}
	return c.Prediction, nil
}
