package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/Veraticus/potability/internal/artifact"
	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/config"
	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/service"
	"github.com/Veraticus/potability/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeJournal struct {
	err      error
	recorded []model.Evaluation
}

func (j *fakeJournal) Record(_ context.Context, evaluation model.Evaluation) (*model.JournalEntry, error) {
	if j.err != nil {
		return nil, j.err
	}
	j.recorded = append(j.recorded, evaluation)
	return &model.JournalEntry{ID: "entry-1", Evaluation: evaluation}, nil
}

func (j *fakeJournal) List(context.Context, service.JournalFilter) ([]model.JournalEntry, error) {
	return nil, nil
}

func (j *fakeJournal) Get(context.Context, string) (*model.JournalEntry, error) {
	return nil, common.ErrNotFound
}

func (j *fakeJournal) Close() error { return nil }

func loadedEvaluator(t *testing.T, journal service.Journal) *Evaluator {
	t.Helper()
	ctx := context.Background()
	files := testutil.WriteArtifacts(t)

	loader, err := artifact.NewLoader(config.ObjectStorage{})
	require.NoError(t, err)
	scaler, err := artifact.LoadScaler(ctx, loader, files.ScalerPath)
	require.NoError(t, err)
	forest, err := artifact.LoadForest(ctx, loader, files.ClassifierPath)
	require.NoError(t, err)

	return New(scaler, forest, journal)
}

func TestPipeline_Decide(t *testing.T) {
	tests := []struct {
		name      string
		wantLabel model.Label
		pred      service.Prediction
		wantConf  float64
	}{
		{
			name:      "class 1 is potable",
			pred:      service.Prediction{Class: 1, Probabilities: [2]float64{0.3, 0.7}},
			wantLabel: model.LabelPotable,
			wantConf:  70,
		},
		{
			name:      "class 0 is not potable",
			pred:      service.Prediction{Class: 0, Probabilities: [2]float64{0.9, 0.1}},
			wantLabel: model.LabelNotPotable,
			wantConf:  90,
		},
		{
			name:      "even split",
			pred:      service.Prediction{Class: 0, Probabilities: [2]float64{0.5, 0.5}},
			wantLabel: model.LabelNotPotable,
			wantConf:  50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scaler := &testutil.IdentityScaler{}
			classifier := &testutil.StubClassifier{Prediction: tt.pred}
			rec := testutil.Record(t, testutil.ScenarioA())

			result, err := NewPipeline(scaler, classifier).Decide(context.Background(), rec)
			require.NoError(t, err)

			assert.Equal(t, tt.wantLabel, result.Label)
			assert.InDelta(t, tt.wantConf, result.Confidence, 1e-9)
			assert.Equal(t, 1, scaler.Calls)
			assert.Equal(t, 1, classifier.Calls)
			assert.Equal(t, service.ScaledVector(rec.Values()), classifier.LastVector)
		})
	}
}

func TestPipeline_DecideRejectsBadPredictions(t *testing.T) {
	tests := []struct {
		name string
		pred service.Prediction
	}{
		{name: "unknown class", pred: service.Prediction{Class: 2, Probabilities: [2]float64{0.5, 0.5}}},
		{name: "negative probability", pred: service.Prediction{Class: 1, Probabilities: [2]float64{-0.1, 1.1}}},
		{name: "NaN probability", pred: service.Prediction{Class: 0, Probabilities: [2]float64{math.NaN(), 0.5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPipeline(&testutil.IdentityScaler{}, &testutil.StubClassifier{Prediction: tt.pred})
			_, err := p.Decide(context.Background(), testutil.Record(t, testutil.ScenarioA()))
			assert.Error(t, err)
		})
	}
}

func TestPipeline_DecideFailsWithoutPartialResult(t *testing.T) {
	boom := errors.New("inference failed")
	classifier := &testutil.StubClassifier{Err: boom}

	result, err := NewPipeline(&testutil.IdentityScaler{}, classifier).
		Decide(context.Background(), testutil.Record(t, testutil.ScenarioA()))

	require.ErrorIs(t, err, boom)
	assert.Equal(t, model.ClassificationResult{}, result)
	assert.Equal(t, 1, classifier.Calls)
}

func TestEvaluator_ScenarioA(t *testing.T) {
	journal := &fakeJournal{}
	e := loadedEvaluator(t, journal)

	rec := testutil.Record(t, testutil.ScenarioA())
	got, err := e.Evaluate(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, model.LabelPotable, got.Classification.Label)
	assert.InDelta(t, 62.5, got.Classification.Confidence, 1e-9)
	assert.Len(t, got.PhysicalReport, 4)
	assert.Equal(t, 0, got.Warnings())
	assert.Len(t, got.RadarProfile.Categories, model.ParameterCount)
	assert.Equal(t, rec, got.EchoedInput)

	require.Len(t, journal.recorded, 1)
	assert.Equal(t, got, journal.recorded[0])
}

func TestEvaluator_HighSolids(t *testing.T) {
	e := loadedEvaluator(t, nil)

	values := testutil.ScenarioA()
	values[model.Solids] = 45000
	got, err := e.EvaluateValues(context.Background(), values)
	require.NoError(t, err)

	assert.Equal(t, model.LabelNotPotable, got.Classification.Label)
	assert.InDelta(t, 75.0, got.Classification.Confidence, 1e-9)
	assert.Equal(t, 1, got.Warnings())
	assert.InDelta(t, 45000.0/25000.0, got.RadarProfile.NormalizedUserValues[model.Solids], 1e-12)
}

func TestEvaluator_ConfidenceIsMaxProbability(t *testing.T) {
	e := loadedEvaluator(t, nil)

	for _, solids := range []float64{0, 500, 20000, 30000, 30001, 59999} {
		for _, ph := range []float64{0, 6.5, 8.4, 8.5, 14} {
			values := testutil.ScenarioA()
			values[model.Solids] = solids
			values[model.PH] = ph

			got, err := e.EvaluateValues(context.Background(), values)
			require.NoError(t, err)

			c := got.Classification.Confidence
			assert.GreaterOrEqual(t, c, 50.0)
			assert.LessOrEqual(t, c, 100.0)
			assert.Contains(t, []model.Label{model.LabelPotable, model.LabelNotPotable}, got.Classification.Label)
		}
	}
}

func TestEvaluator_InvalidMeasurementNeverReachesClassifier(t *testing.T) {
	classifier := &testutil.StubClassifier{Prediction: service.Prediction{Class: 1, Probabilities: [2]float64{0, 1}}}
	journal := &fakeJournal{}
	e := New(&testutil.IdentityScaler{}, classifier, journal)

	values := testutil.ScenarioA()
	values[model.PH] = 14.5

	got, err := e.EvaluateValues(context.Background(), values)
	require.ErrorIs(t, err, common.ErrInvalidMeasurement)

	var merr *model.MeasurementError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, model.PH, merr.Parameter)

	assert.Equal(t, model.Evaluation{}, got)
	assert.Equal(t, 0, classifier.Calls)
	assert.Empty(t, journal.recorded)
}

func TestEvaluator_ClassifierFailureSkipsJournal(t *testing.T) {
	journal := &fakeJournal{}
	e := New(&testutil.IdentityScaler{}, &testutil.StubClassifier{Err: errors.New("down")}, journal)

	_, err := e.Evaluate(context.Background(), testutil.Record(t, testutil.ScenarioA()))
	require.Error(t, err)
	assert.Empty(t, journal.recorded)
}

func TestEvaluator_JournalFailureKeepsResult(t *testing.T) {
	classifier := &testutil.StubClassifier{Prediction: service.Prediction{Class: 1, Probabilities: [2]float64{0.2, 0.8}}}
	e := New(&testutil.IdentityScaler{}, classifier, &fakeJournal{err: errors.New("disk full")})

	got, err := e.Evaluate(context.Background(), testutil.Record(t, testutil.ScenarioA()))
	require.NoError(t, err)
	assert.Equal(t, model.LabelPotable, got.Classification.Label)
	assert.InDelta(t, 80.0, got.Classification.Confidence, 1e-9)
}
