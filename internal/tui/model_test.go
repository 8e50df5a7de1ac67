package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/radar"
	"github.com/Veraticus/potability/internal/report"
	"github.com/Veraticus/potability/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvaluator struct {
	err   error
	got   [model.ParameterCount]float64
	calls int
}

func (s *stubEvaluator) EvaluateValues(_ context.Context, values [model.ParameterCount]float64) (model.Evaluation, error) {
	s.calls++
	s.got = values
	if s.err != nil {
		return model.Evaluation{}, s.err
	}
	rec, err := model.NewMeasurementRecord(values)
	if err != nil {
		return model.Evaluation{}, err
	}
	return model.Evaluation{
		Classification: model.ClassificationResult{Label: model.LabelPotable, Confidence: 62.5},
		PhysicalReport: report.Physical(rec),
		RadarProfile:   radar.Normalize(rec),
		EchoedInput:    rec,
	}, nil
}

func testModel(eval Evaluator) Model {
	cfg := defaultConfig()
	cfg.Theme = themes.Default
	cfg.Evaluator = eval
	return newModel(context.Background(), cfg)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	updated, ok := next.(Model)
	require.True(t, ok)
	return updated, cmd
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	return send(t, m, msg)
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func clearField(t *testing.T, m Model) Model {
	t.Helper()
	for range len(m.inputs[m.focus].Value()) {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	return m
}

func TestNewModel_Defaults(t *testing.T) {
	m := testModel(&stubEvaluator{})

	assert.Equal(t, StateEditing, m.state)
	assert.Equal(t, 0, m.focus)
	require.Len(t, m.inputs, model.ParameterCount)
	assert.Equal(t, "0", m.inputs[model.PH].Value())
	assert.Equal(t, "7.15", m.inputs[model.Chloramines].Value())
	assert.Equal(t, "3.96", m.inputs[model.Turbidity].Value())
	assert.NotEmpty(t, m.View())
}

func TestNewModel_WithDefaults(t *testing.T) {
	values := [model.ParameterCount]float64{7.2, 150, 500, 7.15, 336, 428, 14, 66, 3.96}

	cfg := defaultConfig()
	WithDefaults(values)(&cfg)
	cfg.Evaluator = &stubEvaluator{}
	m := newModel(context.Background(), cfg)

	assert.Equal(t, "7.2", m.inputs[model.PH].Value())
	assert.Equal(t, "150", m.inputs[model.Hardness].Value())

	m = clearField(t, m)
	m = typeText(t, m, "9")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, "7.2", m.inputs[model.PH].Value(), "reset returns to the supplied values")
}

func TestModel_FocusWraps(t *testing.T) {
	m := testModel(&stubEvaluator{})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, model.ParameterCount-1, m.focus)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.focus)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.focus)
}

func TestModel_SubmitEvaluates(t *testing.T) {
	eval := &stubEvaluator{}
	m := testModel(eval)

	m = clearField(t, m)
	m = typeText(t, m, "7")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, StateEvaluating, m.state)

	msg := cmd()
	done, ok := msg.(evaluationDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)

	m, _ = send(t, m, done)
	assert.Equal(t, StateResult, m.state)
	require.NotNil(t, m.Result())
	assert.Equal(t, 7.0, eval.got[model.PH])
	assert.Equal(t, 1, eval.calls)

	view := m.View()
	assert.Contains(t, view, "POTABLE")
	assert.Contains(t, view, "Normal/neutral (safe).")
}

func TestModel_InlineErrorsBlockEvaluation(t *testing.T) {
	eval := &stubEvaluator{}
	m := testModel(eval)

	m = clearField(t, m)
	m = typeText(t, m, "15")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = clearField(t, m)
	m = typeText(t, m, "abc")

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, StateEditing, m.state)
	assert.Equal(t, 0, eval.calls)
	assert.Equal(t, "must be between 0 and 14", m.fieldErrs[model.PH])
	assert.Equal(t, "enter a number", m.fieldErrs[model.Hardness])
	assert.Contains(t, m.View(), "must be between 0 and 14")
}

func TestModel_EditAgainKeepsValues(t *testing.T) {
	m := testModel(&stubEvaluator{})

	m = clearField(t, m)
	m = typeText(t, m, "8")
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())
	require.Equal(t, StateResult, m.state)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, StateEditing, m.state)
	assert.Equal(t, "8", m.inputs[model.PH].Value())
}

func TestModel_EvaluationFailure(t *testing.T) {
	boom := errors.New("classifier crashed")
	m := testModel(&stubEvaluator{err: boom})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())

	assert.Equal(t, StateEditing, m.state)
	assert.ErrorIs(t, m.lastError, boom)
	assert.Nil(t, m.Result())
	assert.Contains(t, m.View(), "classifier crashed")
}

func TestModel_MeasurementErrorMapsToField(t *testing.T) {
	err := &model.MeasurementError{Parameter: model.Turbidity, Value: 9}
	m := testModel(&stubEvaluator{err: err})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m, _ = send(t, m, cmd())

	assert.ErrorIs(t, m.lastError, common.ErrInvalidMeasurement)
	assert.NotEmpty(t, m.fieldErrs[model.Turbidity])
}

func TestModel_ResetRestoresDefaults(t *testing.T) {
	m := testModel(&stubEvaluator{})

	m = clearField(t, m)
	m = typeText(t, m, "3")
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Equal(t, "0", m.inputs[model.PH].Value())
}

func TestModel_Quit(t *testing.T) {
	m := testModel(&stubEvaluator{})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestRunForm_RequiresEvaluator(t *testing.T) {
	assert.Error(t, RunForm(context.Background(), nil))
}
