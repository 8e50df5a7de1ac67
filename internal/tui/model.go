// Package tui implements the interactive measurement form.
package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/report"
	"github.com/Veraticus/potability/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// State represents the current state of the TUI.
type State int

// TUI states.
const (
	StateEditing State = iota
	StateEvaluating
	StateResult
)

// Model holds the form state.
type Model struct {
	ctx       context.Context
	evaluator Evaluator
	lastError error
	result    *model.Evaluation
	theme     themes.Theme
	keymap    KeyMap
	help      help.Model
	meter     progress.Model
	inputs    []textinput.Model
	fieldErrs []string
	config    Config
	focus     int
	width     int
	height    int
	state     State
	quitting  bool
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	m := Model{
		ctx:       ctx,
		evaluator: cfg.Evaluator,
		config:    cfg,
		theme:     cfg.Theme,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		meter:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		inputs:    make([]textinput.Model, model.ParameterCount),
		fieldErrs: make([]string, model.ParameterCount),
		width:     cfg.Width,
		height:    cfg.Height,
		state:     StateEditing,
	}
	m.help.ShowAll = cfg.ShowHelp

	for _, p := range model.Parameters() {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 12
		ti.Width = 12
		d := p.Domain()
		ti.Placeholder = report.FormatValue(d.Min) + " - " + report.FormatValue(d.Max)
		ti.SetValue(report.FormatValue(cfg.Defaults[p]))
		m.inputs[p] = ti
	}
	m.inputs[0].Focus()

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keymap.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}
		if key.Matches(msg, m.keymap.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

		switch m.state {
		case StateEditing:
			return m.updateEditing(msg)
		case StateResult:
			return m.updateResult(msg)
		case StateEvaluating:
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case evaluationDoneMsg:
		return m.handleEvaluation(msg), nil
	}

	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Next):
		return m, m.setFocus(m.focus + 1)
	case key.Matches(msg, m.keymap.Prev):
		return m, m.setFocus(m.focus - 1)
	case key.Matches(msg, m.keymap.Reset):
		for _, p := range model.Parameters() {
			m.inputs[p].SetValue(report.FormatValue(m.config.Defaults[p]))
			m.fieldErrs[p] = ""
		}
		m.lastError = nil
		return m, nil
	case key.Matches(msg, m.keymap.Submit):
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.fieldErrs[m.focus] = ""
	return m, cmd
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Edit):
		m.state = StateEditing
		return m, m.setFocus(m.focus)
	}
	return m, nil
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	i = ((i % n) + n) % n

	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

// submit validates every field and starts an evaluation when all pass.
func (m Model) submit() (tea.Model, tea.Cmd) {
	values, ok := m.parseFields()
	if !ok {
		return m, nil
	}

	m.state = StateEvaluating
	m.lastError = nil
	return m, m.evaluate(values)
}

func (m *Model) parseFields() ([model.ParameterCount]float64, bool) {
	var values [model.ParameterCount]float64
	ok := true

	for _, p := range model.Parameters() {
		m.fieldErrs[p] = ""
		raw := strings.TrimSpace(m.inputs[p].Value())

		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			m.fieldErrs[p] = "enter a number"
			ok = false
			continue
		}
		if err := model.ValidateMeasurement(p, v); err != nil {
			d := p.Domain()
			m.fieldErrs[p] = "must be between " + report.FormatValue(d.Min) + " and " + report.FormatValue(d.Max)
			ok = false
			continue
		}
		values[p] = v
	}

	return values, ok
}

func (m Model) evaluate(values [model.ParameterCount]float64) tea.Cmd {
	ctx, evaluator := m.ctx, m.evaluator
	return func() tea.Msg {
		evaluation, err := evaluator.EvaluateValues(ctx, values)
		return evaluationDoneMsg{evaluation: evaluation, err: err}
	}
}

func (m Model) handleEvaluation(msg evaluationDoneMsg) Model {
	if msg.err != nil {
		m.state = StateEditing
		m.lastError = msg.err

		var merr *model.MeasurementError
		if errors.As(msg.err, &merr) {
			m.fieldErrs[merr.Parameter] = merr.Error()
		}
		if !errors.Is(msg.err, common.ErrInvalidMeasurement) {
			common.LogError(msg.err, "Evaluation failed", common.Fields{"state": "form"})
		}
		return m
	}

	evaluation := msg.evaluation
	m.result = &evaluation
	m.state = StateResult
	return m
}

// Result returns the most recent evaluation, if any.
func (m Model) Result() *model.Evaluation {
	return m.result
}
