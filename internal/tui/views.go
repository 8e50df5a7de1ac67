package tui

import (
	"strings"

	"github.com/Veraticus/potability/internal/cli"
	"github.com/Veraticus/potability/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case StateResult:
		body = m.resultView()
	case StateEvaluating:
		body = m.formView() + "\n" + m.theme.StatusInfo.Render("Evaluating...")
	default:
		body = m.formView()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(cli.DropIcon+" Water Potability"),
		body,
		"",
		m.help.View(m.keymap),
	)
}

func (m Model) formView() string {
	var b strings.Builder

	for _, p := range model.Parameters() {
		label := m.theme.Label
		if int(p) == m.focus && m.state == StateEditing {
			label = m.theme.Focused
		}

		name := p.String()
		if u := p.Unit(); u != "" {
			name += " (" + u + ")"
		}

		b.WriteString(label.Render(name))
		b.WriteString(m.inputs[p].View())
		if msg := m.fieldErrs[p]; msg != "" {
			b.WriteString("  " + m.theme.StatusError.Render(msg))
		}
		b.WriteString("\n")
	}

	if m.lastError != nil && !hasFieldErrors(m.fieldErrs) {
		b.WriteString("\n" + m.theme.StatusError.Render("Evaluation failed: "+m.lastError.Error()) + "\n")
	}

	return m.theme.RoundedBox.Render(strings.TrimRight(b.String(), "\n"))
}

func hasFieldErrors(errs []string) bool {
	for _, e := range errs {
		if e != "" {
			return true
		}
	}
	return false
}

func (m Model) resultView() string {
	e := m.result
	c := e.Classification

	verdict := m.theme.StatusSuccess.Render(cli.DropIcon + " POTABLE")
	if !c.Potable() {
		verdict = m.theme.StatusError.Render(cli.ErrorIcon + " NOT POTABLE")
	}

	confidence := m.meter.ViewAs(c.Confidence / 100)

	sections := []string{
		verdict,
		"Confidence " + confidence,
		"",
		m.theme.Bold.Render("Physical report"),
		cli.PhysicalReport(e.PhysicalReport),
		"",
		m.theme.Bold.Render("Profile vs. safe boundary"),
		cli.RadarBars(e.RadarProfile),
	}

	return m.theme.RoundedBox.Render(strings.Join(sections, "\n"))
}
