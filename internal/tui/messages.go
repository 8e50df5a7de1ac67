package tui

import "github.com/Veraticus/potability/internal/model"

// evaluationDoneMsg carries the outcome of one submitted form.
type evaluationDoneMsg struct {
	err        error
	evaluation model.Evaluation
}
