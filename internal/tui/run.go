package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// RunForm runs the interactive form until the user quits. The evaluator must
// already hold loaded artifacts.
func RunForm(ctx context.Context, evaluator Evaluator, opts ...Option) error {
	if evaluator == nil {
		return fmt.Errorf("evaluator is required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.Evaluator = evaluator

	program := tea.NewProgram(newModel(ctx, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
