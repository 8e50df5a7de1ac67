package tui

import (
	"context"

	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/tui/themes"
)

// Evaluator runs one evaluation over raw form values.
type Evaluator interface {
	EvaluateValues(ctx context.Context, values [model.ParameterCount]float64) (model.Evaluation, error)
}

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Evaluator Evaluator
	Defaults  [model.ParameterCount]float64
	Width     int
	Height    int
	ShowHelp  bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Defaults: model.DefaultValues(),
		Width:    80,
		Height:   24,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithDefaults sets the values the form starts with.
func WithDefaults(values [model.ParameterCount]float64) Option {
	return func(c *Config) {
		c.Defaults = values
	}
}

// WithHelp starts with the full help shown.
func WithHelp(show bool) Option {
	return func(c *Config) {
		c.ShowHelp = show
	}
}
