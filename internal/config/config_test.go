package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/potability/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, overrides map[string]any) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(newViper(t, nil))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Equal(t, DefaultScalerPath, cfg.ScalerLocation)
	assert.Equal(t, DefaultClassifierPath, cfg.ClassifierLocation)
	assert.Equal(t, 5*time.Second, cfg.ClassifierTimeout)
	assert.False(t, cfg.HistoryEnabled)
	assert.True(t, cfg.ObjectStorage.Secure)
	assert.Empty(t, cfg.RemoteClassifier)
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("POTABLE_ARTIFACTS_SCALER", "s3://models/scaler.json")
	t.Setenv("POTABLE_CLASSIFIER_REMOTE_URL", "http://localhost:9000/")
	t.Setenv("POTABLE_HISTORY_ENABLED", "true")

	cfg, err := FromViper(newViper(t, nil))
	require.NoError(t, err)

	assert.Equal(t, "s3://models/scaler.json", cfg.ScalerLocation)
	assert.Equal(t, "http://localhost:9000", cfg.RemoteClassifier)
	assert.True(t, cfg.HistoryEnabled)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		overrides map[string]any
		name      string
	}{
		{name: "unknown log level", overrides: map[string]any{"logging.level": "trace"}},
		{name: "unknown log format", overrides: map[string]any{"logging.format": "xml"}},
		{name: "empty scaler", overrides: map[string]any{"artifacts.scaler": "  "}},
		{name: "empty classifier without remote", overrides: map[string]any{"artifacts.classifier": ""}},
		{name: "zero timeout", overrides: map[string]any{"classifier.timeout": "0s"}},
		{name: "history without path", overrides: map[string]any{"history.enabled": true, "history.path": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromViper(newViper(t, tt.overrides))
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestFromViper_RemoteClassifierReplacesLocalArtifact(t *testing.T) {
	cfg, err := FromViper(newViper(t, map[string]any{
		"artifacts.classifier":  "",
		"classifier.remote_url": "http://models.internal",
	}))
	require.NoError(t, err)
	assert.Equal(t, "http://models.internal", cfg.RemoteClassifier)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("POTABLE_TEST_DIR", "/srv/models")

	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "~", want: home},
		{input: "~/potable/potable.db", want: filepath.Join(home, "potable/potable.db")},
		{input: "$POTABLE_TEST_DIR/scaler.json", want: "/srv/models/scaler.json"},
		{input: "./model.json", want: "./model.json"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "potable.db")
	require.NoError(t, EnsureDir(path))

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.NoError(t, EnsureDir(":memory:"))
}
