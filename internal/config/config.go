package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/potability/internal/common"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. POTABLE_ARTIFACTS_SCALER.
const EnvPrefix = "POTABLE"

// Default locations.
const (
	DefaultScalerPath     = "./minmax_scaler.json"
	DefaultClassifierPath = "./model_random_forest.json"
	DefaultHistoryPath    = "$HOME/.local/share/potable/potable.db"
)

// ObjectStorage configures s3:// artifact locations.
type ObjectStorage struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
}

// Config is the resolved application configuration.
type Config struct {
	LogLevel           string
	LogFormat          string
	ScalerLocation     string
	ClassifierLocation string
	RemoteClassifier   string
	HistoryPath        string
	ObjectStorage      ObjectStorage
	ClassifierTimeout  time.Duration
	HistoryEnabled     bool
}

// SetDefaults registers defaults and environment binding on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("artifacts.scaler", DefaultScalerPath)
	v.SetDefault("artifacts.classifier", DefaultClassifierPath)
	v.SetDefault("artifacts.s3.endpoint", "")
	v.SetDefault("artifacts.s3.access_key", "")
	v.SetDefault("artifacts.s3.secret_key", "")
	v.SetDefault("artifacts.s3.secure", true)
	v.SetDefault("classifier.remote_url", "")
	v.SetDefault("classifier.timeout", 5*time.Second)
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", DefaultHistoryPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper resolves and validates the configuration held by v.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		LogLevel:           v.GetString("logging.level"),
		LogFormat:          v.GetString("logging.format"),
		ScalerLocation:     strings.TrimSpace(v.GetString("artifacts.scaler")),
		ClassifierLocation: strings.TrimSpace(v.GetString("artifacts.classifier")),
		RemoteClassifier:   strings.TrimRight(strings.TrimSpace(v.GetString("classifier.remote_url")), "/"),
		ClassifierTimeout:  v.GetDuration("classifier.timeout"),
		HistoryEnabled:     v.GetBool("history.enabled"),
		HistoryPath:        ExpandPath(v.GetString("history.path")),
		ObjectStorage: ObjectStorage{
			Endpoint:  v.GetString("artifacts.s3.endpoint"),
			AccessKey: v.GetString("artifacts.s3.access_key"),
			SecretKey: v.GetString("artifacts.s3.secret_key"),
			Secure:    v.GetBool("artifacts.s3.secure"),
		},
	}

	if _, err := common.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	switch cfg.LogFormat {
	case "console", "json":
	default:
		return Config{}, fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, cfg.LogFormat)
	}
	if cfg.ScalerLocation == "" {
		return Config{}, fmt.Errorf("%w: artifacts.scaler is empty", common.ErrInvalidConfig)
	}
	if cfg.RemoteClassifier == "" && cfg.ClassifierLocation == "" {
		return Config{}, fmt.Errorf("%w: artifacts.classifier is empty", common.ErrInvalidConfig)
	}
	if cfg.ClassifierTimeout <= 0 {
		return Config{}, fmt.Errorf("%w: classifier.timeout must be positive", common.ErrInvalidConfig)
	}
	if cfg.HistoryEnabled && cfg.HistoryPath == "" {
		return Config{}, fmt.Errorf("%w: history.path is empty", common.ErrInvalidConfig)
	}

	return cfg, nil
}
