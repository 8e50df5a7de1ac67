package main

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/Veraticus/potability/internal/artifact"
	"github.com/Veraticus/potability/internal/cli"
	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/config"
	"github.com/Veraticus/potability/internal/engine"
	"github.com/Veraticus/potability/internal/mlclient"
	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/service"
	"github.com/Veraticus/potability/internal/storage"
)

// app is everything an evaluation surface needs, loaded once at start-up.
type app struct {
	evaluator *engine.Evaluator
	journal   *storage.SQLiteStorage
	summary   cli.ArtifactSummary
}

// bootstrap loads both artifacts before any surface is reachable. A load
// failure is fatal for the command.
func bootstrap(ctx context.Context, cfg config.Config) (*app, error) {
	loader, err := artifact.NewLoader(cfg.ObjectStorage)
	if err != nil {
		return nil, common.NewUserError("failed to configure object storage", err)
	}

	scaler, err := artifact.LoadScaler(ctx, loader, cfg.ScalerLocation)
	if err != nil {
		return nil, common.NewUserError("scaler artifact unavailable, refusing to evaluate", err)
	}

	a := &app{summary: cli.ArtifactSummary{Scaler: cfg.ScalerLocation}}
	names := scaler.FeatureNames()
	for _, p := range model.Parameters() {
		name := p.String()
		if len(names) == model.ParameterCount {
			name = names[p]
		}
		lo, hi := scaler.Bounds(p)
		a.summary.Features = append(a.summary.Features, cli.FeatureRange{Name: name, Min: lo, Max: hi})
	}

	var classifier service.Classifier
	if cfg.RemoteClassifier != "" {
		remote := mlclient.NewHTTPClassifier(cfg.RemoteClassifier, cfg.ClassifierTimeout)
		if err := remote.Ping(ctx); err != nil {
			return nil, common.NewUserError("model server unavailable, refusing to evaluate", err)
		}
		slog.Info("Connected to model server", "url", cfg.RemoteClassifier)
		classifier = remote
		a.summary.Classifier = cfg.RemoteClassifier
		a.summary.Remote = true
	} else {
		forest, err := artifact.LoadForest(ctx, loader, cfg.ClassifierLocation)
		if err != nil {
			return nil, common.NewUserError("classifier artifact unavailable, refusing to evaluate", err)
		}
		classifier = forest
		a.summary.Classifier = cfg.ClassifierLocation
		a.summary.Trees = forest.Trees()
		a.summary.Nodes = forest.Nodes()
	}

	var journal service.Journal
	if cfg.HistoryEnabled {
		store, err := storage.OpenJournal(ctx, cfg.HistoryPath)
		if err != nil {
			return nil, common.NewUserError("failed to open evaluation journal", err)
		}
		a.journal = store
		a.summary.Journal = store.Path()
		journal = store
	}

	a.evaluator = engine.New(scaler, classifier, journal)
	return a, nil
}

// Close releases the journal, if one was opened.
func (a *app) Close() {
	if a.journal == nil {
		return
	}
	if err := a.journal.Close(); err != nil {
		slog.Error("failed to close journal", "error", err)
	}
}

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// flagName turns a measurement key such as organicCarbon into organic-carbon.
func flagName(p model.Parameter) string {
	return strings.ToLower(camelBoundary.ReplaceAllString(p.Key(), "$1-$2"))
}

func checkFormat(format string) error {
	if !cli.ValidFormat(format) {
		return common.NewUserError(fmt.Sprintf("unknown output format %q (want text or json)", format), common.ErrInvalidConfig)
	}
	return nil
}
