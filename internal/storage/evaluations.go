package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/service"
	"github.com/mattn/go-sqlite3"
)

// Record appends a completed evaluation to the journal.
func (s *SQLiteStorage) Record(ctx context.Context, evaluation model.Evaluation) (*model.JournalEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateEvaluation(&evaluation); err != nil {
		return nil, err
	}

	bundle, err := json.Marshal(evaluation)
	if err != nil {
		return nil, fmt.Errorf("failed to encode evaluation: %w", err)
	}

	entry := &model.JournalEntry{
		ID:          s.newID(),
		EvaluatedAt: s.now(),
		Evaluation:  evaluation,
	}

	v := evaluation.EchoedInput.Values()
	err = common.WithRetry(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, `
			INSERT INTO evaluations (
				id, evaluated_at,
				ph, hardness, solids, chloramines, sulfate,
				conductivity, organic_carbon, trihalomethanes, turbidity,
				label, confidence, warnings, bundle
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			entry.ID, entry.EvaluatedAt,
			v[model.PH], v[model.Hardness], v[model.Solids], v[model.Chloramines], v[model.Sulfate],
			v[model.Conductivity], v[model.OrganicCarbon], v[model.Trihalomethanes], v[model.Turbidity],
			string(evaluation.Classification.Label), evaluation.Classification.Confidence,
			evaluation.Warnings(), string(bundle),
		)
		if execErr != nil && !isBusy(execErr) {
			return common.Permanent(execErr)
		}
		return execErr
	}, s.retry)
	if err != nil {
		return nil, fmt.Errorf("failed to record evaluation: %w", err)
	}

	return entry, nil
}

// List returns journal entries newest first. A zero limit returns everything.
func (s *SQLiteStorage) List(ctx context.Context, filter service.JournalFilter) ([]model.JournalEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`SELECT id, evaluated_at, bundle FROM evaluations`)
	if filter.Label != "" {
		query.WriteString(` WHERE label = ?`)
		args = append(args, string(filter.Label))
	}
	query.WriteString(` ORDER BY evaluated_at DESC, rowid DESC`)
	if filter.Limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.JournalEntry
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate evaluations: %w", err)
	}

	return entries, nil
}

// Get returns one journal entry by its ID or by a prefix of it, such as the
// short ID shown in listings. A prefix shared by several entries is rejected.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*model.JournalEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	id = strings.ToLower(strings.TrimSpace(id))

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, evaluated_at, bundle FROM evaluations
		WHERE substr(id, 1, ?) = ?
		LIMIT 2`, len(id), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []*model.JournalEntry
	for rows.Next() {
		entry, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate evaluations: %w", err)
	}

	switch len(entries) {
	case 0:
		return nil, fmt.Errorf("evaluation %s: %w", id, common.ErrNotFound)
	case 1:
		return entries[0], nil
	default:
		return nil, fmt.Errorf("evaluation %s: %w", id, ErrAmbiguousID)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*model.JournalEntry, error) {
	var (
		entry  model.JournalEntry
		at     time.Time
		bundle string
	)
	if err := row.Scan(&entry.ID, &at, &bundle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan evaluation: %w", err)
	}

	if err := json.Unmarshal([]byte(bundle), &entry.Evaluation); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation %s: %w", entry.ID, err)
	}

	entry.EvaluatedAt = at.UTC()
	return &entry, nil
}

// isBusy reports whether err is SQLite refusing the write because another
// connection holds the lock.
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}
