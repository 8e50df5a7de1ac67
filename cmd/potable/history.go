package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/potability/internal/cli"
	"github.com/Veraticus/potability/internal/common"
	"github.com/Veraticus/potability/internal/model"
	"github.com/Veraticus/potability/internal/service"
	"github.com/Veraticus/potability/internal/storage"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded evaluations",
		Long: `List evaluations recorded in the journal, newest first.

The journal is off by default. Set history.enabled (or POTABLE_HISTORY_ENABLED=true)
to record each evaluation in a local SQLite database.`,
		RunE: runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "maximum entries to show (0 for all)")
	cmd.Flags().String("label", "", "only show potable or not-potable evaluations")
	cmd.Flags().StringP("format", "f", cli.FormatText, "output format (text, json)")

	cmd.AddCommand(historyShowCmd())

	return cmd
}

func historyShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one recorded evaluation",
		Long:  "Show one recorded evaluation. The short id from the history listing is enough.",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShow,
	}

	cmd.Flags().StringP("format", "f", cli.FormatText, "output format (text, json)")

	return cmd
}

func openJournal(cmd *cobra.Command) (*storage.SQLiteStorage, error) {
	if !appConfig.HistoryEnabled {
		return nil, nil
	}

	store, err := storage.OpenJournal(cmd.Context(), appConfig.HistoryPath)
	if err != nil {
		return nil, common.NewUserError("failed to open evaluation journal", err)
	}
	return store, nil
}

func closeJournal(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Error("failed to close journal", "error", err)
	}
}

func runHistory(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	label, _ := cmd.Flags().GetString("label")

	store, err := openJournal(cmd)
	if err != nil {
		return err
	}
	if store == nil {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("History is disabled. Set history.enabled to record evaluations."))
		return err
	}
	defer closeJournal(store)

	entries, err := store.List(cmd.Context(), service.JournalFilter{
		Label: labelFilter(label),
		Limit: limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list evaluations: %w", err)
	}

	if format == cli.FormatJSON {
		if entries == nil {
			entries = []model.JournalEntry{}
		}
		return cli.RenderJSON(cmd.OutOrStdout(), entries)
	}
	return cli.RenderHistory(cmd.OutOrStdout(), entries)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	store, err := openJournal(cmd)
	if err != nil {
		return err
	}
	if store == nil {
		return common.NewUserError("history is disabled", common.ErrNotFound)
	}
	defer closeJournal(store)

	entry, err := store.Get(cmd.Context(), args[0])
	if errors.Is(err, storage.ErrAmbiguousID) {
		return common.NewUserError("more than one evaluation starts with "+args[0]+"; give more of the id", err)
	}
	if err != nil {
		return common.NewUserError("no such evaluation", err)
	}

	if format == cli.FormatJSON {
		return cli.RenderJSON(cmd.OutOrStdout(), entry)
	}
	return cli.RenderEvaluation(cmd.OutOrStdout(), entry.Evaluation)
}

// labelFilter accepts potable, not-potable or the stored label spelling.
func labelFilter(s string) model.Label {
	return model.Label(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_"))
}
