package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/daybook/internal/normalize"
	"github.com/julianstephens/daybook/internal/storage"
)

type DebugCmd struct {
	StorePath  *DebugStorePathCmd  `cmd:"" help:"Show store path."`
	DumpRecord *DebugDumpRecordCmd `cmd:"" help:"Dump a stored record as JSON, raw and normalized."`
	DumpEntry  *DebugDumpEntryCmd  `cmd:"" help:"Dump a journal entry as JSON."`
}

type DebugStorePathCmd struct{}

func (cmd *DebugStorePathCmd) Run(ctx *Context) error {
	// Output in machine-readable format
	return printJSON(ctx, map[string]string{
		"path":   ctx.Store.GetConfigPath(),
		"config": ctx.ConfigFile,
	})
}

type DebugDumpRecordCmd struct {
	Kind string `arg:"" help:"Record kind (habits|habit_completions|journal_entries|goals)."`
	ID   string `arg:"" help:"Storage key of the record."`
}

func (cmd *DebugDumpRecordCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	kind := storage.Kind(cmd.Kind)
	if !kind.Valid() {
		return fmt.Errorf("unknown record kind: %s", cmd.Kind)
	}
	data, err := ctx.Store.Get(kind, cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to get record: %w", err)
	}

	raw, err := normalize.Decode(data)
	if err != nil {
		return fmt.Errorf("record is not a JSON object: %w", err)
	}

	var normalized any
	switch kind {
	case storage.KindHabits:
		normalized = normalize.Habit(raw)
	case storage.KindCompletions:
		normalized = normalize.Completion(raw)
	case storage.KindEntries:
		normalized = normalize.Entry(raw)
	case storage.KindGoals:
		normalized = normalize.Goal(raw)
	}

	return printJSON(ctx, map[string]any{
		"stored":     json.RawMessage(data),
		"normalized": normalized,
	})
}

type DebugDumpEntryCmd struct {
	Date string `arg:"" help:"Date of the entry to dump (YYYY-MM-DD or 'today')."`
}

func (cmd *DebugDumpEntryCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}

	date, err := ctx.resolveDate(cmd.Date)
	if err != nil {
		return err
	}
	entry, err := ctx.Journal.GetEntry(ctx.UserID, date)
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}
	return printJSON(ctx, entry)
}
