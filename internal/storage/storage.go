package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind names a record collection.
type Kind string

const (
	KindHabits      Kind = "habits"
	KindCompletions Kind = "habit_completions"
	KindEntries     Kind = "journal_entries"
	KindGoals       Kind = "goals"
)

// Kinds lists every collection the store knows about.
var Kinds = []Kind{KindHabits, KindCompletions, KindEntries, KindGoals}

// Valid reports whether k is a known collection.
func (k Kind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Record is a stored document together with its key.
type Record struct {
	Kind Kind
	ID   string
	Data []byte
}

var (
	ErrNotFound       = errors.New("record not found")
	ErrNotLoaded      = errors.New("storage not loaded")
	ErrNotInitialized = errors.New("storage not initialized, run 'daybook init' first")
)

func checkKey(kind Kind, id string) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown record kind: %q", kind)
	}
	if id == "" {
		return fmt.Errorf("empty record id for kind %s", kind)
	}
	return nil
}

// Open returns the provider matching the path: a JSON document for .json
// files, SQLite for everything else. The store still needs Init or Load.
func Open(path string) Provider {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path)
	}
	return NewSQLiteStore(path)
}
