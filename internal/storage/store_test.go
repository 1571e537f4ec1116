package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func setupTestSQLiteStore(t *testing.T) (*SQLiteStore, func()) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store := NewSQLiteStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}

	return store, func() { store.Close() }
}

func setupTestJSONStore(t *testing.T) (*JSONStore, func()) {
	path := filepath.Join(t.TempDir(), "test.json")

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}

	return store, func() { store.Close() }
}

func providers(t *testing.T) map[string]func(t *testing.T) (Provider, func()) {
	return map[string]func(t *testing.T) (Provider, func()){
		"sqlite": func(t *testing.T) (Provider, func()) { return setupTestSQLiteStore(t) },
		"json":   func(t *testing.T) (Provider, func()) { return setupTestJSONStore(t) },
	}
}

func TestPutGetDelete(t *testing.T) {
	for name, setup := range providers(t) {
		t.Run(name, func(t *testing.T) {
			store, cleanup := setup(t)
			defer cleanup()

			if err := store.Put(KindHabits, "h1", []byte(`{"id":"h1","name":"Read"}`)); err != nil {
				t.Fatalf("Put failed: %v", err)
			}

			data, err := store.Get(KindHabits, "h1")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if string(data) != `{"id":"h1","name":"Read"}` {
				t.Errorf("unexpected data: %s", data)
			}

			// Overwrite keeps a single record
			if err := store.Put(KindHabits, "h1", []byte(`{"id":"h1","name":"Read more"}`)); err != nil {
				t.Fatalf("Put (overwrite) failed: %v", err)
			}
			records, err := store.List(KindHabits)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(records) != 1 {
				t.Fatalf("expected 1 record after overwrite, got %d", len(records))
			}

			if err := store.Delete(KindHabits, "h1"); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, err := store.Get(KindHabits, "h1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound after delete, got %v", err)
			}
			if err := store.Delete(KindHabits, "h1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound deleting twice, got %v", err)
			}
		})
	}
}

func TestListIsScopedByKind(t *testing.T) {
	for name, setup := range providers(t) {
		t.Run(name, func(t *testing.T) {
			store, cleanup := setup(t)
			defer cleanup()

			puts := []struct {
				kind Kind
				id   string
			}{
				{KindHabits, "b"},
				{KindHabits, "a"},
				{KindCompletions, "c1"},
				{KindEntries, "1:2024-01-01"},
			}
			for _, p := range puts {
				if err := store.Put(p.kind, p.id, []byte(`{}`)); err != nil {
					t.Fatalf("Put %s/%s failed: %v", p.kind, p.id, err)
				}
			}

			habits, err := store.List(KindHabits)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(habits) != 2 || habits[0].ID != "a" || habits[1].ID != "b" {
				t.Errorf("expected habits [a b] in id order, got %+v", habits)
			}

			goals, err := store.List(KindGoals)
			if err != nil {
				t.Fatalf("List goals failed: %v", err)
			}
			if len(goals) != 0 {
				t.Errorf("expected no goals, got %d", len(goals))
			}
		})
	}
}

func TestInvalidKeys(t *testing.T) {
	for name, setup := range providers(t) {
		t.Run(name, func(t *testing.T) {
			store, cleanup := setup(t)
			defer cleanup()

			if err := store.Put("unknown", "x", []byte(`{}`)); err == nil {
				t.Error("expected error for unknown kind")
			}
			if err := store.Put(KindHabits, "", []byte(`{}`)); err == nil {
				t.Error("expected error for empty id")
			}
		})
	}
}

func TestJSONStorePersistsAcrossLoads(t *testing.T) {
	store, cleanup := setupTestJSONStore(t)
	defer cleanup()

	if err := store.Put(KindGoals, "g1", []byte(`{"title":"Read 12 books"}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	reloaded := NewJSONStore(store.GetConfigPath())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	data, err := reloaded.Get(KindGoals, "g1")
	if err != nil {
		t.Fatalf("Get after reload failed: %v", err)
	}
	if string(data) != `{"title":"Read 12 books"}` {
		t.Errorf("unexpected data after reload: %s", data)
	}

	if err := reloaded.Put(KindGoals, "g2", []byte(`not json`)); err == nil {
		t.Error("expected error storing invalid JSON")
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewJSONStore(path)
	if err := store.Load(); err == nil {
		t.Fatal("expected error loading corrupt storage")
	}
	if _, err := store.List(KindHabits); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded after failed load, got %v", err)
	}
}

func TestLoadUninitialized(t *testing.T) {
	dir := t.TempDir()

	for _, store := range []Provider{
		NewJSONStore(filepath.Join(dir, "missing.json")),
		NewSQLiteStore(filepath.Join(dir, "missing.db")),
	} {
		if err := store.Load(); !errors.Is(err, ErrNotInitialized) {
			t.Errorf("%T: expected ErrNotInitialized, got %v", store, err)
		}
	}
}

func TestSQLiteStoreReload(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	if err := store.Put(KindEntries, "1:2024-03-01", []byte(`{"date":"2024-03-01"}`)); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	store.Close()

	reloaded := NewSQLiteStore(store.GetConfigPath())
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer reloaded.Close()

	data, err := reloaded.Get(KindEntries, "1:2024-03-01")
	if err != nil {
		t.Fatalf("Get after reload failed: %v", err)
	}
	if string(data) != `{"date":"2024-03-01"}` {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	if _, ok := Open("/tmp/daybook.json").(*JSONStore); !ok {
		t.Error("expected JSONStore for .json path")
	}
	if _, ok := Open("/tmp/daybook.db").(*SQLiteStore); !ok {
		t.Error("expected SQLiteStore for .db path")
	}
}

func TestSQLiteStoreRejectsForeignFormat(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	if _, err := store.GetDB().Exec("UPDATE settings SET value = 'tasks-v2' WHERE key = 'store_format'"); err != nil {
		t.Fatalf("failed to change format: %v", err)
	}
	store.Close()

	reloaded := NewSQLiteStore(store.GetConfigPath())
	if err := reloaded.Load(); err == nil {
		reloaded.Close()
		t.Fatal("expected Load to reject an unknown store format")
	}
}

func TestSQLiteSchemaVersions(t *testing.T) {
	store, cleanup := setupTestSQLiteStore(t)
	defer cleanup()

	current, latest, err := store.SchemaVersions()
	if err != nil {
		t.Fatalf("SchemaVersions failed: %v", err)
	}
	if current != latest || latest < 2 {
		t.Errorf("versions = %d/%d, want equal and at least 2", current, latest)
	}
}
