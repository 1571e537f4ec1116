package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/migration"
	"github.com/julianstephens/daybook/migrations"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{
		path: path,
	}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return ErrNotInitialized
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := s.validateSchemaVersion(); err != nil {
		s.db.Close()
		s.db = nil
		return err
	}
	if err := s.checkFormat(); err != nil {
		s.db.Close()
		s.db = nil
		return err
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *SQLiteStore) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS), nil
}

func (s *SQLiteStore) runMigrations() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}

	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *SQLiteStore) validateSchemaVersion() error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	return runner.ValidateVersion()
}

// storeFormat is the layout marker written by the settings migration.
const storeFormat = "records-v1"

// checkFormat refuses databases that were not created as a record store.
func (s *SQLiteStore) checkFormat() error {
	var format string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = 'store_format'").Scan(&format)
	if err != nil {
		return fmt.Errorf("not a daybook store: %w", err)
	}
	if format != storeFormat {
		return fmt.Errorf("unsupported store format %q (want %q)", format, storeFormat)
	}
	return nil
}

func (s *SQLiteStore) Put(kind Kind, id string, data []byte) error {
	if s.db == nil {
		return ErrNotLoaded
	}
	if err := checkKey(kind, id); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO records (kind, id, data, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (kind, id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		string(kind), id, string(data), now,
	)
	if err != nil {
		return fmt.Errorf("failed to write %s/%s: %w", kind, id, err)
	}
	return nil
}

func (s *SQLiteStore) Get(kind Kind, id string) ([]byte, error) {
	if s.db == nil {
		return nil, ErrNotLoaded
	}
	if err := checkKey(kind, id); err != nil {
		return nil, err
	}

	var data string
	err := s.db.QueryRow("SELECT data FROM records WHERE kind = ? AND id = ?", string(kind), id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s/%s: %w", kind, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s/%s: %w", kind, id, err)
	}
	return []byte(data), nil
}

// List returns the records of kind ordered by id.
func (s *SQLiteStore) List(kind Kind) ([]Record, error) {
	if s.db == nil {
		return nil, ErrNotLoaded
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown record kind: %q", kind)
	}

	rows, err := s.db.Query("SELECT id, data FROM records WHERE kind = ? ORDER BY id", string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, err
		}
		records = append(records, Record{Kind: kind, ID: id, Data: []byte(data)})
	}

	return records, rows.Err()
}

func (s *SQLiteStore) Delete(kind Kind, id string) error {
	if s.db == nil {
		return ErrNotLoaded
	}
	if err := checkKey(kind, id); err != nil {
		return err
	}

	res, err := s.db.Exec("DELETE FROM records WHERE kind = ? AND id = ?", string(kind), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s/%s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying connection, nil before Init or Load.
func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

// SchemaVersions reports the applied and the newest known migration.
func (s *SQLiteStore) SchemaVersions() (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, ErrNotLoaded
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, fmt.Errorf("failed to get latest schema version: %w", err)
	}
	return current, latest, nil
}
