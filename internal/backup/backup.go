package backup

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/logger"
)

const timestampFormat = "20060102-150405"

// Info describes one backup file.
type Info struct {
	Path      string
	Timestamp time.Time
	Size      int64
	seq       int
}

// format knows how to copy and check one kind of store file.
type format struct {
	suffix   string
	snapshot func(src, dst string) error
	verify   func(path string) error
}

var (
	sqliteFormat = format{suffix: ".db", snapshot: snapshotSQLite, verify: verifySQLite}
	jsonFormat   = format{suffix: ".json", snapshot: snapshotJSON, verify: verifyJSON}
)

func formatFor(storePath string) format {
	if strings.EqualFold(filepath.Ext(storePath), ".json") {
		return jsonFormat
	}
	return sqliteFormat
}

// Manager creates, lists, rotates and restores copies of the store file.
type Manager struct {
	storePath string
	backupDir string
	format    format
	now       func() time.Time
}

// NewManager returns a manager keeping backups next to the store file.
func NewManager(storePath string) *Manager {
	return &Manager{
		storePath: storePath,
		backupDir: filepath.Join(filepath.Dir(storePath), constants.BackupDirName),
		format:    formatFor(storePath),
		now:       time.Now,
	}
}

func (m *Manager) Dir() string {
	return m.backupDir
}

// Create writes a new backup and prunes the oldest beyond MaxBackups.
func (m *Manager) Create() (string, error) {
	path, err := m.create()
	if err != nil {
		return "", err
	}
	if err := m.rotate(); err != nil {
		logger.Warn("failed to rotate old backups", "err", err)
	}
	return path, nil
}

func (m *Manager) create() (string, error) {
	if _, err := os.Stat(m.storePath); err != nil {
		return "", fmt.Errorf("store does not exist: %s", m.storePath)
	}
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path, err := m.nextPath()
	if err != nil {
		return "", err
	}
	if err := m.format.snapshot(m.storePath, path); err != nil {
		return "", fmt.Errorf("failed to back up store: %w", err)
	}
	logger.Info("backup created", "path", path)
	return path, nil
}

// nextPath picks an unused file name, appending a sequence number when
// several backups land in the same second.
func (m *Manager) nextPath() (string, error) {
	stamp := m.now().Format(timestampFormat)
	name := constants.BackupPrefix + stamp + m.format.suffix
	for seq := 1; ; seq++ {
		path := filepath.Join(m.backupDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return path, nil
		}
		if seq > 100 {
			return "", fmt.Errorf("failed to generate unique backup filename")
		}
		name = fmt.Sprintf("%s%s-%d%s", constants.BackupPrefix, stamp, seq, m.format.suffix)
	}
}

// List returns the backups of this store, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ts, seq, ok := m.parseName(entry.Name())
		if !ok {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, Info{
			Path:      filepath.Join(m.backupDir, entry.Name()),
			Timestamp: ts,
			Size:      fi.Size(),
			seq:       seq,
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].Timestamp.Equal(backups[j].Timestamp) {
			return backups[i].Timestamp.After(backups[j].Timestamp)
		}
		return backups[i].seq > backups[j].seq
	})
	return backups, nil
}

// parseName reads "daybook-YYYYMMDD-HHMMSS[-N]<suffix>".
func (m *Manager) parseName(name string) (time.Time, int, bool) {
	if !strings.HasPrefix(name, constants.BackupPrefix) || !strings.HasSuffix(name, m.format.suffix) {
		return time.Time{}, 0, false
	}
	rest := strings.TrimSuffix(strings.TrimPrefix(name, constants.BackupPrefix), m.format.suffix)
	if len(rest) < len(timestampFormat) {
		return time.Time{}, 0, false
	}
	ts, err := time.ParseInLocation(timestampFormat, rest[:len(timestampFormat)], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	seq := 0
	if tail := rest[len(timestampFormat):]; tail != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(tail, "-"))
		if err != nil || !strings.HasPrefix(tail, "-") {
			return time.Time{}, 0, false
		}
		seq = n
	}
	return ts, seq, true
}

func (m *Manager) rotate() error {
	backups, err := m.List()
	if err != nil {
		return err
	}
	for i := constants.MaxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}
	return nil
}

// Resolve accepts a backup path or a bare file name inside the backup
// directory.
func (m *Manager) Resolve(nameOrPath string) (string, error) {
	if _, err := os.Stat(nameOrPath); err == nil {
		return nameOrPath, nil
	}
	candidate := filepath.Join(m.backupDir, filepath.Base(nameOrPath))
	if _, err := os.Stat(candidate); err == nil {
		return candidate, nil
	}
	return "", fmt.Errorf("backup file does not exist: %s", nameOrPath)
}

// Restore replaces the store with the backup. The current store is backed
// up first, outside rotation; its path is returned when one was made.
func (m *Manager) Restore(nameOrPath string) (string, error) {
	backupPath, err := m.Resolve(nameOrPath)
	if err != nil {
		return "", err
	}
	if err := m.format.verify(backupPath); err != nil {
		return "", fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	var previous string
	if _, err := os.Stat(m.storePath); err == nil {
		previous, err = m.create()
		if err != nil {
			return "", fmt.Errorf("failed to back up current store before restore: %w", err)
		}
	}

	tempPath := m.storePath + ".restore.tmp"
	if err := copyFile(backupPath, tempPath); err != nil {
		return previous, fmt.Errorf("failed to copy backup file: %w", err)
	}
	if err := os.Rename(tempPath, m.storePath); err != nil {
		if removeErr := os.Remove(tempPath); removeErr != nil {
			logger.Warn("failed to remove temporary file", "path", tempPath, "err", removeErr)
		}
		return previous, fmt.Errorf("failed to restore store: %w", err)
	}
	logger.Info("store restored", "from", backupPath)
	return previous, nil
}

func snapshotSQLite(src, dst string) error {
	db, err := sql.Open("sqlite", src+"?mode=ro")
	if err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master").Scan(&count); err != nil {
		return fmt.Errorf("source database appears to be corrupted: %w", err)
	}

	// VACUUM INTO produces a consistent copy even with an open writer.
	if _, err := db.Exec("VACUUM INTO ?", dst); err != nil {
		logger.Debug("VACUUM INTO failed, copying file", "err", err)
		db.Close()
		return copyFile(src, dst)
	}
	return nil
}

func verifySQLite(path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = 'records'").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("no records table")
	}
	return nil
}

func snapshotJSON(src, dst string) error {
	if err := verifyJSON(src); err != nil {
		return fmt.Errorf("source store appears to be corrupted: %w", err)
	}
	return copyFile(src, dst)
}

func verifyJSON(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc struct {
		Records map[string]json.RawMessage `json:"records"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Records == nil {
		return fmt.Errorf("no records")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := out.ReadFrom(in); err != nil {
		return err
	}
	return out.Sync()
}
