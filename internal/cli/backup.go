package cli

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/daybook/internal/backup"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/logger"
)

func (c *Context) backups() *backup.Manager {
	return backup.NewManager(c.Store.GetConfigPath())
}

// PerformAutomaticBackup takes a backup before risky or long-running work.
// Failures are logged, never fatal.
func (c *Context) PerformAutomaticBackup() {
	path, err := c.backups().Create()
	if err != nil {
		logger.Warn("automatic backup failed", "err", err)
		return
	}
	logger.Debug("automatic backup created", "path", path)
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	// Perform a manual backup
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	backupPath, err := ctx.backups().Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	mgr := ctx.backups()
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		ctx.printf("  %s  %s  (%s, %s)\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			humanize.Bytes(uint64(b.Size)),
			humanize.Time(b.Timestamp),
		)
	}
	ctx.printf("\nBackup directory: %s\n", mgr.Dir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	mgr := ctx.backups()
	backupPath, err := mgr.Resolve(c.BackupFile)
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.println("⚠️  WARNING: This will replace your current journal with the backup.")
		ctx.println("A backup of your current journal will be created before restoring.")
		ctx.printf("\nRestore from: %s\n", filepath.Base(backupPath))
		ctx.printf("Continue? [y/N]: ")

		response, err := bufio.NewReader(ctx.In).ReadString('\n')
		if err != nil && response == "" {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	// Close the current store connection before restoring
	if err := ctx.Store.Close(); err != nil {
		logger.Warn("failed to close store before restore", "err", err)
	}

	previous, err := mgr.Restore(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	if previous != "" {
		ctx.printf("Previous journal saved as %s\n", filepath.Base(previous))
	}
	ctx.println("✓ Journal restored successfully!")
	ctx.println("Restart any running daybook processes to use the restored journal.")

	return nil
}
