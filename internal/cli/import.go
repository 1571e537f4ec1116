package cli

import (
	"fmt"
	"io"
	"os"
)

type ImportCmd struct {
	File string `arg:"" help:"localStorage export to import, or - for stdin." type:"path"`
}

func (c *ImportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	var r io.Reader = ctx.In
	if c.File != "-" {
		f, err := os.Open(c.File)
		if err != nil {
			return fmt.Errorf("failed to open export: %w", err)
		}
		defer f.Close()
		r = f
	}

	ctx.PerformAutomaticBackup()

	res, err := ctx.Journal.Import(r)
	if err != nil {
		return err
	}
	ctx.printf("✓ Imported %d records: %d habits, %d completions, %d entries, %d goals\n",
		res.Total(), res.Habits, res.Completions, res.Entries, res.Goals)
	if res.Skipped > 0 {
		ctx.printf("⚠ Skipped %d malformed records\n", res.Skipped)
	}
	return nil
}
