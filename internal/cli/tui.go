package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/metrics"
	"github.com/julianstephens/daybook/internal/storage"
	"github.com/julianstephens/daybook/internal/tui"
)

type TuiCmd struct {
	NoWatch bool `help:"Do not reload when the journal changes on disk."`
}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	watchCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes chan struct{}
	if !c.NoWatch {
		changes = make(chan struct{}, 1)
		go func() {
			err := storage.Watch(watchCtx, ctx.Store.GetConfigPath(), func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})
			if err != nil {
				logger.Warn("store watcher stopped", "err", err)
			}
		}()
	}

	model := tui.NewModel(tui.Options{
		Source: ctx.Journal,
		Reload: ctx.Store.Load,
		Complete: func(habitID, date string) error {
			_, err := ctx.Journal.LogHabit(ctx.UserID, habitID, date, nil, nil, nil)
			return err
		},
		UserID:  ctx.UserID,
		Window:  metrics.Window(ctx.Config.Analytics.Window),
		Now:     ctx.Now,
		Changes: changes,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
