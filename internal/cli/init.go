package cli

import (
	"os"

	"github.com/julianstephens/daybook/internal/config"
)

type InitCmd struct {
	NoConfig bool `help:"Do not write a starter config file."`
}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized daybook storage at: %s\n", ctx.Store.GetConfigPath())

	if c.NoConfig || ctx.ConfigFile == "" {
		return nil
	}
	path := config.ExpandHome(ctx.ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := config.Write(path, ctx.Config); err != nil {
		return err
	}
	ctx.printf("Wrote config to: %s\n", path)
	return nil
}
