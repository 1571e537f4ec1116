package cli

import (
	"encoding/json"

	"github.com/julianstephens/daybook/internal/analytics"
	"github.com/julianstephens/daybook/internal/metrics"
	"github.com/julianstephens/daybook/internal/render"
)

type AnalyticsCmd struct {
	Window string `short:"w" help:"Trailing window: 7, 14 or 30 days. Defaults to the configured window."`
	JSON   bool   `help:"Print the report as JSON."`
}

func (c *AnalyticsCmd) window(ctx *Context) (metrics.Window, error) {
	if c.Window == "" {
		return metrics.Window(ctx.Config.Analytics.Window), nil
	}
	return metrics.ParseWindow(c.Window)
}

func (c *AnalyticsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	window, err := c.window(ctx)
	if err != nil {
		return err
	}
	report, err := analytics.BuildReport(ctx.Journal, ctx.UserID, window, ctx.Now())
	if err != nil {
		return err
	}

	if c.JSON {
		return printJSON(ctx, report)
	}
	if len(report.Habits) == 0 && len(report.DayRatings.Labels) == 0 {
		ctx.println("Nothing to analyze yet. Add a habit or write an entry first.")
		return nil
	}
	ctx.println(render.Report(report))
	return nil
}

type DashboardCmd struct {
	JSON bool `help:"Print the dashboard as JSON."`
}

func (c *DashboardCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	d, err := analytics.BuildDashboard(ctx.Journal, ctx.UserID, ctx.Now())
	if err != nil {
		return err
	}
	if c.JSON {
		return printJSON(ctx, d)
	}
	ctx.println(render.Dashboard(d))
	return nil
}

func printJSON(ctx *Context, v any) error {
	enc := json.NewEncoder(ctx.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
