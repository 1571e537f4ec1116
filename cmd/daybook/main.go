package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/config"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/session"
	"github.com/julianstephens/daybook/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_file}"`
	Store   string `help:"Store path, overriding the config. A .json path selects the JSON backend." type:"path"`
	User    int64  `help:"User id to act as, overriding the login session."`
	Debug   bool   `help:"Log debug output to stderr."`

	Init      cli.InitCmd      `cmd:"" help:"Initialize daybook storage."`
	Tui       cli.TuiCmd       `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Dashboard cli.DashboardCmd `cmd:"" help:"Show today's summary."`
	Analytics cli.AnalyticsCmd `cmd:"" help:"Show habit and mood analytics."`
	Habit     struct {
		Add        cli.HabitAddCmd        `cmd:"" help:"Add a new habit."`
		List       cli.HabitListCmd       `cmd:"" help:"List habits."`
		Edit       cli.HabitEditCmd       `cmd:"" help:"Edit or archive a habit."`
		Delete     cli.HabitDeleteCmd     `cmd:"" help:"Delete a habit."`
		Complete   cli.HabitCompleteCmd   `cmd:"" help:"Mark a habit done for a day."`
		Uncomplete cli.HabitUncompleteCmd `cmd:"" help:"Clear a habit's completion for a day."`
		Log        cli.HabitLogCmd        `cmd:"" help:"Mark a habit done and rate it."`
		History    cli.HabitHistoryCmd    `cmd:"" help:"Show a habit's completions."`
	} `cmd:"" help:"Manage habits."`
	Entry struct {
		Write  cli.EntryWriteCmd  `cmd:"" help:"Write or update a journal entry."`
		Show   cli.EntryShowCmd   `cmd:"" help:"Show a journal entry."`
		List   cli.EntryListCmd   `cmd:"" help:"List journal entries."`
		Delete cli.EntryDeleteCmd `cmd:"" help:"Delete a journal entry."`
	} `cmd:"" help:"Manage journal entries."`
	Goal struct {
		Add      cli.GoalAddCmd      `cmd:"" help:"Add a goal."`
		List     cli.GoalListCmd     `cmd:"" help:"List goals."`
		Step     cli.GoalStepCmd     `cmd:"" help:"Add a step to a goal."`
		Toggle   cli.GoalToggleCmd   `cmd:"" help:"Toggle a goal step."`
		Complete cli.GoalCompleteCmd `cmd:"" help:"Mark a goal completed."`
		Delete   cli.GoalDeleteCmd   `cmd:"" help:"Delete a goal."`
	} `cmd:"" help:"Manage goals."`
	Import cli.ImportCmd `cmd:"" help:"Import a browser localStorage export."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup now."`
		List    cli.BackupListCmd    `cmd:"" help:"List backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore a backup."`
	} `cmd:"" help:"Manage backups."`
	Login     cli.LoginCmd  `cmd:"" help:"Log in (stored in the OS keyring)."`
	Logout    cli.LogoutCmd `cmd:"" help:"Log out."`
	Whoami    cli.WhoamiCmd `cmd:"" help:"Show the current user."`
	Doctor    cli.DoctorCmd `cmd:"" help:"Run health checks."`
	DebugCmds cli.DebugCmd  `cmd:"" name:"debug" help:"Debugging helpers." hidden:""`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Journaling and habit-tracking analytics"),
		kong.UsageOnError(),
		kong.Vars{
			"version":     constants.Version,
			"config_file": constants.DefaultConfigFile,
		},
	)

	// The file is only required when the user points at one explicitly.
	cfg, err := config.Load(CLI.Config, CLI.Config != config.ExpandHome(constants.DefaultConfigFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if CLI.Store != "" {
		cfg.Store.Path = CLI.Store
	}
	if CLI.Debug {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Log.Debug, ConfigDir: cfg.Dir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	userID := CLI.User
	if userID == 0 {
		userID = session.UserID(cfg.User.DefaultID)
	}

	store := storage.Open(cfg.Store.Path)
	defer store.Close()

	appCtx := cli.NewContext(cfg, CLI.Config, store, userID)
	logger.Debug("starting", "command", ctx.Command(), "store", cfg.Store.Path, "user", userID)

	err = ctx.Run(appCtx)
	if err != nil {
		logger.Error("command failed", "command", ctx.Command(), "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
}
