package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/habits"
	"github.com/julianstephens/habitual/internal/cli/stats"
	"github.com/julianstephens/habitual/internal/cli/system"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file (.db for SQLite, .json for a JSON file), a PostgreSQL connection string without a password, or 'keyring' to use the stored connection string." type:"string" default:"${default_config}" env:"HABITUAL_CONFIG"`
	Debug   bool   `help:"Log to stderr as well as the log file." env:"HABITUAL_DEBUG"`

	Init     system.InitCmd    `cmd:"" help:"Initialize habitual storage."`
	Doctor   system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Habit    habits.HabitCmd   `cmd:"" help:"Manage habits."`
	Today    stats.TodayCmd    `cmd:"" help:"Show today's habits and progress."`
	Week     stats.WeekCmd     `cmd:"" help:"Show this week's completion ratios."`
	Streak   stats.StreakCmd   `cmd:"" help:"Show the current streak."`
	Sleep    stats.SleepCmd    `cmd:"" help:"Log hours slept."`
	Meditate stats.MeditateCmd `cmd:"" help:"Log minutes meditated."`
	Name     stats.NameCmd     `cmd:"" help:"Show or set your display name."`
	DB       system.DBCmd      `cmd:"" name:"db" help:"Manage the PostgreSQL connection stored in the OS keyring."`
	Backup   system.BackupCmd  `cmd:"" help:"Manage SQLite database backups."`
}

func main() {
	// A missing .env is fine.
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with weekly schedules, streaks and progress"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: cli.ConfigDir(CLI.Config)}); err != nil {
		errors.Fatal(err)
	}

	store, err := cli.OpenStore(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := cli.NewContext(store, nil)

	// Commands that do not touch the database skip loading it; init creates it.
	if !skipLoad(ctx.Command()) {
		if err := appCtx.Load(); err != nil {
			store.Close()
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}

func skipLoad(command string) bool {
	switch command {
	case "init", "doctor", "db set <connection-string>", "db clear", "db status":
		return true
	}
	return false
}
