package system

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/validation"
)

// versioned is implemented by the SQL-backed stores.
type versioned interface {
	GetDB() *sql.DB
	SchemaVersion() (current, latest int, err error)
}

type DoctorCmd struct{}

type check struct {
	name     string
	run      func(*cli.Context) error
	needsDB  bool
	warnOnly bool
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Habits readable", run: checkHabitsReadable, needsDB: true},
	{name: "Habit integrity", run: checkHabitIntegrity, needsDB: true},
	{name: "Wellness data", run: checkWellness, needsDB: true},
	{name: "Stored keys", run: checkStoredKeys, needsDB: true, warnOnly: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Clock sanity", run: checkClock},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	for i, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if i == 0 {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if v, ok := ctx.Store.(versioned); ok {
		db := v.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	v, ok := ctx.Store.(versioned)
	if !ok {
		// file and memory stores have no schema
		return nil
	}

	current, latest, err := v.SchemaVersion()
	if err != nil {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", current, latest)
	}
	return nil
}

func checkHabitsReadable(ctx *cli.Context) error {
	_, err := ctx.Habits.Load()
	return err
}

func checkHabitIntegrity(ctx *cli.Context) error {
	result := validation.ValidateHabits(ctx.Habits.Habits())
	if result.HasConflicts() {
		return fmt.Errorf("%d problem(s) found\n%s", len(result.Conflicts), result.FormatReport())
	}
	return nil
}

func checkWellness(ctx *cli.Context) error {
	if _, err := ctx.Wellness.Stats(); err != nil {
		return err
	}
	_, err := ctx.Wellness.UserName()
	return err
}

func checkStoredKeys(ctx *cli.Context) error {
	keys, err := ctx.Store.Keys()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	var unknown []string
	for _, k := range keys {
		switch k {
		case constants.HabitsKey, constants.SleepKey, constants.MeditationKey, constants.UserNameKey:
		default:
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("unrecognized keys: %s", strings.Join(unknown, ", "))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found, consider creating one with 'habitual backup create'")
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	now := ctx.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
