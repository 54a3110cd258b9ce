package system

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup now." default:"1"`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the database from a backup."`
}

func backupManager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil, fmt.Errorf("backups are only supported for SQLite storage")
	}
	return backup.NewManager(ctx.Store.GetConfigPath()), nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return err
	}
	ctx.Printf("Backup created: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		ctx.Println("No backups found.")
		return nil
	}

	ctx.Printf("Backups in %s:\n", mgr.Dir())
	for _, b := range backups {
		ctx.Printf("  %s  %s  %6.1f KB\n", b.Timestamp.Format("2006-01-02 15:04:05"), filepath.Base(b.Path), float64(b.Size)/1024)
	}
	return nil
}

type BackupRestoreCmd struct {
	File string `arg:"" help:"Backup file name or path."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := backupManager(ctx)
	if err != nil {
		return err
	}

	path := c.File
	if !filepath.IsAbs(path) && filepath.Dir(path) == "." {
		path = filepath.Join(mgr.Dir(), path)
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	safety, err := mgr.Restore(path)
	if err != nil {
		return err
	}
	if safety != "" {
		ctx.Printf("Created backup of current database: %s\n", filepath.Base(safety))
	}
	if err := ctx.Load(); err != nil {
		return err
	}

	ctx.Printf("Restored from %s (%d habits)\n", filepath.Base(path), len(ctx.Habits.Habits()))
	return nil
}
