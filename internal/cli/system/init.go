package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Delete an existing database file before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*postgres.Store); ok {
			return fmt.Errorf("--force is not supported for PostgreSQL storage")
		}

		path := ctx.Store.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	if err := ctx.Load(); err != nil {
		return err
	}

	ctx.Printf("Initialized habitual storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
