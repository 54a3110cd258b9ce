package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
)

type DBCmd struct {
	Set    DBSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
	Clear  DBClearCmd  `cmd:"" help:"Remove the stored connection string."`
	Status DBStatusCmd `cmd:"" help:"Show keyring availability and the stored connection string."`
}

type DBSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string."`
}

func (cmd *DBSetCmd) Run(ctx *cli.Context) error {
	connStr := strings.TrimSpace(cmd.ConnectionString)
	if !storage.IsPostgresURL(connStr) && !strings.Contains(connStr, "host=") {
		return errors.New("connection string must be a valid PostgreSQL connection string")
	}

	if err := postgres.ValidateConnString(connStr); err != nil {
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return fmt.Errorf("invalid connection string: %w", err)
		}
		// The keyring is encrypted, so a password is acceptable here.
		ctx.Println("Warning: connection string contains embedded credentials.")
		ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetConnectionString(connStr); err != nil {
		return fmt.Errorf("failed to store connection string in keyring: %w", err)
	}

	ctx.Println("✓ Connection string stored in OS keyring")
	ctx.Printf("  Use it with: %s --config=%s\n", constants.AppName, cli.KeyringConfig)
	return nil
}

type DBClearCmd struct{}

func (cmd *DBClearCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}

type DBStatusCmd struct{}

func (cmd *DBStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return keyring.ErrKeyringUnavailable
	}
	ctx.Println("✓ OS keyring is available")

	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		ctx.Printf("✓ Stored connection string: %s\n", MaskPassword(connStr))
	case errors.Is(err, keyring.ErrNotFound):
		ctx.Println("ℹ No connection string stored in keyring")
	default:
		return err
	}
	return nil
}

// MaskPassword hides the password of a URL or DSN connection string.
func MaskPassword(connStr string) string {
	if storage.IsPostgresURL(connStr) {
		idx := strings.Index(connStr, "://")
		rest := connStr[idx+3:]
		at := strings.LastIndex(rest, "@")
		if at < 0 {
			return connStr
		}
		userInfo := rest[:at]
		colon := strings.Index(userInfo, ":")
		if colon < 0 {
			return connStr
		}
		return connStr[:idx+3] + userInfo[:colon] + ":****" + rest[at:]
	}

	if !strings.Contains(connStr, "password=") {
		return connStr
	}
	parts := strings.Fields(connStr)
	for i, part := range parts {
		if strings.HasPrefix(part, "password=") {
			parts[i] = "password=****"
		}
	}
	return strings.Join(parts, " ")
}
