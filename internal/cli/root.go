package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/habits"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/progress"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
	"github.com/julianstephens/habitual/internal/wellness"
)

// KeyringConfig selects the PostgreSQL connection string stored in the OS keyring.
const KeyringConfig = "keyring"

// ErrEmbeddedCredentials rejects a --config value that carries a password.
var ErrEmbeddedCredentials = stderrors.New("PostgreSQL connection strings with embedded credentials are not allowed on the command line")

// Context is shared by every command.
type Context struct {
	Store    storage.Provider
	Habits   *habits.Store
	Tracker  *progress.Tracker
	Wellness *wellness.Log
	Now      func() time.Time
	Out      io.Writer
}

// NewContext wires the habit store, tracker and wellness log over one provider.
func NewContext(store storage.Provider, now func() time.Time) *Context {
	if now == nil {
		now = time.Now
	}
	hs := habits.New(store, habits.WithClock(now))
	tracker := progress.NewTracker(now)
	hs.Subscribe(tracker.Update)

	return &Context{
		Store:    store,
		Habits:   hs,
		Tracker:  tracker,
		Wellness: wellness.New(store),
		Now:      now,
		Out:      os.Stdout,
	}
}

// Load opens the provider and reads the habit collection.
func (c *Context) Load() error {
	if err := c.Store.Load(); err != nil {
		return err
	}
	_, err := c.Habits.Load()
	return err
}

func (c *Context) Today() time.Time {
	return c.Now()
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// PerformAutomaticBackup snapshots a SQLite store and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// OpenStore picks a storage backend for the --config value: a PostgreSQL
// connection string, "keyring", a .json file, or otherwise a SQLite file.
func OpenStore(config string) (storage.Provider, error) {
	config = strings.TrimSpace(config)

	if config == KeyringConfig {
		connStr, err := ResolveConnString()
		if err != nil {
			return nil, err
		}
		logger.Debug("Using PostgreSQL connection from keyring or environment")
		return postgres.New(connStr), nil
	}

	if isPostgres(config) {
		if storage.HasEmbeddedCredentials(config) {
			return nil, ErrEmbeddedCredentials
		}
		return postgres.New(config), nil
	}

	path, err := ExpandPath(config)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}

// ResolveConnString reads the connection string from the OS keyring,
// falling back to HABITUAL_DB_CONNECTION.
func ResolveConnString() (string, error) {
	connStr, err := keyring.GetConnectionString()
	if err == nil {
		return connStr, nil
	}
	if !stderrors.Is(err, keyring.ErrNotFound) {
		logger.Warn("Keyring lookup failed", "error", err)
	}

	if env := strings.TrimSpace(os.Getenv(constants.EnvDBConnection)); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("no connection string found in keyring or %s; use '%s db set' to store one",
		constants.EnvDBConnection, constants.AppName)
}

func isPostgres(config string) bool {
	return storage.IsPostgresURL(config) || strings.Contains(config, "host=")
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("config path cannot be empty")
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// ConfigDir is the directory holding the store file, logs and backups.
// PostgreSQL configs fall back to the default directory.
func ConfigDir(config string) string {
	if config == KeyringConfig || isPostgres(config) {
		config = constants.DefaultConfigPath
	}
	path, err := ExpandPath(config)
	if err != nil {
		path, _ = ExpandPath(constants.DefaultConfigPath)
	}
	return filepath.Dir(path)
}
