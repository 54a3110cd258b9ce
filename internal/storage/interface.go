package storage

import "errors"

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// Provider is the key-value persistence collaborator. Values are opaque
// serialized blobs; every Set replaces the whole value for its key.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Key-value access
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
