package storage

import (
	"net/url"
	"strings"
)

// IsPostgresURL reports whether the config value is a PostgreSQL URL.
func IsPostgresURL(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string
// carries a password, either in URL userinfo or as a DSN password= pair.
func HasEmbeddedCredentials(connStr string) bool {
	if IsPostgresURL(connStr) {
		u, err := url.Parse(connStr)
		if err != nil {
			return false
		}
		if u.User == nil {
			return false
		}
		_, hasPassword := u.User.Password()
		return hasPassword
	}

	for _, pair := range strings.Fields(connStr) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[0]), "password") {
			return true
		}
	}
	return false
}
