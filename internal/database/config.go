package database

import (
	"fmt"
	"strings"

	"github.com/franciscosanchezn/pizza-search-api/internal/config"
)

// sqliteBusyTimeout is how long a sqlite writer waits for the file lock, in milliseconds
const sqliteBusyTimeout = 5000

// DatabaseConfig describes the database behind the local document store
type DatabaseConfig struct {
	Driver string

	// postgres
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string

	// sqlite file, or :memory:
	Path string
}

// FromConfig builds the database configuration of the local store backends
func FromConfig(c *config.Config) DatabaseConfig {
	return DatabaseConfig{
		Driver:   c.StoreBackend,
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSSLMode,
		Path:     c.DBPath,
	}
}

// String returns a string representation with sensitive data masked
func (c *DatabaseConfig) String() string {
	return fmt.Sprintf("DatabaseConfig{Driver: %s, Host: %s, Port: %s, User: %s, Password: [REDACTED], Name: %s, SSLMode: %s, Path: %s}",
		c.Driver, c.Host, c.Port, c.User, c.Name, c.SSLMode, c.Path)
}

// DSN builds the connection string of the driver.
// File backed sqlite databases get a busy timeout, in-memory ones are used as is.
func (c *DatabaseConfig) DSN() string {
	switch c.Driver {
	case "postgres", "postgresql":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
	case "sqlite", "":
		if c.Path == ":memory:" || strings.Contains(c.Path, "?") {
			return c.Path
		}
		return fmt.Sprintf("%s?_busy_timeout=%d", c.Path, sqliteBusyTimeout)
	default:
		return ""
	}
}
