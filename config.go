package publishing

import (
	"errors"
	"strings"
)

var (
	ErrStorageDriverUnknown = errors.New("publishing: unknown storage driver")
	ErrStorageDSNRequired   = errors.New("publishing: storage dsn required")
	ErrLoggingLevelInvalid  = errors.New("publishing: invalid logging level")
	ErrLoggingFormatInvalid = errors.New("publishing: invalid logging format")
)

// StorageConfig selects the database backing the module. The sqlite driver is
// self-contained; postgres expects the host application to register a
// database/sql driver named "postgres" before calling New.
type StorageConfig struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

// LoggingConfig controls the structured logger built when no provider is
// injected.
type LoggingConfig struct {
	Level     string `json:"level"`
	Format    string `json:"format"`
	AddSource bool   `json:"add_source"`
}

// ActivityConfig controls audit event emission.
type ActivityConfig struct {
	Enabled bool   `json:"enabled"`
	Channel string `json:"channel"`
}

// Config is the top level module configuration.
type Config struct {
	Storage  StorageConfig  `json:"storage"`
	Logging  LoggingConfig  `json:"logging"`
	Activity ActivityConfig `json:"activity"`
}

// DefaultConfig returns a configuration backed by an in-memory sqlite store.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver: "sqlite",
			DSN:    "file::memory:?cache=shared",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Activity: ActivityConfig{
			Channel: "publishing",
		},
	}
}

// Validate checks the configuration for unusable values.
func (c Config) Validate() error {
	switch normalizeDriver(c.Storage.Driver) {
	case "sqlite", "postgres":
	default:
		return ErrStorageDriverUnknown
	}
	if strings.TrimSpace(c.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "json", "console", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}
	return nil
}

func normalizeDriver(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite", "sqlite3":
		return "sqlite"
	case "postgres", "postgresql", "pg":
		return "postgres"
	default:
		return strings.ToLower(strings.TrimSpace(driver))
	}
}
