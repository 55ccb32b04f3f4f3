package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the timetable engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (the database password) must only come from environment variables.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Import pipeline defaults. All of these are overridable per run via
	// CLI flags; the YAML values are the deployment's baseline.
	Import ImportConfig `yaml:"import"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"timetable"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"timetable_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// ImportConfig holds extraction and import defaults.
type ImportConfig struct {
	// Mode selects between "sparse" (only periods with academic content)
	// and "complete" (all catalog periods, with free-period placeholders).
	Mode string `yaml:"mode" env:"IMPORT_MODE" env-default:"sparse"`

	// ClearExisting deletes a floor's schedules before importing into it.
	ClearExisting bool `yaml:"clear_existing" env:"IMPORT_CLEAR_EXISTING" env-default:"false"`

	// DayFromPageIndex enables the degraded fallback that uses a page's
	// index as its day of week when no day token is found anywhere on the
	// page. Off by default; every use is logged.
	DayFromPageIndex bool `yaml:"day_from_page_index" env:"IMPORT_DAY_FROM_PAGE_INDEX" env-default:"false"`

	// Periods is the bell schedule: the ordered catalog of teaching
	// periods. Empty means the built-in ten-period default.
	Periods []PeriodConfig `yaml:"periods"`
}

// PeriodConfig is one catalog entry: a period identifier and its wall-clock
// interval in "HH:MM" form.
type PeriodConfig struct {
	ID    int    `yaml:"id"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Load reads configuration from the given YAML file with environment variable
// overrides. The version parameter is injected at build time and set on the
// returned Config.
func Load(path, version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Import.Mode {
	case "sparse", "complete":
	default:
		return fmt.Errorf("import.mode must be \"sparse\" or \"complete\", got %q", c.Import.Mode)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
