package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/drivebuddy/internal/client/repositories/repomanager"
	"github.com/dmitrijs2005/drivebuddy/internal/cryptox"
	"github.com/dmitrijs2005/drivebuddy/internal/logging"
)

// Config holds runtime settings for the DriveBuddy CLI.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string
	HashScheme     string
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with defaults: a local SQLite file and the
// unsalted sha256 scheme.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = repomanager.DriverSQLite
	c.DatabaseDSN = "drivebuddy.db"
	c.HashScheme = cryptox.SchemeSHA256
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case repomanager.DriverSQLite, repomanager.DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database dsn must not be empty"))
	}
	if _, err := cryptox.NewPasswordHasher(c.HashScheme); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config from os.Args; see Load.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, then the JSON file named by -c/-config (if any),
// then flags. Later sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
