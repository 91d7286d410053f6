package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/drivebuddy/internal/flagx"
)

// jsonConfig is a DTO used only for unmarshalling. Pointer fields tell an
// absent key apart from an empty one.
type jsonConfig struct {
	DatabaseDriver *string `json:"database_driver"`
	DatabaseDSN    *string `json:"database_dsn"`
	HashScheme     *string `json:"hash_scheme"`
	LogLevel       *string `json:"log_level"`
	LogFormat      *string `json:"log_format"`
}

// parseJSON overlays cfg with the file named by -c/-config in args.
// No flag means no file and no error.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	overlay(&cfg.DatabaseDriver, jc.DatabaseDriver)
	overlay(&cfg.DatabaseDSN, jc.DatabaseDSN)
	overlay(&cfg.HashScheme, jc.HashScheme)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.LogFormat, jc.LogFormat)
	return nil
}

func overlay(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
