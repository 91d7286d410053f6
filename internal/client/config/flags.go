package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/drivebuddy/internal/flagx"
)

var knownFlags = []string{"-s", "-d", "-H", "-l", "-f"}

// parseFlags populates cfg from command-line flags. Only knownFlags are
// looked at, so -c/-config and anything meant for other parsers is ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("drivebuddy", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabaseDriver, "s", cfg.DatabaseDriver, "record store driver (sqlite, postgres)")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "data source name")
	fs.StringVar(&cfg.HashScheme, "H", cfg.HashScheme, "password hash scheme (sha256, argon2id)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogFormat, "f", cfg.LogFormat, "log format (text, json)")

	return fs.Parse(flagx.FilterArgs(args, knownFlags))
}
