// Package config loads runtime configuration for the DriveBuddy CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-s string   record store driver: sqlite or postgres
//	-d string   data source name (file path for sqlite, URL for postgres)
//	-H string   password hash scheme for new digests: sha256 or argon2id
//	-l string   log level: debug, info, warn, error
//	-f string   log format: text or json
//
// # JSON schema
//
//	{
//	  "database_driver": "sqlite",
//	  "database_dsn": "drivebuddy.db",
//	  "hash_scheme": "sha256",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// Keys missing from the JSON file keep their default value.
package config
