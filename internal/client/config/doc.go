// Package config loads runtime configuration for the session client CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the identity service
//	-d string   path to the local SQLite database
//	-t int      verification timeout (seconds)
//	-g int      redirect grace delay (milliseconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "10s" or
// integer nanoseconds. Absent keys keep their previous value:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "database_path": "gatekeeper.db",
//	  "verify_timeout": "10s",
//	  "redirect_grace": "100ms",
//	  "log_level": "info"
//	}
package config
