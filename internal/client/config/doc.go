// Package config loads runtime configuration for the furbaby CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional JSON file named with -c or -config.
//  3. Command-line flags.
//
// Example file:
//
//	{
//	  "env": "staging",
//	  "session_check_interval": "30s",
//	  "request_timeout": "5s",
//	  "database_path": "/var/lib/furbaby/client.db",
//	  "log_level": "info"
//	}
package config
