// Package config loads runtime configuration for the IYS CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv): IYS_API_URL, IYS_REQUEST_TIMEOUT,
//     IYS_DB_PATH.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend API
//	-t int      request timeout (seconds)
//	-d string   path to the local SQLite database
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "10s" or integer nanoseconds:
//
//	{
//	  "base_url": "https://api.example.org",
//	  "request_timeout": "10s",
//	  "database_path": "iyscli.db"
//	}
package config
