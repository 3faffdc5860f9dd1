// Package config loads runtime configuration for the carmarket CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if present. Variables already set
//     in the environment win over the file.
//  3. CARMARKET_* environment variables (see envConfig).
//  4. Optional JSON file selected with -c/-config or CARMARKET_CONFIG.
//  5. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the marketplace API
//	-s string   session database path (empty keeps the session in memory)
//	-t int      request timeout (seconds)
//	-l string   log level: debug, info, warn, error
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "15s" or integer
// nanoseconds:
//
//	{
//	  "api_url": "http://localhost:3000/api",
//	  "session_db": "carmarket.db",
//	  "request_timeout": "15s",
//	  "log_level": "debug",
//	  "log_format": "json"
//	}
package config
