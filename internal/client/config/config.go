package config

import "time"

// Config holds runtime settings for the carmarket CLI.
//
// Fields:
//   - APIBaseURL: root of the REST API, e.g. http://localhost:3000/api.
//   - SessionDBPath: SQLite file holding the session; empty means in-memory.
//   - RequestTimeout: per-request HTTP timeout.
//   - LogLevel, LogFormat: passed to logging.New.
type Config struct {
	APIBaseURL     string
	SessionDBPath  string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:3000/api"
	c.SessionDBPath = "carmarket.db"
	c.RequestTimeout = 15 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig constructs a Config, applies defaults, then overlays the .env
// file, the environment, JSON (if present) and command-line flags. Later
// sources take precedence over earlier ones. Malformed input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadDotEnv(dotEnvFile)
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
