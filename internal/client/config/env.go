package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const dotEnvFile = ".env"

// envConfig is the environment view of Config. Unset variables leave the
// corresponding field untouched; a value that does not parse is an error.
type envConfig struct {
	APIBaseURL     string        `env:"CARMARKET_API_URL,strict"`
	SessionDBPath  string        `env:"CARMARKET_SESSION_DB,strict"`
	RequestTimeout time.Duration `env:"CARMARKET_REQUEST_TIMEOUT,strict"`
	LogLevel       string        `env:"CARMARKET_LOG_LEVEL,strict"`
	LogFormat      string        `env:"CARMARKET_LOG_FORMAT,strict"`
}

// loadDotEnv exports the variables of path into the process environment.
// A missing file is not an error.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
}

// parseEnv overlays cfg with the CARMARKET_* variables that are set.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := envdecode.Decode(&ec); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		panic(err)
	}

	if ec.APIBaseURL != "" {
		cfg.APIBaseURL = ec.APIBaseURL
	}
	if ec.SessionDBPath != "" {
		cfg.SessionDBPath = ec.SessionDBPath
	}
	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.LogLevel != "" {
		cfg.LogLevel = ec.LogLevel
	}
	if ec.LogFormat != "" {
		cfg.LogFormat = ec.LogFormat
	}
}
