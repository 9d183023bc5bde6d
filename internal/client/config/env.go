package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	BaseURL        string        `env:"IYS_API_URL"`
	RequestTimeout time.Duration `env:"IYS_REQUEST_TIMEOUT"`
	DatabasePath   string        `env:"IYS_DB_PATH"`
}

// parseEnv overlays Config with values from environment variables. Unset
// variables leave the current values alone. Panics on unparsable values.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.BaseURL != "" {
		cfg.BaseURL = ec.BaseURL
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.DatabasePath != "" {
		cfg.DatabasePath = ec.DatabasePath
	}
}
