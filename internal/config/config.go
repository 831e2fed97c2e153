// Package config loads the runtime settings of the web app from the
// environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env"
)

// Config carries the web app settings. Every field has a usable
// default, so "statmaster serve" runs out of the box; a .env file
// loaded at startup can override any of them.
type Config struct {
	Host        string `env:"STATMASTER_HOST" envDefault:"localhost"`
	Port        int    `env:"STATMASTER_PORT" envDefault:"3000"`
	UploadDir   string `env:"STATMASTER_UPLOAD_DIR" envDefault:"uploads"`
	ReportDir   string `env:"STATMASTER_REPORT_DIR" envDefault:"reports"`
	MaxUploadMB int64  `env:"STATMASTER_MAX_UPLOAD_MB" envDefault:"16"`
	LogLevel    string `env:"STATMASTER_LOG_LEVEL" envDefault:"info"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment config: %w", err)
	}
	return cfg, nil
}

// MaxUploadBytes is the request body ceiling for PDF uploads.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB * 1024 * 1024
}

// EnsureDirs creates the upload and report directories if they do not
// exist yet.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.UploadDir, c.ReportDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// SlogLevel maps the configured level name onto slog's levels. Unknown
// names fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
