// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig; loader failures wrap ErrLoadConfig.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log record encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// IndexPath is the page served at GET /. Read from disk on every request.
	IndexPath string `koanf:"index_path"`

	// StaticDir is the directory served under /static/.
	StaticDir string `koanf:"static_dir"`

	// MaxUploadBytes caps the whole multipart body of a checklist request.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// MaxFieldBytes caps a single text field of a checklist request.
	MaxFieldBytes int64 `koanf:"max_field_bytes"`

	// CORSAllowedOrigins lists origins allowed to call the API from a browser.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `koanf:"shutdown_timeout_ms"`
}

// New creates a Config populated with defaults. Context is accepted first to
// satisfy the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":8000",
		IndexPath:          "web/index.html",
		StaticDir:          "web/static",
		MaxUploadBytes:     256 << 20,
		MaxFieldBytes:      1 << 20,
		CORSAllowedOrigins: []string{"*"},
		ShutdownTimeoutMS:  30_000,
	}
}

// ShutdownTimeout returns ShutdownTimeoutMS as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}
