// Package config provides centralized configuration management for the
// application. Settings load from environment variables with defaults and
// are validated on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Mail     MailConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	ReadTimeout  time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout  time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// RequestTimeout is the middleware timeout for one request (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver selects the gateway: "postgres" or "sqlite" (default: sqlite)
	Driver string `env:"DB_DRIVER" default:"sqlite"`

	// URL is the connection string (required). A pgx URL for postgres, a
	// file path or :memory: for sqlite. DATABASE_URL is also accepted.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`
}

// AppConfig holds settings the renderer and front controller expose to views.
type AppConfig struct {
	// RootPath is the path prefix the application is mounted under.
	RootPath string `env:"APP_ROOT_PATH" default:"/"`

	// Host is the absolute address used for links in mail bodies.
	Host string `env:"APP_HOST" default:"http://localhost:8080"`

	// DefaultTitle is used when a render call sets no title.
	DefaultTitle string `env:"APP_DEFAULT_TITLE" default:"Your Website"`

	// AssetVersion is appended to resource links for cache busting.
	// The value "dev" resolves to a timestamp on every request.
	AssetVersion string `env:"APP_ASSET_VERSION" default:"dev"`
}

// MailConfig holds mail transport settings.
type MailConfig struct {
	// Enabled turns outgoing mail on (default: false)
	Enabled bool `env:"MAIL_ENABLED" default:"false"`

	// SMTPAddr is the relay address in host:port form.
	SMTPAddr string `env:"MAIL_SMTP_ADDR" default:"localhost:25"`

	// From is the sender address on outgoing mail.
	From string `env:"MAIL_FROM" default:"noreply@localhost"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return c.Host + ":" + strconv.Itoa(c.Port)
}
