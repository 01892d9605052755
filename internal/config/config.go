// Package config loads estate settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/naveenspark/estate/internal/logging"
	"github.com/naveenspark/estate/pkg/client"
	"github.com/naveenspark/estate/pkg/storage"
)

// Config is the full client configuration.
type Config struct {
	// APIURL is the backend API root.
	APIURL string `env:"ESTATE_API_URL" envDefault:"http://localhost:8000/api"`

	Store StoreConfig

	// HTTPTimeout bounds each request. Zero leaves the transport default.
	HTTPTimeout time.Duration `env:"ESTATE_HTTP_TIMEOUT" envDefault:"0s"`

	// RefreshCoalesce makes concurrent 401s share one token refresh.
	RefreshCoalesce bool `env:"ESTATE_REFRESH_COALESCE" envDefault:"true"`

	// ErrorMessagePath is the JMESPath expression that reads a message out of
	// an error body.
	ErrorMessagePath string `env:"ESTATE_ERROR_MESSAGE_PATH"`

	Log LogConfig
}

// StoreConfig selects where the session is persisted.
type StoreConfig struct {
	Backend       storage.Backend `env:"ESTATE_STORE" envDefault:"file"`
	Path          string          `env:"ESTATE_STORE_PATH"`
	RedisAddr     string          `env:"ESTATE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string          `env:"ESTATE_REDIS_PASSWORD"`
	RedisDB       int             `env:"ESTATE_REDIS_DB" envDefault:"0"`
	RedisPrefix   string          `env:"ESTATE_REDIS_PREFIX"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level  string `env:"ESTATE_LOG_LEVEL" envDefault:"info"`
	Format string `env:"ESTATE_LOG_FORMAT" envDefault:"json"`
	File   string `env:"ESTATE_LOG_FILE"`
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Sanitize()
	return cfg, nil
}

// Sanitize trims values and fills defaults that env tags cannot express.
func (c *Config) Sanitize() {
	c.APIURL = strings.TrimRight(strings.TrimSpace(c.APIURL), "/")
	if c.APIURL == "" {
		c.APIURL = client.DefaultBaseURL
	}
	if c.Store.Backend == "" {
		c.Store.Backend = storage.BackendFile
	}
	if c.HTTPTimeout < 0 {
		c.HTTPTimeout = 0
	}
	c.ErrorMessagePath = strings.TrimSpace(c.ErrorMessagePath)
	if c.ErrorMessagePath == "" {
		c.ErrorMessagePath = client.DefaultMessagePath
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if u, err := url.Parse(c.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("ESTATE_API_URL %q: want an http(s) URL", c.APIURL))
	}
	var b storage.Backend
	if err := b.UnmarshalText([]byte(c.Store.Backend)); err != nil {
		errs = append(errs, fmt.Errorf("ESTATE_STORE: %w", err))
	}
	if c.Store.Backend == storage.BackendRedis && c.Store.RedisAddr == "" {
		errs = append(errs, errors.New("ESTATE_REDIS_ADDR is required for the redis store"))
	}
	if err := client.ValidateMessagePath(c.ErrorMessagePath); err != nil {
		errs = append(errs, fmt.Errorf("ESTATE_ERROR_MESSAGE_PATH: %w", err))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("ESTATE_LOG_LEVEL: %w", err))
	}
	switch c.Log.Format {
	case "", logging.FormatJSON, logging.FormatConsole:
	default:
		errs = append(errs, fmt.Errorf("ESTATE_LOG_FORMAT %q: want json or console", c.Log.Format))
	}
	return errors.Join(errs...)
}

// StorageOptions maps the store settings onto storage.Open.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:       c.Store.Backend,
		Path:          c.Store.Path,
		RedisAddr:     c.Store.RedisAddr,
		RedisPassword: c.Store.RedisPassword,
		RedisDB:       c.Store.RedisDB,
		RedisPrefix:   c.Store.RedisPrefix,
	}
}

// ClientOptions maps the HTTP settings onto client.New.
func (c *Config) ClientOptions() []client.Option {
	opts := []client.Option{
		client.WithRefreshCoalescing(c.RefreshCoalesce),
		client.WithMessagePath(c.ErrorMessagePath),
	}
	if c.HTTPTimeout > 0 {
		opts = append(opts, client.WithTimeout(c.HTTPTimeout))
	}
	return opts
}

// LoggingOptions maps the log settings onto logging.Setup.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{Level: c.Log.Level, Format: c.Log.Format, File: c.Log.File}
}
