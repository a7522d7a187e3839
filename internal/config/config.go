// Package config loads runtime settings from an optional .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/selimozcann/oglink/internal/httpclient"
)

// Environment variable names.
const (
	EnvTimeout      = "OGLINK_TIMEOUT"
	EnvMaxRedirects = "OGLINK_MAX_REDIRECTS"
	EnvAddr         = "OGLINK_ADDR"
	EnvLogLevel     = "OGLINK_LOG_LEVEL"
)

// DefaultAddr is where the serve command listens unless told otherwise.
const DefaultAddr = ":8080"

// Config holds settings shared by the CLI and the HTTP server.
type Config struct {
	Timeout      time.Duration
	MaxRedirects int
	Addr         string
	LogLevel     logrus.Level
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Timeout:      httpclient.DefaultTimeout,
		MaxRedirects: httpclient.DefaultMaxRedirects,
		Addr:         DefaultAddr,
		LogLevel:     logrus.InfoLevel,
	}
}

// Load reads the given .env files (".env" when none are named) into the
// environment, then builds a Config from it. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the lookup function, starting from Default.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	if v := getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("%s must be > 0 (got %s)", EnvTimeout, d)
		}
		cfg.Timeout = d
	}
	if v := getenv(EnvMaxRedirects); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvMaxRedirects, err)
		}
		if n <= 0 {
			return Config{}, fmt.Errorf("%s must be > 0 (got %d)", EnvMaxRedirects, n)
		}
		cfg.MaxRedirects = n
	}
	if v := getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		lvl, err := logrus.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}
	return cfg, nil
}
