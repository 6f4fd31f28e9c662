// Package config resolves CLI defaults from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvDB      = "ROADWATCH_DB"
	EnvCatalog = "ROADWATCH_CATALOG"
	EnvFormat  = "ROADWATCH_FORMAT"
)

// DefaultEnvFile is read when present; a missing default file is not an error.
const DefaultEnvFile = ".env"

// Config holds the defaults for CLI flags.
type Config struct {
	DBPath     string
	CatalogDir string
	Format     string
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		DBPath: "roadwatch.db",
		Format: "text",
	}
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	envFile string
	lookup  func(string) (string, bool)
}

// WithEnvFile reads variables from path instead of DefaultEnvFile. Unlike
// the default, an explicit file must exist.
func WithEnvFile(path string) Option {
	return func(l *loader) {
		l.envFile = path
	}
}

// WithLookup replaces os.LookupEnv, for tests.
func WithLookup(fn func(string) (string, bool)) Option {
	return func(l *loader) {
		l.lookup = fn
	}
}

// Load resolves the configuration. Process environment wins over the env
// file, which wins over Defaults.
func Load(opts ...Option) (Config, error) {
	l := &loader{envFile: DefaultEnvFile, lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}
	explicit := l.envFile != DefaultEnvFile

	file, err := godotenv.Read(l.envFile)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read env file %s: %w", l.envFile, err)
		}
		file = map[string]string{}
	}

	get := func(key, fallback string) string {
		if v, ok := l.lookup(key); ok && v != "" {
			return v
		}
		if v, ok := file[key]; ok && v != "" {
			return v
		}
		return fallback
	}

	cfg := Defaults()
	cfg.DBPath = get(EnvDB, cfg.DBPath)
	cfg.CatalogDir = get(EnvCatalog, cfg.CatalogDir)
	cfg.Format = get(EnvFormat, cfg.Format)

	if cfg.Format != "text" && cfg.Format != "json" {
		return Config{}, fmt.Errorf("%s must be text or json, got %q", EnvFormat, cfg.Format)
	}
	return cfg, nil
}
