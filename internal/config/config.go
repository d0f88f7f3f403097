package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the default config file name.
const FileName = "extracto.yaml"

// Environment variables that override file values.
const (
	EnvDataDir       = "EXTRACTO_DATA_DIR"
	EnvLogLevel      = "EXTRACTO_LOG_LEVEL"
	EnvLogFormat     = "EXTRACTO_LOG_FORMAT"
	EnvReferenceYear = "EXTRACTO_REFERENCE_YEAR"
)

// Config represents the top-level extracto.yaml configuration. Relative paths
// are resolved against the directory holding the config file.
type Config struct {
	DataDir       string       `yaml:"data_dir"`
	Database      string       `yaml:"database"`
	ReferenceYear int          `yaml:"reference_year,omitempty"` // 0 = current year
	Log           LogConfig    `yaml:"log"`
	Export        ExportConfig `yaml:"export"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// ExportConfig controls where export files are written.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads an extracto.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads path, falling back to Default when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		DataDir:  "data",
		Database: "extracto.db",
		Log:      LogConfig{Level: "info", Format: "console"},
		Export:   ExportConfig{Dir: "exports"},
	}
}

// ApplyEnv loads envFile (if present) into the process environment and then
// applies the EXTRACTO_* overrides.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv(EnvReferenceYear); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: invalid year %q", EnvReferenceYear, v)
		}
		c.ReferenceYear = year
	}
	return nil
}

// DataPath returns the data directory resolved against base.
func (c *Config) DataPath(base string) string {
	return resolve(base, c.DataDir)
}

// DatabasePath returns the bolt file path. A relative database lives in the
// data directory.
func (c *Config) DatabasePath(base string) string {
	return resolve(c.DataPath(base), c.Database)
}

// ExportPath returns the export directory resolved against base.
func (c *Config) ExportPath(base string) string {
	return resolve(base, c.Export.Dir)
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
