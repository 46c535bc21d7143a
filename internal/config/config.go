// Package config loads the jobsdone command configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"jobsdone/internal/jobfile"
)

// DefaultPath is the configuration file looked up in the working directory.
const DefaultPath = ".jobsdone.yaml"

// Environment variables overriding the configuration file.
const (
	EnvOutput    = "JOBSDONE_OUTPUT"
	EnvGenerator = "JOBSDONE_GENERATOR"
	EnvLogLevel  = "JOBSDONE_LOG_LEVEL"
	EnvWorkers   = "JOBSDONE_WORKERS"
)

// Config holds the jobsdone configuration.
type Config struct {
	// Filename is the jobs_done document looked up in a repository root.
	Filename string `yaml:"filename"`
	// Generator names the backend that renders jobs.
	Generator string `yaml:"generator"`
	// OutputDir receives the generated artifacts.
	OutputDir string `yaml:"output_dir"`
	// Workers bounds concurrent matrix row resolution.
	Workers int `yaml:"workers"`

	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// ValidLogFormats lists the accepted logging formats.
var ValidLogFormats = []string{"console", "json"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Filename:  jobfile.Filename,
		Generator: "jenkins",
		OutputDir: "jobs",
		Workers:   4,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file on top of the defaults, then
// applies environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if dir := os.Getenv(EnvOutput); dir != "" {
		c.OutputDir = dir
	}

	if name := os.Getenv(EnvGenerator); name != "" {
		c.Generator = name
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	}

	if workers := os.Getenv(EnvWorkers); workers != "" {
		n, err := strconv.Atoi(workers)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvWorkers, workers, err)
		}

		c.Workers = n
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.Filename == "" {
		errs = append(errs, errors.New("filename is empty"))
	}

	if c.Generator == "" {
		errs = append(errs, errors.New("generator is empty"))
	}

	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is empty"))
	}

	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}

	if !slices.Contains(ValidLogLevels, c.Logging.Level) {
		errs = append(errs, fmt.Errorf("invalid logging level: %s (valid: %v)", c.Logging.Level, ValidLogLevels))
	}

	if !slices.Contains(ValidLogFormats, c.Logging.Format) {
		errs = append(errs, fmt.Errorf("invalid logging format: %s (valid: %v)", c.Logging.Format, ValidLogFormats))
	}

	return errors.Join(errs...)
}
