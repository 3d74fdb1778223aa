// Package config
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config carries every knob for a run. Values come from an optional YAML
// file, then CREDPROBE_* environment variables, then CLI flags; later
// sources win.
type Config struct {
	Driver         string  `yaml:"driver" validate:"required"`
	Target         string  `yaml:"target"`
	TargetFile     string  `yaml:"target_file"`
	Port           int     `yaml:"port" validate:"min=0,max=65535"`
	CredentialFile string  `yaml:"credential_file"`
	Workers        int     `yaml:"workers" validate:"min=1"`
	TimeoutSeconds int     `yaml:"timeout_seconds" validate:"min=1"`
	DelaySeconds   float64 `yaml:"delay_seconds" validate:"min=0"`
	OutputFile     string  `yaml:"output_file" validate:"required"`
	LogFile        string  `yaml:"log_file"`
	LogLevel       string  `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the baseline configuration before any overrides.
func Default() *Config {
	return &Config{
		Workers:        1,
		TimeoutSeconds: 5,
		OutputFile:     "./valid_credz.txt",
		LogLevel:       "info",
	}
}

// Load reads configuration from an optional file and applies environment
// variable overrides. An empty configPath skips the file entirely.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

var validate = validator.New()

// Validate ensures the run can start: a driver, exactly one target source,
// and sane numeric values. Failures here are fatal and reported before any
// worker exists.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Target == "" && c.TargetFile == "" {
		return fmt.Errorf("either a target or a target file is required")
	}
	if c.Target != "" && c.TargetFile != "" {
		return fmt.Errorf("target and target file are mutually exclusive")
	}
	return nil
}

// applyEnvOverrides checks for environment variables with CREDPROBE_ prefix
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CREDPROBE_DRIVER"); v != "" {
		cfg.Driver = v
	}
	if v := os.Getenv("CREDPROBE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("CREDPROBE_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("CREDPROBE_OUTPUT_FILE"); v != "" {
		cfg.OutputFile = v
	}
	if v := os.Getenv("CREDPROBE_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("CREDPROBE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// GetTimeout returns the per-attempt connect timeout as a duration.
func (c *Config) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetDelay returns the per-host inter-attempt delay as a duration.
func (c *Config) GetDelay() time.Duration {
	return time.Duration(c.DelaySeconds * float64(time.Second))
}
