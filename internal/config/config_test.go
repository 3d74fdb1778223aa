package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want 1", cfg.Workers)
	}
	if cfg.TimeoutSeconds != 5 {
		t.Errorf("TimeoutSeconds = %d, want 5", cfg.TimeoutSeconds)
	}
	if cfg.OutputFile != "./valid_credz.txt" {
		t.Errorf("OutputFile = %q", cfg.OutputFile)
	}
}

func TestLoad_File(t *testing.T) {
	content := `driver: postgres
target: 10.0.0.1
workers: 8
timeout_seconds: 3
delay_seconds: 0.5
log_file: attempts.log
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Driver != "postgres" || cfg.Workers != 8 || cfg.TimeoutSeconds != 3 {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.GetTimeout() != 3*time.Second {
		t.Errorf("GetTimeout() = %v, want 3s", cfg.GetTimeout())
	}
	if cfg.GetDelay() != 500*time.Millisecond {
		t.Errorf("GetDelay() = %v, want 500ms", cfg.GetDelay())
	}
	// File values must not clobber untouched defaults.
	if cfg.OutputFile != "./valid_credz.txt" {
		t.Errorf("OutputFile = %q, want default", cfg.OutputFile)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with a missing file should fail")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CREDPROBE_DRIVER", "mysql")
	t.Setenv("CREDPROBE_WORKERS", "16")
	t.Setenv("CREDPROBE_OUTPUT_FILE", "/tmp/out.txt")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Driver != "mysql" {
		t.Errorf("Driver = %q, want mysql", cfg.Driver)
	}
	if cfg.Workers != 16 {
		t.Errorf("Workers = %d, want 16", cfg.Workers)
	}
	if cfg.OutputFile != "/tmp/out.txt" {
		t.Errorf("OutputFile = %q", cfg.OutputFile)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Driver = "ssh"
		cfg.Target = "10.0.0.1"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"missing driver", func(c *Config) { c.Driver = "" }, true},
		{"no target source", func(c *Config) { c.Target = "" }, true},
		{"both target sources", func(c *Config) { c.TargetFile = "targets.txt" }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"zero timeout", func(c *Config) { c.TimeoutSeconds = 0 }, true},
		{"negative delay", func(c *Config) { c.DelaySeconds = -1 }, true},
		{"port out of range", func(c *Config) { c.Port = 70000 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"target file only", func(c *Config) { c.Target = ""; c.TargetFile = "targets.txt" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
