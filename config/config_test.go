package config

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/seq"
)

func TestConfigApplyDefaults(t *testing.T) {
	t.Run("empty config gets development defaults", func(t *testing.T) {
		var cfg Config
		cfg.ApplyDefaults("svc")
		if cfg.Name != "svc" {
			t.Errorf("expected name 'svc', got %q", cfg.Name)
		}
		if cfg.Environment != "development" || !cfg.Debug {
			t.Errorf("expected debug development config, got %q debug=%v", cfg.Environment, cfg.Debug)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
		if cfg.Sequence.BufferCapacity == 0 {
			t.Error("expected sequence buffer capacity default")
		}
		if cfg.SQL.Driver != "sqlite3" {
			t.Errorf("expected sqlite3 driver, got %q", cfg.SQL.Driver)
		}
		if cfg.Retry.MaxAttempts != 3 || cfg.Retry.RetryIf == nil {
			t.Errorf("expected retry defaults, got %+v", cfg.Retry)
		}
		if cfg.Version == "" {
			t.Error("expected version from build info")
		}
		if cfg.Telemetry.ServiceName != "svc" {
			t.Errorf("expected telemetry service 'svc', got %q", cfg.Telemetry.ServiceName)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := Config{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults("svc")
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging, got %q", cfg.Logging.Level)
		}
	})

	t.Run("version flows into telemetry", func(t *testing.T) {
		cfg := Config{Version: "2.3.4"}
		cfg.ApplyDefaults("svc")
		if cfg.Telemetry.ServiceVersion != "2.3.4" {
			t.Errorf("expected telemetry version 2.3.4, got %q", cfg.Telemetry.ServiceVersion)
		}
	})
}

func TestConfigValidate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.ApplyDefaults("svc")
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{"defaults", func(*Config) {}, false, ""},
		{"staging", func(c *Config) { c.Environment = "staging" }, false, ""},
		{"invalid environment", func(c *Config) { c.Environment = "invalid" }, true, "environment"},
		{"negative max buffered", func(c *Config) { c.Sequence.MaxBuffered = -1 }, true, "max_buffered"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true, "level"},
		{"sample rate above one", func(c *Config) { c.Telemetry.SampleRate = 2 }, true, "sample_rate"},
		{"jitter above one", func(c *Config) { c.Retry.Jitter = 1.5 }, true, "jitter"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				if !errors.Is(err, errors.ErrInvalidConfig) {
					t.Fatalf("expected invalid config error, got %v", err)
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfigContext(t *testing.T) {
	cfg := Config{Sequence: seq.Config{BufferCapacity: 4, MaxBuffered: 10}}
	got := seq.ConfigFrom(cfg.Context(context.Background()))
	if got.BufferCapacity != 4 || got.MaxBuffered != 10 {
		t.Errorf("expected sequence config to reach the context, got %+v", got)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadWithYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: test-service
environment: staging
sequence:
  buffer_capacity: 32
  max_buffered: 1000
telemetry:
  interval: 5s
sql:
  dsn: file:test.db
retry:
  max_attempts: 5
  initial_backoff: 50ms
`)

	var cfg Config
	if err := Load("test-service", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Name != "test-service" || cfg.Environment != "staging" {
		t.Errorf("unexpected service section: %q %q", cfg.Name, cfg.Environment)
	}
	if cfg.Sequence.BufferCapacity != 32 || cfg.Sequence.MaxBuffered != 1000 {
		t.Errorf("unexpected sequence section: %+v", cfg.Sequence)
	}
	if cfg.Telemetry.Interval != 5*time.Second {
		t.Errorf("expected 5s interval, got %v", cfg.Telemetry.Interval)
	}
	if cfg.SQL.DSN != "file:test.db" || cfg.SQL.Driver != "sqlite3" {
		t.Errorf("unexpected sql section: %+v", cfg.SQL)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.InitialBackoff != 50*time.Millisecond {
		t.Errorf("unexpected retry section: %+v", cfg.Retry)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: test-service
sequence:
  max_buffered: 10
`)
	t.Setenv("SEQKIT_SEQUENCE_MAX_BUFFERED", "64")
	t.Setenv("SEQKIT_LOGGING_LEVEL", "warn")

	var cfg Config
	if err := Load("test-service", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env")); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Sequence.MaxBuffered != 64 {
		t.Errorf("expected env override 64, got %d", cfg.Sequence.MaxBuffered)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected env override warn, got %q", cfg.Logging.Level)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "SEQKIT_SQL_DSN=file:from-env.db\n")
	t.Setenv("SEQKIT_SQL_DSN", "")
	os.Unsetenv("SEQKIT_SQL_DSN")

	var cfg Config
	err := Load("svc", &cfg,
		WithConfigFile(filepath.Join(dir, "missing.yml")),
		WithEnvFile(envPath),
	)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SQL.DSN != "file:from-env.db" {
		t.Errorf("expected dsn from .env, got %q", cfg.SQL.DSN)
	}
}

func TestLoadValidationFailure(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: test-service
environment: moon
`)

	var cfg Config
	err := Load("test-service", &cfg, WithConfigFile(path), WithEnvFile("/nonexistent/.env"))
	if !errors.Is(err, errors.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	var cfg Config
	// With no config file found, LoadConfig should still succeed (just empty config)
	err := LoadConfig("nonexistent-service", &cfg, WithConfigFile("/nonexistent/path.yml"), WithEnvFile("/nonexistent/.env"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/my-svc/config.yml": true,
		"./.env":                  true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("my-svc", LoaderConfig{})
	if files.ConfigFile != "./cmd/my-svc/config.yml" {
		t.Errorf("expected config file at ./cmd/my-svc/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected env file at ./.env, got %q", files.EnvFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("svc", LoaderConfig{ConfigFile: "/etc/svc.yml", EnvFile: "/etc/svc.env"})
	if files.ConfigFile != "/etc/svc.yml" || files.EnvFile != "/etc/svc.env" {
		t.Errorf("expected explicit paths, got %+v", files)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestEnvKeyPaths(t *testing.T) {
	got := envKeyPaths("SEQUENCE_MAX_BUFFERED")
	for _, want := range []string{"sequence_max_buffered", "sequence.max.buffered", "sequence.max_buffered"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if len(got) != 3 {
		t.Errorf("expected 3 distinct paths, got %v", got)
	}
	if got := envKeyPaths("NAME"); len(got) != 1 || got[0] != "name" {
		t.Errorf("expected [name], got %v", got)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	for _, opt := range []LoaderOption{
		WithFileSystem(fs),
		WithConfigFile("/path/to/config.yml"),
		WithEnvFile("/path/to/.env"),
		WithEnvPrefix("APP_"),
	} {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" || lc.EnvFile != "/path/to/.env" || lc.EnvPrefix != "APP_" {
		t.Errorf("unexpected loader config: %+v", lc)
	}
}
