package config

import (
	"context"
	"fmt"

	"github.com/kbukum/seqkit/logger"
	"github.com/kbukum/seqkit/observability"
	"github.com/kbukum/seqkit/resilience"
	"github.com/kbukum/seqkit/seq"
	"github.com/kbukum/seqkit/sqlseq"
	"github.com/kbukum/seqkit/validation"
	"github.com/kbukum/seqkit/version"
)

// Config is the configuration tree of a seqkit application.
type Config struct {
	Name        string                 `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string                 `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string                 `yaml:"version" mapstructure:"version"`
	Debug       bool                   `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config          `yaml:"logging" mapstructure:"logging"`
	Telemetry   observability.Config   `yaml:"telemetry" mapstructure:"telemetry"`
	Sequence    seq.Config             `yaml:"sequence" mapstructure:"sequence"`
	SQL         sqlseq.Config          `yaml:"sql" mapstructure:"sql"`
	Retry       resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// ApplyDefaults fills unset fields. serviceName is used when the loaded
// configuration names no service.
func (c *Config) ApplyDefaults(serviceName string) {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().String()
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
	if c.Telemetry.ServiceVersion == "" {
		c.Telemetry.ServiceVersion = c.Version
	}
	c.Telemetry.ApplyDefaults(c.Name)
	c.Sequence.ApplyDefaults()
	c.SQL.ApplyDefaults()
	c.Retry.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("config.telemetry: %w", err)
	}
	if err := c.Sequence.Validate(); err != nil {
		return fmt.Errorf("config.sequence: %w", err)
	}
	return nil
}

// Context attaches the sequence section to ctx so passes evaluated under it
// size and cap their shared buffers accordingly.
func (c *Config) Context(ctx context.Context) context.Context {
	return seq.WithConfig(ctx, c.Sequence)
}

// Load reads configuration for serviceName into cfg, applies defaults and
// validates the result.
func Load(serviceName string, cfg *Config, opts ...LoaderOption) error {
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return err
	}
	cfg.ApplyDefaults(serviceName)
	return cfg.Validate()
}
