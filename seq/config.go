package seq

import (
	"context"

	"github.com/kbukum/seqkit/validation"
)

const defaultBufferCapacity = 16

// Config controls the shared buffers behind Save, SaveDistinct and Split.
type Config struct {
	// BufferCapacity is the initial capacity of a newly allocated buffer.
	BufferCapacity int `yaml:"buffer_capacity" mapstructure:"buffer_capacity" validate:"gte=0"`
	// MaxBuffered caps the number of elements a memo or splitter may hold.
	// Zero means unlimited.
	MaxBuffered int `yaml:"max_buffered" mapstructure:"max_buffered" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when none is attached to the context.
func DefaultConfig() Config {
	return Config{BufferCapacity: defaultBufferCapacity}
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.BufferCapacity == 0 {
		c.BufferCapacity = defaultBufferCapacity
	}
}

// Validate checks the configuration for negative sizes.
func (c *Config) Validate() error {
	return validation.New().
		NonNegative("sequence.buffer_capacity", c.BufferCapacity).
		NonNegative("sequence.max_buffered", c.MaxBuffered).
		Err()
}

// configKey is the context key for Config.
type configKey struct{}

// WithConfig attaches cfg to the context. Buffers created while a pass runs
// under this context use it.
func WithConfig(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// ConfigFrom returns the Config attached to ctx, or DefaultConfig.
func ConfigFrom(ctx context.Context) Config {
	if cfg, ok := ctx.Value(configKey{}).(Config); ok {
		cfg.ApplyDefaults()
		return cfg
	}
	return DefaultConfig()
}
