package sqlseq

import (
	"database/sql"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/validation"
)

// Config describes the database a demo or service reads sequences from.
type Config struct {
	Driver string `yaml:"driver" mapstructure:"driver" validate:"required"`
	DSN    string `yaml:"dsn" mapstructure:"dsn" validate:"required"`
}

// ApplyDefaults points an empty config at an in-memory SQLite database.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = "sqlite3"
	}
	if c.DSN == "" {
		c.DSN = ":memory:"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Open validates cfg and opens the database. The driver must already be
// registered, typically by a blank import in the main package.
func Open(cfg Config) (*sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, errors.SourceFailed(cfg.Driver, err)
	}
	return db, nil
}
