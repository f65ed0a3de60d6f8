// Package validation checks seqkit configuration values.
//
// Struct tag validation (go-playground/validator) reports field names by
// their mapstructure keys so messages match the configuration file.
// Programmatic validation collects cross-field errors that tags cannot
// express.
//
// # Struct Tag Validation
//
//	type TelemetryConfig struct {
//	    Endpoint   string  `mapstructure:"endpoint" validate:"required_if=Enabled true"`
//	    SampleRate float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
//	}
//	err := validation.Validate(cfg)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Check(cfg.MaxBuffered == 0 || cfg.MaxBuffered >= cfg.BufferCapacity,
//	    "sequence.max_buffered", "must not be below buffer_capacity")
//	err := v.Err()
package validation
