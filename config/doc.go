// Package config loads seqkit application configuration.
//
// It uses Viper to read a YAML file and environment variables, with an
// optional .env file loaded through godotenv. Environment variables
// override file values using the SEQKIT_ prefix and underscore-separated
// paths (e.g., SEQKIT_SEQUENCE_MAX_BUFFERED).
//
// # Usage
//
//	var cfg config.Config
//	if err := config.Load("seqdemo", &cfg); err != nil {
//	    return err
//	}
//	ctx = cfg.Context(ctx)
package config
