package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/seqkit/errors"
	"github.com/kbukum/seqkit/logger"
)

// DefaultEnvPrefix is stripped from environment variables before they are
// mapped onto configuration keys.
const DefaultEnvPrefix = "SEQKIT_"

// FileSystem abstracts the file lookups of the loader.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// OSFileSystem reads the real file system.
type OSFileSystem struct{}

// Exists reports whether path can be stat'ed.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file into the process environment without
// overriding variables that are already set.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // explicit config file, skips the search
	EnvFile    string // explicit .env file, skips the search
	EnvPrefix  string
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// ResolvedFiles are the files a load will read. Empty means none.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Resolver picks the config and env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolveFiles returns the explicit paths from lc when set and otherwise
// the first existing candidate from the standard locations.
func (r *Resolver) ResolveFiles(serviceName string, lc LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.firstExisting(configCandidates(serviceName))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.firstExisting(envCandidates(serviceName))
	}
	return files
}

func (r *Resolver) firstExisting(paths []string) string {
	i := slices.IndexFunc(paths, r.FileSystem.Exists)
	if i < 0 {
		return ""
	}
	return paths[i]
}

func configCandidates(serviceName string) []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../../cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"./config.yml",
	}
}

func envCandidates(serviceName string) []string {
	var paths []string
	for _, name := range []string{".env." + serviceName, ".env"} {
		paths = append(paths,
			fmt.Sprintf("./cmd/%s/%s", serviceName, name),
			fmt.Sprintf("../cmd/%s/%s", serviceName, name),
			"./"+name,
			"../"+name,
		)
	}
	return paths
}

// LoadConfig reads configuration for serviceName into cfg: the config file
// first, then the .env file, then prefixed environment variables, later
// sources overriding earlier ones. It neither applies defaults nor
// validates. A missing or unreadable file is logged and skipped.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: OSFileSystem{}, EnvPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&lc)
	}

	files := (&Resolver{FileSystem: lc.FileSystem}).ResolveFiles(serviceName, lc)
	log := logger.Get("config")
	v := viper.New()

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			log.Warn("config file skipped", logger.Fields("file", files.ConfigFile, logger.FieldError, err.Error()))
		}
	}
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn(".env file skipped", logger.Fields("file", files.EnvFile, logger.FieldError, err.Error()))
		}
	}
	overrideFromEnv(v, lc.EnvPrefix, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidConfig(serviceName, "failed to unmarshal configuration").WithCause(err)
	}
	return nil
}

// overrideFromEnv sets every configuration key a PREFIX_A_B=value entry
// could name.
func overrideFromEnv(v *viper.Viper, prefix string, environ []string) {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		key, ok := strings.CutPrefix(name, prefix)
		if !ok || key == "" {
			continue
		}
		for _, path := range envKeyPaths(key) {
			v.Set(path, value)
		}
	}
}

// envKeyPaths lists the dotted paths an underscore-separated key may stand
// for, since underscores separate both nesting levels and words:
//
//	SEQUENCE_MAX_BUFFERED -> sequence_max_buffered, sequence.max.buffered,
//	                         sequence.max_buffered
func envKeyPaths(key string) []string {
	key = strings.ToLower(key)
	parts := strings.Split(key, "_")
	paths := []string{key}
	if len(parts) == 1 {
		return paths
	}
	paths = append(paths, strings.Join(parts, "."))
	for i := 1; i < len(parts)-1; i++ {
		paths = append(paths, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return paths
}
