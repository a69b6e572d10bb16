package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ConfigFileEnv names the environment variable holding an optional YAML config file path
const ConfigFileEnv = "TASKFLOW_CONFIG"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
	logger *slog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
		logger: slog.Default(),
	}
}

// WithLogger sets the logger used to report where configuration came from
func (l *Loader) WithLogger(logger *slog.Logger) *Loader {
	if logger != nil {
		l.logger = logger
	}
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML file named by TASKFLOW_CONFIG
// 3. Override with environment variables
// 4. Override with command line flags (see LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	return l.LoadWithOverrides(nil)
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config := l.config

	path := os.Getenv(ConfigFileEnv)
	if overrides != nil && overrides.ConfigFile != nil {
		path = *overrides.ConfigFile
	}
	if path != "" {
		if err := config.LoadFromFile(path); err != nil {
			return nil, err
		}
		l.logger.Debug("Loaded config file", slog.String("path", path))
	}

	if err := config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(config, overrides)
	}

	l.ensureSecret(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ensureSecret generates a per-process signing secret outside production.
// Tokens issued with it do not survive a restart.
func (l *Loader) ensureSecret(config *Config) {
	if config.Auth.JWTSecret != "" || config.IsProduction() {
		return
	}
	config.Auth.JWTSecret = uuid.NewString() + uuid.NewString()
	l.logger.Warn("No JWT secret configured, using a generated one",
		slog.String("environment", config.Application.Environment))
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	ConfigFile *string

	// Server overrides
	Addr     *string
	BasePath *string

	// Database overrides
	DBDir      *string
	DBFilename *string

	// Auth overrides
	ConcealForeignTasks *bool

	// Redis overrides
	RedisAddr *string

	// Application overrides
	Environment *string
	Verbose     *bool
	LogFormat   *string
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Server overrides
	if overrides.Addr != nil {
		config.Server.Addr = *overrides.Addr
	}
	if overrides.BasePath != nil {
		config.Server.BasePath = *overrides.BasePath
	}

	// Database overrides
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}

	// Auth overrides
	if overrides.ConcealForeignTasks != nil {
		config.Auth.ConcealForeignTasks = *overrides.ConcealForeignTasks
	}

	// Redis overrides
	if overrides.RedisAddr != nil {
		config.Redis.Addr = *overrides.RedisAddr
	}

	// Application overrides
	if overrides.Environment != nil {
		config.Application.Environment = *overrides.Environment
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
	if overrides.LogFormat != nil {
		config.Application.LogFormat = *overrides.LogFormat
	}
}

// envReader parses typed environment variables into config fields. Unset
// or empty variables leave the field alone; the first malformed one is kept
// as a ConfigError naming the variable.
type envReader struct {
	err error
}

func (r *envReader) lookup(name string) (string, bool) {
	value := os.Getenv(name)
	return value, value != "" && r.err == nil
}

func (r *envReader) fail(name, value, kind string) {
	r.err = &ConfigError{Field: name, Message: fmt.Sprintf("%q is not a valid %s", value, kind)}
}

func (r *envReader) duration(name string, target *time.Duration) {
	if value, ok := r.lookup(name); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			r.fail(name, value, "duration")
			return
		}
		*target = d
	}
}

func (r *envReader) integer(name string, target *int) {
	if value, ok := r.lookup(name); ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			r.fail(name, value, "integer")
			return
		}
		*target = n
	}
}

func (r *envReader) boolean(name string, target *bool) {
	if value, ok := r.lookup(name); ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			r.fail(name, value, "boolean")
			return
		}
		*target = b
	}
}

func (r *envReader) fileMode(name string, target *uint32) {
	if value, ok := r.lookup(name); ok {
		mode, err := strconv.ParseUint(value, 8, 32)
		if err != nil {
			r.fail(name, value, "octal file mode")
			return
		}
		*target = uint32(mode)
	}
}
