package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment names accepted in application.environment
const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"
)

const redacted = "********"

// Config holds all configuration options for the taskflow server
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Redis       RedisConfig       `yaml:"redis"`
	Validation  ValidationConfig  `yaml:"validation"`
	Application ApplicationConfig `yaml:"application"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Addr         string        `yaml:"addr" env:"TASKFLOW_ADDR"`
	BasePath     string        `yaml:"base_path" env:"TASKFLOW_BASE_PATH"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"TASKFLOW_READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"TASKFLOW_WRITE_TIMEOUT"`
	BodyLimit    int           `yaml:"body_limit" env:"TASKFLOW_BODY_LIMIT"`
	CORSOrigins  string        `yaml:"cors_origins" env:"TASKFLOW_CORS_ORIGINS"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `yaml:"dir" env:"TASKFLOW_DB_DIR"`
	Filename       string        `yaml:"filename" env:"TASKFLOW_DB_FILENAME"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"TASKFLOW_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"TASKFLOW_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" env:"TASKFLOW_DB_DIR_PERMISSIONS"`
}

// AuthConfig holds credential configuration
type AuthConfig struct {
	JWTSecret  string        `yaml:"jwt_secret" env:"TASKFLOW_JWT_SECRET"`
	TokenTTL   time.Duration `yaml:"token_ttl" env:"TASKFLOW_TOKEN_TTL"`
	Issuer     string        `yaml:"issuer" env:"TASKFLOW_JWT_ISSUER"`
	BcryptCost int           `yaml:"bcrypt_cost" env:"TASKFLOW_BCRYPT_COST"`
	// ConcealForeignTasks reports another owner's task as missing instead of unauthorized.
	ConcealForeignTasks bool `yaml:"conceal_foreign_tasks" env:"TASKFLOW_CONCEAL_FOREIGN_TASKS"`
}

// RedisConfig holds the revocation store connection. An empty Addr keeps revocations in memory.
type RedisConfig struct {
	Addr      string `yaml:"addr" env:"TASKFLOW_REDIS_ADDR"`
	Password  string `yaml:"password" env:"TASKFLOW_REDIS_PASSWORD"`
	DB        int    `yaml:"db" env:"TASKFLOW_REDIS_DB"`
	KeyPrefix string `yaml:"key_prefix" env:"TASKFLOW_REDIS_KEY_PREFIX"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMaxLength       int `yaml:"title_max_length" env:"TASKFLOW_VALIDATION_TITLE_MAX"`
	DescriptionMaxLength int `yaml:"description_max_length" env:"TASKFLOW_VALIDATION_DESCRIPTION_MAX"`
	NameMaxLength        int `yaml:"name_max_length" env:"TASKFLOW_VALIDATION_NAME_MAX"`
	BioMaxLength         int `yaml:"bio_max_length" env:"TASKFLOW_VALIDATION_BIO_MAX"`
	PasswordMinLength    int `yaml:"password_min_length" env:"TASKFLOW_VALIDATION_PASSWORD_MIN"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Environment     string        `yaml:"environment" env:"TASKFLOW_ENV"`
	Verbose         bool          `yaml:"verbose" env:"TASKFLOW_VERBOSE"`
	LogFormat       string        `yaml:"log_format" env:"TASKFLOW_LOG_FORMAT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TASKFLOW_SHUTDOWN_TIMEOUT"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".taskflow")

	return &Config{
		Server: ServerConfig{
			Addr:         ":5000",
			BasePath:     "/api",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			BodyLimit:    1 << 20,
			CORSOrigins:  "*",
		},
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "taskflow.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Auth: AuthConfig{
			TokenTTL:   30 * 24 * time.Hour,
			Issuer:     "taskflow",
			BcryptCost: 10,
		},
		Redis: RedisConfig{
			KeyPrefix: "taskflow:revoked:",
		},
		Validation: ValidationConfig{
			TitleMaxLength:       200,
			DescriptionMaxLength: 5000,
			NameMaxLength:        100,
			BioMaxLength:         1000,
			PasswordMinLength:    6,
		},
		Application: ApplicationConfig{
			Environment:     EnvDevelopment,
			Verbose:         false,
			LogFormat:       "text",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// GetDatabasePath returns the store location for the configured environment:
// a local file in development, a private in-memory database in testing and
// the configured directory in production.
func (c *Config) GetDatabasePath() string {
	switch c.Application.Environment {
	case EnvDevelopment:
		return filepath.Join(".", c.Database.Filename)
	case EnvTesting:
		return ":memory:"
	default:
		return filepath.Join(c.Database.Dir, c.Database.Filename)
	}
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// IsProduction reports whether the server runs in production
func (c *Config) IsProduction() bool {
	return c.Application.Environment == EnvProduction
}

// LoadFromFile overlays the YAML document at path. Keys absent from the file keep their current values.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// LoadFromEnvironment overlays TASKFLOW_* environment variables. A value
// that does not parse is reported as a ConfigError naming the variable.
func (c *Config) LoadFromEnvironment() error {
	vars := &envReader{}

	// Server configuration
	if addr := os.Getenv("TASKFLOW_ADDR"); addr != "" {
		c.Server.Addr = addr
	} else if port := os.Getenv("PORT"); port != "" {
		c.Server.Addr = ":" + port
	}
	if basePath, ok := os.LookupEnv("TASKFLOW_BASE_PATH"); ok {
		c.Server.BasePath = basePath
	}
	vars.duration("TASKFLOW_READ_TIMEOUT", &c.Server.ReadTimeout)
	vars.duration("TASKFLOW_WRITE_TIMEOUT", &c.Server.WriteTimeout)
	vars.integer("TASKFLOW_BODY_LIMIT", &c.Server.BodyLimit)
	if origins := os.Getenv("TASKFLOW_CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = origins
	}

	// Database configuration
	if dir := os.Getenv("TASKFLOW_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TASKFLOW_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	vars.duration("TASKFLOW_DB_QUERY_TIMEOUT", &c.Database.QueryTimeout)
	vars.duration("TASKFLOW_DB_WRITE_TIMEOUT", &c.Database.WriteTimeout)
	vars.fileMode("TASKFLOW_DB_DIR_PERMISSIONS", &c.Database.DirPermissions)

	// Auth configuration
	if secret := os.Getenv("TASKFLOW_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	vars.duration("TASKFLOW_TOKEN_TTL", &c.Auth.TokenTTL)
	if issuer := os.Getenv("TASKFLOW_JWT_ISSUER"); issuer != "" {
		c.Auth.Issuer = issuer
	}
	vars.integer("TASKFLOW_BCRYPT_COST", &c.Auth.BcryptCost)
	vars.boolean("TASKFLOW_CONCEAL_FOREIGN_TASKS", &c.Auth.ConcealForeignTasks)

	// Redis configuration
	if addr := os.Getenv("TASKFLOW_REDIS_ADDR"); addr != "" {
		c.Redis.Addr = addr
	}
	if password := os.Getenv("TASKFLOW_REDIS_PASSWORD"); password != "" {
		c.Redis.Password = password
	}
	vars.integer("TASKFLOW_REDIS_DB", &c.Redis.DB)
	if prefix := os.Getenv("TASKFLOW_REDIS_KEY_PREFIX"); prefix != "" {
		c.Redis.KeyPrefix = prefix
	}

	// Validation configuration
	vars.integer("TASKFLOW_VALIDATION_TITLE_MAX", &c.Validation.TitleMaxLength)
	vars.integer("TASKFLOW_VALIDATION_DESCRIPTION_MAX", &c.Validation.DescriptionMaxLength)
	vars.integer("TASKFLOW_VALIDATION_NAME_MAX", &c.Validation.NameMaxLength)
	vars.integer("TASKFLOW_VALIDATION_BIO_MAX", &c.Validation.BioMaxLength)
	vars.integer("TASKFLOW_VALIDATION_PASSWORD_MIN", &c.Validation.PasswordMinLength)

	// Application configuration
	if environment := os.Getenv("TASKFLOW_ENV"); environment != "" {
		c.Application.Environment = environment
	}
	vars.boolean("TASKFLOW_VERBOSE", &c.Application.Verbose)
	if format := os.Getenv("TASKFLOW_LOG_FORMAT"); format != "" {
		c.Application.LogFormat = format
	}
	vars.duration("TASKFLOW_SHUTDOWN_TIMEOUT", &c.Application.ShutdownTimeout)

	return vars.err
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate server configuration
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "listen address cannot be empty"}
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return &ConfigError{Field: "server.base_path", Message: "base path must start with /"}
	}
	if c.Server.ReadTimeout <= 0 {
		return &ConfigError{Field: "server.read_timeout", Message: "read timeout must be positive"}
	}
	if c.Server.WriteTimeout <= 0 {
		return &ConfigError{Field: "server.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Server.BodyLimit <= 0 {
		return &ConfigError{Field: "server.body_limit", Message: "body limit must be positive"}
	}

	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate auth configuration
	if c.Auth.JWTSecret == "" {
		return &ConfigError{Field: "auth.jwt_secret", Message: "JWT secret cannot be empty"}
	}
	if c.IsProduction() && len(c.Auth.JWTSecret) < 32 {
		return &ConfigError{Field: "auth.jwt_secret", Message: "JWT secret must be at least 32 characters in production"}
	}
	if c.Auth.TokenTTL <= 0 {
		return &ConfigError{Field: "auth.token_ttl", Message: "token TTL must be positive"}
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return &ConfigError{Field: "auth.bcrypt_cost", Message: "bcrypt cost must be between 4 and 31"}
	}

	// Validate redis configuration
	if c.Redis.DB < 0 {
		return &ConfigError{Field: "redis.db", Message: "redis database index cannot be negative"}
	}

	// Validate validation configuration
	if c.Validation.TitleMaxLength < 1 {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be at least 1"}
	}
	if c.Validation.DescriptionMaxLength < 1 {
		return &ConfigError{Field: "validation.description_max_length", Message: "description maximum length must be at least 1"}
	}
	if c.Validation.NameMaxLength < 1 {
		return &ConfigError{Field: "validation.name_max_length", Message: "name maximum length must be at least 1"}
	}
	if c.Validation.BioMaxLength < 1 {
		return &ConfigError{Field: "validation.bio_max_length", Message: "bio maximum length must be at least 1"}
	}
	if c.Validation.PasswordMinLength < 1 || c.Validation.PasswordMinLength > 72 {
		return &ConfigError{Field: "validation.password_min_length", Message: "password minimum length must be between 1 and 72"}
	}

	// Validate application configuration
	switch c.Application.Environment {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		return &ConfigError{Field: "application.environment", Message: fmt.Sprintf("unknown environment %q", c.Application.Environment)}
	}
	if c.Application.LogFormat != "text" && c.Application.LogFormat != "json" {
		return &ConfigError{Field: "application.log_format", Message: "log format must be text or json"}
	}
	if c.Application.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "application.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}

	return nil
}

// Redacted returns a copy with secrets masked, suitable for display
func (c *Config) Redacted() *Config {
	copied := *c
	if copied.Auth.JWTSecret != "" {
		copied.Auth.JWTSecret = redacted
	}
	if copied.Redis.Password != "" {
		copied.Redis.Password = redacted
	}
	return &copied
}

// YAML renders the configuration with secrets masked
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.Redacted())
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
