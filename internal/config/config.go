package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"gosppt/domain/sppt"
	"gosppt/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Engine    EngineConfig
	Export    ExportConfig
	Database  DatabaseConfig
	Server    ServerConfig
	Log       LogConfig
	Profiling ProfilingConfig
}

// EngineConfig holds the default run options
type EngineConfig struct {
	B              int
	ConfLevel      float64
	Seed           *int64
	UsePercentages bool
	Workers        int
}

// ExportConfig holds result export settings
type ExportConfig struct {
	Dir    string
	Format string
}

// DatabaseConfig holds database connection settings. An empty URL keeps
// results in memory.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxBodyBytes int64
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string
	Format string
}

// ProfilingConfig holds pprof server settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads a .env file when present, then configuration from environment
// variables, and validates it. Malformed values are ConfigErrors naming the
// variable.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the environment only.
func FromEnv() (*Config, error) {
	config := &Config{}

	engineConfig, err := loadEngineConfig()
	if err != nil {
		return nil, err
	}
	config.Engine = *engineConfig

	serverConfig, err := loadServerConfig()
	if err != nil {
		return nil, err
	}
	config.Server = *serverConfig

	profilingConfig, err := loadProfilingConfig()
	if err != nil {
		return nil, err
	}
	config.Profiling = *profilingConfig

	config.Export = ExportConfig{
		Dir:    getEnvOrDefault("SPPT_EXPORT_DIR", "."),
		Format: strings.ToLower(getEnvOrDefault("SPPT_EXPORT_FORMAT", "csv")),
	}
	config.Database = DatabaseConfig{URL: os.Getenv("DATABASE_URL")}
	config.Log = LogConfig{
		Level:  getEnvOrDefault("LOG_LEVEL", "info"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func loadEngineConfig() (*EngineConfig, error) {
	defaults := sppt.DefaultOptions()
	cfg := &EngineConfig{}
	var err error

	if cfg.B, err = getEnvIntOrDefault("SPPT_B", defaults.B); err != nil {
		return nil, err
	}
	if cfg.ConfLevel, err = getEnvFloatOrDefault("SPPT_CONF_LEVEL", defaults.ConfLevel); err != nil {
		return nil, err
	}
	if cfg.UsePercentages, err = getEnvBoolOrDefault("SPPT_USE_PERCENTAGES", defaults.UsePercentages); err != nil {
		return nil, err
	}
	if cfg.Workers, err = getEnvIntOrDefault("SPPT_WORKERS", 0); err != nil {
		return nil, err
	}
	if value := os.Getenv("SPPT_SEED"); value != "" {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, errors.ConfigError("SPPT_SEED", "not an integer: %q", value)
		}
		cfg.Seed = &seed
	}
	return cfg, nil
}

func loadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{Port: getEnvOrDefault("PORT", "8080")}
	var err error

	if cfg.ReadTimeout, err = getEnvDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = getEnvDurationOrDefault("SERVER_WRITE_TIMEOUT", 5*time.Minute); err != nil {
		return nil, err
	}
	maxBody, err := getEnvIntOrDefault("SERVER_MAX_BODY_BYTES", 64<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxBodyBytes = int64(maxBody)
	return cfg, nil
}

func loadProfilingConfig() (*ProfilingConfig, error) {
	enabled, err := getEnvBoolOrDefault("PPROF_ENABLED", false)
	if err != nil {
		return nil, err
	}
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: enabled,
	}, nil
}

func validateConfig(config *Config) error {
	opts := config.Options()
	opts.CountCols = []string{"_"}
	if err := opts.Validate(); err != nil {
		return errors.Wrap(err, "invalid engine defaults")
	}
	switch config.Export.Format {
	case "csv", "txt", "xlsx", "json":
	default:
		return errors.ConfigError("SPPT_EXPORT_FORMAT", "unsupported format %q", config.Export.Format)
	}
	if config.Server.MaxBodyBytes <= 0 {
		return errors.ConfigError("SERVER_MAX_BODY_BYTES", "must be positive")
	}
	return nil
}

// Options returns the run options seeded from the engine defaults. Count
// columns are left to the caller.
func (c *Config) Options() sppt.Options {
	opts := sppt.DefaultOptions()
	opts.B = c.Engine.B
	opts.ConfLevel = c.Engine.ConfLevel
	opts.UsePercentages = c.Engine.UsePercentages
	opts.Workers = c.Engine.Workers
	if c.Engine.Seed != nil {
		seed := *c.Engine.Seed
		opts.Seed = &seed
	}
	return opts
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) (int, error) {
	if value := os.Getenv(key); value != "" {
		intValue, err := strconv.Atoi(value)
		if err != nil {
			return 0, errors.ConfigError(key, "not an integer: %q", value)
		}
		return intValue, nil
	}
	return defaultValue, nil
}

func getEnvFloatOrDefault(key string, defaultValue float64) (float64, error) {
	if value := os.Getenv(key); value != "" {
		floatValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, errors.ConfigError(key, "not a number: %q", value)
		}
		return floatValue, nil
	}
	return defaultValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) (bool, error) {
	if value := os.Getenv(key); value != "" {
		boolValue, err := strconv.ParseBool(value)
		if err != nil {
			return false, errors.ConfigError(key, "not a boolean: %q", value)
		}
		return boolValue, nil
	}
	return defaultValue, nil
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, errors.ConfigError(key, "not a duration: %q", value)
		}
		return duration, nil
	}
	return defaultValue, nil
}
