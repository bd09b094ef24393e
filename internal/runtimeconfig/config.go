package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrStorageDriverUnknown = errors.New("quizbox config: storage driver is invalid")
var ErrStorageDSNRequired = errors.New("quizbox config: storage dsn is required")
var ErrMaxOpenConnsInvalid = errors.New("quizbox config: storage max open connections must be zero or positive")
var ErrCacheTTLInvalid = errors.New("quizbox config: cache ttl must be positive when cache is enabled")
var ErrMaxBatchSizeInvalid = errors.New("quizbox config: bulk max batch size must be zero or positive")
var ErrCommandTimeoutInvalid = errors.New("quizbox config: bulk command timeout must be zero or positive")
var ErrLoggingProviderRequired = errors.New("quizbox config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("quizbox config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("quizbox config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("quizbox config: logging format is invalid")

const envPrefix = "QUIZBOX_"

// Config aggregates storage, cache, bulk and logging settings. Fields use
// plain types so the file format stays stable.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Cache    CacheConfig   `yaml:"cache"`
	Bulk     BulkConfig    `yaml:"bulk"`
	Logging  LoggingConfig `yaml:"logging"`
	Features Features      `yaml:"features"`
}

// StorageConfig selects the SQL driver and connection string.
type StorageConfig struct {
	Driver       string `yaml:"driver"`
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// CacheConfig captures read cache behaviour.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// BulkConfig bounds bulk requests. Zero disables a limit.
type BulkConfig struct {
	MaxBatchSize   int           `yaml:"max_batch_size"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
}

// Features toggles optional behaviour.
type Features struct {
	Logger bool `yaml:"logger"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns an in-memory sqlite setup with caching enabled.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Driver:       "sqlite",
			DSN:          "file:quizbox?mode=memory&cache=shared",
			MaxOpenConns: 1,
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Bulk: BulkConfig{
			MaxBatchSize:   500,
			CommandTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
	}
}

// Load reads a YAML file on top of DefaultConfig and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("quizbox config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("quizbox config: parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from QUIZBOX_* variables. A nil lookup reads the
// process environment.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(name string) (string, bool) {
		value, ok := lookup(envPrefix + name)
		return strings.TrimSpace(value), ok
	}

	if v, ok := get("STORAGE_DRIVER"); ok {
		cfg.Storage.Driver = v
	}
	if v, ok := get("STORAGE_DSN"); ok {
		cfg.Storage.DSN = v
	}
	if v, ok := get("STORAGE_MAX_OPEN_CONNS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("quizbox config: %sSTORAGE_MAX_OPEN_CONNS: %w", envPrefix, err)
		}
		cfg.Storage.MaxOpenConns = n
	}
	if v, ok := get("CACHE_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("quizbox config: %sCACHE_ENABLED: %w", envPrefix, err)
		}
		cfg.Cache.Enabled = enabled
	}
	if v, ok := get("CACHE_TTL"); ok {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("quizbox config: %sCACHE_TTL: %w", envPrefix, err)
		}
		cfg.Cache.DefaultTTL = ttl
	}
	if v, ok := get("BULK_MAX_BATCH_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("quizbox config: %sBULK_MAX_BATCH_SIZE: %w", envPrefix, err)
		}
		cfg.Bulk.MaxBatchSize = n
	}
	if v, ok := get("BULK_COMMAND_TIMEOUT"); ok {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("quizbox config: %sBULK_COMMAND_TIMEOUT: %w", envPrefix, err)
		}
		cfg.Bulk.CommandTimeout = timeout
	}
	if v, ok := get("LOGGER"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("quizbox config: %sLOGGER: %w", envPrefix, err)
		}
		cfg.Features.Logger = enabled
	}
	if v, ok := get("LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := get("LOG_FORMAT"); ok {
		cfg.Logging.Format = v
	}
	return nil
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if !isSupportedDriver(cfg.Storage.Driver) {
		return fmt.Errorf("%w: %q", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if cfg.Storage.MaxOpenConns < 0 {
		return ErrMaxOpenConnsInvalid
	}
	if cfg.Cache.Enabled && cfg.Cache.DefaultTTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Bulk.MaxBatchSize < 0 {
		return ErrMaxBatchSizeInvalid
	}
	if cfg.Bulk.CommandTimeout < 0 {
		return ErrCommandTimeoutInvalid
	}
	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "gologger" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedDriver(driver string) bool {
	switch normalize(driver) {
	case "sqlite", "sqlite3", "postgres", "pgx":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
