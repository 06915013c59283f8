package tinylog

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/lixenwraith/config"

	"github.com/lixenwraith/tinylog/compress"
	"github.com/lixenwraith/tinylog/sanitizer"
)

// Config holds all logger configuration values.
//
// Name and Directory are per-instance: each Logger copies them when it is
// created and Init overrides them for that Logger only. Every other field is
// global: it is read through the SharedConfig on each use, so a change is seen
// by all loggers sharing that SharedConfig.
type Config struct {
	// Per-instance defaults
	Name          string `toml:"name"`           // Active log file name
	Directory     string `toml:"directory"`      // Relative to BaseDirectory unless absolute
	BaseDirectory string `toml:"base_directory"` // Empty resolves to the executable's directory

	// Formatting
	Format       string `toml:"format"`       // Record template using {time}, {level} and {msg}
	ShowID       bool   `toml:"show_id"`      // Prefix records with the logger instance id
	Sanitization string `toml:"sanitization"` // Value policy: "raw", "txt", "escape" or "strip"

	// Timers
	FlushIntervalMs    int64 `toml:"flush_interval_ms"`     // Scheduled flush period
	MinFlushIntervalMs int64 `toml:"min_flush_interval_ms"` // Worker wake-up quantum
	HeartbeatIntervalS int64 `toml:"heartbeat_interval_s"`  // Stats record period, 0 disables

	// Buffer and size limits, in bytes
	CacheSoftLimit int64 `toml:"cache_soft_limit"` // Above this an early flush is requested
	CacheHardLimit int64 `toml:"cache_hard_limit"` // At or above this new records are dropped
	MaxFileSize    int64 `toml:"max_file_size"`    // Active file size that triggers rotation
	MaxArchiveSize int64 `toml:"max_archive_size"` // Archive directory size that triggers a wipe, 0 disables

	// Switches, read once when a logger is created
	EnableLogging bool `toml:"enable_logging"`
	EnableArchive bool `toml:"enable_archive"`

	// Archiving
	ArchiveCodec   string `toml:"archive_codec"`   // "gzip" or "zstd"
	ArchiveWorkers int64  `toml:"archive_workers"` // Archive pool capacity, fixed at logger creation

	// Internal error handling
	ErrorRetry             int64 `toml:"error_retry"`               // Consecutive failures tolerated before disabling
	InternalErrorsToStderr bool  `toml:"internal_errors_to_stderr"` // Mirror diagnostics to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	Name:          "default.log",
	Directory:     "TinyLogs",
	BaseDirectory: "",

	Format:       "[time: {time} level: {level}] {msg}",
	ShowID:       false,
	Sanitization: "raw",

	FlushIntervalMs:    60000,
	MinFlushIntervalMs: 5000,
	HeartbeatIntervalS: 0,

	CacheSoftLimit: 64 * 1024,
	CacheHardLimit: 512 * 1024,
	MaxFileSize:    10 * 1024 * 1024,
	MaxArchiveSize: 100 * 1024 * 1024,

	EnableLogging: true,
	EnableArchive: true,

	ArchiveCodec:   "gzip",
	ArchiveWorkers: 1,

	ErrorRetry:             3,
	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML file and returns a validated Config.
// Keys live under the [tinylog] table; a missing file yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()

	if err := loader.RegisterStruct("tinylog.", *cfg); err != nil {
		return nil, fmt.Errorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, "tinylog.", cfg); err != nil {
		return nil, fmt.Errorf("failed to extract config values: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig copies loader values into cfg using the toml tags as keys
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmtErrorf("log name cannot be empty")
	}
	if strings.ContainsAny(c.Name, `/\`) {
		return fmtErrorf("log name must not contain path separators: '%s'", c.Name)
	}

	if !strings.Contains(c.Format, placeholderMessage) {
		return fmtErrorf("format must contain the %s placeholder: '%s'", placeholderMessage, c.Format)
	}

	if c.FlushIntervalMs <= 0 || c.MinFlushIntervalMs <= 0 {
		return fmtErrorf("interval settings must be positive")
	}

	if c.HeartbeatIntervalS < 0 {
		return fmtErrorf("heartbeat_interval_s cannot be negative: %d", c.HeartbeatIntervalS)
	}

	if c.CacheSoftLimit <= 0 || c.CacheHardLimit <= 0 {
		return fmtErrorf("cache limits must be positive")
	}

	if c.MaxFileSize <= 0 {
		return fmtErrorf("max_file_size must be positive: %d", c.MaxFileSize)
	}

	if c.MaxArchiveSize < 0 {
		return fmtErrorf("max_archive_size cannot be negative: %d", c.MaxArchiveSize)
	}

	if _, err := compress.ByName(c.ArchiveCodec); err != nil {
		return fmtErrorf("invalid archive_codec: %w", err)
	}

	if _, err := sanitizer.ParsePolicy(c.Sanitization); err != nil {
		return fmtErrorf("invalid sanitization: %w", err)
	}

	if c.ArchiveWorkers <= 0 {
		return fmtErrorf("archive_workers must be positive: %d", c.ArchiveWorkers)
	}

	if c.ErrorRetry < 0 {
		return fmtErrorf("error_retry cannot be negative: %d", c.ErrorRetry)
	}

	// Cross-field validations
	if c.CacheSoftLimit > c.CacheHardLimit {
		return fmtErrorf("cache_soft_limit (%d) cannot be greater than cache_hard_limit (%d)",
			c.CacheSoftLimit, c.CacheHardLimit)
	}

	if c.MinFlushIntervalMs > c.FlushIntervalMs {
		return fmtErrorf("min_flush_interval_ms (%d) cannot be greater than flush_interval_ms (%d)",
			c.MinFlushIntervalMs, c.FlushIntervalMs)
	}

	return nil
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// SharedConfig is a configuration shared by reference between loggers.
// Loggers read it on every use, so Store takes effect for all of them.
type SharedConfig struct {
	current atomic.Pointer[Config]
}

// globalConfig backs loggers created without an explicit SharedConfig
var globalConfig = newSharedConfig(DefaultConfig())

// GlobalConfig returns the process-wide configuration
func GlobalConfig() *SharedConfig {
	return globalConfig
}

// NewSharedConfig validates cfg and wraps a private copy of it
func NewSharedConfig(cfg *Config) (*SharedConfig, error) {
	if cfg == nil {
		return nil, fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newSharedConfig(cfg.Clone()), nil
}

func newSharedConfig(cfg *Config) *SharedConfig {
	s := &SharedConfig{}
	s.current.Store(cfg)
	return s
}

// Load returns the current configuration. Callers must not modify it.
func (s *SharedConfig) Load() *Config {
	return s.current.Load()
}

// Get returns a copy of the current configuration
func (s *SharedConfig) Get() *Config {
	return s.current.Load().Clone()
}

// Store validates cfg and replaces the shared configuration with a copy of it
func (s *SharedConfig) Store(cfg *Config) error {
	if cfg == nil {
		return fmtErrorf("configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return fmtErrorf("invalid configuration: %w", err)
	}
	s.current.Store(cfg.Clone())
	return nil
}

// ApplyOverride applies "key=value" overrides to a copy of the shared
// configuration and stores the result.
func (s *SharedConfig) ApplyOverride(overrides ...string) error {
	cfg := s.Get()
	if err := applyOverrides(cfg, overrides); err != nil {
		return err
	}
	return s.Store(cfg)
}
