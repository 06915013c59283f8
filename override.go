package tinylog

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyConfigString applies string key-value overrides to the logger's current configuration.
// Each override should be in the format "key=value".
// Global keys change the SharedConfig seen by every logger sharing it;
// name and directory change this logger only.
//
// Example:
//
//	logger := tinylog.NewLogger()
//	err := logger.ApplyConfigString(
//	    "directory=/var/log/app",
//	    "max_file_size=1048576",
//	    "archive_codec=zstd",
//	)
func (l *Logger) ApplyConfigString(overrides ...string) error {
	cfg := l.GetConfig()
	if err := applyOverrides(cfg, overrides); err != nil {
		return err
	}
	return l.ApplyConfig(cfg)
}

// applyOverrides parses and applies every override, collecting all errors
func applyOverrides(cfg *Config, overrides []string) error {
	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	return combineConfigErrors(errors)
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString(errorPrefix + "multiple configuration errors:")
	for i, err := range errors {
		// Remove prefix from individual errors to avoid duplication
		errMsg := strings.TrimPrefix(err.Error(), errorPrefix)
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Per-instance defaults
	case "name":
		cfg.Name = value
	case "directory":
		cfg.Directory = value
	case "base_directory":
		cfg.BaseDirectory = value

	// Formatting
	case "format":
		cfg.Format = value
	case "show_id":
		return setBool(&cfg.ShowID, key, value)
	case "sanitization":
		cfg.Sanitization = value

	// Timers
	case "flush_interval_ms":
		return setInt(&cfg.FlushIntervalMs, key, value)
	case "min_flush_interval_ms":
		return setInt(&cfg.MinFlushIntervalMs, key, value)
	case "heartbeat_interval_s":
		return setInt(&cfg.HeartbeatIntervalS, key, value)

	// Buffer and size limits
	case "cache_soft_limit":
		return setInt(&cfg.CacheSoftLimit, key, value)
	case "cache_hard_limit":
		return setInt(&cfg.CacheHardLimit, key, value)
	case "max_file_size":
		return setInt(&cfg.MaxFileSize, key, value)
	case "max_archive_size":
		return setInt(&cfg.MaxArchiveSize, key, value)

	// Switches
	case "enable_logging":
		return setBool(&cfg.EnableLogging, key, value)
	case "enable_archive":
		return setBool(&cfg.EnableArchive, key, value)

	// Archiving
	case "archive_codec":
		cfg.ArchiveCodec = value
	case "archive_workers":
		return setInt(&cfg.ArchiveWorkers, key, value)

	// Internal error handling
	case "error_retry":
		return setInt(&cfg.ErrorRetry, key, value)
	case "internal_errors_to_stderr":
		return setBool(&cfg.InternalErrorsToStderr, key, value)

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

func setInt(dst *int64, key, value string) error {
	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmtErrorf("invalid integer value for %s '%s': %w", key, value, err)
	}
	*dst = intVal
	return nil
}

func setBool(dst *bool, key, value string) error {
	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
	}
	*dst = boolVal
	return nil
}
