package tinylog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const errorPrefix = "tinylog: "

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, errorPrefix) {
		format = errorPrefix + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, err2)
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// Level normalizes a severity name to its record label.
func Level(levelStr string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	default:
		return "", fmtErrorf("invalid level string: '%s' (use debug, info, warn, error, fatal)", levelStr)
	}
}

// processBaseDir returns the directory relative log folders are resolved against
func processBaseDir() string {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// dirSize sums the size of every regular file below dir, skipping files
// still pending archive
func dirSize(dir string) (int64, error) {
	var size int64
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasSuffix(d.Name(), pendingSuffix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			// Removed between listing and stat
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		size += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmtErrorf("failed to measure directory '%s': %w", dir, err)
	}
	return size, nil
}

// clearDir removes every entry inside dir except pending archive inputs,
// keeping dir itself
func clearDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmtErrorf("failed to read directory '%s' for cleanup: %w", dir, err)
	}
	removed := 0
	var firstErr error
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), pendingSuffix) {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			if firstErr == nil {
				firstErr = fmtErrorf("failed to remove '%s': %w", entry.Name(), err)
			}
			continue
		}
		removed++
	}
	return removed, firstErr
}
