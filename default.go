package tinylog

import (
	"sync"
	"time"
)

var (
	defaultOnce   sync.Once
	defaultLogger *Logger
)

// Default returns the package-level logger, created on first use from GlobalConfig
func Default() *Logger {
	defaultOnce.Do(func() {
		defaultLogger = NewLogger(globalConfig)
	})
	return defaultLogger
}

// Default package-level functions that delegate to the default logger

// Init sets the default logger's file name and folder, an empty folder keeps the current one
func Init(name, folder string) {
	Default().Init(name, folder)
}

// Debug logs a message at debug level
func Debug(args ...any) {
	Default().Debug(args...)
}

// Info logs a message at info level
func Info(args ...any) {
	Default().Info(args...)
}

// Warn logs a message at warning level
func Warn(args ...any) {
	Default().Warn(args...)
}

// Error logs a message at error level
func Error(args ...any) {
	Default().Error(args...)
}

// Fatal logs a message at fatal level
func Fatal(args ...any) {
	Default().Fatal(args...)
}

// IsOn reports whether the default logger accepts records
func IsOn() bool {
	return Default().Enabled()
}

// SetOn switches the default logger on or off
func SetOn(on bool) {
	Default().SetEnabled(on)
}

// IsArchiveOn reports whether the default logger archives rotated files
func IsArchiveOn() bool {
	return Default().ArchiveEnabled()
}

// SetArchiveOn switches archiving on or off for the default logger
func SetArchiveOn(on bool) {
	Default().SetArchiveEnabled(on)
}

// Content returns the default logger's buffered text
func Content() string {
	return Default().Content()
}

// Flush persists the default logger's buffer and waits for completion or timeout
func Flush(timeout time.Duration) error {
	return Default().Flush(timeout)
}

// Shutdown stops the default logger after a final flush
func Shutdown(timeout ...time.Duration) error {
	return Default().Shutdown(timeout...)
}
