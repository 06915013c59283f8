package tinylog

// Debug logs a message at debug level.
func (l *Logger) Debug(args ...any) {
	l.log(LevelDebug, args...)
}

// Info logs a message at info level.
func (l *Logger) Info(args ...any) {
	l.log(LevelInfo, args...)
}

// Warn logs a message at warning level.
func (l *Logger) Warn(args ...any) {
	l.log(LevelWarn, args...)
}

// Error logs a message at error level.
func (l *Logger) Error(args ...any) {
	l.log(LevelError, args...)
}

// Fatal logs a message at fatal level. It does not exit the process.
func (l *Logger) Fatal(args ...any) {
	l.log(LevelFatal, args...)
}

// Log records args under an arbitrary label, such as one returned by Level.
func (l *Logger) Log(level string, args ...any) {
	l.log(level, args...)
}
