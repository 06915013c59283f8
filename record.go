package tinylog

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lixenwraith/tinylog/sanitizer"
)

// defaultDiagnosticWriter receives diagnostics unless SetDiagnosticWriter overrides it
var defaultDiagnosticWriter = os.Stderr

// log handles the core logging logic. It never blocks on I/O and never fails.
func (l *Logger) log(level string, args ...any) {
	if !l.state.LoggingEnabled.Load() || l.state.ShutdownCalled.Load() {
		return
	}

	defer func() {
		// A value whose String or Error panics costs one record, never the caller
		if r := recover(); r != nil {
			l.internalLog("failed to format %s record: %v\n", level, r)
		}
	}()

	cfg := l.getConfig()
	l.buffer.Append(l.formatLine(cfg, time.Now(), level, args))
}

// formatLine renders one record with the current template
func (l *Logger) formatLine(cfg *Config, timestamp time.Time, level string, args []any) string {
	id := ""
	if cfg.ShowID {
		id = l.id
	}
	return formatRecord(cfg.Format, id, timestamp, level, args, sanitizer.ForPolicy(sanitizer.Policy(cfg.Sanitization)))
}

// diagnostic reports an internal failure. The report goes straight to the
// diagnostic writer and, while logging is on, into the buffer as an
// innerFatal record. Neither path can fail back into the health guard.
func (l *Logger) diagnostic(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.internalLog("%s\n", msg)

	if !l.state.LoggingEnabled.Load() {
		return
	}
	cfg := l.getConfig()
	l.buffer.Append(l.formatLine(cfg, time.Now(), LevelInternal, []any{msg}))
}

// internalLog writes a diagnostic line directly to the diagnostic writer, if enabled.
func (l *Logger) internalLog(format string, args ...any) {
	cfg := l.getConfig()
	if !cfg.InternalErrorsToStderr {
		return
	}

	if !strings.HasPrefix(format, errorPrefix) {
		format = errorPrefix + format
	}

	if s, ok := l.state.DiagnosticWriter.Load().(*sink); ok && s != nil {
		s.write([]byte(fmt.Sprintf(format, args...)))
	}
}
