package compat

import (
	"fmt"
	"os"
	"time"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/tinylog"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter wraps tinylog.Logger to implement the gnet logging.Logger interface
type GnetAdapter struct {
	logger       *tinylog.Logger
	prefix       string
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger *tinylog.Logger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		prefix: "[gnet]",
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetPrefix replaces the "[gnet]" tag written before each message, empty removes it
func WithGnetPrefix(prefix string) GnetOption {
	return func(a *GnetAdapter) {
		a.prefix = prefix
	}
}

func (a *GnetAdapter) args(format string, args []any) []any {
	msg := fmt.Sprintf(format, args...)
	if a.prefix == "" {
		return []any{msg}
	}
	return []any{a.prefix, msg}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.Debug(a.args(format, args)...)
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.Info(a.args(format, args)...)
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logger.Warn(a.args(format, args)...)
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logger.Error(a.args(format, args)...)
}

// Fatalf logs at fatal level, flushes, then triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Fatal(a.args("%s", []any{msg})...)

	// Ensure log is persisted before exit
	_ = a.logger.Flush(time.Second)

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
