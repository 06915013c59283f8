package compat

import (
	"fmt"

	"github.com/lixenwraith/tinylog"
)

// Builder creates gnet and fasthttp adapters around one logger.
// It can use an existing *tinylog.Logger instance or create a new one from a *tinylog.Config
type Builder struct {
	logger *tinylog.Logger
	logCfg *tinylog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithConfig is ignored
func (b *Builder) WithLogger(l *tinylog.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("tinylog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance with its own SharedConfig.
// If neither WithLogger nor WithConfig is used, a logger on the global configuration is created
func (b *Builder) WithConfig(cfg *tinylog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating one if necessary
func (b *Builder) getLogger() (*tinylog.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	var l *tinylog.Logger
	if b.logCfg == nil {
		l = tinylog.NewLogger()
	} else {
		shared, err := tinylog.NewSharedConfig(b.logCfg)
		if err != nil {
			return nil, err
		}
		l = tinylog.NewLogger(shared)
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying *tinylog.Logger instance,
// creating it if it has not been provided or created yet
func (b *Builder) GetLogger() (*tinylog.Logger, error) {
	return b.getLogger()
}

// --- Example Usage ---
//
//	appLogger, err := tinylog.NewBuilder().Directory("/var/log/app").Build()
//	if err != nil { /* handle error */ }
//	defer appLogger.Shutdown()
//
//	builder := compat.NewBuilder().WithLogger(appLogger)
//
//	gnetLogger, _ := builder.BuildGnet()
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
