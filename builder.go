package tinylog

// Builder provides a fluent API for building logger configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg *Config
	err error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build creates a Logger with its own SharedConfig holding the built configuration.
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	shared, err := NewSharedConfig(b.cfg)
	if err != nil {
		return nil, err
	}

	return NewLogger(shared), nil
}

// Config returns a copy of the configuration built so far.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Override applies "key=value" overrides on top of the values set so far.
func (b *Builder) Override(overrides ...string) *Builder {
	if b.err != nil {
		return b
	}
	b.err = applyOverrides(b.cfg, overrides)
	return b
}

// Name sets the active log file name.
func (b *Builder) Name(name string) *Builder {
	b.cfg.Name = name
	return b
}

// Directory sets the log directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.Directory = dir
	return b
}

// BaseDirectory sets the directory relative log directories resolve against.
func (b *Builder) BaseDirectory(dir string) *Builder {
	b.cfg.BaseDirectory = dir
	return b
}

// Format sets the record template.
func (b *Builder) Format(format string) *Builder {
	b.cfg.Format = format
	return b
}

// ShowID prefixes records with the logger id.
func (b *Builder) ShowID(show bool) *Builder {
	b.cfg.ShowID = show
	return b
}

// FlushIntervalMs sets the scheduled flush period.
func (b *Builder) FlushIntervalMs(interval int64) *Builder {
	b.cfg.FlushIntervalMs = interval
	return b
}

// MinFlushIntervalMs sets the flush goroutine wake-up quantum.
func (b *Builder) MinFlushIntervalMs(interval int64) *Builder {
	b.cfg.MinFlushIntervalMs = interval
	return b
}

// HeartbeatIntervalS sets the STATS record period, 0 disables it.
func (b *Builder) HeartbeatIntervalS(interval int64) *Builder {
	b.cfg.HeartbeatIntervalS = interval
	return b
}

// CacheLimits sets the buffer soft and hard limits in bytes.
func (b *Builder) CacheLimits(soft, hard int64) *Builder {
	b.cfg.CacheSoftLimit = soft
	b.cfg.CacheHardLimit = hard
	return b
}

// MaxFileSize sets the active file size that triggers rotation.
func (b *Builder) MaxFileSize(size int64) *Builder {
	b.cfg.MaxFileSize = size
	return b
}

// MaxFileSizeMB sets the rotation size in MiB. Convenience.
func (b *Builder) MaxFileSizeMB(size int64) *Builder {
	b.cfg.MaxFileSize = size * 1024 * 1024
	return b
}

// MaxArchiveSize sets the archive directory size that triggers a wipe.
func (b *Builder) MaxArchiveSize(size int64) *Builder {
	b.cfg.MaxArchiveSize = size
	return b
}

// EnableLogging sets the initial logging switch.
func (b *Builder) EnableLogging(enable bool) *Builder {
	b.cfg.EnableLogging = enable
	return b
}

// EnableArchive sets the initial archiving switch.
func (b *Builder) EnableArchive(enable bool) *Builder {
	b.cfg.EnableArchive = enable
	return b
}

// Sanitization selects how record values are cleaned: "raw", "txt", "escape" or "strip".
func (b *Builder) Sanitization(policy string) *Builder {
	b.cfg.Sanitization = policy
	return b
}

// ArchiveCodec selects "gzip" or "zstd" for archived files.
func (b *Builder) ArchiveCodec(codec string) *Builder {
	b.cfg.ArchiveCodec = codec
	return b
}

// ArchiveWorkers sets the archive pool capacity.
func (b *Builder) ArchiveWorkers(n int64) *Builder {
	b.cfg.ArchiveWorkers = n
	return b
}

// ErrorRetry sets how many consecutive failures are tolerated.
func (b *Builder) ErrorRetry(n int64) *Builder {
	b.cfg.ErrorRetry = n
	return b
}

// InternalErrorsToStderr mirrors diagnostics to the diagnostic writer.
func (b *Builder) InternalErrorsToStderr(enable bool) *Builder {
	b.cfg.InternalErrorsToStderr = enable
	return b
}

// Example usage:
// logger, err := tinylog.NewBuilder().
//
//	Directory("/var/log/app").
//	Name("app.log").
//	MaxFileSizeMB(20).
//	ArchiveCodec("zstd").
//	Build()
//
// if err == nil {
//
//	 defer logger.Shutdown()
//	 logger.Info("Logger initialized successfully")
//
// }
