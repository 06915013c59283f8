package tinylog

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

// Logger buffers records in memory and persists them to a rotating file from
// a single background goroutine started by NewLogger.
type Logger struct {
	shared    *SharedConfig
	name      atomic.Value // string, per-instance
	directory atomic.Value // string, per-instance
	id        string

	buffer      *LogBuffer
	health      HealthGuard
	archivePool *ants.Pool
	state       State
}

// NewLogger creates a logger reading its global settings from shared, or
// from GlobalConfig when none is given, and starts its flush goroutine.
// Name and directory are copied from the configuration at this point.
func NewLogger(shared ...*SharedConfig) *Logger {
	sc := globalConfig
	if len(shared) > 0 && shared[0] != nil {
		sc = shared[0]
	}
	cfg := sc.Load()

	l := &Logger{
		shared: sc,
		id:     uuid.NewString(),
		buffer: NewLogBuffer(cfg.CacheSoftLimit, cfg.CacheHardLimit),
	}
	l.name.Store(cfg.Name)
	l.directory.Store(cfg.Directory)

	// Switches are resolved once, here
	l.state.LoggingEnabled.Store(cfg.EnableLogging)
	l.state.ArchiveEnabled.Store(cfg.EnableArchive)
	l.state.ShutdownCalled.Store(false)
	l.state.DiagnosticWriter.Store(&sink{w: defaultDiagnosticWriter})

	l.state.LoggerStartTime.Store(time.Now())
	l.state.LastFlushTimestamp.Store(time.Time{})

	l.state.done = make(chan struct{})
	l.state.flushRequestChan = make(chan chan error, 1)

	pool, err := l.newArchivePool(cfg.ArchiveWorkers)
	if err != nil {
		l.diagnostic("failed to create archive pool, archiving disabled: %v", err)
		l.state.ArchiveEnabled.Store(false)
	} else {
		l.archivePool = pool
	}

	l.state.ProcessorExited.Store(false)
	go l.processLogs()

	return l
}

// Init sets the log file name and folder for this logger. An empty folder
// keeps the current one. An invalid name is reported as a diagnostic and ignored.
func (l *Logger) Init(name, folder string) {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) {
		l.diagnostic("invalid log file name '%s' ignored", name)
	} else {
		l.name.Store(name)
	}
	if folder != "" {
		l.directory.Store(folder)
	}
}

// ApplyConfig validates cfg and stores it in the logger's SharedConfig, so
// global fields change for every logger sharing it. Name and Directory are
// applied to this logger only. The on/off switches are not touched.
func (l *Logger) ApplyConfig(cfg *Config) error {
	if err := l.shared.Store(cfg); err != nil {
		return err
	}
	l.name.Store(cfg.Name)
	l.directory.Store(cfg.Directory)
	return nil
}

// GetConfig returns a copy of the effective configuration, with this
// logger's own name and directory.
func (l *Logger) GetConfig() *Config {
	cfg := l.shared.Get()
	cfg.Name = l.getName()
	cfg.Directory = l.getDirectory()
	return cfg
}

// Shared returns the configuration this logger reads its global settings from
func (l *Logger) Shared() *SharedConfig {
	return l.shared
}

// ID returns the instance identifier used by the show_id prefix
func (l *Logger) ID() string {
	return l.id
}

// Content returns the buffered text not yet written to the log file
func (l *Logger) Content() string {
	return l.buffer.Content()
}

// LogPath returns the resolved path of the active log file
func (l *Logger) LogPath() string {
	return l.getStaticLogFilePath()
}

// Flush asks the flush goroutine to persist the buffer now and waits for the
// result or timeout.
func (l *Logger) Flush(timeout time.Duration) error {
	l.state.flushMutex.Lock()
	defer l.state.flushMutex.Unlock()

	if l.state.ShutdownCalled.Load() {
		return fmtErrorf("logger already shut down")
	}

	// Buffered so the flush goroutine never blocks on an abandoned request
	confirmChan := make(chan error, 1)

	// One deadline covers both the request and the confirmation
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	select {
	case l.state.flushRequestChan <- confirmChan:
	case <-deadline.C:
		return fmtErrorf("failed to send flush request to processor within %v (possible deadlock or high load)", timeout)
	}

	select {
	case err := <-confirmChan:
		return err
	case <-deadline.C:
		return fmtErrorf("timeout waiting for flush confirmation (%v)", timeout)
	}
}

// Shutdown stops accepting records, waits for the flush goroutine to perform
// its final flush and for running archive jobs to finish. Without a timeout
// it waits for two flush quanta, at least one second.
func (l *Logger) Shutdown(timeout ...time.Duration) error {
	if !l.state.ShutdownCalled.CompareAndSwap(false, true) {
		return nil
	}

	var effectiveTimeout time.Duration
	if len(timeout) > 0 && timeout[0] > 0 {
		effectiveTimeout = timeout[0]
	} else {
		effectiveTimeout = 2 * quantumOf(l.getConfig())
		if effectiveTimeout < minShutdownTimeout {
			effectiveTimeout = minShutdownTimeout
		}
	}
	deadline := time.Now().Add(effectiveTimeout)

	close(l.state.done)

	for time.Now().Before(deadline) {
		if l.state.ProcessorExited.Load() {
			break
		}
		time.Sleep(minWaitTime)
	}

	var finalErr error
	if !l.state.ProcessorExited.Load() {
		finalErr = fmtErrorf("processor did not exit within timeout (%v)", effectiveTimeout)
	}

	if l.archivePool != nil {
		remaining := time.Until(deadline)
		if remaining < minWaitTime {
			remaining = minWaitTime
		}
		if err := l.archivePool.ReleaseTimeout(remaining); err != nil {
			finalErr = combineErrors(finalErr, fmtErrorf("archive workers did not finish: %w", err))
		}
	}

	return finalErr
}

// getConfig returns the current shared configuration (thread-safe)
func (l *Logger) getConfig() *Config {
	return l.shared.Load()
}

func (l *Logger) getName() string {
	return l.name.Load().(string)
}

func (l *Logger) getDirectory() string {
	return l.directory.Load().(string)
}
