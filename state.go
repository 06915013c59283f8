package tinylog

import (
	"io"
	"sync"
	"sync/atomic"
)

// State encapsulates the runtime state of the logger
type State struct {
	// On/off switches, initialized from config when the logger is created
	LoggingEnabled atomic.Bool
	ArchiveEnabled atomic.Bool

	ShutdownCalled  atomic.Bool
	ProcessorExited atomic.Bool // Tracks if the flush goroutine has exited

	done             chan struct{}   // Closed by Shutdown to stop the flush goroutine
	flushRequestChan chan chan error // Flush requests, answered with the persist result
	flushMutex       sync.Mutex      // Protect concurrent Flush calls

	DiagnosticWriter atomic.Value // stores *sink

	// Statistics
	TotalFlushes       atomic.Uint64 // Successful persists
	TotalRotations     atomic.Uint64 // Active file renamed to .old
	TotalArchives      atomic.Uint64 // Rotated files compressed into the archive directory
	TotalArchiveWipes  atomic.Uint64 // Archive directory wiped for exceeding its limit
	TotalArchiveSkips  atomic.Uint64 // Archive jobs rejected by a saturated pool
	PersistFailures    atomic.Uint64 // All persist failures, not reset by the health guard
	ArchiveFailures    atomic.Uint64 // All archive failures, not reset by the health guard
	HeartbeatSequence  atomic.Uint64 // Counter for heartbeat sequence numbers
	LoggerStartTime    atomic.Value  // Stores time.Time for uptime calculation
	LastFlushBytes     atomic.Int64  // Size of the most recent persisted snapshot
	LastFlushTimestamp atomic.Value  // Stores time.Time of the most recent persist
}

// sink is a wrapper around an io.Writer, atomic value type change workaround
type sink struct {
	mu sync.Mutex
	w  io.Writer
}

// write performs a single serialized, unbuffered write
func (s *sink) write(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.w.Write(p)
}

// Enabled reports whether records are being accepted
func (l *Logger) Enabled() bool {
	return l.state.LoggingEnabled.Load()
}

// SetEnabled switches logging on or off. Re-enabling is the only way to
// recover after the health guard turned logging off.
func (l *Logger) SetEnabled(on bool) {
	l.state.LoggingEnabled.Store(on)
}

// ArchiveEnabled reports whether rotated files are archived
func (l *Logger) ArchiveEnabled() bool {
	return l.state.ArchiveEnabled.Load()
}

// SetArchiveEnabled switches archiving on or off
func (l *Logger) SetArchiveEnabled(on bool) {
	l.state.ArchiveEnabled.Store(on)
}

// SetDiagnosticWriter redirects the logger's own diagnostics, nil restores stderr
func (l *Logger) SetDiagnosticWriter(w io.Writer) {
	if w == nil {
		w = defaultDiagnosticWriter
	}
	l.state.DiagnosticWriter.Store(&sink{w: w})
}
