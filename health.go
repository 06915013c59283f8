package tinylog

import (
	"sync"
)

// subsystem identifies which switch a failure counts against
type subsystem int

const (
	subsystemLogging subsystem = iota
	subsystemArchive
)

func (s subsystem) String() string {
	if s == subsystemArchive {
		return "archive"
	}
	return "logging"
}

// HealthGuard counts consecutive internal failures per subsystem. Once a
// counter passes the retry budget the subsystem is switched off and only an
// explicit re-enable brings it back.
type HealthGuard struct {
	mu       sync.Mutex
	failures [2]int64
}

// recordFailure increments the counter for s. When the count exceeds retry
// the counter is reset and tripped is true.
func (h *HealthGuard) recordFailure(s subsystem, retry int64) (count int64, tripped bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.failures[s]++
	count = h.failures[s]
	if count > retry {
		h.failures[s] = 0
		return count, true
	}
	return count, false
}

// recordSuccess ends a failure streak
func (h *HealthGuard) recordSuccess(s subsystem) {
	h.mu.Lock()
	h.failures[s] = 0
	h.mu.Unlock()
}

// count returns the current streak for s
func (h *HealthGuard) count(s subsystem) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.failures[s]
}

// onPersistFailure reports a failed flush and trips logging off when the budget is spent
func (l *Logger) onPersistFailure(err error) {
	l.state.PersistFailures.Add(1)
	l.diagnostic("failed to write buffered records to log file: %v", err)

	count, tripped := l.health.recordFailure(subsystemLogging, l.getConfig().ErrorRetry)
	if tripped {
		l.diagnostic("internal error count reached %d and has been reset, %s disabled", count, subsystemLogging)
		l.SetEnabled(false)
	}
}

// onArchiveFailure reports a failed archive job and trips archiving off when the budget is spent
func (l *Logger) onArchiveFailure(err error) {
	l.state.ArchiveFailures.Add(1)
	l.diagnostic("failed to archive rotated log file: %v", err)

	count, tripped := l.health.recordFailure(subsystemArchive, l.getConfig().ErrorRetry)
	if tripped {
		l.diagnostic("internal archive error count reached %d and has been reset, %s disabled", count, subsystemArchive)
		l.SetArchiveEnabled(false)
	}
}
