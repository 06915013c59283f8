package tinylog

import (
	"strings"
	"sync"
	"sync/atomic"
)

// LogBuffer accumulates formatted records until the flush worker drains them.
// All reads and writes of the text happen under mu.
type LogBuffer struct {
	mu        sync.Mutex
	sb        strings.Builder
	softLimit int
	hardLimit int
	flushDue  bool

	dropped atomic.Uint64
}

// NewLogBuffer creates a buffer with the given soft and hard limits in bytes
func NewLogBuffer(softLimit, hardLimit int64) *LogBuffer {
	b := &LogBuffer{}
	b.SetLimits(softLimit, hardLimit)
	return b
}

// SetLimits replaces both thresholds
func (b *LogBuffer) SetLimits(softLimit, hardLimit int64) {
	b.mu.Lock()
	b.softLimit = int(softLimit)
	b.hardLimit = int(hardLimit)
	b.mu.Unlock()
}

// Append adds line and a record separator. Below the hard limit the record
// is kept and an early flush is requested once the soft limit is passed.
// At or above the hard limit the record is dropped and a flush requested.
func (b *LogBuffer) Append(line string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sb.Len() >= b.hardLimit {
		b.flushDue = true
		b.dropped.Add(1)
		return false
	}

	b.sb.WriteString(line)
	b.sb.WriteString(recordSeparator)
	if b.sb.Len() > b.softLimit {
		b.flushDue = true
	}
	return true
}

// DrainAndClear returns everything buffered since the last drain and empties the buffer
func (b *LogBuffer) DrainAndClear() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	text := b.sb.String()
	// Reset drops the backing array, the snapshot stays valid
	b.sb.Reset()
	b.flushDue = false
	return text
}

// Content returns the buffered, not yet flushed, text
func (b *LogBuffer) Content() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.String()
}

// Len returns the buffered length in bytes
func (b *LogBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sb.Len()
}

// FlushDue reports whether an out-of-cycle flush was requested
func (b *LogBuffer) FlushDue() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.flushDue
}

// Dropped returns the number of records rejected at the hard limit
func (b *LogBuffer) Dropped() uint64 {
	return b.dropped.Load()
}
