package tinylog

import (
	"fmt"
	"runtime"
	"time"
)

// Stats is a point-in-time snapshot of a logger's counters
type Stats struct {
	Uptime          time.Duration
	Enabled         bool
	ArchiveEnabled  bool
	BufferedBytes   int
	DroppedRecords  uint64
	Flushes         uint64
	Rotations       uint64
	Archives        uint64
	ArchiveWipes    uint64
	ArchiveSkips    uint64
	PersistFailures uint64
	ArchiveFailures uint64
	LastFlushBytes  int64
	LastFlushTime   time.Time
}

// Stats returns the current counters
func (l *Logger) Stats() Stats {
	s := Stats{
		Enabled:         l.state.LoggingEnabled.Load(),
		ArchiveEnabled:  l.state.ArchiveEnabled.Load(),
		BufferedBytes:   l.buffer.Len(),
		DroppedRecords:  l.buffer.Dropped(),
		Flushes:         l.state.TotalFlushes.Load(),
		Rotations:       l.state.TotalRotations.Load(),
		Archives:        l.state.TotalArchives.Load(),
		ArchiveWipes:    l.state.TotalArchiveWipes.Load(),
		ArchiveSkips:    l.state.TotalArchiveSkips.Load(),
		PersistFailures: l.state.PersistFailures.Load(),
		ArchiveFailures: l.state.ArchiveFailures.Load(),
		LastFlushBytes:  l.state.LastFlushBytes.Load(),
	}
	if start, ok := l.state.LoggerStartTime.Load().(time.Time); ok && !start.IsZero() {
		s.Uptime = time.Since(start)
	}
	if last, ok := l.state.LastFlushTimestamp.Load().(time.Time); ok {
		s.LastFlushTime = last
	}
	return s
}

// handleHeartbeat appends a STATS record with logger and runtime counters
func (l *Logger) handleHeartbeat() {
	sequence := l.state.HeartbeatSequence.Add(1)
	s := l.Stats()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	args := []any{
		"sequence", sequence,
		"uptime_hours", fmt.Sprintf("%.2f", s.Uptime.Hours()),
		"flushes", s.Flushes,
		"rotations", s.Rotations,
		"archives", s.Archives,
		"archive_wipes", s.ArchiveWipes,
		"dropped_records", s.DroppedRecords,
		"persist_failures", s.PersistFailures,
		"archive_failures", s.ArchiveFailures,
		"alloc_mb", fmt.Sprintf("%.2f", float64(memStats.Alloc)/(1024*1024)),
		"num_goroutine", runtime.NumGoroutine(),
	}

	l.log(LevelStats, args...)
}
