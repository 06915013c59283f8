package tinylog

import (
	"time"
)

// Severity labels written into each record
const (
	LevelDebug    = "DEBUG"
	LevelInfo     = "INFO"
	LevelWarn     = "WARN"
	LevelError    = "ERROR"
	LevelFatal    = "FATAL"
	LevelInternal = "innerFatal" // Logger's own diagnostics
	LevelStats    = "STATS"      // Heartbeat statistics
)

// Record template placeholders
const (
	placeholderTime    = "{time}"
	placeholderLevel   = "{level}"
	placeholderMessage = "{msg}"
)

// File layout
const (
	// Suffix of the single rotated file kept next to the active log
	oldSuffix = ".old"
	// Subdirectory, beside the active log, holding compressed rotated files
	archiveDirName = "archive"
	// Record timestamp layout
	timestampLayout = "2006-01-02 15:04:05"
	// Suffix of a rotated file claimed by an archive job and not yet compressed
	pendingSuffix = ".pending"
	// Archive file name timestamp layout, second precision
	archiveTimeLayout = "20060102150405"
	// Separator appended after every buffered record
	recordSeparator = "\n"
)

// Timers
const (
	// Minimum wait time used throughout the package
	minWaitTime = 10 * time.Millisecond
	// Lower bound for the default shutdown wait
	minShutdownTimeout = time.Second
)
