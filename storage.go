package tinylog

import (
	"os"
	"path/filepath"
	"time"
)

// getStaticLogFilePath returns the full path to the active log file.
// A relative directory is joined with the base directory, an absolute one is used verbatim.
func (l *Logger) getStaticLogFilePath() string {
	cfg := l.getConfig()
	dir := l.getDirectory()

	if !filepath.IsAbs(dir) {
		base := cfg.BaseDirectory
		if base == "" {
			base = processBaseDir()
		}
		dir = filepath.Join(base, dir)
	}
	return filepath.Join(dir, l.getName())
}

// persist drains the buffer into the active log file, rotating it first
// when it has grown past MaxFileSize. Only the flush goroutine calls it.
func (l *Logger) persist() error {
	cfg := l.getConfig()
	filePath := l.getStaticLogFilePath()

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmtErrorf("failed to create log directory '%s': %w", filepath.Dir(filePath), err)
	}

	info, err := os.Stat(filePath)
	switch {
	case os.IsNotExist(err):
		return l.writeSnapshot(filePath, false)

	case err != nil:
		return fmtErrorf("failed to stat log file '%s': %w", filePath, err)

	case info.Size() > cfg.MaxFileSize:
		oldPath, err := l.rotateLogFile(filePath)
		if err != nil {
			return err
		}
		if err := l.writeSnapshot(filePath, false); err != nil {
			return err
		}
		if l.state.ArchiveEnabled.Load() {
			l.submitArchive(oldPath)
		}
		return nil

	default:
		return l.writeSnapshot(filePath, true)
	}
}

// rotateLogFile replaces any previous .old file with the current active file
func (l *Logger) rotateLogFile(filePath string) (string, error) {
	oldPath := filePath + oldSuffix

	if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
		return "", fmtErrorf("failed to remove previous rotated file '%s': %w", oldPath, err)
	}

	if err := os.Rename(filePath, oldPath); err != nil {
		return "", fmtErrorf("failed to rename log file from '%s' to '%s': %w", filePath, oldPath, err)
	}

	l.state.TotalRotations.Add(1)
	return oldPath, nil
}

// writeSnapshot drains the buffer and writes the snapshot, appending or creating the file
func (l *Logger) writeSnapshot(filePath string, appendMode bool) error {
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(filePath, flags, 0644)
	if err != nil {
		return fmtErrorf("failed to open/create log file '%s': %w", filePath, err)
	}

	// Drained only once the file is open, a failed open keeps the records buffered
	text := l.buffer.DrainAndClear()

	if _, err := file.WriteString(text); err != nil {
		file.Close()
		return fmtErrorf("failed to write %d bytes to log file '%s': %w", len(text), filePath, err)
	}
	if err := file.Close(); err != nil {
		return fmtErrorf("failed to close log file '%s': %w", filePath, err)
	}

	l.state.TotalFlushes.Add(1)
	l.state.LastFlushBytes.Store(int64(len(text)))
	l.state.LastFlushTimestamp.Store(time.Now())
	return nil
}
