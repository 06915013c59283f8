package tinylog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/lixenwraith/tinylog/compress"
)

// newArchivePool creates the bounded pool that runs archive jobs. Submissions
// never block the flush goroutine: a saturated pool rejects the job.
func (l *Logger) newArchivePool(workers int64) (*ants.Pool, error) {
	if workers <= 0 {
		workers = 1
	}
	return ants.NewPool(int(workers),
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(r any) {
			l.onArchiveFailure(fmtErrorf("panic during archive: %v", r))
		}),
	)
}

// submitArchive hands a rotated file to the archive pool
func (l *Logger) submitArchive(oldPath string) {
	if l.archivePool == nil {
		return
	}

	err := l.archivePool.Submit(func() { l.runArchive(oldPath) })
	switch {
	case err == nil:
	case errors.Is(err, ants.ErrPoolOverload):
		// Left in place, the next rotation replaces it
		l.state.TotalArchiveSkips.Add(1)
		l.diagnostic("archive pool saturated, '%s' not archived", oldPath)
	case errors.Is(err, ants.ErrPoolClosed):
	default:
		l.onArchiveFailure(fmtErrorf("failed to submit archive job: %w", err))
	}
}

// runArchive is the pool job: archive, then feed the outcome to the health guard
func (l *Logger) runArchive(oldPath string) {
	if !l.state.ArchiveEnabled.Load() {
		return
	}

	if err := l.archiveRotated(oldPath); err != nil {
		l.onArchiveFailure(err)
		return
	}
	l.health.recordSuccess(subsystemArchive)
}

// archiveRotated claims a rotated file by moving it into the archive
// directory, compresses it there, then wipes the archive directory if it has
// grown past MaxArchiveSize. A later rotation writing a new .old while the job
// runs is left untouched.
func (l *Logger) archiveRotated(oldPath string) error {
	cfg := l.getConfig()

	codec, err := compress.ByName(cfg.ArchiveCodec)
	if err != nil {
		return fmtErrorf("invalid archive codec: %w", err)
	}

	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		// Already archived or replaced by a later rotation
		return nil
	}

	archiveDir := filepath.Join(filepath.Dir(oldPath), archiveDirName)
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return fmtErrorf("failed to create archive directory '%s': %w", archiveDir, err)
	}

	staged, err := claimRotated(oldPath, archiveDir)
	if err != nil || staged == "" {
		return err
	}
	return l.archiveClaimed(cfg, codec, oldPath, staged)
}

// claimRotated renames oldPath to a unique pending name inside archiveDir.
// Returns an empty path when there was nothing to claim.
func claimRotated(oldPath, archiveDir string) (string, error) {
	name := fmt.Sprintf("%s.%d%s", filepath.Base(oldPath), time.Now().UnixNano(), pendingSuffix)
	staged := filepath.Join(archiveDir, name)
	if err := os.Rename(oldPath, staged); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmtErrorf("failed to claim rotated file '%s': %w", oldPath, err)
	}
	return staged, nil
}

// archiveClaimed compresses a claimed file into its final archive name and
// removes the pending copy
func (l *Logger) archiveClaimed(cfg *Config, codec compress.Codec, oldPath, staged string) error {
	archiveDir := filepath.Dir(staged)
	target := filepath.Join(archiveDir, archiveFileName(oldPath, time.Now(), codec.Extension()))
	if err := compress.CompressFile(codec, staged, target); err != nil {
		restoreClaimed(staged, oldPath)
		return fmtErrorf("failed to compress '%s': %w", oldPath, err)
	}

	if err := os.Remove(staged); err != nil && !os.IsNotExist(err) {
		return fmtErrorf("failed to remove archived file '%s': %w", staged, err)
	}
	l.state.TotalArchives.Add(1)

	if cfg.MaxArchiveSize <= 0 {
		return nil
	}

	size, err := dirSize(archiveDir)
	if err != nil {
		return err
	}
	if size > cfg.MaxArchiveSize {
		if _, err := clearDir(archiveDir); err != nil {
			return err
		}
		l.state.TotalArchiveWipes.Add(1)
	}
	return nil
}

// restoreClaimed moves a claimed file back to oldPath unless a later rotation
// already took that name, in which case the pending copy stays in the archive
// directory
func restoreClaimed(staged, oldPath string) {
	if err := os.Link(staged, oldPath); err != nil {
		return
	}
	os.Remove(staged)
}

// archiveFileName builds "<name>.old.<yyyyMMddHHmmss>.<ext>" for a rotated file path
func archiveFileName(oldPath string, timestamp time.Time, ext string) string {
	name := strings.TrimSuffix(filepath.Base(oldPath), oldSuffix)
	return fmt.Sprintf("%s%s.%s.%s", name, oldSuffix, timestamp.Format(archiveTimeLayout), ext)
}
