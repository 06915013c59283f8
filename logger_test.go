package tinylog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a configuration writing to a temp directory. Scheduled
// flushes are far away so only Flush, the soft limit or Shutdown persist.
func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Directory = t.TempDir()
	cfg.Name = "test.log"
	cfg.Format = "{level} {msg}"
	cfg.FlushIntervalMs = 60000
	cfg.MinFlushIntervalMs = 10
	cfg.EnableArchive = false
	cfg.InternalErrorsToStderr = false
	return cfg
}

// createTestLogger creates a logger on its own SharedConfig, shut down on cleanup
func createTestLogger(t *testing.T, mutate ...func(*Config)) (*Logger, string) {
	t.Helper()
	cfg := testConfig(t)
	for _, m := range mutate {
		m(cfg)
	}

	shared, err := NewSharedConfig(cfg)
	require.NoError(t, err)

	logger := NewLogger(shared)
	t.Cleanup(func() { _ = logger.Shutdown(time.Second) })
	return logger, cfg.Directory
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// TestNewLogger verifies that a new logger is created with the correct initial state
func TestNewLogger(t *testing.T) {
	logger, tmpDir := createTestLogger(t)

	assert.True(t, logger.Enabled())
	assert.False(t, logger.ArchiveEnabled())
	assert.False(t, logger.state.ProcessorExited.Load(), "flush goroutine runs from construction")
	assert.NotEmpty(t, logger.ID())
	assert.NotNil(t, logger.archivePool)
	assert.Equal(t, filepath.Join(tmpDir, "test.log"), logger.LogPath())
	assert.Empty(t, logger.Content())
}

func TestNewLoggerSwitchesFromConfig(t *testing.T) {
	logger, _ := createTestLogger(t, func(c *Config) {
		c.EnableLogging = false
		c.EnableArchive = true
	})

	assert.False(t, logger.Enabled())
	assert.True(t, logger.ArchiveEnabled())

	logger.Info("ignored")
	assert.Empty(t, logger.Content())
}

func TestLoggerIDsAreUnique(t *testing.T) {
	l1, _ := createTestLogger(t)
	l2, _ := createTestLogger(t)
	assert.NotEqual(t, l1.ID(), l2.ID())
}

func TestLevels(t *testing.T) {
	logger, _ := createTestLogger(t)

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")
	logger.Fatal("f")
	logger.Log(LevelInternal, "x")

	assert.Equal(t, "DEBUG d\nINFO i\nWARN w\nERROR e\nFATAL f\ninnerFatal x\n", logger.Content())
}

func TestNilMessage(t *testing.T) {
	logger, _ := createTestLogger(t)

	logger.Info(nil)
	var s *string
	logger.Warn(s)

	assert.Equal(t, "INFO \nWARN \n", logger.Content())
}

type panicStringer struct{}

func (panicStringer) String() string { panic("boom") }

func TestFormattingPanicIsContained(t *testing.T) {
	logger, _ := createTestLogger(t)

	assert.NotPanics(t, func() {
		logger.Info(panicStringer{})
	})
	assert.Empty(t, logger.Content())

	logger.Info("next")
	assert.Equal(t, "INFO next\n", logger.Content())
}

func TestSanitizationPolicy(t *testing.T) {
	forged := "user input\nFATAL forged record\x1b[2J"

	t.Run("raw keeps values verbatim", func(t *testing.T) {
		logger, _ := createTestLogger(t)
		logger.Info(forged)
		assert.Equal(t, "INFO "+forged+"\n", logger.Content())
	})

	t.Run("txt keeps one record per line", func(t *testing.T) {
		logger, tmpDir := createTestLogger(t, func(c *Config) {
			c.Sanitization = "txt"
		})
		logger.Info(forged)
		logger.Warn(errors.New("bad\r\nline"), []byte("tab\there"))
		require.NoError(t, logger.Flush(time.Second))

		content := readFile(t, filepath.Join(tmpDir, "test.log"))
		assert.Equal(t, "INFO user input<0a>FATAL forged record<1b>[2J\nWARN bad<0d><0a>line tab<09>here\n", content)
		assert.Len(t, strings.Split(strings.TrimSuffix(content, "\n"), "\n"), 2)
	})

	t.Run("policy change applies to the next record", func(t *testing.T) {
		logger, _ := createTestLogger(t)
		require.NoError(t, logger.ApplyConfigString("sanitization=escape"))
		logger.Info("a\nb")
		assert.Equal(t, `INFO a\nb`+"\n", logger.Content())
	})
}

func TestShowID(t *testing.T) {
	logger, _ := createTestLogger(t, func(c *Config) {
		c.ShowID = true
		c.Format = "{msg}"
	})

	logger.Info("hi")
	assert.Equal(t, "["+logger.ID()+"] hi\n", logger.Content())
}

func TestFlushAndContent(t *testing.T) {
	logger, tmpDir := createTestLogger(t)

	logger.Info("first")
	logger.Info("second")
	assert.Equal(t, "INFO first\nINFO second\n", logger.Content())

	require.NoError(t, logger.Flush(time.Second))
	assert.Empty(t, logger.Content(), "flush drains the buffer")
	assert.Equal(t, "INFO first\nINFO second\n", readFile(t, filepath.Join(tmpDir, "test.log")))

	stats := logger.Stats()
	assert.Equal(t, uint64(1), stats.Flushes)
	assert.Equal(t, int64(len("INFO first\nINFO second\n")), stats.LastFlushBytes)
	assert.False(t, stats.LastFlushTime.IsZero())
}

func TestFlushEmptyBufferIsNoop(t *testing.T) {
	logger, tmpDir := createTestLogger(t)

	require.NoError(t, logger.Flush(time.Second))
	_, err := os.Stat(filepath.Join(tmpDir, "test.log"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, uint64(0), logger.Stats().Flushes)
}

func TestFlushWaitsForBusyProcessor(t *testing.T) {
	// No flush goroutine, requests are served by hand
	l := &Logger{}
	l.state.flushRequestChan = make(chan chan error)

	go func() {
		time.Sleep(50 * time.Millisecond)
		confirm := <-l.state.flushRequestChan
		confirm <- nil
	}()

	assert.NoError(t, l.Flush(time.Second), "send is bounded by the caller's timeout")
}

func TestFlushTimesOutWithoutProcessor(t *testing.T) {
	l := &Logger{}
	l.state.flushRequestChan = make(chan chan error)

	start := time.Now()
	err := l.Flush(30 * time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send flush request")
	assert.Less(t, time.Since(start), time.Second)
}

func TestInit(t *testing.T) {
	logger, tmpDir := createTestLogger(t)

	other := filepath.Join(tmpDir, "other")
	logger.Init("app.log", other)
	assert.Equal(t, filepath.Join(other, "app.log"), logger.LogPath())

	// Empty folder keeps the current one
	logger.Init("second.log", "")
	assert.Equal(t, filepath.Join(other, "second.log"), logger.LogPath())

	// Invalid names are ignored
	logger.Init("", "")
	logger.Init("a/b.log", "")
	assert.Equal(t, filepath.Join(other, "second.log"), logger.LogPath())

	logger.Info("moved")
	require.NoError(t, logger.Flush(time.Second))
	assert.Contains(t, readFile(t, filepath.Join(other, "second.log")), "INFO moved")
}

func TestSharedConfigAcrossLoggers(t *testing.T) {
	cfg := testConfig(t)
	shared, err := NewSharedConfig(cfg)
	require.NoError(t, err)

	l1 := NewLogger(shared)
	l2 := NewLogger(shared)
	defer l1.Shutdown(time.Second)
	defer l2.Shutdown(time.Second)

	// Per-instance fields stay with the logger
	l1.Init("one.log", "")
	assert.Equal(t, "one.log", l1.GetConfig().Name)
	assert.Equal(t, "test.log", l2.GetConfig().Name)

	// Global fields are seen by every logger sharing the configuration
	require.NoError(t, l1.ApplyConfigString("format=<{level}> {msg}"))
	l2.Info("shared")
	assert.Equal(t, "<INFO> shared\n", l2.Content())

	assert.Equal(t, "one.log", l1.GetConfig().Name)
	assert.Equal(t, "test.log", l2.GetConfig().Name)
}

func TestApplyConfigLeavesSwitchesAlone(t *testing.T) {
	logger, _ := createTestLogger(t)
	logger.SetEnabled(false)

	cfg := logger.GetConfig()
	cfg.EnableLogging = true
	require.NoError(t, logger.ApplyConfig(cfg))

	assert.False(t, logger.Enabled())
}

func TestApplyConfigString(t *testing.T) {
	tests := []struct {
		name      string
		overrides []string
		verify    func(t *testing.T, cfg *Config)
		wantError bool
	}{
		{
			name:      "basic overrides",
			overrides: []string{"name=app.log", "max_file_size=2048", "archive_codec=zstd", "show_id=true"},
			verify: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "app.log", cfg.Name)
				assert.Equal(t, int64(2048), cfg.MaxFileSize)
				assert.Equal(t, "zstd", cfg.ArchiveCodec)
				assert.True(t, cfg.ShowID)
			},
		},
		{
			name:      "unknown key",
			overrides: []string{"level=debug"},
			wantError: true,
		},
		{
			name:      "bad integer",
			overrides: []string{"error_retry=three"},
			wantError: true,
		},
		{
			name:      "missing equals",
			overrides: []string{"directory"},
			wantError: true,
		},
		{
			name:      "fails validation",
			overrides: []string{"cache_soft_limit=10", "cache_hard_limit=5"},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := createTestLogger(t)
			before := logger.GetConfig()

			err := logger.ApplyConfigString(tt.overrides...)
			if tt.wantError {
				assert.Error(t, err)
				assert.Equal(t, before, logger.GetConfig(), "configuration unchanged on error")
				return
			}
			require.NoError(t, err)
			tt.verify(t, logger.GetConfig())
		})
	}
}

func TestScheduledFlush(t *testing.T) {
	logger, tmpDir := createTestLogger(t, func(c *Config) {
		c.FlushIntervalMs = 30
	})

	logger.Info("scheduled")

	logPath := filepath.Join(tmpDir, "test.log")
	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(logPath)
		return err == nil && string(data) == "INFO scheduled\n"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Empty(t, logger.Content())
}

func TestSoftLimitRequestsEarlyFlush(t *testing.T) {
	logger, tmpDir := createTestLogger(t, func(c *Config) {
		c.CacheSoftLimit = 32
		c.CacheHardLimit = 1024
	})

	logger.Info(strings.Repeat("s", 40))

	logPath := filepath.Join(tmpDir, "test.log")
	assert.Eventually(t, func() bool {
		_, err := os.Stat(logPath)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond, "soft limit should flush well before the refresh interval")
}

func TestHardLimitDropsRecords(t *testing.T) {
	logger, _ := createTestLogger(t, func(c *Config) {
		c.Format = "{msg}"
		c.CacheSoftLimit = 10
		c.CacheHardLimit = 10
		// Keep the tick from draining the buffer during the test
		c.MinFlushIntervalMs = 60000
	})

	logger.Info("0123456789")
	logger.Info("dropped")

	assert.Equal(t, "0123456789\n", logger.Content())
	assert.Equal(t, uint64(1), logger.Stats().DroppedRecords)
}

func TestConcurrentWrites(t *testing.T) {
	logger, tmpDir := createTestLogger(t, func(c *Config) {
		c.Format = "{msg}"
	})

	const goroutines = 8
	const perGoroutine = 100

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				logger.Info(fmt.Sprintf("g%d-%d", g, i))
			}
		}(g)
	}
	wg.Wait()

	require.NoError(t, logger.Flush(time.Second))

	lines := strings.Split(strings.TrimSuffix(readFile(t, filepath.Join(tmpDir, "test.log")), "\n"), "\n")
	assert.Len(t, lines, goroutines*perGoroutine)
}

func TestShutdown(t *testing.T) {
	logger, tmpDir := createTestLogger(t)

	logger.Info("pending")
	require.NoError(t, logger.Shutdown(time.Second))

	assert.True(t, logger.state.ProcessorExited.Load())
	assert.Equal(t, "INFO pending\n", readFile(t, filepath.Join(tmpDir, "test.log")), "shutdown performs a final flush")

	logger.Info("after shutdown")
	assert.Empty(t, logger.Content())

	assert.NoError(t, logger.Shutdown(), "second shutdown is a no-op")
	assert.Error(t, logger.Flush(time.Second))
}

func TestShutdownDefaultTimeout(t *testing.T) {
	logger, _ := createTestLogger(t)
	assert.NoError(t, logger.Shutdown())
}
