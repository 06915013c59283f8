package tinylog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartbeatRecord(t *testing.T) {
	logger, _ := createTestLogger(t)

	logger.handleHeartbeat()
	logger.handleHeartbeat()

	lines := strings.Split(strings.TrimSuffix(logger.Content(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], LevelStats+" sequence 1 "))
	assert.True(t, strings.HasPrefix(lines[1], LevelStats+" sequence 2 "))
	assert.Contains(t, lines[0], "dropped_records 0")
	assert.Contains(t, lines[0], "num_goroutine")
}

func TestHeartbeatSkippedWhenDisabled(t *testing.T) {
	logger, _ := createTestLogger(t)
	logger.SetEnabled(false)

	logger.handleHeartbeat()
	assert.Empty(t, logger.Content())
}

func TestHeartbeatTimer(t *testing.T) {
	logger, _ := createTestLogger(t, func(c *Config) {
		c.HeartbeatIntervalS = 1
	})

	assert.Eventually(t, func() bool {
		return strings.Contains(logger.Content(), LevelStats)
	}, 3*time.Second, 20*time.Millisecond)
}

func TestStats(t *testing.T) {
	logger, _ := createTestLogger(t)

	logger.Info("a")
	stats := logger.Stats()
	assert.True(t, stats.Enabled)
	assert.False(t, stats.ArchiveEnabled)
	assert.Equal(t, len("INFO a\n"), stats.BufferedBytes)
	assert.Equal(t, uint64(0), stats.Flushes)
	assert.True(t, stats.LastFlushTime.IsZero())
	assert.Greater(t, stats.Uptime, time.Duration(0))

	require.NoError(t, logger.Flush(time.Second))
	stats = logger.Stats()
	assert.Equal(t, 0, stats.BufferedBytes)
	assert.Equal(t, uint64(1), stats.Flushes)
}
