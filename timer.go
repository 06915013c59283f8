package tinylog

import "time"

// TimerSet holds all timers used in processLogs
type TimerSet struct {
	flushTicker     *time.Ticker
	flushQuantum    time.Duration
	heartbeatTicker *time.Ticker
	heartbeatPeriod time.Duration
	heartbeatChan   <-chan time.Time
}

// setupProcessingTimers creates the flush quantum ticker and, if enabled, the heartbeat ticker
func (l *Logger) setupProcessingTimers() *TimerSet {
	timers := &TimerSet{}

	c := l.getConfig()
	timers.flushQuantum = quantumOf(c)
	timers.flushTicker = time.NewTicker(timers.flushQuantum)

	l.setupHeartbeatTimer(timers, c)

	return timers
}

// syncTimers follows configuration changes made since the timers were set up
func (l *Logger) syncTimers(timers *TimerSet) {
	c := l.getConfig()

	if q := quantumOf(c); q != timers.flushQuantum {
		timers.flushQuantum = q
		timers.flushTicker.Reset(q)
	}

	if heartbeatPeriodOf(c) != timers.heartbeatPeriod {
		l.setupHeartbeatTimer(timers, c)
	}
}

// setupHeartbeatTimer (re)creates the heartbeat ticker, a zero interval leaves it disabled
func (l *Logger) setupHeartbeatTimer(timers *TimerSet, c *Config) {
	if timers.heartbeatTicker != nil {
		timers.heartbeatTicker.Stop()
		timers.heartbeatTicker = nil
		timers.heartbeatChan = nil
	}

	timers.heartbeatPeriod = heartbeatPeriodOf(c)
	if timers.heartbeatPeriod > 0 {
		timers.heartbeatTicker = time.NewTicker(timers.heartbeatPeriod)
		timers.heartbeatChan = timers.heartbeatTicker.C
	}
}

// closeProcessingTimers stops all active timers
func (l *Logger) closeProcessingTimers(timers *TimerSet) {
	timers.flushTicker.Stop()
	if timers.heartbeatTicker != nil {
		timers.heartbeatTicker.Stop()
	}
}

func quantumOf(c *Config) time.Duration {
	q := time.Duration(c.MinFlushIntervalMs) * time.Millisecond
	if q < minWaitTime {
		q = minWaitTime
	}
	return q
}

func heartbeatPeriodOf(c *Config) time.Duration {
	if c.HeartbeatIntervalS <= 0 {
		return 0
	}
	return time.Duration(c.HeartbeatIntervalS) * time.Second
}
