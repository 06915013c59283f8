package tinylog

import (
	"time"
)

// processLogs is the flush loop running in its own goroutine from NewLogger until Shutdown
func (l *Logger) processLogs() {
	defer l.state.ProcessorExited.Store(true)

	timers := l.setupProcessingTimers()
	defer l.closeProcessingTimers(timers)

	// Zero until the first tick that finds buffered records
	var nextFlush time.Time

	for {
		select {
		case <-l.state.done:
			// Final drain, regardless of the refresh schedule
			if l.buffer.Len() > 0 {
				l.flushOnce()
			}
			return

		case <-timers.flushTicker.C:
			nextFlush = l.handleFlushTick(timers, nextFlush)

		case confirmChan := <-l.state.flushRequestChan:
			l.handleFlushRequest(confirmChan)

		case <-timers.heartbeatChan:
			l.handleHeartbeat()
		}
	}
}

// handleFlushTick runs once per quantum. It arms the refresh deadline the
// first time records are waiting and persists once the deadline passes or the
// buffer asked for an early flush. The deadline moves forward only after a
// successful persist, so a failed one is retried on the next tick.
func (l *Logger) handleFlushTick(timers *TimerSet, nextFlush time.Time) time.Time {
	l.syncTimers(timers)

	c := l.getConfig()
	l.buffer.SetLimits(c.CacheSoftLimit, c.CacheHardLimit)

	if !l.state.LoggingEnabled.Load() || l.buffer.Len() == 0 {
		return nextFlush
	}

	now := time.Now()
	if nextFlush.IsZero() {
		nextFlush = now.Add(time.Duration(c.FlushIntervalMs) * time.Millisecond)
	}

	if now.Before(nextFlush) && !l.buffer.FlushDue() {
		return nextFlush
	}

	if err := l.flushOnce(); err != nil {
		return nextFlush
	}
	return time.Now().Add(time.Duration(c.FlushIntervalMs) * time.Millisecond)
}

// handleFlushRequest handles an explicit flush request
func (l *Logger) handleFlushRequest(confirmChan chan error) {
	var err error
	if l.buffer.Len() > 0 {
		err = l.flushOnce()
	}
	confirmChan <- err // Buffered, never blocks
	close(confirmChan)
}

// flushOnce persists the buffer and reports the outcome to the health guard.
// A panic inside persist is treated like any other persist failure.
func (l *Logger) flushOnce() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmtErrorf("panic during flush: %v", r)
			l.onPersistFailure(err)
		}
	}()

	if err = l.persist(); err != nil {
		l.onPersistFailure(err)
		return err
	}
	l.health.recordSuccess(subsystemLogging)
	return nil
}
