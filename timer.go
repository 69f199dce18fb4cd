package logrotatorr

import "time"

// arm computes the interval being written and sets a timer for its end.
func (l *Logger) arm() {
	if l.config.Every.IsZero() {
		return
	}

	now := l.config.Clock.Now()
	l.prev, l.next = l.config.Every.Bounds(now)
	l.schedule(now)
}

// schedule sets a timer for the end of the interval. Timers longer than
// MaxTimer are shortened; alarm sets another one when it fires early.
func (l *Logger) schedule(now time.Time) {
	l.cancelTimer()

	wait := l.next.Sub(now)
	if wait > l.config.MaxTimer {
		wait = l.config.MaxTimer
	} else if wait < 0 {
		wait = 0
	}

	gen := l.gen
	l.timer = l.config.Clock.AfterFunc(wait, func() {
		select {
		case l.tick <- gen:
		case <-l.done:
		}
	})
}

// cancelTimer stops the armed timer. A tick already on its way is ignored
// because the generation changes.
func (l *Logger) cancelTimer() {
	l.gen++

	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// alarm handles a timer tick - from a channel message.
func (l *Logger) alarm(gen uint64) {
	if gen != l.gen || l.err != nil || l.file == nil {
		return
	}

	l.timer = nil

	if now := l.config.Clock.Now(); now.Before(l.next) {
		l.schedule(now)
		return
	}

	_ = l.rotate() // stored in l.err.
}
