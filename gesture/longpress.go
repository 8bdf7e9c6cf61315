package gesture

import "time"

// Token identifies one arming of a LongPressTimer. The zero Token is never issued.
type Token uint64

// LongPressTimer is a single-shot cancellable deferred action. At most one arm
// is pending at a time. It is not safe for concurrent use on its own; the
// Arbiter serializes access under its lock, and the fired callback must call
// Consume under that same lock before acting.
type LongPressTimer struct {
	scheduler Scheduler
	delay     time.Duration

	timer   Timer
	current Token
	issued  Token
}

func NewLongPressTimer(scheduler Scheduler, delay time.Duration) *LongPressTimer {
	if scheduler == nil {
		scheduler = RealScheduler{}
	}
	return &LongPressTimer{
		scheduler: scheduler,
		delay:     delay,
	}
}

// Arm schedules fn to run after the timeout, replacing any pending arm.
// fn receives the token returned here.
func (l *LongPressTimer) Arm(fn func(Token)) Token {
	l.Cancel()

	l.issued++
	tok := l.issued
	l.current = tok
	l.timer = l.scheduler.AfterFunc(l.delay, func() {
		fn(tok)
	})
	return tok
}

// Cancel stops the pending arm, if any, and invalidates its token. It reports
// whether something was pending.
func (l *LongPressTimer) Cancel() bool {
	if l.current == 0 {
		return false
	}

	l.current = 0
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	return true
}

// Pending reports whether an arm is outstanding.
func (l *LongPressTimer) Pending() bool {
	return l.current != 0
}

// Valid reports whether tok is the outstanding arm.
func (l *LongPressTimer) Valid(tok Token) bool {
	return tok != 0 && tok == l.current
}

// Consume marks tok as fired. It reports false for a cancelled or superseded
// token, in which case the caller must not act.
func (l *LongPressTimer) Consume(tok Token) bool {
	if !l.Valid(tok) {
		return false
	}
	l.current = 0
	l.timer = nil
	return true
}
