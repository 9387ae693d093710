package ports

import "time"

// Clock abstracts wall time and one-shot timers so the token-expiry watchdog
// is testable without sleeping.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules fn after d and returns a stop handle reporting
	// whether the timer was stopped before firing.
	AfterFunc(d time.Duration, fn func()) (stop func() bool)
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) AfterFunc(d time.Duration, fn func()) func() bool {
	timer := time.AfterFunc(d, fn)
	return timer.Stop
}
