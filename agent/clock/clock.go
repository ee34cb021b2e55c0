// Package clock abstracts wall time and one-shot timers so that session
// timing can run on a virtual clock in tests.
package clock

import (
	"sync"
	"time"
)

type Timer interface {
	// Stop prevents the timer from firing. It returns false if the timer
	// already fired or was stopped.
	Stop() bool
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

type realClock struct{}

func Real() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

type serialized struct {
	Clock
	lock sync.Locker
}

// Serialized wraps c so every callback runs while holding lock. Owners of the
// lock get run-to-completion callbacks that never interleave with each other
// or with the owner's own locked sections.
func Serialized(c Clock, lock sync.Locker) Clock {
	return serialized{Clock: c, lock: lock}
}

func (s serialized) AfterFunc(d time.Duration, fn func()) Timer {
	return s.Clock.AfterFunc(d, func() {
		s.lock.Lock()
		defer s.lock.Unlock()
		fn()
	})
}
