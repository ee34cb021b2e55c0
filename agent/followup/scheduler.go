// Package followup delivers a bounded series of reminder messages.
//
// A Scheduler owns at most one pending timer. The first reminder fires after
// the delay supplied with the request; each later one after a fixed cadence,
// reusing the same text, until the attempt cap is reached. A Scheduler is not
// safe for concurrent use: its owner serializes calls and timer callbacks,
// usually by handing it a clock.Serialized clock.
package followup

import (
	"time"

	clockx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/clock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxAttempts = 5
	DefaultCadence     = 45 * time.Second
)

type Payload struct {
	Message string
	Delay   time.Duration
}

// Reminder is handed to the deliver callback each time the timer fires.
type Reminder struct {
	Attempt int
	Message string
	More    bool
}

type Option func(*Scheduler)

func WithMaxAttempts(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.max = n
		}
	}
}

func WithCadence(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.cadence = d
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

type Scheduler struct {
	clock   clockx.Clock
	deliver func(Reminder)
	max     int
	cadence time.Duration
	logger  zerolog.Logger

	attempts   int
	timer      clockx.Timer
	gen        uint64
	armedUntil time.Time
	message    string
}

func New(clock clockx.Clock, deliver func(Reminder), opts ...Option) *Scheduler {
	if clock == nil {
		clock = clockx.Real()
	}
	s := &Scheduler{
		clock:   clock,
		deliver: deliver,
		max:     DefaultMaxAttempts,
		cadence: DefaultCadence,
		logger:  log.With().Str("component", "followup").Logger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Schedule arms the timer for p, replacing any pending one. It returns false
// and does nothing once the attempt cap has been reached.
func (s *Scheduler) Schedule(p Payload) bool {
	if s.attempts >= s.max {
		s.logger.Debug().Int("attempts", s.attempts).Msg("follow-up cap reached, not scheduling")
		return false
	}
	s.arm(p.Message, p.Delay)
	return true
}

// Cancel drops the pending timer, if any. The attempt counter is kept.
func (s *Scheduler) Cancel() {
	if s.stopTimer() {
		s.logger.Debug().Int("attempts", s.attempts).Msg("follow-up cancelled")
	}
	s.gen++
}

// Exhaust cancels the pending timer and pins the counter at the cap so no
// further reminders are ever scheduled.
func (s *Scheduler) Exhaust() {
	s.Cancel()
	s.attempts = s.max
}

func (s *Scheduler) Attempts() int {
	return s.attempts
}

func (s *Scheduler) MaxAttempts() int {
	return s.max
}

func (s *Scheduler) Pending() bool {
	return s.timer != nil
}

// ArmedUntil reports when the pending reminder is due.
func (s *Scheduler) ArmedUntil() (time.Time, bool) {
	if s.timer == nil {
		return time.Time{}, false
	}
	return s.armedUntil, true
}

func (s *Scheduler) arm(message string, delay time.Duration) {
	s.stopTimer()
	s.gen++
	gen := s.gen
	s.message = message
	s.armedUntil = s.clock.Now().Add(delay)
	s.timer = s.clock.AfterFunc(delay, func() {
		s.fire(gen)
	})
	s.logger.Debug().
		Int("attempts", s.attempts).
		Dur("delay", delay).
		Time("armed_until", s.armedUntil).
		Msg("follow-up armed")
}

func (s *Scheduler) fire(gen uint64) {
	// a callback that lost the race with Cancel or a re-arm
	if gen != s.gen || s.timer == nil {
		return
	}
	s.timer = nil
	s.armedUntil = time.Time{}
	s.attempts++

	reminder := Reminder{
		Attempt: s.attempts,
		Message: s.message,
		More:    s.attempts < s.max,
	}
	s.logger.Debug().Int("attempt", reminder.Attempt).Bool("more", reminder.More).Msg("follow-up fired")
	if s.deliver != nil {
		s.deliver(reminder)
	}

	if gen == s.gen && s.timer == nil && s.attempts < s.max {
		s.arm(reminder.Message, s.cadence)
	}
}

func (s *Scheduler) stopTimer() bool {
	if s.timer == nil {
		return false
	}
	s.timer.Stop()
	s.timer = nil
	s.armedUntil = time.Time{}
	return true
}
