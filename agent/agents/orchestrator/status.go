package orchestrator

import (
	"fmt"
	"strings"

	commandx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/command"
)

type Status string

const (
	StatusOn  Status = "ON"
	StatusOff Status = "OFF"
)

// EventAgentCommand names the notification emitted on every status toggle.
const EventAgentCommand = "agent-command"

type StatusEvent struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Command string `json:"command"`
}

func ParseStatus(raw string) (Status, error) {
	switch Status(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusOn:
		return StatusOn, nil
	case StatusOff:
		return StatusOff, nil
	default:
		return "", fmt.Errorf("invalid agent status %q", raw)
	}
}

func (s Status) command() commandx.Command {
	if s == StatusOn {
		return commandx.AgentOn
	}
	return commandx.AgentOff
}

func statusFor(cmd commandx.Command) Status {
	if cmd == commandx.AgentOn {
		return StatusOn
	}
	return StatusOff
}

// Subscribe registers fn for status events. Listeners run synchronously on
// the session's serialized context and must not call back into the Orchestrator.
func (o *Orchestrator) Subscribe(fn func(StatusEvent)) func() {
	if fn == nil {
		return func() {}
	}
	o.mu.Lock()
	id := o.nextListener
	o.nextListener++
	o.listeners[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}
}

// SetStatus is the UI switch: it changes the status and notifies listeners
// without writing to the timeline.
func (o *Orchestrator) SetStatus(s Status) error {
	if s != StatusOn && s != StatusOff {
		return fmt.Errorf("invalid agent status %q", s)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return ErrSessionClosed
	}
	o.setStatusLocked(s)
	return nil
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

func (o *Orchestrator) setStatusLocked(s Status) {
	prev := o.status
	o.status = s
	o.logger.Info().Str("from", string(prev)).Str("to", string(s)).Msg("agent status changed")

	ev := StatusEvent{
		Name:    EventAgentCommand,
		Status:  s,
		Command: s.command().String(),
	}
	for id := 0; id < o.nextListener; id++ {
		if fn, ok := o.listeners[id]; ok {
			fn(ev)
		}
	}
}
