package orchestrator

import (
	"fmt"
	"strings"
)

// TurnState is Idle between customer turns and AwaitingReply while a
// simulated typing delay is pending.
type TurnState int

const (
	Idle TurnState = iota
	AwaitingReply
)

func (s TurnState) String() string {
	if s == AwaitingReply {
		return "awaiting_reply"
	}
	return "idle"
}

// TurnPolicy decides what happens to an inquiry submitted while a reply is pending.
type TurnPolicy string

const (
	// TurnQueue defers the inquiry until the pending reply is delivered.
	TurnQueue TurnPolicy = "queue"
	// TurnReject drops the inquiry with a system notice.
	TurnReject TurnPolicy = "reject"
	// TurnRace starts an independent reply timer; replies land in firing order.
	TurnRace TurnPolicy = "race"
)

func ParseTurnPolicy(raw string) (TurnPolicy, error) {
	switch p := TurnPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case TurnQueue, TurnReject, TurnRace:
		return p, nil
	case "":
		return TurnQueue, nil
	default:
		return "", fmt.Errorf("invalid turn policy %q", raw)
	}
}

// Outcome reports how Submit routed the input.
type Outcome int

const (
	OutcomeIgnored Outcome = iota
	OutcomeCommand
	OutcomeSuppressed
	OutcomeAwaiting
	OutcomeQueued
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCommand:
		return "command"
	case OutcomeSuppressed:
		return "suppressed"
	case OutcomeAwaiting:
		return "awaiting"
	case OutcomeQueued:
		return "queued"
	case OutcomeRejected:
		return "rejected"
	default:
		return "ignored"
	}
}
