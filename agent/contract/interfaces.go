package contract

import (
	"context"

	statex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/state"
)

// Decider maps the latest customer utterance and a snapshot of the memory to
// a reply. Implementations must treat memory as read-only.
type Decider interface {
	Decide(ctx context.Context, utterance string, memory statex.Memory) (Decision, error)
}

type DeciderFunc func(ctx context.Context, utterance string, memory statex.Memory) (Decision, error)

func (f DeciderFunc) Decide(ctx context.Context, utterance string, memory statex.Memory) (Decision, error) {
	return f(ctx, utterance, memory)
}
