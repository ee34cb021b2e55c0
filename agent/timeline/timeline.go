// Package timeline keeps the ordered message log of a console session.
package timeline

import (
	"sync"
	"time"

	clockx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/clock"
	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
	"github.com/google/uuid"
)

type Sender string

const (
	SenderAgent    Sender = "agent"
	SenderCustomer Sender = "customer"
	SenderSystem   Sender = "system"
)

// Meta is optional display metadata attached to a message.
type Meta struct {
	Urgency      bool                    `json:"urgency,omitempty"`
	Scarcity     bool                    `json:"scarcity,omitempty"`
	OrderSummary *contractx.OrderSummary `json:"order_summary,omitempty"`
}

func (m *Meta) clone() *Meta {
	if m == nil {
		return nil
	}
	out := *m
	if m.OrderSummary != nil {
		summary := *m.OrderSummary
		summary.Product = summary.Product.Clone()
		out.OrderSummary = &summary
	}
	return &out
}

// Message is immutable once appended. Seq is the 1-based append position and
// defines display order.
type Message struct {
	ID        string    `json:"id"`
	Seq       int       `json:"seq"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Meta      *Meta     `json:"meta,omitempty"`
}

func (m Message) clone() Message {
	m.Meta = m.Meta.clone()
	return m
}

type Timeline struct {
	mu       sync.RWMutex
	clock    clockx.Clock
	messages []Message
	subs     map[int]func(Message)
	nextSub  int
}

func New(clock clockx.Clock) *Timeline {
	if clock == nil {
		clock = clockx.Real()
	}
	return &Timeline{
		clock:    clock,
		messages: make([]Message, 0, 32),
		subs:     make(map[int]func(Message)),
	}
}

// Append records a message and notifies subscribers in registration order.
func (t *Timeline) Append(sender Sender, text string, meta *Meta) Message {
	t.mu.Lock()
	msg := Message{
		ID:        newID(),
		Seq:       len(t.messages) + 1,
		Sender:    sender,
		Text:      text,
		CreatedAt: t.clock.Now(),
		Meta:      meta.clone(),
	}
	t.messages = append(t.messages, msg)
	subs := t.subscribersLocked()
	t.mu.Unlock()

	for _, fn := range subs {
		fn(msg.clone())
	}
	return msg.clone()
}

func (t *Timeline) Messages() []Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Message, 0, len(t.messages))
	for _, m := range t.messages {
		out = append(out, m.clone())
	}
	return out
}

func (t *Timeline) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Count returns how many messages sender has in the log.
func (t *Timeline) Count(sender Sender) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, m := range t.messages {
		if m.Sender == sender {
			n++
		}
	}
	return n
}

func (t *Timeline) Last() (Message, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.messages) == 0 {
		return Message{}, false
	}
	return t.messages[len(t.messages)-1].clone(), true
}

// Subscribe registers fn for every later append. The returned func removes it.
func (t *Timeline) Subscribe(fn func(Message)) func() {
	if fn == nil {
		return func() {}
	}
	t.mu.Lock()
	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}

func (t *Timeline) subscribersLocked() []func(Message) {
	if len(t.subs) == 0 {
		return nil
	}
	out := make([]func(Message), 0, len(t.subs))
	for id := 0; id < t.nextSub; id++ {
		if fn, ok := t.subs[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
