package timeline

import (
	"testing"
	"time"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
	clockx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/clock"
	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
)

func TestAppendPreservesOrder(t *testing.T) {
	t.Parallel()

	clk := clockx.NewFake(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	tl := New(clk)

	tl.Append(SenderSystem, "hello", nil)
	clk.Advance(time.Second)
	tl.Append(SenderCustomer, "hi", nil)
	tl.Append(SenderAgent, "how can I help", nil)

	msgs := tl.Messages()
	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	for i, m := range msgs {
		if m.Seq != i+1 {
			t.Fatalf("message %d has seq %d", i, m.Seq)
		}
		if m.ID == "" {
			t.Fatalf("message %d has empty id", i)
		}
	}
	if msgs[1].Text != "hi" || msgs[1].Sender != SenderCustomer {
		t.Fatalf("unexpected second message: %+v", msgs[1])
	}
	if !msgs[1].CreatedAt.Equal(clk.Now()) {
		t.Fatalf("CreatedAt = %v, want %v", msgs[1].CreatedAt, clk.Now())
	}
	if msgs[0].ID == msgs[1].ID || msgs[1].ID == msgs[2].ID {
		t.Fatal("message ids must be unique")
	}
	if tl.Count(SenderAgent) != 1 || tl.Count(SenderCustomer) != 1 {
		t.Fatal("unexpected sender counts")
	}
}

func TestMessagesAreImmutableCopies(t *testing.T) {
	t.Parallel()

	tl := New(nil)
	tl.Append(SenderAgent, "order", &Meta{
		Urgency: true,
		OrderSummary: &contractx.OrderSummary{
			Product: catalogx.Product{ID: "p1", Benefits: []string{"light"}},
			Selling: 100,
			Total:   220,
		},
	})

	msgs := tl.Messages()
	msgs[0].Text = "changed"
	msgs[0].Meta.Urgency = false
	msgs[0].Meta.OrderSummary.Product.Benefits[0] = "heavy"

	last, ok := tl.Last()
	if !ok {
		t.Fatal("expected last message")
	}
	if last.Text != "order" || !last.Meta.Urgency {
		t.Fatalf("stored message mutated: %+v", last)
	}
	if last.Meta.OrderSummary.Product.Benefits[0] != "light" {
		t.Fatal("stored order summary mutated")
	}
}

func TestSubscribeAndCancel(t *testing.T) {
	t.Parallel()

	tl := New(nil)
	var seen []string
	cancel := tl.Subscribe(func(m Message) {
		seen = append(seen, m.Text)
	})

	tl.Append(SenderCustomer, "one", nil)
	cancel()
	tl.Append(SenderCustomer, "two", nil)

	if len(seen) != 1 || seen[0] != "one" {
		t.Fatalf("seen = %v, want [one]", seen)
	}
}
