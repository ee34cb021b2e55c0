package decision

import (
	"context"
	"errors"
	"testing"
	"time"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
	statex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/state"
)

func TestNewAdapterRequiresDecider(t *testing.T) {
	t.Parallel()

	if _, err := NewAdapter(nil, nil); !errors.Is(err, ErrNilDecider) {
		t.Fatalf("NewAdapter(nil) error = %v, want ErrNilDecider", err)
	}
}

func TestDecideNormalizes(t *testing.T) {
	t.Parallel()

	a, err := NewAdapter(contractx.DeciderFunc(func(ctx context.Context, utterance string, memory statex.Memory) (contractx.Decision, error) {
		return contractx.Decision{
			Reply:    "  ধন্যবাদ!  ",
			Stage:    " Negotiating ",
			Profile:  statex.Profile{Phone: " 01711000000 ", Name: "  "},
			FollowUp: &contractx.FollowUpRequest{Message: " still there? ", Delay: time.Minute},
		}, nil
	}), nil)
	if err != nil {
		t.Fatalf("NewAdapter() error = %v", err)
	}

	d, err := a.Decide(context.Background(), "hi", statex.NewMemory())
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if d.Reply != "ধন্যবাদ!" {
		t.Fatalf("Reply = %q", d.Reply)
	}
	if d.Stage != statex.StageNegotiating {
		t.Fatalf("Stage = %q", d.Stage)
	}
	if d.Profile.Phone != "01711000000" || d.Profile.Name != "" {
		t.Fatalf("Profile = %+v", d.Profile)
	}
	if d.FollowUp == nil || d.FollowUp.Message != "still there?" {
		t.Fatalf("FollowUp = %+v", d.FollowUp)
	}
}

func TestDecideWrapsDeciderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("rule engine offline")
	a, _ := NewAdapter(contractx.DeciderFunc(func(context.Context, string, statex.Memory) (contractx.Decision, error) {
		return contractx.Decision{}, boom
	}), nil)

	_, err := a.Decide(context.Background(), "hi", statex.NewMemory())
	if !errors.Is(err, contractx.ErrDecisionFailed) {
		t.Fatalf("error = %v, want ErrDecisionFailed", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped cause", err)
	}
}

func TestDecideRecoversPanic(t *testing.T) {
	t.Parallel()

	a, _ := NewAdapter(contractx.DeciderFunc(func(context.Context, string, statex.Memory) (contractx.Decision, error) {
		panic("nil map")
	}), nil)

	_, err := a.Decide(context.Background(), "hi", statex.NewMemory())
	if !errors.Is(err, contractx.ErrDecisionFailed) {
		t.Fatalf("error = %v, want ErrDecisionFailed", err)
	}
}

func TestDecideRejectsMalformed(t *testing.T) {
	t.Parallel()

	cases := map[string]contractx.Decision{
		"empty reply":     {Reply: "  ", Stage: statex.StageDiscovery},
		"unknown stage":   {Reply: "ok", Stage: "closing"},
		"follow-up text":  {Reply: "ok", Stage: statex.StageDiscovery, FollowUp: &contractx.FollowUpRequest{Delay: time.Second}},
		"follow-up delay": {Reply: "ok", Stage: statex.StageDiscovery, FollowUp: &contractx.FollowUpRequest{Message: "x"}},
		"product id":      {Reply: "ok", Stage: statex.StageDiscovery, ActiveProduct: &catalogx.Product{Name: "x"}},
	}
	for name, d := range cases {
		_, err := Normalize(d)
		if !errors.Is(err, contractx.ErrSchemaViolation) {
			t.Fatalf("%s: error = %v, want ErrSchemaViolation", name, err)
		}
	}
}

func TestDecidePassesPrivateMemoryCopy(t *testing.T) {
	t.Parallel()

	product := catalogx.Product{ID: "p1", Benefits: []string{"light"}}
	mem := statex.NewMemory()
	mem.ActiveProduct = &product

	a, _ := NewAdapter(contractx.DeciderFunc(func(ctx context.Context, utterance string, memory statex.Memory) (contractx.Decision, error) {
		memory.ActiveProduct.Benefits[0] = "mutated"
		memory.Profile.Name = "mutated"
		return contractx.Decision{Reply: "ok", Stage: statex.StageDiscovery}, nil
	}), nil)

	if _, err := a.Decide(context.Background(), "hi", mem); err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if product.Benefits[0] != "light" || mem.Profile.Name != "" {
		t.Fatal("decider mutated caller memory")
	}
}
