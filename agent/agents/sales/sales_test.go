package sales

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
	statex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/state"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
	inputs    [][]*schema.Message
	tools     []*schema.ToolInfo
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	f.tools = tools
	return f, nil
}

func newTestDecider(t *testing.T, fake *fakeToolCallingModel) *Decider {
	t.Helper()
	d, err := New(context.Background(), fake, "sales prompt", WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func lastUserContent(input []*schema.Message) string {
	for i := len(input) - 1; i >= 0; i-- {
		if input[i].Role == schema.User {
			return input[i].Content
		}
	}
	return ""
}

func TestDecideWithToolCall(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{ID: "c1", Function: schema.FunctionCall{Name: "price.quote", Arguments: `{"product_id":"urban-runner"}`}},
				},
			},
			{
				Role:    schema.Assistant,
				Content: `{"reply":"Urban Runner এর দাম ২৯৪০ টাকা। সাইজ কত?","product_id":"urban-runner","stage":"negotiating","profile":{"name":" রহিম "},"follow_up":{"message":"অর্ডারটা কনফার্ম করবেন?","delay_ms":120000},"urgency":true}`,
			},
		},
	}
	d := newTestDecider(t, fake)

	out, err := d.Decide(context.Background(), "জুতার দাম কত?", statex.NewMemory())
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}

	if len(fake.tools) != 2 {
		t.Fatalf("expected catalog tools to be bound, got %d", len(fake.tools))
	}
	if len(fake.inputs) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(fake.inputs))
	}
	second := lastUserContent(fake.inputs[1])
	if !strings.Contains(second, `"mode":"reply"`) || !strings.Contains(second, `"tool_results"`) {
		t.Fatalf("expected tool results in reply payload: %s", second)
	}

	if out.Stage != statex.StageNegotiating {
		t.Fatalf("unexpected stage: %s", out.Stage)
	}
	if out.ActiveProduct == nil || out.ActiveProduct.ID != "urban-runner" {
		t.Fatalf("unexpected product: %+v", out.ActiveProduct)
	}
	if out.Profile.Name != "রহিম" {
		t.Fatalf("expected trimmed name, got %q", out.Profile.Name)
	}
	if out.FollowUp == nil || out.FollowUp.Delay != 2*time.Minute {
		t.Fatalf("unexpected follow-up: %+v", out.FollowUp)
	}
	if out.Meta == nil || !out.Meta.Urgency || !out.Meta.Scarcity {
		t.Fatalf("expected urgency from model and scarcity from stock, got %+v", out.Meta)
	}
}

func TestDecideWithoutToolCall(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant, Content: ""},
			{Role: schema.Assistant, Content: `{"reply":"আসসালামু আলাইকুম! কী খুঁজছেন?","stage":"discovery","follow_up":{"message":"কোনো প্রশ্ন?","delay_ms":60000}}`},
		},
	}
	d := newTestDecider(t, fake)

	out, err := d.Decide(context.Background(), "হ্যালো", statex.NewMemory())
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if out.Stage != statex.StageDiscovery || out.ActiveProduct != nil || out.Meta != nil {
		t.Fatalf("unexpected decision: %+v", out)
	}
	if strings.Contains(lastUserContent(fake.inputs[1]), "tool_results") {
		t.Fatal("no tool results expected")
	}
}

func TestDecideReadyBuildsOrderSummaryFromCatalog(t *testing.T) {
	t.Parallel()

	shoe, _ := catalogx.Default().Get("urban-runner")
	mem := statex.NewMemory()
	mem.ActiveProduct = &shoe
	mem.Stage = statex.StageNegotiating

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Role: schema.Assistant},
			{Role: schema.Assistant, Content: `{"reply":"অর্ডার রেডি!","stage":"ready","follow_up":{"message":"x","delay_ms":1000}}`},
		},
	}
	d := newTestDecider(t, fake)

	out, err := d.Decide(context.Background(), "সাইজ ৪২", mem)
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if out.FollowUp != nil {
		t.Fatal("ready stage must drop follow-up")
	}
	want := catalogx.CalculateSellingPrice(shoe.BasePrice)
	if out.OrderSummary == nil || out.OrderSummary.Selling != want.Selling || out.OrderSummary.Total != want.Total {
		t.Fatalf("unexpected order summary: %+v", out.OrderSummary)
	}
}

func TestDecideSchemaViolations(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty reply":     `{"reply":"  ","stage":"discovery"}`,
		"unknown stage":   `{"reply":"hi","stage":"browsing"}`,
		"unknown product": `{"reply":"hi","stage":"interested","product_id":"rocket"}`,
		"bad follow-up":   `{"reply":"hi","stage":"interested","follow_up":{"message":"x","delay_ms":0}}`,
	}
	for name, content := range cases {
		fake := &fakeToolCallingModel{
			responses: []*schema.Message{
				{Role: schema.Assistant},
				{Role: schema.Assistant, Content: content},
			},
		}
		d := newTestDecider(t, fake)
		_, err := d.Decide(context.Background(), "hi", statex.NewMemory())
		if !errors.Is(err, contractx.ErrSchemaViolation) {
			t.Fatalf("%s: expected ErrSchemaViolation, got %v", name, err)
		}
	}
}

func TestDecideRejectsUnknownTool(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				Role: schema.Assistant,
				ToolCalls: []schema.ToolCall{
					{ID: "c1", Function: schema.FunctionCall{Name: "math.evaluate", Arguments: `{"expression":"1+1"}`}},
				},
			},
		},
	}
	d := newTestDecider(t, fake)

	_, err := d.Decide(context.Background(), "hi", statex.NewMemory())
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
}

func TestDecideModelFailure(t *testing.T) {
	t.Parallel()

	d := newTestDecider(t, &fakeToolCallingModel{err: errors.New("boom")})
	_, err := d.Decide(context.Background(), "hi", statex.NewMemory())
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestDecideRejectsBlankUtterance(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{}
	d := newTestDecider(t, fake)
	_, err := d.Decide(context.Background(), "   ", statex.NewMemory())
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if len(fake.inputs) != 0 {
		t.Fatal("model must not be called for blank input")
	}
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), nil, "p"); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := New(context.Background(), &fakeToolCallingModel{}, " "); !errors.Is(err, contractx.ErrPromptMissing) {
		t.Fatalf("expected ErrPromptMissing, got %v", err)
	}
}

func TestDecideRateLimitHonoursContext(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{}
	d, err := New(context.Background(), fake, "sales prompt", WithLogger(zerolog.Nop()), WithRateLimit(1))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Decide(ctx, "hi", statex.NewMemory()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if len(fake.inputs) != 0 {
		t.Fatal("model must not be called once the context is done")
	}
}
