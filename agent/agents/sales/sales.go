// Package sales is a Decider backed by a chat model. Each turn may first let
// the model call catalog tools, then asks it for a structured JSON decision.
package sales

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
	llmx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/llm"
	promptx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/prompt"
	statex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/state"
	toolx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/tool"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type turnRequest struct {
	Utterance string
	Memory    statex.Memory
}

type followUpOutput struct {
	Message string `json:"message"`
	DelayMs int64  `json:"delay_ms"`
}

type salesLLMOutput struct {
	Reply     string          `json:"reply"`
	Profile   statex.Profile  `json:"profile,omitempty"`
	ProductID string          `json:"product_id,omitempty"`
	Stage     string          `json:"stage"`
	FollowUp  *followUpOutput `json:"follow_up,omitempty"`
	Urgency   bool            `json:"urgency,omitempty"`
	Scarcity  bool            `json:"scarcity,omitempty"`
}

type Option func(*Decider)

func WithCatalog(c *catalogx.Catalog) Option {
	return func(d *Decider) {
		if c != nil {
			d.catalog = c
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(d *Decider) {
		d.logger = logger
	}
}

// WithRateLimit caps model calls per minute. Calls beyond the budget wait,
// bounded by the turn's context.
func WithRateLimit(perMinute int) Option {
	return func(d *Decider) {
		if perMinute > 0 {
			d.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 2)
		}
	}
}

type Decider struct {
	limiter          *rate.Limiter
	catalog          *catalogx.Catalog
	executor         toolx.Executor
	allowedTools     map[string]struct{}
	structuredRunner compose.Runnable[map[string]any, salesLLMOutput]
	toolRunner       compose.Runnable[map[string]any, *schema.Message]
	runtimeRunner    compose.Runnable[turnRequest, contractx.Decision]
	logger           zerolog.Logger
}

var _ contractx.Decider = (*Decider)(nil)

// NewFromConfig builds the OpenRouter chat model described by cfg and wraps it.
func NewFromConfig(ctx context.Context, cfg llmx.Config, opts ...Option) (*Decider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prompts := promptx.LoadPromptSet()
	if err := prompts.Validate(); err != nil {
		return nil, err
	}

	modelCfg := cfg.OpenRouter()
	chatModel, err := modelCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create sales model: %v", contractx.ErrModelInvoke, err)
	}
	opts = append([]Option{WithRateLimit(cfg.RequestsPerMinute)}, opts...)
	return New(ctx, chatModel, prompts.Sales, opts...)
}

func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	opts ...Option,
) (*Decider, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: sales system prompt", contractx.ErrPromptMissing)
	}

	d := &Decider{
		catalog: catalogx.Default(),
		logger:  log.With().Str("component", "sales").Logger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	structuredRunner, err := compileStructuredLLMGraph[salesLLMOutput](ctx, chatModel, systemPrompt, "sales.structured_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile structured sales graph: %v", contractx.ErrModelInvoke, err)
	}

	tools, executor := toolx.Build(d.catalog)
	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind sales tools: %v", contractx.ErrModelInvoke, err)
	}
	toolRunner, err := compileToolPlanningGraph(ctx, toolModel, systemPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: compile tool planner graph: %v", contractx.ErrModelInvoke, err)
	}

	d.allowedTools = make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t == nil || strings.TrimSpace(t.Name) == "" {
			continue
		}
		d.allowedTools[t.Name] = struct{}{}
	}
	d.executor = executor
	d.structuredRunner = structuredRunner
	d.toolRunner = toolRunner

	runtimeRunner, err := compileRuntimeGraph(ctx, d.runTools, d.runStructured)
	if err != nil {
		return nil, fmt.Errorf("%w: compile sales runtime graph: %v", contractx.ErrModelInvoke, err)
	}
	d.runtimeRunner = runtimeRunner

	return d, nil
}

func (d *Decider) Decide(ctx context.Context, utterance string, memory statex.Memory) (contractx.Decision, error) {
	return d.runtimeRunner.Invoke(ctx, turnRequest{
		Utterance: strings.TrimSpace(utterance),
		Memory:    memory,
	})
}

func (d *Decider) wait(ctx context.Context) error {
	if d.limiter == nil {
		return nil
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limit: %v", contractx.ErrModelInvoke, err)
	}
	return nil
}

func (d *Decider) payload(mode string, req turnRequest, toolResults []any) (string, error) {
	payload := map[string]any{
		"mode":      mode,
		"utterance": req.Utterance,
		"memory":    req.Memory,
	}
	if len(toolResults) > 0 {
		payload["tool_results"] = toolResults
	}
	input, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: marshal sales payload: %v", contractx.ErrValidation, err)
	}
	return string(input), nil
}

// runTools lets the model call catalog tools once. A plain text answer means
// no tool was needed.
func (d *Decider) runTools(ctx context.Context, req turnRequest) ([]any, error) {
	input, err := d.payload("act", req, nil)
	if err != nil {
		return nil, err
	}

	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	msg, err := d.toolRunner.Invoke(ctx, map[string]any{
		"input": input,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: tool planning invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil || len(msg.ToolCalls) == 0 {
		return nil, nil
	}

	results := make([]any, 0, len(msg.ToolCalls))
	for _, call := range msg.ToolCalls {
		name := strings.TrimSpace(call.Function.Name)
		if _, ok := d.allowedTools[name]; !ok {
			return nil, fmt.Errorf("%w: tool=%q is not allowed", contractx.ErrSchemaViolation, name)
		}

		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, name, err)
			}
		}

		res, err := d.executor(ctx, name, args)
		if err != nil {
			return nil, fmt.Errorf("execute tool=%s: %w", name, err)
		}
		d.logger.Debug().Str("tool", name).Str("tool_error", res.Error).Msg("sales tool executed")
		results = append(results, res)
	}
	return results, nil
}

func (d *Decider) runStructured(ctx context.Context, req turnRequest, toolResults []any) (contractx.Decision, error) {
	input, err := d.payload("reply", req, toolResults)
	if err != nil {
		return contractx.Decision{}, err
	}

	if err := d.wait(ctx); err != nil {
		return contractx.Decision{}, err
	}
	out, err := d.structuredRunner.Invoke(ctx, map[string]any{
		"input": input,
	})
	if err != nil {
		return contractx.Decision{}, fmt.Errorf("%w: sales invoke: %v", contractx.ErrModelInvoke, err)
	}
	return d.toDecision(out, req.Memory)
}

// toDecision maps model output onto the catalog. Prices always come from the
// catalog, never from the model.
func (d *Decider) toDecision(out salesLLMOutput, memory statex.Memory) (contractx.Decision, error) {
	reply := strings.TrimSpace(out.Reply)
	if reply == "" {
		return contractx.Decision{}, fmt.Errorf("%w: reply is empty", contractx.ErrSchemaViolation)
	}
	stage, err := statex.ParseStage(out.Stage)
	if err != nil {
		return contractx.Decision{}, fmt.Errorf("%w: %v", contractx.ErrSchemaViolation, err)
	}

	decision := contractx.Decision{
		Reply:   reply,
		Profile: statex.MergeProfile(statex.Profile{}, out.Profile),
		Stage:   stage,
	}

	product := memory.ActiveProduct
	if id := strings.TrimSpace(out.ProductID); id != "" {
		p, ok := d.catalog.Get(id)
		if !ok {
			return contractx.Decision{}, fmt.Errorf("%w: unknown product_id %q", contractx.ErrSchemaViolation, id)
		}
		product = &p
		decision.ActiveProduct = &p
	}

	if out.FollowUp != nil && !stage.Terminal() {
		if out.FollowUp.DelayMs <= 0 || strings.TrimSpace(out.FollowUp.Message) == "" {
			return contractx.Decision{}, fmt.Errorf("%w: follow_up needs message and positive delay_ms", contractx.ErrSchemaViolation)
		}
		decision.FollowUp = &contractx.FollowUpRequest{
			Message: strings.TrimSpace(out.FollowUp.Message),
			Delay:   time.Duration(out.FollowUp.DelayMs) * time.Millisecond,
		}
	}

	scarcity := out.Scarcity
	if product != nil {
		scarcity = scarcity || product.LowStock()
	}
	if out.Urgency || scarcity {
		decision.Meta = &contractx.DecisionMeta{Urgency: out.Urgency, Scarcity: scarcity}
	}

	if stage == statex.StageReady && product != nil {
		price := catalogx.CalculateSellingPrice(product.BasePrice)
		decision.OrderSummary = &contractx.OrderSummary{
			Product: product.Clone(),
			Selling: price.Selling,
			Total:   price.Total,
		}
	}
	return decision, nil
}
