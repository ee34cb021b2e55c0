package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	orchestratorx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/agents/orchestrator"
	rulesx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/agents/rules"
	salesx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/agents/sales"
	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
	llmx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/llm"
	timelinex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/timeline"
	configx "github.com/Design-Arena-Gens/agentic-34a61f83/pkg/config"
	consolex "github.com/Design-Arena-Gens/agentic-34a61f83/pkg/console"
	_ "github.com/Design-Arena-Gens/agentic-34a61f83/pkg/logger/autoload"
	"github.com/rs/zerolog/log"
)

const (
	deciderRules = "rules"
	deciderLLM   = "llm"
)

type AppConfig struct {
	Decider         string        `envconfig:"DECIDER" default:"rules"`
	ReplyDelayMin   time.Duration `envconfig:"REPLY_DELAY_MIN" default:"1s"`
	ReplyDelayMax   time.Duration `envconfig:"REPLY_DELAY_MAX" default:"3s"`
	FollowUpCadence time.Duration `envconfig:"FOLLOW_UP_CADENCE" default:"45s"`
	MaxFollowUps    int           `envconfig:"MAX_FOLLOW_UPS" default:"5"`
	TurnPolicy      string        `envconfig:"TURN_POLICY" default:"queue"`
	InitialStatus   string        `envconfig:"INITIAL_STATUS" default:"ON"`
	FollowUpDelay   time.Duration `envconfig:"FOLLOW_UP_DELAY" default:"2m"`
}

func (c AppConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Decider)) {
	case deciderRules, deciderLLM:
	default:
		return fmt.Errorf("%w: decider must be %q or %q, got %q", contractx.ErrValidation, deciderRules, deciderLLM, c.Decider)
	}
	if c.ReplyDelayMin <= 0 || c.ReplyDelayMax < c.ReplyDelayMin {
		return fmt.Errorf("%w: reply delay range [%s, %s) is invalid", contractx.ErrValidation, c.ReplyDelayMin, c.ReplyDelayMax)
	}
	if c.MaxFollowUps <= 0 {
		return fmt.Errorf("%w: max follow-ups must be > 0", contractx.ErrValidation)
	}
	if _, err := orchestratorx.ParseTurnPolicy(c.TurnPolicy); err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}
	if _, err := orchestratorx.ParseStatus(c.InitialStatus); err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrValidation, err)
	}
	return nil
}

func (c AppConfig) Orchestrator() orchestratorx.Config {
	policy, _ := orchestratorx.ParseTurnPolicy(c.TurnPolicy)
	status, _ := orchestratorx.ParseStatus(c.InitialStatus)
	return orchestratorx.Config{
		InitialStatus:   status,
		TurnPolicy:      policy,
		ReplyDelayMin:   c.ReplyDelayMin,
		ReplyDelayMax:   c.ReplyDelayMax,
		FollowUpCadence: c.FollowUpCadence,
		MaxFollowUps:    c.MaxFollowUps,
		Greeting:        orchestratorx.DefaultGreeting,
	}
}

func newDecider(ctx context.Context, appCfg AppConfig, catalog *catalogx.Catalog) (contractx.Decider, error) {
	if strings.EqualFold(strings.TrimSpace(appCfg.Decider), deciderLLM) {
		llmCfg, err := configx.New[llmx.Config]("OPENROUTER")
		if err != nil {
			return nil, err
		}
		return salesx.NewFromConfig(ctx, *llmCfg, salesx.WithCatalog(catalog))
	}
	return rulesx.New(
		rulesx.WithCatalog(catalog),
		rulesx.WithFollowUpDelay(appCfg.FollowUpDelay),
	), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("AGENT")
	catalog := catalogx.Default()

	decider, err := newDecider(ctx, *appCfg, catalog)
	if err != nil {
		log.Fatal().Err(err).Str("decider", appCfg.Decider).Msg("failed to initialize decider")
	}

	session, err := orchestratorx.New(decider, appCfg.Orchestrator())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start session")
	}
	defer session.Close()

	renderer := consolex.NewRenderer(os.Stdout, consolex.DefaultTheme())
	session.OnMessage(func(m timelinex.Message) {
		renderer.Println(renderer.Message(m))
	})
	session.Subscribe(func(ev orchestratorx.StatusEvent) {
		log.Info().Str("event", ev.Name).Str("command", ev.Command).Msg("agent status broadcast")
	})

	for _, m := range session.Messages() {
		renderer.Println(renderer.Message(m))
	}
	interactive := consolex.Interactive(os.Stdin)
	if interactive {
		renderer.Println(renderer.StatusBadge(string(session.Status())) + "  " +
			"লিখুন: AI ON / AI OFF, /on, /off, /status, /quit")
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				waitIdle(ctx, session)
				return
			}
			if !handleLine(session, renderer, line, interactive) {
				return
			}
		}
	}
}

// handleLine returns false when the user asks to quit.
func handleLine(session *orchestratorx.Orchestrator, renderer *consolex.Renderer, line string, interactive bool) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "/quit", "/exit":
		return false
	case "/status":
		mem := session.Memory()
		renderer.Println(renderer.StatusBadge(string(session.Status())))
		renderer.Println(renderer.Snapshot(mem, mem.FollowUpsSent, session.MaxFollowUps()))
		if due, ok := session.FollowUpDue(); ok {
			renderer.Println(fmt.Sprintf("পরের ফলো-আপ: %s", due.Format("15:04:05")))
		}
		return true
	case "/on", "/off":
		status := orchestratorx.StatusOn
		if strings.EqualFold(strings.TrimSpace(line), "/off") {
			status = orchestratorx.StatusOff
		}
		if err := session.SetStatus(status); err != nil {
			log.Error().Err(err).Msg("set status failed")
		}
		renderer.Println(renderer.StatusBadge(string(session.Status())))
		return true
	}

	outcome, err := session.Submit(line)
	if err != nil {
		log.Error().Err(err).Msg("submit failed")
		return true
	}
	if !interactive {
		return true
	}
	switch outcome {
	case orchestratorx.OutcomeAwaiting:
		renderer.Println(renderer.Thinking())
	case orchestratorx.OutcomeQueued:
		renderer.Println(renderer.Thinking() + fmt.Sprintf(" (%d অপেক্ষমাণ)", session.Queued()))
	case orchestratorx.OutcomeCommand:
		renderer.Println(renderer.StatusBadge(string(session.Status())))
	}
	return true
}

// waitIdle lets pending replies land after stdin closes. Follow-ups are not awaited.
func waitIdle(ctx context.Context, session *orchestratorx.Orchestrator) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for session.State() != orchestratorx.Idle || session.Queued() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
