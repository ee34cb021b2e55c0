package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	clockx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/clock"
	commandx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/command"
	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
	decisionx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/decision"
	followupx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/followup"
	statex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/state"
	timelinex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/timeline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	ErrSessionClosed = errors.New("session is closed")
	ErrNilDecider    = decisionx.ErrNilDecider
)

const (
	DefaultReplyDelayMin = 1000 * time.Millisecond
	DefaultReplyDelayMax = 3000 * time.Millisecond

	// DefaultGreeting is the opening system line shown by the console.
	DefaultGreeting = "হ্যালো! আমি আপনার ২৪/৭ AI সেলস পার্টনার। কাস্টমারের প্রশ্ন লিখে পাঠান, আমি CARE মেথডে উত্তর দেবো।"
	suppressedText  = "Agent_Status OFF থাকায় এই মেসেজে ইচ্ছাকৃতভাবে কোনো রিপ্লাই পাঠানো হয়নি।"
	busyText        = "আগের মেসেজের রিপ্লাই তৈরি হচ্ছে, একটু পরে আবার পাঠান।"
	failureText     = "দুঃখিত, এই মুহূর্তে রিপ্লাই তৈরি করা যায়নি। আবার চেষ্টা করুন। (%s)"
)

type Config struct {
	InitialStatus   Status
	TurnPolicy      TurnPolicy
	ReplyDelayMin   time.Duration
	ReplyDelayMax   time.Duration
	FollowUpCadence time.Duration
	MaxFollowUps    int
	Greeting        string
}

type Option func(*Orchestrator)

func WithClock(c clockx.Clock) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.baseClock = c
		}
	}
}

// WithRand sets the source for the simulated typing delay.
func WithRand(r *rand.Rand) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.rng = r
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator runs one customer session. Every mutation, whether from
// Submit, SetStatus or a timer callback, happens while holding mu, so the
// callbacks behave like events on a single-threaded queue.
type Orchestrator struct {
	mu sync.Mutex

	baseClock clockx.Clock
	clock     clockx.Clock
	rng       *rand.Rand
	logger    zerolog.Logger

	adapter   *decisionx.Adapter
	timeline  *timelinex.Timeline
	followUps *followupx.Scheduler

	memory statex.Memory
	status Status
	policy TurnPolicy

	delayMin time.Duration
	delayMax time.Duration

	pending  map[uint64]clockx.Timer
	nextTurn uint64
	queue    []string

	listeners    map[int]func(StatusEvent)
	nextListener int

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

func New(decider contractx.Decider, cfg Config, opts ...Option) (*Orchestrator, error) {
	if decider == nil {
		return nil, ErrNilDecider
	}

	status := StatusOn
	if cfg.InitialStatus != "" {
		parsed, err := ParseStatus(string(cfg.InitialStatus))
		if err != nil {
			return nil, fmt.Errorf("invalid initial status: %w", err)
		}
		status = parsed
	}

	policy, err := ParseTurnPolicy(string(cfg.TurnPolicy))
	if err != nil {
		return nil, err
	}

	delayMin, delayMax := cfg.ReplyDelayMin, cfg.ReplyDelayMax
	if delayMin <= 0 {
		delayMin = DefaultReplyDelayMin
	}
	if delayMax <= 0 {
		delayMax = DefaultReplyDelayMax
	}
	if delayMax < delayMin {
		return nil, fmt.Errorf("reply delay max %s is below min %s", delayMax, delayMin)
	}

	o := &Orchestrator{
		baseClock: clockx.Real(),
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:    log.With().Str("component", "orchestrator").Logger(),
		memory:    statex.NewMemory(),
		status:    status,
		policy:    policy,
		delayMin:  delayMin,
		delayMax:  delayMax,
		pending:   make(map[uint64]clockx.Timer, 1),
		listeners: make(map[int]func(StatusEvent)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	adapter, err := decisionx.NewAdapter(decider, &o.logger)
	if err != nil {
		return nil, err
	}
	o.adapter = adapter
	o.clock = clockx.Serialized(o.baseClock, &o.mu)
	o.timeline = timelinex.New(o.baseClock)
	o.followUps = followupx.New(o.clock, o.deliverFollowUp,
		followupx.WithMaxAttempts(cfg.MaxFollowUps),
		followupx.WithCadence(cfg.FollowUpCadence),
		followupx.WithLogger(o.logger),
	)
	o.ctx, o.cancel = context.WithCancel(context.Background())

	if greeting := strings.TrimSpace(cfg.Greeting); greeting != "" {
		o.timeline.Append(timelinex.SenderSystem, greeting, nil)
	}
	return o, nil
}

// Submit handles one line of console input. Blank input is ignored without
// touching any state.
func (o *Orchestrator) Submit(raw string) (Outcome, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return OutcomeIgnored, ErrSessionClosed
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		return OutcomeIgnored, nil
	}

	o.timeline.Append(timelinex.SenderCustomer, text, nil)

	if cmd := commandx.Parse(text); cmd != commandx.None {
		o.setStatusLocked(statusFor(cmd))
		o.timeline.Append(timelinex.SenderSystem, cmd.Confirmation(), nil)
		return OutcomeCommand, nil
	}

	if o.status == StatusOff {
		o.timeline.Append(timelinex.SenderSystem, suppressedText, nil)
		return OutcomeSuppressed, nil
	}

	if len(o.pending) > 0 {
		switch o.policy {
		case TurnQueue:
			o.queue = append(o.queue, text)
			o.logger.Debug().Int("queued", len(o.queue)).Msg("inquiry queued behind pending reply")
			return OutcomeQueued, nil
		case TurnReject:
			o.timeline.Append(timelinex.SenderSystem, busyText, nil)
			return OutcomeRejected, nil
		}
	}

	o.startTurnLocked(text)
	return OutcomeAwaiting, nil
}

// Close cancels pending reply and follow-up timers. Later calls to Submit
// return ErrSessionClosed.
func (o *Orchestrator) Close() {
	o.cancel()

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.closed = true
	for id, t := range o.pending {
		t.Stop()
		delete(o.pending, id)
	}
	o.queue = nil
	o.followUps.Cancel()
	o.logger.Debug().Msg("session closed")
}

func (o *Orchestrator) startTurnLocked(text string) {
	o.nextTurn++
	id := o.nextTurn
	delay := o.replyDelay()
	o.pending[id] = o.clock.AfterFunc(delay, func() {
		o.completeTurn(id, text)
	})
	o.logger.Debug().Uint64("turn", id).Dur("delay", delay).Msg("reply scheduled")
}

// replyDelay draws uniformly from [delayMin, delayMax).
func (o *Orchestrator) replyDelay() time.Duration {
	span := o.delayMax - o.delayMin
	if span <= 0 {
		return o.delayMin
	}
	return o.delayMin + time.Duration(o.rng.Int64N(int64(span)))
}

// completeTurn runs on the serialized clock.
func (o *Orchestrator) completeTurn(id uint64, text string) {
	if o.closed {
		return
	}
	if _, ok := o.pending[id]; !ok {
		return
	}
	delete(o.pending, id)

	o.respondLocked(id, text)

	if o.policy == TurnQueue && len(o.pending) == 0 && len(o.queue) > 0 && !o.closed {
		next := o.queue[0]
		o.queue = o.queue[1:]
		o.startTurnLocked(next)
	}
}

func (o *Orchestrator) respondLocked(id uint64, text string) {
	d, err := o.adapter.Decide(o.ctx, text, o.memory)
	if err != nil {
		o.logger.Error().Err(err).Uint64("turn", id).Msg("decision failed")
		o.timeline.Append(timelinex.SenderSystem, fmt.Sprintf(failureText, err.Error()), nil)
		return
	}

	o.memory = statex.Apply(o.memory, d.Update())
	terminal := d.Stage.Terminal()
	if terminal {
		o.followUps.Exhaust()
	}

	o.timeline.Append(timelinex.SenderAgent, d.Reply, metaFor(d))

	if d.FollowUp != nil && !terminal {
		o.followUps.Schedule(followupx.Payload{
			Message: d.FollowUp.Message,
			Delay:   d.FollowUp.Delay,
		})
	}
	o.logger.Debug().
		Uint64("turn", id).
		Str("stage", string(d.Stage)).
		Bool("follow_up", d.FollowUp != nil).
		Msg("reply delivered")
}

// deliverFollowUp runs on the serialized clock.
func (o *Orchestrator) deliverFollowUp(r followupx.Reminder) {
	if o.closed {
		return
	}
	o.timeline.Append(timelinex.SenderAgent, r.Message, nil)
	o.memory = statex.RecordFollowUp(o.memory, r.More)
}

func metaFor(d contractx.Decision) *timelinex.Meta {
	if d.Meta == nil && d.OrderSummary == nil {
		return nil
	}
	meta := &timelinex.Meta{OrderSummary: d.OrderSummary}
	if d.Meta != nil {
		meta.Urgency = d.Meta.Urgency
		meta.Scarcity = d.Meta.Scarcity
	}
	return meta
}

/* ------------------------------ Read access ------------------------------ */

func (o *Orchestrator) Memory() statex.Memory {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.memory.Clone()
}

func (o *Orchestrator) Messages() []timelinex.Message {
	return o.timeline.Messages()
}

// OnMessage registers fn for every timeline append. fn runs on the session's
// serialized context and must not call back into the Orchestrator.
func (o *Orchestrator) OnMessage(fn func(timelinex.Message)) func() {
	return o.timeline.Subscribe(fn)
}

func (o *Orchestrator) State() TurnState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.pending) > 0 {
		return AwaitingReply
	}
	return Idle
}

// Thinking reports whether a typing indicator should be shown.
func (o *Orchestrator) Thinking() bool {
	return o.State() == AwaitingReply
}

func (o *Orchestrator) Queued() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.queue)
}

func (o *Orchestrator) FollowUpAttempts() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.followUps.Attempts()
}

func (o *Orchestrator) MaxFollowUps() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.followUps.MaxAttempts()
}

func (o *Orchestrator) FollowUpDue() (time.Time, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.followUps.ArmedUntil()
}
