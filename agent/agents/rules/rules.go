// Package rules is a keyword-driven Decider that builds CARE-style replies
// (context, assurance, relatability, engagement) from the product catalog.
package rules

import (
	"context"
	"fmt"
	"strings"
	"time"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
	statex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/state"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultFollowUpDelay = 2 * time.Minute

type Option func(*Decider)

func WithCatalog(c *catalogx.Catalog) Option {
	return func(d *Decider) {
		if c != nil {
			d.catalog = c
		}
	}
}

func WithFollowUpDelay(delay time.Duration) Option {
	return func(d *Decider) {
		if delay > 0 {
			d.followUpDelay = delay
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(d *Decider) {
		d.logger = logger
	}
}

type Decider struct {
	catalog       *catalogx.Catalog
	followUpDelay time.Duration
	logger        zerolog.Logger
}

var _ contractx.Decider = (*Decider)(nil)

func New(opts ...Option) *Decider {
	d := &Decider{
		catalog:       catalogx.Default(),
		followUpDelay: DefaultFollowUpDelay,
		logger:        log.With().Str("component", "rules").Logger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// turn is the working set for one utterance.
type turn struct {
	text     string
	memory   statex.Memory
	product  *catalogx.Product
	profile  statex.Profile
	delta    statex.Profile
	buy      bool
	confirm  bool
	asksCost bool
}

func (d *Decider) Decide(ctx context.Context, utterance string, memory statex.Memory) (contractx.Decision, error) {
	if err := ctx.Err(); err != nil {
		return contractx.Decision{}, err
	}
	text := strings.TrimSpace(utterance)
	if text == "" {
		return contractx.Decision{}, fmt.Errorf("%w: utterance is empty", contractx.ErrValidation)
	}

	t := turn{
		text:     text,
		memory:   memory,
		product:  memory.ActiveProduct,
		buy:      containsAny(text, buyWords),
		confirm:  containsAny(text, confirmWords),
		asksCost: containsAny(text, priceWords),
	}
	if p, ok := d.catalog.Match(text); ok {
		t.product = &p
	}
	t.delta = extractProfile(text, t.product)
	t.profile = statex.MergeProfile(memory.Profile, t.delta)

	stage := d.nextStage(t)
	out := contractx.Decision{
		Reply:   d.reply(t, stage),
		Profile: t.delta,
		Stage:   stage,
	}
	if t.product != nil {
		p := t.product.Clone()
		out.ActiveProduct = &p
		if p.LowStock() || t.buy || t.asksCost {
			out.Meta = &contractx.DecisionMeta{
				Urgency:  t.buy || t.asksCost,
				Scarcity: p.LowStock(),
			}
		}
		if stage == statex.StageReady {
			price := catalogx.CalculateSellingPrice(p.BasePrice)
			out.OrderSummary = &contractx.OrderSummary{Product: p, Selling: price.Selling, Total: price.Total}
		}
	}
	if !stage.Terminal() {
		out.FollowUp = &contractx.FollowUpRequest{
			Message: followUpText(t.product, stage),
			Delay:   d.followUpDelay,
		}
	}

	d.logger.Debug().
		Str("stage", string(stage)).
		Bool("buy", t.buy).
		Bool("product", t.product != nil).
		Strs("missing", missingFields(t.product, t.profile)).
		Msg("rules decision")
	return out, nil
}

func (d *Decider) nextStage(t turn) statex.Stage {
	switch t.memory.Stage {
	case statex.StageOrdered:
		return statex.StageOrdered
	case statex.StageReady:
		if t.confirm || t.buy {
			return statex.StageOrdered
		}
		return statex.StageReady
	}

	if t.product == nil {
		return statex.StageDiscovery
	}
	engaged := t.buy || !t.delta.IsEmpty() || t.memory.Stage == statex.StageNegotiating
	if !engaged {
		return statex.StageInterested
	}
	if len(missingFields(t.product, t.profile)) == 0 {
		return statex.StageReady
	}
	return statex.StageNegotiating
}

// missingFields lists the order details still needed, in the order they are asked.
func missingFields(product *catalogx.Product, p statex.Profile) []string {
	var missing []string
	if p.Name == "" {
		missing = append(missing, "name")
	}
	if p.Phone == "" {
		missing = append(missing, "phone")
	}
	if p.Address == "" {
		missing = append(missing, "address")
	}
	if product != nil && len(product.Sizes) > 0 && p.Size == "" {
		missing = append(missing, "size")
	}
	if product != nil && len(product.Colors) > 0 && p.Color == "" {
		missing = append(missing, "color")
	}
	return missing
}

var fieldLabels = map[string]string{
	"name":    "আপনার নাম",
	"phone":   "মোবাইল নাম্বার",
	"address": "ডেলিভারি ঠিকানা",
	"size":    "সাইজ",
	"color":   "কালার",
}

func (d *Decider) reply(t turn, stage statex.Stage) string {
	switch stage {
	case statex.StageOrdered:
		if t.memory.Stage == statex.StageOrdered {
			return "আপনার অর্ডার ইতিমধ্যে কনফার্ম হয়েছে। ডেলিভারি টিম শীঘ্রই যোগাযোগ করবে। আর কিছু লাগলে জানাবেন!"
		}
		return fmt.Sprintf("ধন্যবাদ %s! আপনার অর্ডার কনফার্ম হয়েছে। ২-৩ কার্যদিবসের মধ্যে ডেলিভারি পাবেন।", nameOr(t.profile, "প্রিয় কাস্টমার"))
	}
	if stage == statex.StageDiscovery || t.product == nil {
		return d.discoveryReply()
	}

	p := t.product
	price := catalogx.CalculateSellingPrice(p.BasePrice)
	var b strings.Builder

	// context
	if t.asksCost {
		fmt.Fprintf(&b, "%s এর দাম মাত্র ৳%d (ডেলিভারি চার্জ ৳%d)।", p.Name, price.Selling, catalogx.DeliveryCharge)
	} else {
		fmt.Fprintf(&b, "দারুণ চয়েস! %s আমাদের সবচেয়ে জনপ্রিয় আইটেমগুলোর একটি।", p.Name)
	}
	// assurance
	if p.HeroStat != "" {
		fmt.Fprintf(&b, " %s।", strings.TrimSuffix(p.HeroStat, "।"))
	}
	if len(p.Benefits) > 0 && stage != statex.StageReady {
		fmt.Fprintf(&b, " %s।", strings.TrimSuffix(p.Benefits[0], "।"))
	}
	// relatability
	if p.LowStock() {
		fmt.Fprintf(&b, " স্টকে মাত্র %dটি বাকি আছে।", p.Stock)
	}

	// engagement
	switch stage {
	case statex.StageInterested:
		b.WriteString(" অর্ডার করতে চাইলে জানাবেন, আমি সব ঠিক করে দেবো।")
	case statex.StageNegotiating:
		missing := missingFields(p, t.profile)
		labels := make([]string, 0, len(missing))
		for _, f := range missing {
			labels = append(labels, fieldLabels[f])
		}
		fmt.Fprintf(&b, " অর্ডার কনফার্ম করতে %s জানাবেন?", strings.Join(labels, ", "))
	case statex.StageReady:
		fmt.Fprintf(&b, " অর্ডার সামারি: %s", p.Name)
		if t.profile.Size != "" {
			fmt.Fprintf(&b, ", সাইজ %s", t.profile.Size)
		}
		if t.profile.Color != "" {
			fmt.Fprintf(&b, ", %s", t.profile.Color)
		}
		fmt.Fprintf(&b, "। মোট ৳%d (ডেলিভারি সহ), ক্যাশ অন ডেলিভারি। ঠিকানা: %s। কনফার্ম করতে \"কনফার্ম\" লিখুন।", price.Total, t.profile.Address)
	}
	return b.String()
}

func (d *Decider) discoveryReply() string {
	products := d.catalog.Products()
	names := make([]string, 0, len(products))
	for _, p := range products {
		names = append(names, p.Name)
	}
	if len(names) == 0 {
		return "আসসালামু আলাইকুম! কীভাবে সাহায্য করতে পারি?"
	}
	return fmt.Sprintf("আসসালামু আলাইকুম! আমাদের কাছে আছে %s। কোনটি সম্পর্কে জানতে চান?", strings.Join(names, ", "))
}

func followUpText(product *catalogx.Product, stage statex.Stage) string {
	if product == nil {
		return "আমাদের নতুন কালেকশন দেখেছেন? কোনো প্রশ্ন থাকলে জানাবেন, আমি আছি!"
	}
	if stage == statex.StageNegotiating {
		return fmt.Sprintf("%s এর অর্ডারটা কি কনফার্ম করবো? বাকি তথ্যগুলো দিলেই আজই পাঠিয়ে দিতে পারি।", product.Name)
	}
	return fmt.Sprintf("%s নিয়ে কোনো প্রশ্ন আছে? স্টক শেষ হওয়ার আগে অর্ডার করে ফেলুন!", product.Name)
}

func nameOr(p statex.Profile, fallback string) string {
	if p.Name != "" {
		return p.Name
	}
	return fallback
}
