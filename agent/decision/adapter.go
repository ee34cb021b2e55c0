// Package decision wraps an external Decider: it invokes it once per turn and
// normalizes the result so that malformed output never reaches the session.
package decision

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
	statex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/state"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var ErrNilDecider = errors.New("decider is required")

type Adapter struct {
	decider contractx.Decider
	logger  zerolog.Logger
}

func NewAdapter(decider contractx.Decider, logger *zerolog.Logger) (*Adapter, error) {
	if decider == nil {
		return nil, ErrNilDecider
	}
	l := log.With().Str("component", "decision").Logger()
	if logger != nil {
		l = *logger
	}
	return &Adapter{decider: decider, logger: l}, nil
}

// Decide calls the decider with a private copy of memory. Errors, panics and
// malformed decisions are reported as errors wrapping contract.ErrDecisionFailed.
func (a *Adapter) Decide(ctx context.Context, utterance string, memory statex.Memory) (d contractx.Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error().Interface("panic", r).Msg("decider panicked")
			d = contractx.Decision{}
			err = fmt.Errorf("%w: panic: %v", contractx.ErrDecisionFailed, r)
		}
	}()

	raw, err := a.decider.Decide(ctx, utterance, memory.Clone())
	if err != nil {
		return contractx.Decision{}, fmt.Errorf("%w: %w", contractx.ErrDecisionFailed, err)
	}

	out, err := Normalize(raw)
	if err != nil {
		return contractx.Decision{}, fmt.Errorf("%w: %w", contractx.ErrDecisionFailed, err)
	}
	return out, nil
}

// Normalize trims text fields and rejects decisions the session cannot apply.
func Normalize(d contractx.Decision) (contractx.Decision, error) {
	d.Reply = strings.TrimSpace(d.Reply)
	if d.Reply == "" {
		return contractx.Decision{}, fmt.Errorf("%w: reply is empty", contractx.ErrSchemaViolation)
	}

	stage, err := statex.ParseStage(string(d.Stage))
	if err != nil {
		return contractx.Decision{}, fmt.Errorf("%w: %v", contractx.ErrSchemaViolation, err)
	}
	d.Stage = stage

	d.Profile = statex.MergeProfile(statex.Profile{}, d.Profile)

	if d.ActiveProduct != nil {
		p := d.ActiveProduct.Clone()
		if strings.TrimSpace(p.ID) == "" {
			return contractx.Decision{}, fmt.Errorf("%w: active product has no id", contractx.ErrSchemaViolation)
		}
		d.ActiveProduct = &p
	}

	if d.FollowUp != nil {
		fu := *d.FollowUp
		fu.Message = strings.TrimSpace(fu.Message)
		if fu.Message == "" {
			return contractx.Decision{}, fmt.Errorf("%w: follow-up message is empty", contractx.ErrSchemaViolation)
		}
		if fu.Delay <= 0 {
			return contractx.Decision{}, fmt.Errorf("%w: follow-up delay must be > 0", contractx.ErrSchemaViolation)
		}
		d.FollowUp = &fu
	}

	if d.OrderSummary != nil {
		summary := *d.OrderSummary
		summary.Product = summary.Product.Clone()
		d.OrderSummary = &summary
	}
	if d.Meta != nil {
		meta := *d.Meta
		d.Meta = &meta
	}
	return d, nil
}
