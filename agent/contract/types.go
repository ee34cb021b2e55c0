package contract

import (
	"time"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
	statex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/state"
)

type FollowUpRequest struct {
	Message string        `json:"message"`
	Delay   time.Duration `json:"delay"`
}

type DecisionMeta struct {
	Urgency  bool `json:"urgency,omitempty"`
	Scarcity bool `json:"scarcity,omitempty"`
}

type OrderSummary struct {
	Product catalogx.Product `json:"product"`
	Selling int              `json:"selling"`
	Total   int              `json:"total"`
}

// Decision is what a Decider proposes for one customer turn.
type Decision struct {
	Reply         string            `json:"reply"`
	Profile       statex.Profile    `json:"profile"`
	ActiveProduct *catalogx.Product `json:"active_product,omitempty"`
	Stage         statex.Stage      `json:"stage"`
	FollowUp      *FollowUpRequest  `json:"follow_up,omitempty"`
	Meta          *DecisionMeta     `json:"meta,omitempty"`
	OrderSummary  *OrderSummary     `json:"order_summary,omitempty"`
}

// Update extracts the memory delta carried by d.
func (d Decision) Update() statex.Update {
	return statex.Update{
		Profile:       d.Profile,
		ActiveProduct: d.ActiveProduct,
		Stage:         d.Stage,
		HasFollowUp:   d.FollowUp != nil,
	}
}
