package state

import (
	"errors"
	"fmt"
	"strings"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
)

// Stage is the point the sales conversation has reached. Progression is
// expected to move forward but is not enforced.
type Stage string

const (
	StageDiscovery   Stage = "discovery"
	StageInterested  Stage = "interested"
	StageNegotiating Stage = "negotiating"
	StageReady       Stage = "ready"
	StageOrdered     Stage = "ordered"
)

var ErrUnknownStage = errors.New("unknown conversation stage")

func (s Stage) Valid() bool {
	switch s {
	case StageDiscovery, StageInterested, StageNegotiating, StageReady, StageOrdered:
		return true
	default:
		return false
	}
}

// Terminal reports whether follow-ups are permanently suppressed once this stage is reached.
func (s Stage) Terminal() bool {
	return s == StageReady || s == StageOrdered
}

func ParseStage(raw string) (Stage, error) {
	st := Stage(strings.ToLower(strings.TrimSpace(raw)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStage, raw)
	}
	return st, nil
}

// Profile holds what the customer has shared so far. An empty field means the
// value is not known yet.
type Profile struct {
	Name    string `json:"name,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Size    string `json:"size,omitempty"`
	Color   string `json:"color,omitempty"`
}

func (p Profile) IsEmpty() bool {
	return p == Profile{}
}

// Memory is the conversation memory for one session.
type Memory struct {
	Profile           Profile           `json:"profile"`
	ActiveProduct     *catalogx.Product `json:"active_product,omitempty"`
	Stage             Stage             `json:"stage"`
	FollowUpScheduled bool              `json:"follow_up_scheduled"`
	FollowUpsSent     int               `json:"follow_ups_sent"`
	OrderConfirmed    bool              `json:"order_confirmed"`
}

func NewMemory() Memory {
	return Memory{Stage: StageDiscovery}
}

// Clone returns a copy that shares nothing mutable with m.
func (m Memory) Clone() Memory {
	if m.ActiveProduct != nil {
		p := m.ActiveProduct.Clone()
		m.ActiveProduct = &p
	}
	return m
}

func (m Memory) Validate() error {
	if !m.Stage.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStage, m.Stage)
	}
	if m.FollowUpsSent < 0 {
		return errors.New("follow ups sent must be >= 0")
	}
	return nil
}
