package state

import (
	"strings"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
)

// Update is the memory-relevant part of a decision.
type Update struct {
	Profile       Profile
	ActiveProduct *catalogx.Product
	Stage         Stage
	HasFollowUp   bool
}

// MergeProfile overlays delta on prev field by field. A field in delta only
// wins when it is present, so known values are never cleared.
func MergeProfile(prev, delta Profile) Profile {
	out := prev
	out.Name = pick(prev.Name, delta.Name)
	out.Phone = pick(prev.Phone, delta.Phone)
	out.Address = pick(prev.Address, delta.Address)
	out.Size = pick(prev.Size, delta.Size)
	out.Color = pick(prev.Color, delta.Color)
	return out
}

func pick(prev, next string) string {
	if v := strings.TrimSpace(next); v != "" {
		return v
	}
	return prev
}

// Apply returns the memory that results from applying u to prev. prev is not modified.
func Apply(prev Memory, u Update) Memory {
	next := prev.Clone()
	next.Profile = MergeProfile(prev.Profile, u.Profile)
	if u.ActiveProduct != nil {
		p := u.ActiveProduct.Clone()
		next.ActiveProduct = &p
	}
	next.Stage = u.Stage
	next.FollowUpScheduled = u.Stage != StageReady && u.HasFollowUp
	next.OrderConfirmed = prev.OrderConfirmed || u.Stage == StageReady
	return next
}

// RecordFollowUp accounts for one delivered reminder.
func RecordFollowUp(prev Memory, moreRemaining bool) Memory {
	next := prev.Clone()
	next.FollowUpsSent++
	next.FollowUpScheduled = moreRemaining
	return next
}
