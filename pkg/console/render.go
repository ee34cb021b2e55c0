// Package console renders the session transcript and customer snapshot for a terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
	statex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/state"
	timelinex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/timeline"
	"github.com/charmbracelet/lipgloss"
)

// Renderer writes formatted lines to out. It is safe for concurrent use so
// timer callbacks and the input loop can share it.
type Renderer struct {
	mu     sync.Mutex
	out    io.Writer
	styles Styles
}

func NewRenderer(out io.Writer, theme Theme) *Renderer {
	return &Renderer{out: out, styles: NewStyles(theme)}
}

func (r *Renderer) Println(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, s)
}

// Message formats one timeline entry.
func (r *Renderer) Message(m timelinex.Message) string {
	stamp := r.styles.Muted.Render(m.CreatedAt.Format("15:04:05"))

	var label string
	switch m.Sender {
	case timelinex.SenderAgent:
		label = r.styles.Agent.Render("এজেন্ট")
	case timelinex.SenderCustomer:
		label = r.styles.Customer.Render("কাস্টমার")
	default:
		return fmt.Sprintf("%s %s", stamp, r.styles.System.Render("• "+m.Text))
	}

	line := fmt.Sprintf("%s %s: %s", stamp, label, m.Text)
	if tags := r.tags(m.Meta); tags != "" {
		line += " " + tags
	}
	if m.Meta != nil && m.Meta.OrderSummary != nil {
		s := m.Meta.OrderSummary
		line += "\n" + r.styles.Panel.Render(fmt.Sprintf("%s\nসেলিং প্রাইস ৳%d\nডেলিভারি ৳%d\nমোট ৳%d",
			s.Product.Name, s.Selling, catalogx.DeliveryCharge, s.Total))
	}
	return line
}

func (r *Renderer) tags(meta *timelinex.Meta) string {
	if meta == nil {
		return ""
	}
	var tags []string
	if meta.Urgency {
		tags = append(tags, r.styles.Tag.Render("[জরুরি]"))
	}
	if meta.Scarcity {
		tags = append(tags, r.styles.Tag.Render("[স্টক সীমিত]"))
	}
	return strings.Join(tags, " ")
}

// StatusBadge shows the agent status, e.g. for the prompt line.
func (r *Renderer) StatusBadge(status string) string {
	style := r.styles.Off
	if strings.EqualFold(status, "ON") {
		style = r.styles.On
	}
	return r.styles.Badge.Inherit(style).Render("Agent_Status " + strings.ToUpper(status))
}

func (r *Renderer) Thinking() string {
	return r.styles.Muted.Render("এজেন্ট টাইপ করছে...")
}

// Snapshot renders the customer memory panel.
func (r *Renderer) Snapshot(mem statex.Memory, attempts, maxAttempts int) string {
	orUnknown := func(v string) string {
		if v == "" {
			return r.styles.Muted.Render("—")
		}
		return v
	}

	rows := []string{
		r.styles.Title.Render("কাস্টমার স্ন্যাপশট"),
		"নাম: " + orUnknown(mem.Profile.Name),
		"ফোন: " + orUnknown(mem.Profile.Phone),
		"ঠিকানা: " + orUnknown(mem.Profile.Address),
		"সাইজ/কালার: " + orUnknown(strings.Trim(mem.Profile.Size+" / "+mem.Profile.Color, " /")),
		"স্টেজ: " + string(mem.Stage),
	}
	if p := mem.ActiveProduct; p != nil {
		price := catalogx.CalculateSellingPrice(p.BasePrice)
		rows = append(rows,
			fmt.Sprintf("প্রোডাক্ট: %s (৳%d + ডেলিভারি ৳%d)", p.Name, price.Selling, catalogx.DeliveryCharge),
			fmt.Sprintf("স্টক: %d", p.Stock),
		)
	}
	rows = append(rows,
		fmt.Sprintf("ফলো-আপ: %d/%d পাঠানো", attempts, maxAttempts),
		fmt.Sprintf("অর্ডার কনফার্ম: %t", mem.OrderConfirmed),
	)
	return r.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
