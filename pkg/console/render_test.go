package console

import (
	"bytes"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
	statex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/state"
	timelinex "github.com/Design-Arena-Gens/agentic-34a61f83/agent/timeline"
)

func TestThemeColors(t *testing.T) {
	theme := DefaultTheme()
	if string(theme.Agent) != "#6E56CF" {
		t.Errorf("Agent = %q", string(theme.Agent))
	}
	if string(theme.Off) != "9" {
		t.Errorf("Off = %q", string(theme.Off))
	}
}

func TestRenderMessage(t *testing.T) {
	t.Parallel()

	r := NewRenderer(&bytes.Buffer{}, DefaultTheme())
	at := time.Date(2025, 1, 1, 10, 30, 0, 0, time.UTC)
	shoe, _ := catalogx.Default().Get("urban-runner")

	agent := r.Message(timelinex.Message{
		Sender:    timelinex.SenderAgent,
		Text:      "অর্ডার রেডি",
		CreatedAt: at,
		Meta: &timelinex.Meta{
			Scarcity:     true,
			OrderSummary: &contractx.OrderSummary{Product: shoe, Selling: 2940, Total: 3060},
		},
	})
	for _, want := range []string{"10:30:00", "এজেন্ট", "অর্ডার রেডি", "স্টক সীমিত", "৳3060"} {
		if !strings.Contains(agent, want) {
			t.Fatalf("agent line missing %q:\n%s", want, agent)
		}
	}
	if strings.Contains(agent, "জরুরি") {
		t.Fatalf("urgency tag should be absent:\n%s", agent)
	}

	system := r.Message(timelinex.Message{Sender: timelinex.SenderSystem, Text: "Agent_Status এখন OFF", CreatedAt: at})
	if !strings.Contains(system, "Agent_Status এখন OFF") || strings.Contains(system, "কাস্টমার") {
		t.Fatalf("unexpected system line: %s", system)
	}
}

func TestRenderSnapshot(t *testing.T) {
	t.Parallel()

	r := NewRenderer(&bytes.Buffer{}, DefaultTheme())
	mem := statex.NewMemory()
	mem.Profile.Name = "রহিম"
	mem.Profile.Size = "42"
	bag, _ := catalogx.Default().Get("daily-backpack")
	mem.ActiveProduct = &bag

	out := r.Snapshot(mem, 2, 5)
	price := catalogx.CalculateSellingPrice(bag.BasePrice)
	for _, want := range []string{"রহিম", "42", "Daily Carry", "2/5", "discovery"} {
		if !strings.Contains(out, want) {
			t.Fatalf("snapshot missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "৳"+strconv.Itoa(price.Selling)) {
		t.Fatalf("snapshot missing selling price:\n%s", out)
	}
}

func TestPrintlnAndBadge(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewRenderer(&buf, DefaultTheme())
	r.Println(r.StatusBadge("on"))
	if !strings.Contains(buf.String(), "Agent_Status ON") {
		t.Fatalf("unexpected badge output: %q", buf.String())
	}
}

func TestInteractiveNonTerminal(t *testing.T) {
	t.Parallel()

	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	defer f.Close()
	if Interactive(f) {
		t.Fatal("regular file must not be interactive")
	}
	if Interactive(nil) {
		t.Fatal("nil file must not be interactive")
	}
}
