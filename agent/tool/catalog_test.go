package tool

import (
	"context"
	"testing"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	infos, executor := Build(catalogx.Default())
	if len(infos) != 2 {
		t.Fatalf("expected 2 tool infos, got %d", len(infos))
	}
	if infos[0].Name != ToolCatalogSearch {
		t.Fatalf("unexpected first tool: %s", infos[0].Name)
	}
	if infos[1].Name != ToolPriceQuote {
		t.Fatalf("unexpected second tool: %s", infos[1].Name)
	}
	if executor == nil {
		t.Fatal("executor must not be nil")
	}
}

func TestExecutorUnknownTool(t *testing.T) {
	t.Parallel()

	out, err := NewExecutor(nil)(context.Background(), "inventory.query", map[string]any{"query": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Tool != "inventory.query" || out.Error == "" {
		t.Fatalf("expected unavailable error, got %+v", out)
	}
}

func TestCatalogSearch(t *testing.T) {
	t.Parallel()

	executor := NewExecutor(catalogx.Default())
	out, err := executor(context.Background(), ToolCatalogSearch, map[string]any{"query": "একটা ব্যাগ চাই"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	products, ok := out.Result.([]catalogx.Product)
	if !ok || len(products) != 1 || products[0].ID != "daily-backpack" {
		t.Fatalf("unexpected search result: %#v", out.Result)
	}

	out, _ = executor(context.Background(), ToolCatalogSearch, map[string]any{"query": "laptop"})
	products, _ = out.Result.([]catalogx.Product)
	if len(products) != len(catalogx.Default().Products()) {
		t.Fatalf("expected full catalog on miss, got %d", len(products))
	}

	out, _ = executor(context.Background(), ToolCatalogSearch, map[string]any{"query": 42})
	if out.Error != "query must be a string" {
		t.Fatalf("unexpected error: %q", out.Error)
	}
}

func TestPriceQuote(t *testing.T) {
	t.Parallel()

	executor := NewExecutor(catalogx.Default())
	out, err := executor(context.Background(), ToolPriceQuote, map[string]any{"product_id": "urban-runner"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	quote, ok := out.Result.(PriceQuote)
	if !ok {
		t.Fatalf("unexpected result type %T", out.Result)
	}
	want := catalogx.CalculateSellingPrice(2450)
	if quote.Selling != want.Selling || quote.Total != want.Total || !quote.LowStock {
		t.Fatalf("unexpected quote: %+v", quote)
	}

	out, _ = executor(context.Background(), ToolPriceQuote, map[string]any{"product_id": "nope"})
	if out.Error == "" {
		t.Fatal("expected error for unknown product")
	}
	out, _ = executor(context.Background(), ToolPriceQuote, map[string]any{})
	if out.Error != "product_id is required" {
		t.Fatalf("unexpected error: %q", out.Error)
	}
}
