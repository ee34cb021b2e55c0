package catalog

import "testing"

func TestCalculateSellingPrice(t *testing.T) {
	t.Parallel()

	got := CalculateSellingPrice(2450)
	// 2450 + 20% = 2940, already a multiple of 10
	if got.Selling != 2940 {
		t.Fatalf("Selling = %d, want 2940", got.Selling)
	}
	if got.Total != 2940+DeliveryCharge {
		t.Fatalf("Total = %d, want %d", got.Total, 2940+DeliveryCharge)
	}

	rounded := CalculateSellingPrice(1855)
	// 1855 + 371 = 2226 -> 2230
	if rounded.Selling != 2230 {
		t.Fatalf("Selling = %d, want 2230", rounded.Selling)
	}
}

func TestCalculateSellingPriceNonPositive(t *testing.T) {
	t.Parallel()

	got := CalculateSellingPrice(0)
	if got.Selling != 0 || got.Total != DeliveryCharge {
		t.Fatalf("unexpected price: %+v", got)
	}
}

func TestCatalogMatchKeyword(t *testing.T) {
	t.Parallel()

	c := Default()
	p, ok := c.Match("আমি এই জুতাটা নিতে চাই")
	if !ok {
		t.Fatal("expected a product match")
	}
	if p.ID != "urban-runner" {
		t.Fatalf("matched %q, want urban-runner", p.ID)
	}

	if _, ok := c.Match("hello there"); ok {
		t.Fatal("expected no match for unrelated text")
	}
}

func TestCatalogReturnsCopies(t *testing.T) {
	t.Parallel()

	c := Default()
	p, ok := c.Get("urban-runner")
	if !ok {
		t.Fatal("expected product")
	}
	p.Benefits[0] = "mutated"

	again, _ := c.Get("urban-runner")
	if again.Benefits[0] == "mutated" {
		t.Fatal("catalog product was mutated through a returned copy")
	}
}

func TestProductLowStock(t *testing.T) {
	t.Parallel()

	if !(Product{Stock: 3}).LowStock() {
		t.Fatal("stock 3 should be low")
	}
	if (Product{Stock: 0}).LowStock() {
		t.Fatal("out of stock is not low stock")
	}
	if (Product{Stock: LowStockThreshold}).LowStock() {
		t.Fatal("threshold itself is not low stock")
	}
}
