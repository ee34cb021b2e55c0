package catalog

import (
	"strings"
)

// Product is an item the agent can sell. Values are treated as immutable once
// they leave the catalog.
type Product struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	HeroStat  string   `json:"hero_stat,omitempty"`
	Benefits  []string `json:"benefits,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	BasePrice int      `json:"base_price"`
	Stock     int      `json:"stock"`
	Sizes     []string `json:"sizes,omitempty"`
	Colors    []string `json:"colors,omitempty"`
}

// LowStockThreshold marks the stock level below which replies carry a scarcity flag.
const LowStockThreshold = 10

func (p Product) LowStock() bool {
	return p.Stock > 0 && p.Stock < LowStockThreshold
}

// Clone returns a deep copy so callers can hand products across component boundaries.
func (p Product) Clone() Product {
	p.Benefits = append([]string(nil), p.Benefits...)
	p.Keywords = append([]string(nil), p.Keywords...)
	p.Sizes = append([]string(nil), p.Sizes...)
	p.Colors = append([]string(nil), p.Colors...)
	return p
}

var defaultProducts = []Product{
	{
		ID:       "urban-runner",
		Name:     "Urban Runner স্নিকার",
		HeroStat: "১২,০০০+ কাস্টমার ৪.৮★ রেটিং দিয়েছেন",
		Benefits: []string{
			"হালকা ওজনের ব্রিদেবল মেশ, সারাদিন আরাম",
			"অ্যান্টি-স্লিপ রাবার সোল",
			"৭ দিনের সহজ এক্সচেঞ্জ",
			"অরিজিনাল প্রোডাক্ট গ্যারান্টি",
		},
		Keywords:  []string{"জুতা", "জুতো", "স্নিকার", "shoe", "sneaker", "runner"},
		BasePrice: 2450,
		Stock:     7,
		Sizes:     []string{"39", "40", "41", "42", "43", "44"},
		Colors:    []string{"কালো", "সাদা", "নীল"},
	},
	{
		ID:       "classic-watch",
		Name:     "Classic Steel ঘড়ি",
		HeroStat: "ওয়াটার রেজিস্ট্যান্ট, ১ বছরের ওয়ারেন্টি",
		Benefits: []string{
			"স্টেইনলেস স্টিল বডি",
			"৩০ মিটার ওয়াটার রেজিস্ট্যান্ট",
			"গিফট বক্স সহ ডেলিভারি",
		},
		Keywords:  []string{"ঘড়ি", "watch"},
		BasePrice: 3200,
		Stock:     25,
		Colors:    []string{"সিলভার", "কালো", "গোল্ডেন"},
	},
	{
		ID:       "daily-backpack",
		Name:     "Daily Carry ব্যাকপ্যাক",
		HeroStat: "ল্যাপটপ কম্পার্টমেন্ট সহ ওয়াটারপ্রুফ",
		Benefits: []string{
			"১৫.৬ ইঞ্চি ল্যাপটপ স্লিভ",
			"ওয়াটারপ্রুফ ফ্যাব্রিক",
			"USB চার্জিং পোর্ট",
		},
		Keywords:  []string{"ব্যাগ", "ব্যাকপ্যাক", "bag", "backpack"},
		BasePrice: 1850,
		Stock:     4,
		Colors:    []string{"কালো", "ধূসর"},
	},
}

// Catalog is a read-only product lookup.
type Catalog struct {
	products []Product
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultProducts...)
}

func New(products ...Product) *Catalog {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, p.Clone())
	}
	return &Catalog{products: out}
}

// Products returns a copy of every product in catalog order.
func (c *Catalog) Products() []Product {
	if c == nil {
		return nil
	}
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p.Clone())
	}
	return out
}

func (c *Catalog) Get(id string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	id = strings.TrimSpace(id)
	for _, p := range c.products {
		if p.ID == id {
			return p.Clone(), true
		}
	}
	return Product{}, false
}

// Match returns the first product whose keyword appears in text (case-insensitive).
func (c *Catalog) Match(text string) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	lower := strings.ToLower(text)
	for _, p := range c.products {
		for _, kw := range p.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" && strings.Contains(lower, kw) {
				return p.Clone(), true
			}
		}
	}
	return Product{}, false
}
