// Package tool exposes catalog lookups to the LLM decider as callable tools.
package tool

import (
	"context"
	"fmt"
	"strings"

	catalogx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/catalog"
	"github.com/cloudwego/eino/schema"
)

const (
	ToolCatalogSearch = "catalog.search"
	ToolPriceQuote    = "price.quote"
)

// Result is what a tool call hands back to the model. Error is set instead of
// returning a Go error so the model can recover on its own.
type Result struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

type Executor func(ctx context.Context, tool string, args map[string]any) (Result, error)

type PriceQuote struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	Selling        int    `json:"selling"`
	DeliveryCharge int    `json:"delivery_charge"`
	Total          int    `json:"total"`
	Stock          int    `json:"stock"`
	LowStock       bool   `json:"low_stock"`
}

// Build returns the tool descriptions and an executor bound to c.
func Build(c *catalogx.Catalog) ([]*schema.ToolInfo, Executor) {
	return Infos(), NewExecutor(c)
}

func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolCatalogSearch,
			Desc: "Find catalog products mentioned in the customer's message. Returns product ids, benefits, sizes, colours and stock.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Customer wording, e.g. a product name or keyword", Required: true},
			}),
		},
		{
			Name: ToolPriceQuote,
			Desc: "Quote the selling price, delivery charge and total for a catalog product.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {Type: schema.String, Desc: "Catalog product id", Required: true},
			}),
		},
	}
}

func NewExecutor(c *catalogx.Catalog) Executor {
	if c == nil {
		c = catalogx.Default()
	}
	return func(ctx context.Context, tool string, args map[string]any) (Result, error) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		switch tool {
		case ToolCatalogSearch:
			return searchCatalog(c, tool, args), nil
		case ToolPriceQuote:
			return quotePrice(c, tool, args), nil
		default:
			return Result{Tool: tool, Error: fmt.Sprintf("tool=%s is unavailable", tool)}, nil
		}
	}
}

func searchCatalog(c *catalogx.Catalog, tool string, args map[string]any) Result {
	query, errMsg := stringArg(args, "query")
	if errMsg != "" {
		return Result{Tool: tool, Error: errMsg}
	}
	if p, ok := c.Match(query); ok {
		return Result{Tool: tool, Result: []catalogx.Product{p}}
	}
	// nothing matched: show the whole catalog so the model can suggest something
	return Result{Tool: tool, Result: c.Products()}
}

func quotePrice(c *catalogx.Catalog, tool string, args map[string]any) Result {
	id, errMsg := stringArg(args, "product_id")
	if errMsg != "" {
		return Result{Tool: tool, Error: errMsg}
	}
	p, ok := c.Get(id)
	if !ok {
		return Result{Tool: tool, Error: fmt.Sprintf("unknown product_id %q", id)}
	}
	price := catalogx.CalculateSellingPrice(p.BasePrice)
	return Result{
		Tool: tool,
		Result: PriceQuote{
			ProductID:      p.ID,
			Name:           p.Name,
			Selling:        price.Selling,
			DeliveryCharge: catalogx.DeliveryCharge,
			Total:          price.Total,
			Stock:          p.Stock,
			LowStock:       p.LowStock(),
		},
	}
}

func stringArg(args map[string]any, key string) (string, string) {
	raw, ok := args[key]
	if !ok {
		return "", key + " is required"
	}
	s, ok := raw.(string)
	if !ok {
		return "", key + " must be a string"
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", key + " is required"
	}
	return s, ""
}
