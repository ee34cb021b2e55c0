package prompt

import (
	_ "embed"
	"fmt"
	"strings"

	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
)

var (
	//go:embed template/sales.txt
	salesRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Sales string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Sales: strings.TrimSpace(salesRaw),
	}
}

func (p PromptSet) Validate() error {
	if strings.TrimSpace(p.Sales) == "" {
		return fmt.Errorf("%w: sales prompt", contractx.ErrPromptMissing)
	}
	return nil
}
