package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/Design-Arena-Gens/agentic-34a61f83/agent/contract"
	openrouterx "github.com/Design-Arena-Gens/agentic-34a61f83/pkg/openrouter"
)

// Config is read with the OPENROUTER prefix and only needed by the LLM decider.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"1200"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.4"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`
	RequestsPerMinute  int           `envconfig:"REQUESTS_PER_MINUTE" split_words:"true" default:"30"`

	// SalesModel overrides Model for the sales decider when set.
	SalesModel       string  `envconfig:"SALES_MODEL" split_words:"true"`
	SalesTemperature float32 `envconfig:"SALES_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" && strings.TrimSpace(c.SalesModel) == "" {
		return fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be > 0", contractx.ErrValidation)
	}
	return nil
}

func (c Config) OpenRouter() openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	if v := strings.TrimSpace(c.SalesModel); v != "" {
		modelName = v
	}
	temp := c.Temperature
	if c.SalesTemperature >= 0 {
		temp = c.SalesTemperature
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
