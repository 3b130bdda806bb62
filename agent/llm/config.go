package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/jmakkonen/salespilot/agent/contract"
	openrouterx "github.com/jmakkonen/salespilot/pkg/openrouter"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	OrchestratorModel       string  `envconfig:"ORCHESTRATOR_MODEL" split_words:"true"`
	CRMModel                string  `envconfig:"CRM_MODEL" split_words:"true"`
	MailModel               string  `envconfig:"MAIL_MODEL" split_words:"true"`
	ChatModel               string  `envconfig:"CHAT_MODEL" split_words:"true"`
	CalendarModel           string  `envconfig:"CALENDAR_MODEL" split_words:"true"`
	ResearchModel           string  `envconfig:"RESEARCH_MODEL" split_words:"true"`
	OrchestratorTemperature float32 `envconfig:"ORCHESTRATOR_TEMPERATURE" split_words:"true" default:"-1"`
	DomainTemperature       float32 `envconfig:"DOMAIN_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: model api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override := ""
	switch agentType {
	case contractx.AgentTypeOrchestrator:
		override = c.OrchestratorModel
		if c.OrchestratorTemperature >= 0 {
			temp = c.OrchestratorTemperature
		}
	case contractx.AgentTypeCRM:
		override = c.CRMModel
	case contractx.AgentTypeMail:
		override = c.MailModel
	case contractx.AgentTypeChat:
		override = c.ChatModel
	case contractx.AgentTypeCalendar:
		override = c.CalendarModel
	case contractx.AgentTypeResearch:
		override = c.ResearchModel
	}
	if v := strings.TrimSpace(override); v != "" {
		modelName = v
	}
	if agentType != contractx.AgentTypeOrchestrator && c.DomainTemperature >= 0 {
		temp = c.DomainTemperature
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
