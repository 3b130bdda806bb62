package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/jmakkonen/salespilot/agent/adapter"
	"github.com/jmakkonen/salespilot/agent/agents/domain"
	"github.com/jmakkonen/salespilot/agent/agents/orchestrator"
	contractx "github.com/jmakkonen/salespilot/agent/contract"
	emailx "github.com/jmakkonen/salespilot/agent/email"
	llmx "github.com/jmakkonen/salespilot/agent/llm"
	toolx "github.com/jmakkonen/salespilot/agent/tool"
	uix "github.com/jmakkonen/salespilot/agent/ui"
	"github.com/jmakkonen/salespilot/server"

	configx "github.com/jmakkonen/salespilot/pkg/config"
	composiox "github.com/jmakkonen/salespilot/pkg/composio"
	_ "github.com/jmakkonen/salespilot/pkg/logger/autoload"
	openrouterx "github.com/jmakkonen/salespilot/pkg/openrouter"
)

type AppConfig struct {
	// ComposioUserID is the external user identity gateway calls run under.
	ComposioUserID string `envconfig:"COMPOSIO_USER_ID" default:"default"`
	// UIModel overrides the default model for the widget agent.
	UIModel string `envconfig:"UI_MODEL"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")

	// The gateway is optional: without it every adapter runs in mock mode.
	var gateway adapter.Gateway
	if composioCfg, err := configx.New[composiox.Config]("COMPOSIO"); err != nil {
		log.Warn().Err(err).Msg("composio not configured, adapters will run in mock mode")
	} else if client, err := composiox.NewClient(*composioCfg); err != nil {
		log.Warn().Err(err).Msg("composio client init failed, adapters will run in mock mode")
	} else {
		gateway = client
	}

	crm := adapter.NewCRM(ctx, gateway, appCfg.ComposioUserID)
	docs := adapter.NewDocstore(ctx, gateway, appCfg.ComposioUserID)

	deps := toolx.Deps{
		CRM:     crm,
		Docs:    docs,
		Gateway: gateway,
		UserIDs: map[contractx.AgentType]string{
			contractx.AgentTypeCRM:      appCfg.ComposioUserID,
			contractx.AgentTypeMail:     appCfg.ComposioUserID,
			contractx.AgentTypeChat:     appCfg.ComposioUserID,
			contractx.AgentTypeCalendar: appCfg.ComposioUserID,
			contractx.AgentTypeResearch: appCfg.ComposioUserID,
		},
	}

	registry, err := domain.NewRegistry(ctx, *llmCfg, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("build agent registry")
	}

	orchestratorModelCfg := llmCfg.OpenRouterFor(contractx.AgentTypeOrchestrator)
	orchestratorModel, err := orchestratorModelCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create orchestrator model")
	}
	orch, err := orchestrator.New(ctx, orchestratorModel, registry)
	if err != nil {
		log.Fatal().Err(err).Msg("build orchestrator")
	}

	mailModelCfg := llmCfg.OpenRouterFor(contractx.AgentTypeMail)
	mailModel, err := mailModelCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("create drafting model")
	}
	drafter, err := emailx.NewDrafter(ctx, mailModel)
	if err != nil {
		log.Fatal().Err(err).Msg("build email drafter")
	}

	// The widget agent talks to the SDK directly rather than through a graph.
	var widget contractx.DomainAgent
	widgetModelCfg := llmCfg.OpenRouterFor(contractx.AgentTypeUI)
	if appCfg.UIModel != "" {
		widgetModelCfg.Model = appCfg.UIModel
	}
	if client := openrouterx.NewClient(widgetModelCfg); client != nil {
		widget, err = uix.NewWidgetAgent(client, widgetModelCfg.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("build widget agent")
		}
	} else {
		log.Warn().Msg("widget model not configured, ui endpoint disabled")
	}

	serverCfg := configx.MustNew[server.Config]("SERVER")
	srv, err := server.New(*serverCfg, orch, registry, widget, drafter)
	if err != nil {
		log.Fatal().Err(err).Msg("build http server")
	}

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("http server stopped")
	}
}
