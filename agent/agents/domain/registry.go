package domain

import (
	"context"
	"fmt"

	contractx "github.com/jmakkonen/salespilot/agent/contract"
	llmx "github.com/jmakkonen/salespilot/agent/llm"
	toolx "github.com/jmakkonen/salespilot/agent/tool"
)

type registryImpl struct {
	crm      contractx.DomainAgent
	mail     contractx.DomainAgent
	chat     contractx.DomainAgent
	calendar contractx.DomainAgent
	research contractx.DomainAgent
}

func (r *registryImpl) CRM() contractx.DomainAgent      { return r.crm }
func (r *registryImpl) Mail() contractx.DomainAgent     { return r.mail }
func (r *registryImpl) Chat() contractx.DomainAgent     { return r.chat }
func (r *registryImpl) Calendar() contractx.DomainAgent { return r.calendar }
func (r *registryImpl) Research() contractx.DomainAgent { return r.research }

// NewRegistry builds the five domain agents, one model instance each so
// per-agent model overrides take effect.
func NewRegistry(ctx context.Context, cfg llmx.Config, deps toolx.Deps) (contractx.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	reg := &registryImpl{}
	for _, binding := range []struct {
		agentType contractx.AgentType
		target    *contractx.DomainAgent
	}{
		{contractx.AgentTypeCRM, &reg.crm},
		{contractx.AgentTypeMail, &reg.mail},
		{contractx.AgentTypeChat, &reg.chat},
		{contractx.AgentTypeCalendar, &reg.calendar},
		{contractx.AgentTypeResearch, &reg.research},
	} {
		modelCfg := cfg.OpenRouterFor(binding.agentType)
		chatModel, err := modelCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: create model for agent=%s: %v", contractx.ErrModelInvoke, binding.agentType, err)
		}

		infos, exec := toolx.BuildForAgent(binding.agentType, deps)
		agent, err := newAgent(binding.agentType, chatModel, Instructions(binding.agentType), infos, exec)
		if err != nil {
			return nil, err
		}
		*binding.target = agent
	}

	return reg, nil
}
