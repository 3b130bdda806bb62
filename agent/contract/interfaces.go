package contract

import "context"

// DomainAgent binds one external system's policy and a bounded operation
// set. Invoke receives an enriched, self-contained instruction.
type DomainAgent interface {
	Type() AgentType
	Invoke(ctx context.Context, prompt string) (AgentReply, error)
}

type Registry interface {
	CRM() DomainAgent
	Mail() DomainAgent
	Chat() DomainAgent
	Calendar() DomainAgent
	Research() DomainAgent
}
