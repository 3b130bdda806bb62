// Package orchestrator is the routing core. It classifies a request by
// letting the model plan over one tool per domain agent, runs the planned
// calls serially, and folds the results into a single reply.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/jmakkonen/salespilot/agent/contract"
	uix "github.com/jmakkonen/salespilot/agent/ui"
)

// maxRoutingRounds bounds how many plan/execute cycles one request may take.
const maxRoutingRounds = 4

const systemPrompt = `You are the routing core of a natural-language sales assistant.

You can delegate work to these agents, each through its tool:
- hubspot_agent: CRM companies, contacts, deals, and notes
- gmail_agent: reading, drafting, and sending email
- slack_agent: workspace messaging
- calendar_agent: scheduling and managing events
- data_agent: web research and the document store, including ICP qualification

RULES:
1. Anything that reads or writes CRM records goes through hubspot_agent. Never answer CRM questions from memory.
2. Dependent steps run in order: finish the call that produces an id or fact before the call that consumes it.
3. Give each agent one complete, self-contained prompt. Include the relevant extracted entities; the agent sees nothing else of this conversation.
4. Pure conversation (greetings, questions about your own abilities) gets a direct answer with no tool calls.
5. When an agent reports a failure, tell the user what failed and why. Never report success that did not happen.`

// Orchestrator routes requests to domain agents and shapes the final reply.
type Orchestrator struct {
	registry contractx.Registry
	model    einomodel.BaseChatModel

	graphRunner compose.Runnable[contractx.Request, contractx.AgentReply]
}

func New(ctx context.Context, chatModel einomodel.ToolCallingChatModel, registry contractx.Registry) (*Orchestrator, error) {
	if chatModel == nil {
		return nil, errors.New("routing model is required")
	}
	if registry == nil {
		return nil, errors.New("agent registry is required")
	}

	boundModel, err := chatModel.WithTools(routingTools())
	if err != nil {
		return nil, fmt.Errorf("%w: bind routing tools: %v", contractx.ErrModelInvoke, err)
	}

	o := &Orchestrator{
		registry: registry,
		model:    boundModel,
	}

	graphRunner, err := o.compileRouteGraph(ctx)
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Route handles one request end to end. The reply carries either prose or a
// widget payload, never both.
func (o *Orchestrator) Route(ctx context.Context, req contractx.Request) (contractx.AgentReply, error) {
	return o.graphRunner.Invoke(ctx, req)
}

type graphState struct {
	Req      contractx.Request
	Enriched string
}

func (o *Orchestrator) compileRouteGraph(ctx context.Context) (compose.Runnable[contractx.Request, contractx.AgentReply], error) {
	graph := compose.NewGraph[contractx.Request, contractx.AgentReply]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, req contractx.Request) (*graphState, error) {
			if strings.TrimSpace(req.Text) == "" {
				return nil, fmt.Errorf("%w: request text is empty", contractx.ErrValidation)
			}
			return &graphState{Req: req}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("enrich_request",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			in.Enriched = BuildEnrichedPrompt(in.Req.Text, ExtractEntities(in.Req.Text))
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node enrich_request: %w", err)
	}

	if err := graph.AddLambdaNode("route_request",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (string, error) {
			return o.runRoutingLoop(ctx, in.Enriched)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node route_request: %w", err)
	}

	if err := graph.AddLambdaNode("format_reply",
		compose.InvokableLambda(func(ctx context.Context, text string) (contractx.AgentReply, error) {
			return uix.Format(text), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node format_reply: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "enrich_request"},
		{"enrich_request", "route_request"},
		{"route_request", "format_reply"},
		{"format_reply", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.route"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}

// runRoutingLoop is the plan/execute cycle. Domain agent calls run serially
// in the order the model emits them so dependent steps see earlier results.
func (o *Orchestrator) runRoutingLoop(ctx context.Context, enriched string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(enriched),
	}

	for round := 0; round < maxRoutingRounds; round++ {
		msg, err := o.model.Generate(ctx, messages)
		if err != nil {
			return "", fmt.Errorf("%w: routing generate: %v", contractx.ErrModelInvoke, err)
		}
		if msg == nil {
			return "", fmt.Errorf("%w: routing model returned no message", contractx.ErrSchemaViolation)
		}

		if len(msg.ToolCalls) == 0 {
			content := strings.TrimSpace(msg.Content)
			if content == "" {
				return "", fmt.Errorf("%w: routing reply is empty", contractx.ErrSchemaViolation)
			}
			return content, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			result := o.dispatch(ctx, call, enriched)
			messages = append(messages, schema.ToolMessage(result, call.ID))
		}
	}

	return "", fmt.Errorf("%w: routing did not converge within %d rounds", contractx.ErrModelInvoke, maxRoutingRounds)
}

// dispatch runs one delegated call. Agent failures come back as failure
// records, not errors, so the model can explain them to the user.
func (o *Orchestrator) dispatch(ctx context.Context, call schema.ToolCall, fallbackPrompt string) string {
	toolName := strings.TrimSpace(call.Function.Name)

	agent, agentType, ok := o.agentForTool(toolName)
	if !ok {
		record := contractx.NewFailureRecord(contractx.AgentTypeOrchestrator, "UnsupportedOperation",
			fmt.Errorf("%w: unknown agent tool %q", contractx.ErrUnsupported, toolName))
		return marshalRecord(record)
	}

	prompt := fallbackPrompt
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		var args struct {
			Prompt string `json:"prompt"`
		}
		if err := json.Unmarshal([]byte(raw), &args); err == nil && strings.TrimSpace(args.Prompt) != "" {
			prompt = args.Prompt
		}
	}

	log.Info().Str("agent", string(agentType)).Msg("dispatching to domain agent")

	reply, err := agent.Invoke(ctx, prompt)
	if err != nil {
		log.Warn().Err(err).Str("agent", string(agentType)).Msg("domain agent failed")
		return marshalRecord(contractx.NewFailureRecord(agentType, contractx.ErrorKind(err), err))
	}

	payload, err := json.Marshal(map[string]any{"success": true, "message": reply.Message})
	if err != nil {
		return marshalRecord(contractx.NewFailureRecord(agentType, "UnhandledException", err))
	}
	return string(payload)
}

func (o *Orchestrator) agentForTool(toolName string) (contractx.DomainAgent, contractx.AgentType, bool) {
	switch toolName {
	case "hubspot_agent":
		return o.registry.CRM(), contractx.AgentTypeCRM, true
	case "gmail_agent":
		return o.registry.Mail(), contractx.AgentTypeMail, true
	case "slack_agent":
		return o.registry.Chat(), contractx.AgentTypeChat, true
	case "calendar_agent":
		return o.registry.Calendar(), contractx.AgentTypeCalendar, true
	case "data_agent":
		return o.registry.Research(), contractx.AgentTypeResearch, true
	default:
		return nil, "", false
	}
}

func marshalRecord(record contractx.FailureRecord) string {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":%q,"error_kind":"UnhandledException","agent":%q}`, err.Error(), record.Agent)
	}
	return string(payload)
}

func routingTools() []*schema.ToolInfo {
	promptParam := func(desc string) *schema.ParamsOneOf {
		return schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
			"prompt": {Type: schema.String, Desc: desc, Required: true},
		})
	}

	return []*schema.ToolInfo{
		{
			Name:        "hubspot_agent",
			Desc:        "Delegate CRM work: search, create, and annotate companies, contacts, and deals.",
			ParamsOneOf: promptParam("Complete instruction for the CRM agent"),
		},
		{
			Name:        "gmail_agent",
			Desc:        "Delegate email work: read, draft, and send messages.",
			ParamsOneOf: promptParam("Complete instruction for the email agent"),
		},
		{
			Name:        "slack_agent",
			Desc:        "Delegate workspace messaging: DMs, channels, and message history.",
			ParamsOneOf: promptParam("Complete instruction for the messaging agent"),
		},
		{
			Name:        "calendar_agent",
			Desc:        "Delegate scheduling: create, find, update, and delete events.",
			ParamsOneOf: promptParam("Complete instruction for the calendar agent"),
		},
		{
			Name:        "data_agent",
			Desc:        "Delegate research and document work: web search, pages, ICP qualification.",
			ParamsOneOf: promptParam("Complete instruction for the research agent"),
		},
	}
}
