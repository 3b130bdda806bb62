package ui

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/jmakkonen/salespilot/agent/contract"
)

const widgetSystemPrompt = `You generate UI widgets for sales workflows.

Reply with EXACTLY ONE JSON object and nothing else:
  {"role": "company", "content": {"name": ..., ...}}
  {"role": "event", "content": {"title": ..., ...}}
  {"role": "table", "content": {"rows": [...], ...}}

If no widget fits the request, reply with a short plain-text sentence instead.`

// WidgetAgent renders structured widget payloads on a raw SDK client. It
// bypasses the graph stack because it carries no tools and no loop.
type WidgetAgent struct {
	client *openaisdk.Client
	model  string
}

func NewWidgetAgent(client *openaisdk.Client, model string) (*WidgetAgent, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: widget model client is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: widget model name is required", contractx.ErrValidation)
	}
	return &WidgetAgent{client: client, model: model}, nil
}

func (w *WidgetAgent) Type() contractx.AgentType {
	return contractx.AgentTypeUI
}

func (w *WidgetAgent) Invoke(ctx context.Context, prompt string) (contractx.AgentReply, error) {
	if strings.TrimSpace(prompt) == "" {
		return contractx.AgentReply{}, fmt.Errorf("%w: prompt is empty", contractx.ErrValidation)
	}

	completion, err := w.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: w.model,
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(widgetSystemPrompt),
			openaisdk.UserMessage(prompt),
		},
	})
	if err != nil {
		return contractx.AgentReply{}, fmt.Errorf("%w: widget completion: %v", contractx.ErrModelInvoke, err)
	}
	if len(completion.Choices) == 0 {
		return contractx.AgentReply{}, fmt.Errorf("%w: widget completion has no choices", contractx.ErrSchemaViolation)
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return contractx.AgentReply{}, fmt.Errorf("%w: widget completion is empty", contractx.ErrSchemaViolation)
	}
	return Format(content), nil
}
