// Package domain implements the specialist agents. Each agent binds one
// external system's instruction policy to a bounded tool catalog and runs a
// generate/execute loop until the model answers in prose.
package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/jmakkonen/salespilot/agent/contract"
	toolx "github.com/jmakkonen/salespilot/agent/tool"
)

// maxToolRounds bounds the generate/execute loop so a looping model cannot
// hold a request open indefinitely.
const maxToolRounds = 6

type agentImpl struct {
	agentType    contractx.AgentType
	model        einomodel.BaseChatModel
	instructions string
	exec         toolx.Executor
	allowedTools map[string]struct{}
}

func newAgent(
	agentType contractx.AgentType,
	chatModel einomodel.ToolCallingChatModel,
	instructions string,
	infos []*schema.ToolInfo,
	exec toolx.Executor,
) (*agentImpl, error) {
	boundModel := einomodel.BaseChatModel(chatModel)
	if len(infos) > 0 {
		withTools, err := chatModel.WithTools(infos)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools for agent=%s: %v", contractx.ErrModelInvoke, agentType, err)
		}
		boundModel = withTools
	}

	allowed := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		if info == nil || strings.TrimSpace(info.Name) == "" {
			continue
		}
		allowed[info.Name] = struct{}{}
	}

	return &agentImpl{
		agentType:    agentType,
		model:        boundModel,
		instructions: instructions,
		exec:         exec,
		allowedTools: allowed,
	}, nil
}

func (a *agentImpl) Type() contractx.AgentType {
	return a.agentType
}

// Invoke runs the tool loop. Tool failures are folded back into the
// conversation as tool results so the model can explain or retry; only
// model and schema failures propagate as errors.
func (a *agentImpl) Invoke(ctx context.Context, prompt string) (contractx.AgentReply, error) {
	if strings.TrimSpace(prompt) == "" {
		return contractx.AgentReply{}, fmt.Errorf("%w: prompt is empty", contractx.ErrValidation)
	}

	messages := []*schema.Message{
		schema.SystemMessage(a.instructions),
		schema.UserMessage(prompt),
	}

	for round := 0; round < maxToolRounds; round++ {
		msg, err := a.model.Generate(ctx, messages)
		if err != nil {
			return contractx.AgentReply{}, fmt.Errorf("%w: agent=%s generate: %v", contractx.ErrModelInvoke, a.agentType, err)
		}
		if msg == nil {
			return contractx.AgentReply{}, fmt.Errorf("%w: agent=%s returned no message", contractx.ErrSchemaViolation, a.agentType)
		}

		if len(msg.ToolCalls) == 0 {
			content := strings.TrimSpace(msg.Content)
			if content == "" {
				return contractx.AgentReply{}, fmt.Errorf("%w: agent=%s reply is empty", contractx.ErrSchemaViolation, a.agentType)
			}
			return contractx.AgentReply{Message: content}, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			result := a.executeCall(ctx, call)
			payload, err := json.Marshal(result)
			if err != nil {
				return contractx.AgentReply{}, fmt.Errorf("%w: marshal tool result for tool=%s: %v", contractx.ErrValidation, result.Tool, err)
			}
			messages = append(messages, schema.ToolMessage(string(payload), call.ID))
		}
	}

	return contractx.AgentReply{}, fmt.Errorf("%w: agent=%s did not converge within %d tool rounds", contractx.ErrModelInvoke, a.agentType, maxToolRounds)
}

func (a *agentImpl) executeCall(ctx context.Context, call schema.ToolCall) contractx.ToolResult {
	name := strings.TrimSpace(call.Function.Name)
	if name == "" {
		return contractx.ToolResult{Error: "tool call name is empty"}
	}
	if _, ok := a.allowedTools[name]; !ok {
		return contractx.ToolResult{
			Tool:  name,
			Error: fmt.Sprintf("tool=%s is not allowed for agent=%s", name, a.agentType),
		}
	}

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return contractx.ToolResult{
				Tool:  name,
				Error: fmt.Sprintf("invalid tool args: %v", err),
			}
		}
	}

	return a.exec(ctx, contractx.ToolRequest{Tool: name, Args: args})
}
