package email

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/jmakkonen/salespilot/agent/contract"
)

var templateGuidance = map[EmailType]string{
	TypeInitialOutreach: `You are drafting an initial outreach email to a potential customer.
Keep it concise, value-focused, and personalized based on their company context.
Focus on their pain points and how your solution can help.`,
	TypeFollowUp: `You are drafting a follow-up email. Reference previous interactions naturally.
Be helpful and non-pushy. Show you remember the conversation.
Provide value or answer questions from previous exchanges.`,
	TypeDemoScheduled: `You are drafting a pre-demo email. Confirm details, set expectations, and build excitement.
Make it clear what they'll see and how it will help them.`,
	TypePostDemo: `You are drafting a post-demo follow-up. Thank them, summarize key points discussed,
and provide next steps or answer questions. Be helpful and address any concerns.`,
	TypeClosing: `You are drafting a closing email. Be direct but respectful. Address any final concerns
and make it easy for them to say yes. Remove friction and provide clear next steps.`,
}

// DraftRequest carries everything the drafter personalizes from. EmailType
// is optional; when empty it is inferred from intent and CRM context.
type DraftRequest struct {
	Recipient          string
	Intent             string
	ContactInfo        map[string]any
	CompanyInfo        map[string]any
	CRMContext         map[string]any
	EmailType          EmailType
	CustomInstructions string
}

// Draft is the drafter's output: the parsed pair plus the inference that
// produced it.
type Draft struct {
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	EmailType EmailType `json:"email_type"`
	Tone      string    `json:"tone"`
}

// Drafter generates personalized sales emails through one model call.
type Drafter struct {
	runner compose.Runnable[map[string]any, *schema.Message]
}

func NewDrafter(ctx context.Context, chatModel einomodel.BaseChatModel) (*Drafter, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: drafting model is required", contractx.ErrValidation)
	}

	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add draft prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add draft model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add draft edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add draft edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add draft edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("email.draft_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile draft graph: %w", err)
	}

	return &Drafter{runner: runner}, nil
}

// DraftEmail runs type inference, tone selection, and context assembly,
// then parses the model's reply into a subject/body pair.
func (d *Drafter) DraftEmail(ctx context.Context, req DraftRequest) (Draft, error) {
	if strings.TrimSpace(req.Recipient) == "" {
		return Draft{}, fmt.Errorf("%w: recipient is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(req.Intent) == "" {
		return Draft{}, fmt.Errorf("%w: intent is required", contractx.ErrValidation)
	}

	emailType := req.EmailType
	if emailType == "" {
		emailType = InferEmailType(req.Intent, req.CRMContext)
		log.Debug().Str("email_type", string(emailType)).Msg("inferred email type")
	}

	guidance, ok := templateGuidance[emailType]
	if !ok {
		guidance = templateGuidance[TypeFollowUp]
	}

	salesStage, _ := req.CRMContext["deal_stage"].(string)
	tone := SelectTone(salesStage, emailType, interactionCount(req.ContactInfo))
	contextBlock := BuildContextBlock(req.ContactInfo, req.CompanyInfo, req.CRMContext)

	systemPrompt := fmt.Sprintf(`You are an expert sales email writer. Your task is to draft personalized,
effective sales emails that drive engagement and build relationships.

%s

Tone guidelines: %s

Key principles:
- Be concise (3-4 short paragraphs max)
- Personalize based on context provided
- Focus on value, not features
- Include a clear call-to-action
- Sound human, not robotic
- Use the recipient's name naturally (if provided)
- Avoid generic phrases and cliches
- Make it easy to respond`, guidance, tone)

	humanPrompt := fmt.Sprintf(`Draft an email with the following context:

Recipient: %s
User Intent: %s

Context:
%s
%s
Please provide:
1. A compelling subject line (max 60 characters)
2. The email body (professional but personable, 3-4 paragraphs)

Format your response as:
SUBJECT: [subject line]
BODY:
[email body]`, req.Recipient, req.Intent, contextBlock, customInstructionsLine(req.CustomInstructions))

	msg, err := d.runner.Invoke(ctx, map[string]any{
		"system": systemPrompt,
		"input":  humanPrompt,
	})
	if err != nil {
		return Draft{}, fmt.Errorf("%w: draft invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return Draft{}, fmt.Errorf("%w: draft response is empty", contractx.ErrSchemaViolation)
	}

	parsed := ParseDraft(msg.Content)
	return Draft{
		Recipient: req.Recipient,
		Subject:   parsed.Subject,
		Body:      parsed.Body,
		EmailType: emailType,
		Tone:      tone,
	}, nil
}

func interactionCount(contactInfo map[string]any) int {
	switch v := contactInfo["interaction_count"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func customInstructionsLine(instructions string) string {
	if strings.TrimSpace(instructions) == "" {
		return "\n"
	}
	return "\nCustom Instructions: " + instructions + "\n\n"
}
