package email

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/jmakkonen/salespilot/agent/contract"
)

type fakeChatModel struct {
	content string
	seen    [][]*schema.Message
	err     error
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.seen = append(f.seen, input)
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.content}, nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func TestDraftEmailParsesModelOutput(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{content: "SUBJECT: Quick question about Acme's roadmap\nBODY:\nHi Jane,\n\nSaw the launch news."}
	drafter, err := NewDrafter(context.Background(), fake)
	if err != nil {
		t.Fatalf("NewDrafter() error = %v", err)
	}

	draft, err := drafter.DraftEmail(context.Background(), DraftRequest{
		Recipient:   "jane@acme.com",
		Intent:      "cold outreach about our platform",
		CompanyInfo: map[string]any{"name": "Acme Corp", "industry": "Robotics"},
	})
	if err != nil {
		t.Fatalf("DraftEmail() error = %v", err)
	}

	if draft.Subject != "Quick question about Acme's roadmap" {
		t.Fatalf("subject = %q", draft.Subject)
	}
	if !strings.Contains(draft.Body, "Saw the launch news.") {
		t.Fatalf("body = %q", draft.Body)
	}
	if draft.EmailType != TypeInitialOutreach {
		t.Fatalf("email type = %s", draft.EmailType)
	}

	// The model must see the assembled context and format instructions.
	prompt := fake.seen[0]
	var user string
	for _, m := range prompt {
		if m.Role == schema.User {
			user = m.Content
		}
	}
	for _, want := range []string{"jane@acme.com", "=== COMPANY INFORMATION ===", "SUBJECT: [subject line]"} {
		if !strings.Contains(user, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, user)
		}
	}
}

func TestDraftEmailValidation(t *testing.T) {
	t.Parallel()

	drafter, err := NewDrafter(context.Background(), &fakeChatModel{content: "x"})
	if err != nil {
		t.Fatalf("NewDrafter() error = %v", err)
	}

	if _, err := drafter.DraftEmail(context.Background(), DraftRequest{Intent: "follow up"}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("missing recipient: got %v", err)
	}
	if _, err := drafter.DraftEmail(context.Background(), DraftRequest{Recipient: "a@b.com"}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("missing intent: got %v", err)
	}
}

func TestDraftEmailModelFailure(t *testing.T) {
	t.Parallel()

	drafter, err := NewDrafter(context.Background(), &fakeChatModel{err: errors.New("upstream 502")})
	if err != nil {
		t.Fatalf("NewDrafter() error = %v", err)
	}

	_, err = drafter.DraftEmail(context.Background(), DraftRequest{Recipient: "a@b.com", Intent: "follow up"})
	if !errors.Is(err, contractx.ErrModelInvoke) {
		t.Fatalf("expected ErrModelInvoke, got %v", err)
	}
}

func TestDraftEmailExplicitTypeSkipsInference(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{content: "SUBJECT: See you at the demo\nBODY:\nLooking forward to it."}
	drafter, err := NewDrafter(context.Background(), fake)
	if err != nil {
		t.Fatalf("NewDrafter() error = %v", err)
	}

	draft, err := drafter.DraftEmail(context.Background(), DraftRequest{
		Recipient: "jane@acme.com",
		Intent:    "say hi",
		EmailType: TypeDemoScheduled,
	})
	if err != nil {
		t.Fatalf("DraftEmail() error = %v", err)
	}
	if draft.EmailType != TypeDemoScheduled {
		t.Fatalf("email type = %s", draft.EmailType)
	}
}
