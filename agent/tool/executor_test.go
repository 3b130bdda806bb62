package tool

import (
	"context"
	"strings"
	"testing"

	"github.com/jmakkonen/salespilot/agent/adapter"
	contractx "github.com/jmakkonen/salespilot/agent/contract"
	composiox "github.com/jmakkonen/salespilot/pkg/composio"
)

type fakeGateway struct {
	executed []string
	result   composiox.Result
	err      error
}

func (f *fakeGateway) ListTools(_ context.Context, _ string, names []string) ([]composiox.ToolSpec, error) {
	specs := make([]composiox.ToolSpec, 0, len(names))
	for _, n := range names {
		specs = append(specs, composiox.ToolSpec{Name: n})
	}
	return specs, nil
}

func (f *fakeGateway) Execute(_ context.Context, _ string, tool string, _ map[string]any) (composiox.Result, error) {
	f.executed = append(f.executed, tool)
	if f.err != nil {
		return composiox.Result{}, f.err
	}
	return f.result, nil
}

func mockDeps(ctx context.Context) Deps {
	return Deps{
		CRM:  adapter.NewCRM(ctx, nil, "user-1"),
		Docs: adapter.NewDocstore(ctx, nil, "user-1"),
	}
}

func TestCreateCompanyIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	exec := NewExecutor(contractx.AgentTypeCRM, mockDeps(ctx))

	req := contractx.ToolRequest{
		Tool: "HUBSPOT_CREATE_COMPANY",
		Args: map[string]any{"name": "Acme Corp", "domain": "acme.com"},
	}

	first := exec(ctx, req)
	if first.Error != "" {
		t.Fatalf("first create failed: %s", first.Error)
	}
	firstOut := first.Result.(map[string]any)
	if firstOut["created"] != true || firstOut["exists"] != false {
		t.Fatalf("expected created=true exists=false, got %v", firstOut)
	}

	second := exec(ctx, req)
	if second.Error != "" {
		t.Fatalf("second create failed: %s", second.Error)
	}
	secondOut := second.Result.(map[string]any)
	if secondOut["created"] != false || secondOut["exists"] != true {
		t.Fatalf("expected created=false exists=true, got %v", secondOut)
	}

	firstID := firstOut["company"].(map[string]any)["id"]
	secondID := secondOut["company"].(map[string]any)["id"]
	if firstID != secondID {
		t.Fatalf("repeated creates diverged: %v vs %v", firstID, secondID)
	}
}

func TestCreateCompanyWithContacts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	exec := NewExecutor(contractx.AgentTypeCRM, mockDeps(ctx))

	res := exec(ctx, contractx.ToolRequest{
		Tool: "HUBSPOT_CREATE_COMPANY",
		Args: map[string]any{
			"name": "Globex",
			"contacts": []any{
				map[string]any{"email": "hank@globex.com", "firstname": "Hank"},
				map[string]any{"firstname": "NoEmail"},
			},
		},
	})
	if res.Error != "" {
		t.Fatalf("create failed: %s", res.Error)
	}
	out := res.Result.(map[string]any)
	if out["contacts_created"] != 1 || out["contacts_failed"] != 1 {
		t.Fatalf("expected 1 created 1 failed, got %v", out)
	}
}

func TestSearchCompanyFixture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	exec := NewExecutor(contractx.AgentTypeCRM, mockDeps(ctx))

	res := exec(ctx, contractx.ToolRequest{
		Tool: "HUBSPOT_SEARCH_COMPANIES",
		Args: map[string]any{"query": "Stripe"},
	})
	if res.Error != "" {
		t.Fatalf("search failed: %s", res.Error)
	}
	out := res.Result.(map[string]any)
	if out["found"] != true {
		t.Fatalf("expected fixture hit, got %v", out)
	}
	if id := out["company"].(map[string]any)["id"]; id != "mock-stripe-001" {
		t.Fatalf("unexpected fixture id %v", id)
	}
}

func TestValidationErrorBecomesToolError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	exec := NewExecutor(contractx.AgentTypeCRM, mockDeps(ctx))

	res := exec(ctx, contractx.ToolRequest{
		Tool: "HUBSPOT_CREATE_NOTE",
		Args: map[string]any{"record_id": "mock-stripe-001", "note": "hi", "record_type": "deal"},
	})
	if res.Error == "" {
		t.Fatal("expected record type validation error")
	}
	if !strings.Contains(res.Error, "record type") {
		t.Fatalf("unexpected error: %s", res.Error)
	}
}

func TestResearchNoteFormatting(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	deps := mockDeps(ctx)
	exec := NewExecutor(contractx.AgentTypeCRM, deps)

	res := exec(ctx, contractx.ToolRequest{
		Tool: "HUBSPOT_ADD_RESEARCH_NOTE",
		Args: map[string]any{
			"company_id":    "mock-stripe-001",
			"industry":      "Fintech",
			"icp_score":     float64(8),
			"icp_reasoning": "strong fit",
			"recent_news":   []any{"Raised Series X", "Hiring"},
		},
	})
	if res.Error != "" {
		t.Fatalf("research note failed: %s", res.Error)
	}
	out := res.Result.(map[string]any)
	if out["created"] != true {
		t.Fatalf("expected note creation, got %v", out)
	}
}

func TestGatewayPassthrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gw := &fakeGateway{result: composiox.Result{Successful: true, Data: map[string]any{"id": "evt-1"}}}
	exec := NewExecutor(contractx.AgentTypeCalendar, Deps{
		Gateway: gw,
		UserIDs: map[contractx.AgentType]string{contractx.AgentTypeCalendar: "cal-user"},
	})

	res := exec(ctx, contractx.ToolRequest{
		Tool: "GOOGLECALENDAR_CREATE_EVENT",
		Args: map[string]any{"summary": "Demo", "start_time": "2026-09-01T10:00:00Z"},
	})
	if res.Error != "" {
		t.Fatalf("passthrough failed: %s", res.Error)
	}
	if len(gw.executed) != 1 || gw.executed[0] != "GOOGLECALENDAR_CREATE_EVENT" {
		t.Fatalf("gateway saw %v", gw.executed)
	}
}

func TestUnknownToolIsReportedUnavailable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	exec := NewExecutor(contractx.AgentTypeMail, Deps{})

	res := exec(ctx, contractx.ToolRequest{Tool: "GMAIL_SEND_EMAIL"})
	if !strings.Contains(res.Error, "unavailable for agent=mail") {
		t.Fatalf("unexpected error: %s", res.Error)
	}
}

func TestCatalogsArePerAgent(t *testing.T) {
	t.Parallel()

	for _, agentType := range []contractx.AgentType{
		contractx.AgentTypeCRM,
		contractx.AgentTypeMail,
		contractx.AgentTypeChat,
		contractx.AgentTypeCalendar,
		contractx.AgentTypeResearch,
	} {
		infos := InfosForAgent(agentType)
		if len(infos) == 0 {
			t.Fatalf("agent %s has an empty catalog", agentType)
		}
		for _, info := range infos {
			if info.Name == "" || info.Desc == "" {
				t.Fatalf("agent %s has an unnamed or undocumented tool", agentType)
			}
		}
	}
	if infos := InfosForAgent(contractx.AgentTypeUI); infos != nil {
		t.Fatalf("ui agent should have no tool catalog, got %d", len(infos))
	}
}
