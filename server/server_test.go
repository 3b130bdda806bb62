package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/jmakkonen/salespilot/agent/agents/orchestrator"
	contractx "github.com/jmakkonen/salespilot/agent/contract"
	emailx "github.com/jmakkonen/salespilot/agent/email"
)

type fakeChatModel struct {
	content string
}

func (f *fakeChatModel) Generate(context.Context, []*schema.Message, ...einomodel.Option) (*schema.Message, error) {
	return &schema.Message{Role: schema.Assistant, Content: f.content}, nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeChatModel) WithTools([]*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

type fakeAgent struct {
	agentType contractx.AgentType
	prompts   []string
	reply     contractx.AgentReply
	err       error
}

func (f *fakeAgent) Type() contractx.AgentType { return f.agentType }

func (f *fakeAgent) Invoke(_ context.Context, prompt string) (contractx.AgentReply, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return contractx.AgentReply{}, f.err
	}
	return f.reply, nil
}

type fakeRegistry struct {
	crm, mail, chat, calendar, research *fakeAgent
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		crm:      &fakeAgent{agentType: contractx.AgentTypeCRM, reply: contractx.AgentReply{Message: "crm reply"}},
		mail:     &fakeAgent{agentType: contractx.AgentTypeMail, reply: contractx.AgentReply{Message: "mail reply"}},
		chat:     &fakeAgent{agentType: contractx.AgentTypeChat, reply: contractx.AgentReply{Message: "chat reply"}},
		calendar: &fakeAgent{agentType: contractx.AgentTypeCalendar, reply: contractx.AgentReply{Message: "calendar reply"}},
		research: &fakeAgent{agentType: contractx.AgentTypeResearch, reply: contractx.AgentReply{Message: "research reply"}},
	}
}

func (r *fakeRegistry) CRM() contractx.DomainAgent      { return r.crm }
func (r *fakeRegistry) Mail() contractx.DomainAgent     { return r.mail }
func (r *fakeRegistry) Chat() contractx.DomainAgent     { return r.chat }
func (r *fakeRegistry) Calendar() contractx.DomainAgent { return r.calendar }
func (r *fakeRegistry) Research() contractx.DomainAgent { return r.research }

func newTestServer(t *testing.T, reg contractx.Registry, widget contractx.DomainAgent) *httptest.Server {
	t.Helper()

	orch, err := orchestrator.New(context.Background(), &fakeChatModel{content: "routed reply"}, reg)
	if err != nil {
		t.Fatalf("orchestrator.New() error = %v", err)
	}

	drafter, err := emailx.NewDrafter(context.Background(), &fakeChatModel{content: "SUBJECT: Hello\nBODY:\nDraft body."})
	if err != nil {
		t.Fatalf("NewDrafter() error = %v", err)
	}

	srv, err := New(Config{Addr: ":0"}, orch, reg, widget, drafter)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postMessage(t *testing.T, url, message string) (*http.Response, messageResponse) {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(`{"message":`+jsonString(message)+`}`))
	if err != nil {
		t.Fatalf("POST %s error = %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var body messageResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp, body
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, newFakeRegistry(), nil)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if id := resp.Header.Get("X-Request-Id"); id == "" {
		t.Fatal("missing request id header")
	}
}

func TestOrchestratorEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, newFakeRegistry(), nil)

	resp, body := postMessage(t, ts.URL+"/orchestrator_agent", "hello")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body.Message != "routed reply" {
		t.Fatalf("message = %v", body.Message)
	}
}

func TestDomainAgentEndpointsRouteToTheRightAgent(t *testing.T) {
	t.Parallel()

	reg := newFakeRegistry()
	ts := newTestServer(t, reg, nil)

	cases := []struct {
		path  string
		want  string
		agent *fakeAgent
	}{
		{"/hubspot_agent", "crm reply", reg.crm},
		{"/gmail_agent", "mail reply", reg.mail},
		{"/slack_agent", "chat reply", reg.chat},
		{"/calendar_agent", "calendar reply", reg.calendar},
		{"/data_agent", "research reply", reg.research},
	}

	for _, tc := range cases {
		resp, body := postMessage(t, ts.URL+tc.path, "do the thing")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status = %d", tc.path, resp.StatusCode)
		}
		if body.Message != tc.want {
			t.Fatalf("%s message = %v", tc.path, body.Message)
		}
		if len(tc.agent.prompts) != 1 {
			t.Fatalf("%s did not reach its agent", tc.path)
		}
	}
}

func TestStructuredReplyIsObjectMessage(t *testing.T) {
	t.Parallel()

	widget := &fakeAgent{
		agentType: contractx.AgentTypeUI,
		reply: contractx.AgentReply{Payload: &contractx.UIPayload{
			Role:    "company",
			Content: map[string]any{"name": "Stripe"},
		}},
	}
	ts := newTestServer(t, newFakeRegistry(), widget)

	resp, body := postMessage(t, ts.URL+"/ui_agent", "show Stripe")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	payload, ok := body.Message.(map[string]any)
	if !ok {
		t.Fatalf("message is not an object: %#v", body.Message)
	}
	if payload["role"] != "company" {
		t.Fatalf("payload = %#v", payload)
	}
}

func TestUIAgentUnconfigured(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, newFakeRegistry(), nil)

	resp, _ := postMessage(t, ts.URL+"/ui_agent", "show Stripe")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestBadRequests(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, newFakeRegistry(), nil)

	resp, err := http.Post(ts.URL+"/orchestrator_agent", "application/json", strings.NewReader("not json"))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d", resp.StatusCode)
	}

	resp2, _ := postMessage(t, ts.URL+"/orchestrator_agent", "   ")
	if resp2.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty message status = %d", resp2.StatusCode)
	}

	resp3, err := http.Get(ts.URL + "/orchestrator_agent")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp3.Body.Close()
	if resp3.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d", resp3.StatusCode)
	}
}

func TestAgentFailureIsGenericError(t *testing.T) {
	t.Parallel()

	reg := newFakeRegistry()
	reg.crm.err = errors.New("unexpected programming error")
	ts := newTestServer(t, reg, nil)

	resp, _ := postMessage(t, ts.URL+"/hubspot_agent", "break")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, newFakeRegistry(), nil)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/orchestrator_agent", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}

func TestDraftEmailEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, newFakeRegistry(), nil)

	payload := `{"recipient":"jane@acme.com","intent":"cold outreach"}`
	resp, err := http.Post(ts.URL+"/draft_email", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var draft emailx.Draft
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if draft.Subject != "Hello" || draft.EmailType != emailx.TypeInitialOutreach {
		t.Fatalf("unexpected draft: %#v", draft)
	}

	missing, err := http.Post(ts.URL+"/draft_email", "application/json", strings.NewReader(`{"intent":"x"}`))
	if err != nil {
		t.Fatalf("POST error = %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing recipient status = %d", missing.StatusCode)
	}
}
