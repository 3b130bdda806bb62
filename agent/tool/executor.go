package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jmakkonen/salespilot/agent/adapter"
	contractx "github.com/jmakkonen/salespilot/agent/contract"
)

// Executor resolves one tool call to a result. Failures are carried in the
// result's Error field so a partial failure never aborts the agent's turn.
type Executor func(ctx context.Context, req contractx.ToolRequest) contractx.ToolResult

// Deps are the backends an executor can route to. Any of them may be nil;
// calls that need a missing backend come back as tool errors.
type Deps struct {
	CRM     *adapter.CRM
	Docs    *adapter.Docstore
	Gateway adapter.Gateway

	// UserIDs maps an agent type to the external user identity its gateway
	// calls run under.
	UserIDs map[contractx.AgentType]string
}

func (d Deps) userID(agentType contractx.AgentType) string {
	return d.UserIDs[agentType]
}

// NewExecutor builds the executor for one domain agent. CRM record
// operations and document-store operations run through the dual-mode
// adapters; everything else is a direct gateway passthrough.
func NewExecutor(agentType contractx.AgentType, deps Deps) Executor {
	return func(ctx context.Context, req contractx.ToolRequest) contractx.ToolResult {
		res := dispatch(ctx, agentType, deps, req)
		if res.Error != "" {
			log.Warn().
				Str("agent", string(agentType)).
				Str("tool", req.Tool).
				Str("error", res.Error).
				Msg("tool call failed")
		}
		return res
	}
}

func dispatch(ctx context.Context, agentType contractx.AgentType, deps Deps, req contractx.ToolRequest) contractx.ToolResult {
	switch req.Tool {
	case "HUBSPOT_SEARCH_COMPANIES":
		return searchCompany(ctx, deps.CRM, req)
	case "HUBSPOT_CREATE_COMPANY":
		return createCompany(ctx, deps.CRM, req)
	case "HUBSPOT_CREATE_CONTACT":
		return createContact(ctx, deps.CRM, req)
	case "HUBSPOT_CREATE_NOTE":
		return createNote(ctx, deps.CRM, req)
	case "HUBSPOT_ADD_RESEARCH_NOTE":
		return addResearchNote(ctx, deps.CRM, req)
	case "NOTION_FETCH_DATA":
		return searchPage(ctx, deps.Docs, req)
	case "NOTION_FETCH_BLOCK_CONTENTS":
		return getPage(ctx, deps.Docs, req)
	case "NOTION_CREATE_NOTION_PAGE":
		return createPage(ctx, deps.Docs, req)
	case "NOTION_APPEND_BLOCK_CHILDREN":
		return appendBlocks(ctx, deps.Docs, req)
	case "NOTION_GET_ICP_CRITERIA":
		return icpCriteria(ctx, deps.Docs, req)
	}

	if deps.Gateway != nil && gatewayTool(req.Tool) {
		return passthrough(ctx, agentType, deps, req)
	}
	return DefaultExecutor(agentType)(ctx, req)
}

// DefaultExecutor answers every call with an unavailability message. Used
// when an agent has no backend wired, and as the fallback for tools the
// dispatch table does not know.
func DefaultExecutor(agentType contractx.AgentType) Executor {
	return func(_ context.Context, req contractx.ToolRequest) contractx.ToolResult {
		return contractx.ToolResult{
			Tool:  req.Tool,
			Error: fmt.Sprintf("tool=%s is unavailable for agent=%s", req.Tool, agentType),
		}
	}
}

var gatewayPrefixes = []string{"HUBSPOT_", "GMAIL_", "SLACK_", "GOOGLECALENDAR_", "PERPLEXITYAI_", "NOTION_"}

func gatewayTool(name string) bool {
	for _, p := range gatewayPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

func passthrough(ctx context.Context, agentType contractx.AgentType, deps Deps, req contractx.ToolRequest) contractx.ToolResult {
	res, err := deps.Gateway.Execute(ctx, deps.userID(agentType), req.Tool, req.Args)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}
	if !res.Successful {
		return contractx.ToolResult{Tool: req.Tool, Error: res.Error}
	}
	return contractx.ToolResult{Tool: req.Tool, Result: res.Data}
}

/* ------------------------------ crm bridges ------------------------------ */

func searchCompany(ctx context.Context, crm *adapter.CRM, req contractx.ToolRequest) contractx.ToolResult {
	if crm == nil {
		return missingBackend(req, "crm")
	}
	res, err := crm.SearchCompany(ctx, argString(req.Args, "query"))
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}
	return contractx.ToolResult{Tool: req.Tool, Result: map[string]any{
		"found":   res.Found,
		"company": map[string]any(res.Entity),
	}}
}

// createCompany checks for an existing company before creating so repeated
// requests for the same name converge on one record. Passing a "contacts"
// array creates the company and its contacts in one compound operation.
func createCompany(ctx context.Context, crm *adapter.CRM, req contractx.ToolRequest) contractx.ToolResult {
	if crm == nil {
		return missingBackend(req, "crm")
	}
	name := argString(req.Args, "name")

	existing, err := crm.SearchCompany(ctx, name)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}
	if existing.Found {
		return contractx.ToolResult{Tool: req.Tool, Result: map[string]any{
			"created": false,
			"exists":  true,
			"company": map[string]any(existing.Entity),
			"message": fmt.Sprintf("company %q already exists", name),
		}}
	}

	data, contacts := splitContacts(req.Args)
	if len(contacts) > 0 {
		res, created, failed, err := crm.CreateCompanyWithContacts(ctx, data, contacts)
		if err != nil {
			return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
		}
		return contractx.ToolResult{Tool: req.Tool, Result: map[string]any{
			"created":          res.Created,
			"exists":           false,
			"company":          map[string]any(res.Entity),
			"contacts_created": created,
			"contacts_failed":  failed,
		}}
	}

	res, err := crm.CreateCompany(ctx, data)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}
	if !res.Created {
		return contractx.ToolResult{Tool: req.Tool, Error: res.Reason}
	}
	return contractx.ToolResult{Tool: req.Tool, Result: map[string]any{
		"created": true,
		"exists":  false,
		"company": map[string]any(res.Entity),
	}}
}

func createContact(ctx context.Context, crm *adapter.CRM, req contractx.ToolRequest) contractx.ToolResult {
	if crm == nil {
		return missingBackend(req, "crm")
	}
	res, err := crm.CreateContact(ctx, adapter.Entity(req.Args))
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}
	if !res.Created {
		return contractx.ToolResult{Tool: req.Tool, Error: res.Reason}
	}
	return contractx.ToolResult{Tool: req.Tool, Result: map[string]any{
		"created": true,
		"contact": map[string]any(res.Entity),
	}}
}

func createNote(ctx context.Context, crm *adapter.CRM, req contractx.ToolRequest) contractx.ToolResult {
	if crm == nil {
		return missingBackend(req, "crm")
	}
	recordType := argString(req.Args, "record_type")
	if recordType == "" {
		recordType = adapter.RecordTypeCompany
	}
	res, err := crm.AddNote(ctx, argString(req.Args, "record_id"), argString(req.Args, "note"), recordType)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}
	if !res.Created {
		return contractx.ToolResult{Tool: req.Tool, Error: res.Reason}
	}
	return contractx.ToolResult{Tool: req.Tool, Result: map[string]any{
		"created": true,
		"note":    map[string]any(res.Entity),
	}}
}

func addResearchNote(ctx context.Context, crm *adapter.CRM, req contractx.ToolRequest) contractx.ToolResult {
	if crm == nil {
		return missingBackend(req, "crm")
	}
	data := adapter.ResearchData{
		ICPReason:  argString(req.Args, "icp_reasoning"),
		RecentNews: argStrings(req.Args, "recent_news"),
	}
	companyData := map[string]any{}
	for _, k := range []string{"industry", "size", "funding", "description"} {
		if v, ok := req.Args[k]; ok {
			companyData[k] = v
		}
	}
	if len(companyData) > 0 {
		data.CompanyData = companyData
	}
	if score, ok := argInt(req.Args, "icp_score"); ok {
		data.ICPScore = &score
	}

	res, err := crm.AddResearchNote(ctx, argString(req.Args, "company_id"), data)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}
	if !res.Created {
		return contractx.ToolResult{Tool: req.Tool, Error: res.Reason}
	}
	return contractx.ToolResult{Tool: req.Tool, Result: map[string]any{
		"created": true,
		"note":    map[string]any(res.Entity),
	}}
}

/* ---------------------------- docstore bridges --------------------------- */

func searchPage(ctx context.Context, docs *adapter.Docstore, req contractx.ToolRequest) contractx.ToolResult {
	if docs == nil {
		return missingBackend(req, "docstore")
	}
	res, err := docs.SearchPage(ctx, argString(req.Args, "query"))
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}
	return contractx.ToolResult{Tool: req.Tool, Result: map[string]any{
		"found": res.Found,
		"page":  map[string]any(res.Entity),
	}}
}

func getPage(ctx context.Context, docs *adapter.Docstore, req contractx.ToolRequest) contractx.ToolResult {
	if docs == nil {
		return missingBackend(req, "docstore")
	}
	res, err := docs.GetPage(ctx, argString(req.Args, "block_id"))
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}
	return contractx.ToolResult{Tool: req.Tool, Result: map[string]any{
		"found": res.Found,
		"page":  map[string]any(res.Entity),
	}}
}

func createPage(ctx context.Context, docs *adapter.Docstore, req contractx.ToolRequest) contractx.ToolResult {
	if docs == nil {
		return missingBackend(req, "docstore")
	}
	res, err := docs.CreatePage(ctx, adapter.Entity(req.Args))
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}
	if !res.Created {
		return contractx.ToolResult{Tool: req.Tool, Error: res.Reason}
	}
	return contractx.ToolResult{Tool: req.Tool, Result: map[string]any{
		"created": true,
		"page":    map[string]any(res.Entity),
	}}
}

func appendBlocks(ctx context.Context, docs *adapter.Docstore, req contractx.ToolRequest) contractx.ToolResult {
	if docs == nil {
		return missingBackend(req, "docstore")
	}
	content := argString(req.Args, "content")
	blocks := strings.Split(content, "\n")
	res, err := docs.AppendBlocks(ctx, argString(req.Args, "block_id"), blocks)
	if err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: err.Error()}
	}
	if !res.Created {
		return contractx.ToolResult{Tool: req.Tool, Error: res.Reason}
	}
	return contractx.ToolResult{Tool: req.Tool, Result: map[string]any{
		"appended": true,
		"page":     map[string]any(res.Entity),
	}}
}

func icpCriteria(ctx context.Context, docs *adapter.Docstore, req contractx.ToolRequest) contractx.ToolResult {
	if docs == nil {
		return missingBackend(req, "docstore")
	}
	return contractx.ToolResult{Tool: req.Tool, Result: docs.ICPCriteria(ctx)}
}

/* -------------------------------- helpers -------------------------------- */

func missingBackend(req contractx.ToolRequest, backend string) contractx.ToolResult {
	return contractx.ToolResult{
		Tool:  req.Tool,
		Error: fmt.Sprintf("tool=%s requires the %s backend, which is not configured", req.Tool, backend),
	}
}

func argString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func argStrings(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func argInt(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// splitContacts separates the optional contacts array from the company
// properties in a create-company argument map.
func splitContacts(args map[string]any) (adapter.Entity, []adapter.Entity) {
	data := make(adapter.Entity, len(args))
	var contacts []adapter.Entity
	for k, v := range args {
		if k == "contacts" {
			raw, ok := v.([]any)
			if !ok {
				continue
			}
			for _, item := range raw {
				if m, ok := item.(map[string]any); ok {
					contacts = append(contacts, adapter.Entity(m))
				}
			}
			continue
		}
		data[k] = v
	}
	return data, contacts
}
