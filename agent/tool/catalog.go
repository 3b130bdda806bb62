// Package tool binds each domain agent to its ordered operation catalog and
// the executor that carries a tool call to the adapters or the gateway.
// Catalogs are fixed per (user identity, external system) pair and are
// never refreshed mid-session.
package tool

import (
	"github.com/cloudwego/eino/schema"

	contractx "github.com/jmakkonen/salespilot/agent/contract"
)

func BuildForAgent(agentType contractx.AgentType, deps Deps) ([]*schema.ToolInfo, Executor) {
	return InfosForAgent(agentType), NewExecutor(agentType, deps)
}

func InfosForAgent(agentType contractx.AgentType) []*schema.ToolInfo {
	switch agentType {
	case contractx.AgentTypeCRM:
		return crmToolInfos()
	case contractx.AgentTypeMail:
		return mailToolInfos()
	case contractx.AgentTypeChat:
		return chatToolInfos()
	case contractx.AgentTypeCalendar:
		return calendarToolInfos()
	case contractx.AgentTypeResearch:
		return researchToolInfos()
	default:
		return nil
	}
}

func crmToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: "HUBSPOT_SEARCH_COMPANIES",
			Desc: "Search the CRM for a company by name.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Company name to search for", Required: true},
			}),
		},
		{
			Name: "HUBSPOT_CREATE_COMPANY",
			Desc: "Create a company in the CRM. Checks for an existing company with the same name first.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"name":        {Type: schema.String, Desc: "Company name", Required: true},
				"domain":      {Type: schema.String, Desc: "Company website domain"},
				"industry":    {Type: schema.String, Desc: "Company industry"},
				"description": {Type: schema.String, Desc: "Company description"},
				"city":        {Type: schema.String, Desc: "Company city"},
				"state":       {Type: schema.String, Desc: "Company state or province"},
				"country":     {Type: schema.String, Desc: "Company country"},
			}),
		},
		{
			Name: "HUBSPOT_CREATE_CONTACT",
			Desc: "Create a contact in the CRM, optionally associated with a company.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"email":      {Type: schema.String, Desc: "Contact email", Required: true},
				"firstname":  {Type: schema.String, Desc: "First name"},
				"lastname":   {Type: schema.String, Desc: "Last name"},
				"company":    {Type: schema.String, Desc: "Company name"},
				"jobtitle":   {Type: schema.String, Desc: "Job title"},
				"phone":      {Type: schema.String, Desc: "Phone number"},
				"company_id": {Type: schema.String, Desc: "CRM company id to associate with"},
			}),
		},
		{
			Name: "HUBSPOT_CREATE_NOTE",
			Desc: "Attach a free-text note to an existing company or contact record.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"record_id":   {Type: schema.String, Desc: "Id of the company or contact", Required: true},
				"note":        {Type: schema.String, Desc: "Note content", Required: true},
				"record_type": {Type: schema.String, Desc: "Record type: company or contact"},
			}),
		},
		{
			Name: "HUBSPOT_ADD_RESEARCH_NOTE",
			Desc: "Attach a formatted research note (industry, size, ICP score, news) to a company.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"company_id":    {Type: schema.String, Desc: "CRM company id", Required: true},
				"industry":      {Type: schema.String, Desc: "Researched industry"},
				"size":          {Type: schema.String, Desc: "Employee count"},
				"funding":       {Type: schema.String, Desc: "Funding raised"},
				"description":   {Type: schema.String, Desc: "Company description"},
				"icp_score":     {Type: schema.Integer, Desc: "ICP fit score 0-10"},
				"icp_reasoning": {Type: schema.String, Desc: "Explanation of the ICP score"},
				"recent_news":   {Type: schema.Array, Desc: "Recent news items", ElemInfo: &schema.ParameterInfo{Type: schema.String}},
			}),
		},
		{
			Name: "HUBSPOT_SEARCH_DEALS",
			Desc: "Search CRM deals by criteria.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Search criteria", Required: true},
			}),
		},
		{
			Name: "HUBSPOT_CREATE_DEAL",
			Desc: "Create a deal with name, amount, close date, stage and associations.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"dealname":   {Type: schema.String, Desc: "Deal name", Required: true},
				"amount":     {Type: schema.String, Desc: "Deal amount"},
				"dealstage":  {Type: schema.String, Desc: "Deal stage"},
				"closedate":  {Type: schema.String, Desc: "Close date"},
				"company_id": {Type: schema.String, Desc: "Associated company id"},
			}),
		},
		{
			Name: "HUBSPOT_UPDATE_DEAL",
			Desc: "Update an existing deal.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"deal_id":    {Type: schema.String, Desc: "Deal id", Required: true},
				"properties": {Type: schema.Object, Desc: "Fields to update"},
			}),
		},
	}
}

func mailToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: "GMAIL_CREATE_EMAIL_DRAFT",
			Desc: "Create an email draft.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"recipient_email": {Type: schema.String, Desc: "Recipient address", Required: true},
				"subject":         {Type: schema.String, Desc: "Subject line", Required: true},
				"body":            {Type: schema.String, Desc: "Email body", Required: true},
			}),
		},
		{
			Name: "GMAIL_SEND_EMAIL",
			Desc: "Send an email immediately.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"recipient_email": {Type: schema.String, Desc: "Recipient address", Required: true},
				"subject":         {Type: schema.String, Desc: "Subject line", Required: true},
				"body":            {Type: schema.String, Desc: "Email body", Required: true},
			}),
		},
		{
			Name: "GMAIL_FETCH_EMAILS",
			Desc: "Fetch recent emails, optionally filtered.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query":       {Type: schema.String, Desc: "Filter query"},
				"max_results": {Type: schema.Integer, Desc: "Maximum number of emails"},
			}),
		},
		{
			Name: "GMAIL_SEARCH_EMAILS",
			Desc: "Search emails across the mailbox.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Search query", Required: true},
			}),
		},
	}
}

func chatToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: "SLACK_USERS_LOOKUP_BY_EMAIL",
			Desc: "Find a workspace user by email address.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"email": {Type: schema.String, Desc: "Email address", Required: true},
			}),
		},
		{
			Name: "SLACK_USERS_INFO",
			Desc: "Get details for a user id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"user": {Type: schema.String, Desc: "User id (U-prefixed)", Required: true},
			}),
		},
		{
			Name: "SLACK_USERS_LIST",
			Desc: "List all users in the workspace.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"cursor": {Type: schema.String, Desc: "Pagination cursor"},
			}),
		},
		{
			Name: "SLACK_CONVERSATIONS_LIST",
			Desc: "List channels.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"cursor": {Type: schema.String, Desc: "Pagination cursor"},
			}),
		},
		{
			Name: "SLACK_CONVERSATIONS_INFO",
			Desc: "Get channel details.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"channel": {Type: schema.String, Desc: "Channel id", Required: true},
			}),
		},
		{
			Name: "SLACK_CONVERSATIONS_HISTORY",
			Desc: "Fetch message history from a channel or DM.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"channel": {Type: schema.String, Desc: "Channel id (C/D/G-prefixed)", Required: true},
				"cursor":  {Type: schema.String, Desc: "Pagination cursor"},
			}),
		},
		{
			Name: "SLACK_CONVERSATIONS_MEMBERS",
			Desc: "List members of a channel.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"channel": {Type: schema.String, Desc: "Channel id", Required: true},
			}),
		},
		{
			Name: "SLACK_CONVERSATIONS_OPEN",
			Desc: "Open or resume a direct-message channel with a user.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"users": {Type: schema.String, Desc: "User id to open the DM with", Required: true},
			}),
		},
		{
			Name: "SLACK_CHAT_POST_MESSAGE",
			Desc: "Post a message to a channel or DM.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"channel": {Type: schema.String, Desc: "Channel id", Required: true},
				"text":    {Type: schema.String, Desc: "Message text", Required: true},
			}),
		},
		{
			Name: "SLACK_CHAT_UPDATE",
			Desc: "Edit an existing message.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"channel": {Type: schema.String, Desc: "Channel id", Required: true},
				"ts":      {Type: schema.String, Desc: "Message timestamp", Required: true},
				"text":    {Type: schema.String, Desc: "New message text", Required: true},
			}),
		},
		{
			Name: "SLACK_CHAT_DELETE",
			Desc: "Delete a message.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"channel": {Type: schema.String, Desc: "Channel id", Required: true},
				"ts":      {Type: schema.String, Desc: "Message timestamp", Required: true},
			}),
		},
		{
			Name: "SLACK_SEARCH_MESSAGES",
			Desc: "Search messages across the workspace.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Search query", Required: true},
			}),
		},
	}
}

func calendarToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: "GOOGLECALENDAR_CREATE_EVENT",
			Desc: "Create a calendar event with full details.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"summary":    {Type: schema.String, Desc: "Event title", Required: true},
				"start_time": {Type: schema.String, Desc: "Start time, ISO 8601", Required: true},
				"end_time":   {Type: schema.String, Desc: "End time, ISO 8601"},
				"location":   {Type: schema.String, Desc: "Location"},
				"attendees":  {Type: schema.Array, Desc: "Attendee emails", ElemInfo: &schema.ParameterInfo{Type: schema.String}},
			}),
		},
		{
			Name: "GOOGLECALENDAR_QUICK_ADD_EVENT",
			Desc: "Create an event from a natural-language description.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"text": {Type: schema.String, Desc: "Natural language event description", Required: true},
			}),
		},
		{
			Name: "GOOGLECALENDAR_UPDATE_EVENT",
			Desc: "Update an existing event.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"event_id":   {Type: schema.String, Desc: "Event id", Required: true},
				"properties": {Type: schema.Object, Desc: "Fields to update"},
			}),
		},
		{
			Name: "GOOGLECALENDAR_FIND_EVENT",
			Desc: "Find an event by name or criteria.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Search criteria", Required: true},
			}),
		},
		{
			Name: "GOOGLECALENDAR_LIST_EVENTS",
			Desc: "List events in a date range.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"time_min": {Type: schema.String, Desc: "Range start, ISO 8601"},
				"time_max": {Type: schema.String, Desc: "Range end, ISO 8601"},
			}),
		},
		{
			Name: "GOOGLECALENDAR_DELETE_EVENT",
			Desc: "Delete an event.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"event_id": {Type: schema.String, Desc: "Event id", Required: true},
			}),
		},
	}
}

func researchToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: "PERPLEXITYAI_PERPLEXITY_AI_SEARCH",
			Desc: "Search the web for company or market information.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Search query", Required: true},
			}),
		},
		{
			Name: "NOTION_FETCH_DATA",
			Desc: "Search pages in the document store to find a page id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Page title or keywords", Required: true},
			}),
		},
		{
			Name: "NOTION_FETCH_BLOCK_CONTENTS",
			Desc: "Fetch the full content of a page by id.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"block_id": {Type: schema.String, Desc: "Page id", Required: true},
			}),
		},
		{
			Name: "NOTION_CREATE_NOTION_PAGE",
			Desc: "Create a new page.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"title":   {Type: schema.String, Desc: "Page title", Required: true},
				"content": {Type: schema.String, Desc: "Initial page content"},
			}),
		},
		{
			Name: "NOTION_APPEND_BLOCK_CHILDREN",
			Desc: "Append content blocks to an existing page.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"block_id": {Type: schema.String, Desc: "Page id", Required: true},
				"content":  {Type: schema.String, Desc: "Content to append", Required: true},
			}),
		},
		{
			Name: "NOTION_GET_ICP_CRITERIA",
			Desc: "Fetch the ideal-customer-profile criteria document.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"refresh": {Type: schema.Boolean, Desc: "Ignored; criteria are fetched fresh each call"},
			}),
		},
	}
}
