// Package email is the drafting specialist: pure inference over intent and
// CRM context feeding a single model call, with a deterministic parser on
// the way out.
package email

import (
	"fmt"
	"strings"
)

// EmailType classifies the purpose of a drafted email.
type EmailType string

const (
	TypeInitialOutreach EmailType = "initial_outreach"
	TypeFollowUp        EmailType = "follow_up"
	TypeDemoScheduled   EmailType = "demo_scheduled"
	TypePostDemo        EmailType = "post_demo"
	TypeClosing         EmailType = "closing"
)

// InferEmailType resolves an email type from free-text intent, falling back
// to the CRM deal stage when the intent is ambiguous. Keyword priority is
// fixed: explicit outreach wording beats demo wording beats follow-up
// wording beats closing wording.
func InferEmailType(intent string, crmContext map[string]any) EmailType {
	intentLower := strings.ToLower(intent)

	switch {
	case containsAny(intentLower, "initial", "first", "outreach", "cold", "introduction"):
		return TypeInitialOutreach
	case containsAny(intentLower, "demo", "demonstration"):
		if containsAny(intentLower, "scheduled", "upcoming", "pre-", "before") {
			return TypeDemoScheduled
		}
		// Demo wording without a before/after qualifier reads as post-demo.
		return TypePostDemo
	case containsAny(intentLower, "follow", "follow-up", "followup", "checking in"):
		return TypeFollowUp
	case containsAny(intentLower, "close", "closing", "final", "decision"):
		return TypeClosing
	}

	if crmContext != nil {
		stage, _ := crmContext["deal_stage"].(string)
		stage = strings.ToLower(stage)
		switch {
		case strings.Contains(stage, "demo") && strings.Contains(stage, "scheduled"):
			return TypeDemoScheduled
		case strings.Contains(stage, "demo"):
			return TypePostDemo
		case containsAny(stage, "qualified", "lead"):
			return TypeFollowUp
		case containsAny(stage, "closing", "negotiation"):
			return TypeClosing
		}
	}

	return TypeFollowUp
}

var stageToneMap = map[string]string{
	"lead":           "Professional but warm. Focus on value proposition and building initial rapport.",
	"qualified":      "More conversational. Build rapport while demonstrating expertise.",
	"demo_scheduled": "Enthusiastic and helpful. Set clear expectations and build excitement.",
	"negotiation":    "Direct and solution-focused. Address concerns proactively.",
	"closing":        "Confident and supportive. Remove friction and make decision easy.",
}

const defaultTone = "Professional, friendly, and value-focused."

// SelectTone composes tone guidance additively: base tone by sales stage,
// then a relationship qualifier, then an email-type refinement. Order is
// fixed and qualifiers append, never replace.
func SelectTone(salesStage string, emailType EmailType, interactionCount int) string {
	tone := defaultTone
	if t, ok := stageToneMap[strings.ToLower(strings.TrimSpace(salesStage))]; ok {
		tone = t
	}

	if interactionCount == 0 {
		tone += " This is the first contact, so maintain a professional tone."
	} else if interactionCount > 3 {
		tone += " You have an established relationship, so you can be more casual and friendly."
	}

	switch emailType {
	case TypeInitialOutreach:
		tone += " Keep it concise and avoid being too salesy."
	case TypeFollowUp:
		tone += " Reference previous conversations naturally and show continuity."
	}

	return tone
}

// contextField pairs a source key with its rendered label, in render order.
type contextField struct {
	key   string
	label string
}

var (
	contactFields = []contextField{
		{"title", "Title"},
		{"last_contact", "Last contacted"},
		{"previous_interactions", "Previous interactions"},
	}
	companyFields = []contextField{
		{"industry", "Industry"},
		{"size", "Company size"},
		{"recent_news", "Recent news"},
		{"tech_stack", "Tech stack"},
	}
	crmFields = []contextField{
		{"deal_stage", "Deal stage"},
		{"deal_amount", "Deal amount"},
		{"last_meeting_notes", "Last meeting notes"},
		{"previous_interactions", "Previous interactions"},
		{"pain_points", "Identified pain points"},
		{"next_steps", "Planned next steps"},
	}
)

const noContextSentinel = "No additional context available."

// BuildContextBlock renders the present sections under fixed headers.
// Absent sections are omitted; an all-empty input yields a fixed sentinel.
func BuildContextBlock(contactInfo, companyInfo, crmContext map[string]any) string {
	var parts []string

	if len(contactInfo) > 0 {
		parts = append(parts, "=== CONTACT INFORMATION ===")
		parts = append(parts, "Name: "+stringField(contactInfo, "name", "Unknown"))
		parts = append(parts, renderFields(contactInfo, contactFields)...)
	}

	if len(companyInfo) > 0 {
		parts = append(parts, "\n=== COMPANY INFORMATION ===")
		parts = append(parts, "Company: "+stringField(companyInfo, "name", "Unknown"))
		parts = append(parts, renderFields(companyInfo, companyFields)...)
	}

	if len(crmContext) > 0 {
		parts = append(parts, "\n=== CRM CONTEXT ===")
		parts = append(parts, renderFields(crmContext, crmFields)...)
	}

	if len(parts) == 0 {
		return noContextSentinel
	}
	return strings.Join(parts, "\n")
}

func renderFields(src map[string]any, fields []contextField) []string {
	var out []string
	for _, f := range fields {
		if v := stringField(src, f.key, ""); v != "" {
			out = append(out, f.label+": "+v)
		}
	}
	return out
}

func stringField(src map[string]any, key, fallback string) string {
	v, ok := src[key]
	if !ok || v == nil {
		return fallback
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return fallback
	}
	return s
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
