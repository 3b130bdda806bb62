package adapter

import (
	"context"
	"fmt"
	"strings"
)

// ResearchData is the structured research output the CRM keeps as a note.
type ResearchData struct {
	CompanyData map[string]any
	ICPScore    *int
	ICPReason   string
	RecentNews  []string
}

// FormatResearchNote renders research findings into the fixed note layout.
func FormatResearchNote(data ResearchData) string {
	lines := []string{"=== Company Research ==="}

	if data.CompanyData != nil {
		lines = append(lines,
			"",
			fmt.Sprintf("Industry: %s", stringOr(data.CompanyData["industry"], "N/A")),
			fmt.Sprintf("Size: %s employees", stringOr(data.CompanyData["size"], "N/A")),
			fmt.Sprintf("Funding: %s", stringOr(data.CompanyData["funding"], "N/A")),
			fmt.Sprintf("Description: %s", stringOr(data.CompanyData["description"], "N/A")),
		)
	}

	if data.ICPScore != nil {
		reason := data.ICPReason
		if reason == "" {
			reason = "N/A"
		}
		lines = append(lines,
			"",
			"=== ICP Assessment ===",
			fmt.Sprintf("Score: %d/10", *data.ICPScore),
			fmt.Sprintf("Reasoning: %s", reason),
		)
	}

	if len(data.RecentNews) > 0 {
		lines = append(lines, "", "=== Recent News ===")
		news := data.RecentNews
		if len(news) > 3 {
			news = news[:3]
		}
		for _, item := range news {
			lines = append(lines, "- "+item)
		}
	}

	return strings.Join(lines, "\n")
}

// AddResearchNote formats research data and attaches it to a company record.
func (c *CRM) AddResearchNote(ctx context.Context, companyID string, data ResearchData) (WriteResult, error) {
	return c.AddNote(ctx, companyID, FormatResearchNote(data), RecordTypeCompany)
}

func stringOr(v any, fallback string) string {
	if v == nil {
		return fallback
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return fallback
	}
	return s
}
