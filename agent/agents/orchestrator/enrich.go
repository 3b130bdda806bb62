package orchestrator

import (
	"regexp"
	"strings"
)

// Entities are the deterministic extractions fed to the routing model so it
// does not have to re-derive addresses and amounts from free text.
type Entities struct {
	Emails    []string
	Domains   []string
	Amounts   []string
	Companies []string
}

func (e Entities) Empty() bool {
	return len(e.Emails) == 0 && len(e.Domains) == 0 && len(e.Amounts) == 0 && len(e.Companies) == 0
}

var (
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	domainPattern = regexp.MustCompile(`\b(?:[a-z0-9](?:[a-z0-9\-]*[a-z0-9])?\.)+(?:com|io|co|net|org|ai|so|dev)\b`)
	amountPattern = regexp.MustCompile(`\$\s?\d[\d,]*(?:\.\d+)?[kKmMbB]?`)
	// Capitalized runs, optionally ending in a corporate suffix. Single
	// sentence-initial words are filtered out below.
	companyPattern = regexp.MustCompile(`\b[A-Z][A-Za-z0-9&]*(?:\s+[A-Z][A-Za-z0-9&]*)*(?:\s+(?:Inc|Corp|LLC|Ltd|Labs|Co))?\.?\b`)
)

var companyStopwords = map[string]struct{}{
	"i": {}, "a": {}, "the": {}, "add": {}, "create": {}, "send": {}, "draft": {},
	"schedule": {}, "find": {}, "search": {}, "email": {}, "slack": {}, "research": {},
	"please": {}, "can": {}, "what": {}, "who": {}, "when": {}, "where": {}, "tell": {},
	"also": {}, "then": {}, "and": {}, "hi": {}, "hello": {},
	"monday": {}, "tuesday": {}, "wednesday": {}, "thursday": {}, "friday": {},
	"saturday": {}, "sunday": {}, "tomorrow": {}, "today": {},
}

// ExtractEntities pulls emails, domains, money amounts, and likely company
// names out of raw request text. Purely lexical; no model involved.
func ExtractEntities(text string) Entities {
	var out Entities

	out.Emails = dedupe(emailPattern.FindAllString(text, -1))

	for _, d := range dedupe(domainPattern.FindAllString(strings.ToLower(text), -1)) {
		if isEmailDomain(d, out.Emails) {
			continue
		}
		out.Domains = append(out.Domains, d)
	}

	out.Amounts = dedupe(amountPattern.FindAllString(text, -1))

	for _, candidate := range dedupe(companyPattern.FindAllString(text, -1)) {
		candidate = strings.TrimSuffix(candidate, ".")
		words := strings.Fields(candidate)
		if len(words) == 1 {
			if _, stop := companyStopwords[strings.ToLower(words[0])]; stop {
				continue
			}
			// A lone capitalized word at the start of the text is a
			// sentence opener, not a name.
			if strings.HasPrefix(strings.TrimSpace(text), candidate) {
				continue
			}
		}
		allStop := true
		for _, w := range words {
			if _, stop := companyStopwords[strings.ToLower(w)]; !stop {
				allStop = false
				break
			}
		}
		if allStop {
			continue
		}
		out.Companies = append(out.Companies, candidate)
	}

	return out
}

// BuildEnrichedPrompt appends the extracted entities as a context block so
// downstream agents receive a self-contained instruction.
func BuildEnrichedPrompt(text string, entities Entities) string {
	if entities.Empty() {
		return text
	}

	var b strings.Builder
	b.WriteString(text)
	b.WriteString("\n\n=== EXTRACTED ENTITIES ===")
	writeEntityLine(&b, "Emails", entities.Emails)
	writeEntityLine(&b, "Domains", entities.Domains)
	writeEntityLine(&b, "Amounts", entities.Amounts)
	writeEntityLine(&b, "Companies", entities.Companies)
	return b.String()
}

func writeEntityLine(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(strings.Join(values, ", "))
}

func isEmailDomain(domain string, emails []string) bool {
	for _, email := range emails {
		if strings.HasSuffix(strings.ToLower(email), "@"+domain) {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
