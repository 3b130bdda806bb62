package email

import "strings"

// fallbackSubject is used when no usable subject can be extracted.
const fallbackSubject = "Following up"

// subjectMaxLen is the length threshold for treating an untagged line as a
// subject.
const subjectMaxLen = 80

// EmailDraft is a parsed subject/body pair.
type EmailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ParseDraft extracts a subject and body from raw model output. It never
// fails: explicit SUBJECT:/BODY: tags win (case-insensitive), otherwise the
// first short line becomes the subject, and degenerate input falls back to
// a fixed subject with the raw text as body.
func ParseDraft(raw string) EmailDraft {
	trimmed := strings.TrimSpace(raw)
	lines := strings.Split(trimmed, "\n")

	subject := ""
	var bodyLines []string
	inBody := false

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		upper := strings.ToUpper(stripped)

		switch {
		case strings.HasPrefix(upper, "SUBJECT:"):
			subject = strings.TrimSpace(stripped[len("SUBJECT:"):])
		case strings.HasPrefix(upper, "BODY:"):
			inBody = true
		case inBody:
			bodyLines = append(bodyLines, line)
		case subject == "" && stripped != "" && len(stripped) < 100:
			if len(stripped) <= subjectMaxLen {
				subject = stripped
			} else {
				bodyLines = append(bodyLines, line)
			}
			inBody = true
		default:
			bodyLines = append(bodyLines, line)
			inBody = true
		}
	}

	body := strings.TrimSpace(strings.Join(bodyLines, "\n"))

	if subject == "" {
		firstLine, rest := splitFirstLine(trimmed)
		if firstLine != "" && len(firstLine) <= 100 {
			subject = firstLine
			body = strings.TrimSpace(rest)
		} else {
			subject = fallbackSubject
		}
	}

	if body == "" {
		body = trimmed
	}

	return EmailDraft{Subject: subject, Body: body}
}

func splitFirstLine(text string) (first, rest string) {
	if text == "" {
		return "", ""
	}
	if idx := strings.Index(text, "\n"); idx >= 0 {
		return text[:idx], text[idx+1:]
	}
	return text, ""
}
