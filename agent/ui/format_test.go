package ui

import "testing"

func TestParseRecognizesWidgetRoles(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		role string
	}{
		{"company", `{"role":"company","content":{"name":"Stripe","domain":"stripe.com"}}`, "company"},
		{"event", `{"role":"event","content":{"title":"Demo call","start":"2026-09-01T10:00:00Z"}}`, "event"},
		{"table", `{"role":"table","content":{"rows":[["a","b"]],"headers":["x","y"]}}`, "table"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			payload, ok := Parse(tc.text)
			if !ok {
				t.Fatalf("Parse(%q) not recognized", tc.text)
			}
			if payload.Role != tc.role {
				t.Fatalf("role = %s, want %s", payload.Role, tc.role)
			}
		})
	}
}

func TestParseRejectsMalformedPayloads(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
	}{
		{"prose", "Stripe was created with id mock-stripe-001."},
		{"embedded json", `Created: {"role":"company","content":{"name":"Stripe"}} done.`},
		{"json then prose", "{\"role\":\"company\",\"content\":{\"name\":\"Stripe\"}}\nI went ahead and created the record too :-}"},
		{"two json objects", `{"role":"company","content":{"name":"Stripe"}}{"role":"company","content":{"name":"Notion"}}`},
		{"unknown role", `{"role":"chart","content":{"name":"x"}}`},
		{"company without name", `{"role":"company","content":{"domain":"stripe.com"}}`},
		{"event without title", `{"role":"event","content":{"start":"2026-09-01"}}`},
		{"table without rows", `{"role":"table","content":{"headers":["x"]}}`},
		{"missing content", `{"role":"company"}`},
		{"extra top-level field", `{"role":"company","content":{"name":"x"},"extra":1}`},
		{"empty", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if _, ok := Parse(tc.text); ok {
				t.Fatalf("Parse(%q) unexpectedly recognized a widget", tc.text)
			}
		})
	}
}

func TestFormatIsMutuallyExclusive(t *testing.T) {
	t.Parallel()

	structured := Format(`{"role":"company","content":{"name":"Stripe"}}`)
	if !structured.IsStructured() || structured.Message != "" {
		t.Fatalf("expected payload-only reply, got %#v", structured)
	}

	prose := Format("  All set.  ")
	if prose.IsStructured() || prose.Message != "All set." {
		t.Fatalf("expected trimmed prose reply, got %#v", prose)
	}
}
