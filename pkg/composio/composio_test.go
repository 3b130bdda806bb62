package composio

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{URL: srv.URL, APIKey: "test-key", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{APIKey: "k"}); err == nil {
		t.Fatal("expected error for missing url")
	}
	if _, err := NewClient(Config{URL: "http://example.com"}); err == nil {
		t.Fatal("expected error for missing api key")
	}
	if _, err := NewClient(Config{URL: "not a url", APIKey: "k"}); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

func TestExecuteSendsAuthAndArguments(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if !strings.HasSuffix(r.URL.Path, "/v3/tools/execute/HUBSPOT_SEARCH_COMPANIES") {
			t.Errorf("path = %q", r.URL.Path)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload["user_id"] != "user-1" {
			t.Errorf("user_id = %v", payload["user_id"])
		}

		json.NewEncoder(w).Encode(Result{
			Successful: true,
			Data:       map[string]any{"results": []any{map[string]any{"id": "123"}}},
		})
	})

	res, err := client.Execute(context.Background(), "user-1", "HUBSPOT_SEARCH_COMPANIES", map[string]any{"query": "Stripe"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !res.Successful || res.Data == nil {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestExecuteToolFailureIsNotAnError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Result{Successful: false, Error: "record not accessible"})
	})

	res, err := client.Execute(context.Background(), "user-1", "HUBSPOT_CREATE_NOTE", nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Successful || res.Error != "record not accessible" {
		t.Fatalf("unexpected result: %#v", res)
	}
}

func TestExecuteNon2xxIsAnError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := client.Execute(context.Background(), "user-1", "HUBSPOT_SEARCH_COMPANIES", nil)
	if err == nil || !strings.Contains(err.Error(), "status=401") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestExecuteEmptyToolName(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, err := client.Execute(context.Background(), "user-1", "  ", nil); err == nil {
		t.Fatal("expected error for empty tool name")
	}
}

func TestListTools(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v3/tools/list") {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []ToolSpec{
				{Name: "HUBSPOT_SEARCH_COMPANIES", Description: "search"},
				{Name: "HUBSPOT_CREATE_COMPANY"},
			},
		})
	})

	specs, err := client.ListTools(context.Background(), "user-1", []string{"HUBSPOT_SEARCH_COMPANIES", "HUBSPOT_CREATE_COMPANY"})
	if err != nil {
		t.Fatalf("ListTools() error = %v", err)
	}
	if len(specs) != 2 || specs[0].Name != "HUBSPOT_SEARCH_COMPANIES" {
		t.Fatalf("unexpected specs: %#v", specs)
	}
}
