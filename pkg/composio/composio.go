// Package composio is a REST client for the external tool-invocation
// gateway. Every operation runs a named tool on behalf of one external
// user identity; the gateway owns credentials and retries.
package composio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseSizeBytes = 2 << 20

type Config struct {
	URL     string        `split_words:"true" required:"true"`
	APIKey  string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Timeout time.Duration `split_words:"true" default:"30s"`
}

// Result is the gateway's uniform tool outcome. The core only distinguishes
// "succeeded with data", "succeeded with no match" (Successful with empty
// Data), and "failed".
type Result struct {
	Successful bool           `json:"successful"`
	Data       map[string]any `json:"data,omitempty"`
	Error      string         `json:"error,omitempty"`
}

type ToolSpec struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("composio url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid composio url: %w", err)
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("composio api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

// ListTools fetches the tool catalog bound to userID, restricted to names.
// The returned order follows the requested order.
func (c *Client) ListTools(ctx context.Context, userID string, names []string) ([]ToolSpec, error) {
	payload := map[string]any{
		"user_id": userID,
		"tools":   names,
	}

	var out struct {
		Items []ToolSpec `json:"items"`
	}
	if err := c.post(ctx, "/v3/tools/list", payload, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Execute runs one named tool for userID and returns the gateway outcome.
// A non-nil error means the call itself failed; a Result with
// Successful=false means the tool ran and reported failure.
func (c *Client) Execute(ctx context.Context, userID, tool string, args map[string]any) (Result, error) {
	tool = strings.TrimSpace(tool)
	if tool == "" {
		return Result{}, errors.New("tool name is required")
	}

	payload := map[string]any{
		"user_id":   userID,
		"arguments": args,
	}

	var out Result
	if err := c.post(ctx, "/v3/tools/execute/"+url.PathEscape(tool), payload, &out); err != nil {
		return Result{}, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal composio request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build composio request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute composio request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read composio response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("composio http status=%d body=%s", resp.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode composio response: %w", err)
	}
	return nil
}
