package adapter

import (
	"context"
	"errors"
	"strings"
	"testing"

	contractx "github.com/jmakkonen/salespilot/agent/contract"
)

func TestDocstoreMockSearchMatchesTitle(t *testing.T) {
	t.Parallel()

	docs := NewDocstore(context.Background(), nil, "user-1")

	res, err := docs.SearchPage(context.Background(), "icp")
	if err != nil {
		t.Fatalf("SearchPage() error = %v", err)
	}
	if !res.Found || res.Entity.ID() != "mock-page-icp" {
		t.Fatalf("unexpected result: %#v", res)
	}

	miss, err := docs.SearchPage(context.Background(), "quarterly targets")
	if err != nil {
		t.Fatalf("SearchPage() miss error = %v", err)
	}
	if miss.Found {
		t.Fatalf("expected negative result, got %#v", miss)
	}
}

func TestDocstoreCreateThenAppend(t *testing.T) {
	t.Parallel()

	docs := NewDocstore(context.Background(), nil, "user-1")
	ctx := context.Background()

	created, err := docs.CreatePage(ctx, Entity{"title": "Acme research", "content": "initial findings"})
	if err != nil {
		t.Fatalf("CreatePage() error = %v", err)
	}
	if !created.Created || created.Entity.ID() == "" {
		t.Fatalf("unexpected create result: %#v", created)
	}

	appended, err := docs.AppendBlocks(ctx, created.Entity.ID(), []string{"new funding round", "hiring spree"})
	if err != nil {
		t.Fatalf("AppendBlocks() error = %v", err)
	}
	if !appended.Created {
		t.Fatalf("append rejected: %#v", appended)
	}

	page, err := docs.GetPage(ctx, created.Entity.ID())
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}
	content, _ := page.Entity["content"].(string)
	if !strings.Contains(content, "initial findings") || !strings.Contains(content, "hiring spree") {
		t.Fatalf("content not accumulated: %q", content)
	}
}

func TestDocstoreAppendToMissingPage(t *testing.T) {
	t.Parallel()

	docs := NewDocstore(context.Background(), nil, "user-1")

	res, err := docs.AppendBlocks(context.Background(), "nope", []string{"x"})
	if err != nil {
		t.Fatalf("AppendBlocks() error = %v", err)
	}
	if res.Created || res.Reason == "" {
		t.Fatalf("expected rejection with reason, got %#v", res)
	}
}

func TestDocstoreValidation(t *testing.T) {
	t.Parallel()

	docs := NewDocstore(context.Background(), nil, "user-1")
	ctx := context.Background()

	if _, err := docs.SearchPage(ctx, " "); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("empty query: got %v", err)
	}
	if _, err := docs.GetPage(ctx, ""); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("empty page id: got %v", err)
	}
	if _, err := docs.CreatePage(ctx, Entity{"content": "x"}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("page without title: got %v", err)
	}
}

func TestDocstoreInitFailureFallsBack(t *testing.T) {
	t.Parallel()

	docs := NewDocstore(context.Background(), &brokenGateway{listErr: true}, "user-1")
	if !docs.Mock() {
		t.Fatal("init failure must yield mock mode")
	}
}

func TestICPCriteriaAlwaysAvailable(t *testing.T) {
	t.Parallel()

	docs := NewDocstore(context.Background(), nil, "user-1")

	criteria := docs.ICPCriteria(context.Background())
	if criteria == nil {
		t.Fatal("criteria must never be nil")
	}
	size, ok := criteria["company_size"].(map[string]any)
	if !ok || size["min"] != 50 {
		t.Fatalf("unexpected criteria shape: %#v", criteria)
	}
}
