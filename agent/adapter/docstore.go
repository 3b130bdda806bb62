package adapter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	contractx "github.com/jmakkonen/salespilot/agent/contract"
)

var docstoreGatewayTools = []string{
	"NOTION_FETCH_DATA",
	"NOTION_FETCH_BLOCK_CONTENTS",
	"NOTION_CREATE_NOTION_PAGE",
	"NOTION_APPEND_BLOCK_CHILDREN",
}

// Docstore is the dual-mode client for the document store. Same two-state
// lifecycle as the CRM adapter: live until an initialization or live call
// failure, then mock for the rest of the process.
type Docstore struct {
	gateway Gateway
	userID  string
	mock    atomic.Bool

	mu    sync.Mutex
	pages map[string]Entity // page id -> page
}

func NewDocstore(ctx context.Context, gw Gateway, userID string) *Docstore {
	d := &Docstore{
		gateway: gw,
		userID:  strings.TrimSpace(userID),
		pages:   mockPageFixtures(),
	}

	if gw == nil {
		d.mock.Store(true)
		log.Info().Str("adapter", "docstore").Msg("no gateway configured, running in mock mode")
		return d
	}

	if _, err := gw.ListTools(ctx, d.userID, docstoreGatewayTools); err != nil {
		d.mock.Store(true)
		log.Warn().Err(err).Str("adapter", "docstore").Msg("gateway init failed, falling back to mock mode")
		return d
	}

	log.Info().Str("adapter", "docstore").Msg("docstore adapter initialized in live mode")
	return d
}

func (d *Docstore) Mock() bool {
	return d.mock.Load()
}

func (d *Docstore) downgrade(op string, err error) {
	if d.mock.CompareAndSwap(false, true) {
		log.Warn().Err(err).Str("adapter", "docstore").Str("op", op).Msg("live call failed, downgrading to mock mode")
	}
}

// SearchPage finds a page by title match.
func (d *Docstore) SearchPage(ctx context.Context, query string) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, fmt.Errorf("%w: search query is required", contractx.ErrValidation)
	}

	if d.mock.Load() {
		return d.mockSearchPage(query), nil
	}

	res, err := d.gateway.Execute(ctx, d.userID, "NOTION_FETCH_DATA", map[string]any{
		"query": query,
	})
	if err != nil {
		d.downgrade("search_page", err)
		return d.mockSearchPage(query), nil
	}
	if !res.Successful {
		return SearchResult{}, fmt.Errorf("docstore search failed: %s", res.Error)
	}

	entity := firstEntity(res.Data)
	if entity == nil {
		return SearchResult{}, nil
	}
	return SearchResult{Found: true, Entity: entity}, nil
}

// GetPage fetches a page's block contents by id.
func (d *Docstore) GetPage(ctx context.Context, pageID string) (SearchResult, error) {
	pageID = strings.TrimSpace(pageID)
	if pageID == "" {
		return SearchResult{}, fmt.Errorf("%w: page id is required", contractx.ErrValidation)
	}

	if d.mock.Load() {
		return d.mockGetPage(pageID), nil
	}

	res, err := d.gateway.Execute(ctx, d.userID, "NOTION_FETCH_BLOCK_CONTENTS", map[string]any{
		"block_id": pageID,
	})
	if err != nil {
		d.downgrade("get_page", err)
		return d.mockGetPage(pageID), nil
	}
	if !res.Successful {
		return SearchResult{}, fmt.Errorf("docstore fetch failed: %s", res.Error)
	}
	if len(res.Data) == 0 {
		return SearchResult{}, nil
	}
	return SearchResult{Found: true, Entity: Entity(res.Data)}, nil
}

func (d *Docstore) CreatePage(ctx context.Context, data Entity) (WriteResult, error) {
	title, _ := data["title"].(string)
	title = strings.TrimSpace(title)
	if title == "" {
		return WriteResult{}, fmt.Errorf("%w: page title is required", contractx.ErrValidation)
	}

	if d.mock.Load() {
		return d.mockCreatePage(title, data), nil
	}

	res, err := d.gateway.Execute(ctx, d.userID, "NOTION_CREATE_NOTION_PAGE", map[string]any(data))
	if err != nil {
		d.downgrade("create_page", err)
		return d.mockCreatePage(title, data), nil
	}
	if !res.Successful {
		return WriteResult{Reason: res.Error}, nil
	}
	return WriteResult{Created: true, Entity: Entity(res.Data)}, nil
}

func (d *Docstore) AppendBlocks(ctx context.Context, pageID string, blocks []string) (WriteResult, error) {
	if strings.TrimSpace(pageID) == "" {
		return WriteResult{}, fmt.Errorf("%w: page id is required", contractx.ErrValidation)
	}

	if d.mock.Load() {
		return d.mockAppendBlocks(pageID, blocks), nil
	}

	children := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		children = append(children, map[string]any{"type": "paragraph", "text": b})
	}
	res, err := d.gateway.Execute(ctx, d.userID, "NOTION_APPEND_BLOCK_CHILDREN", map[string]any{
		"block_id": pageID,
		"children": children,
	})
	if err != nil {
		d.downgrade("append_blocks", err)
		return d.mockAppendBlocks(pageID, blocks), nil
	}
	if !res.Successful {
		return WriteResult{Reason: res.Error}, nil
	}
	return WriteResult{Created: true, Entity: Entity(res.Data)}, nil
}

// ICPCriteria returns the ideal-customer-profile criteria document. Falls
// back to the fixture when the live document is unavailable.
func (d *Docstore) ICPCriteria(ctx context.Context) map[string]any {
	if d.mock.Load() {
		return mockICPCriteria()
	}

	res, err := d.SearchPage(ctx, "ICP criteria")
	if err != nil || !res.Found {
		return mockICPCriteria()
	}

	page, err := d.GetPage(ctx, res.Entity.ID())
	if err != nil || !page.Found {
		return mockICPCriteria()
	}
	return page.Entity
}

/* ------------------------------- mock mode ------------------------------- */

func mockPageFixtures() map[string]Entity {
	return map[string]Entity{
		"mock-page-icp": {
			"id":      "mock-page-icp",
			"title":   "ICP criteria",
			"content": "Ideal customer profile criteria for sales qualification.",
		},
	}
}

func mockICPCriteria() map[string]any {
	return map[string]any{
		"company_size":  map[string]any{"min": 50, "max": 5000},
		"industries":    []string{"Technology", "SaaS", "E-commerce", "Financial Services"},
		"funding_stage": []string{"Series A", "Series B", "Series C", "Series D+"},
		"geography":     []string{"North America", "Europe", "Asia-Pacific"},
		"growth_indicators": []string{
			"YoY revenue growth > 50%",
			"Recent funding round",
			"Expanding internationally",
			"Hiring aggressively",
		},
		"pain_points": []string{
			"Payment processing complexity",
			"International expansion challenges",
			"Developer experience focus",
		},
	}
}

func (d *Docstore) mockSearchPage(query string) SearchResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	needle := strings.ToLower(query)
	for _, page := range d.pages {
		title, _ := page["title"].(string)
		if strings.Contains(strings.ToLower(title), needle) {
			return SearchResult{Found: true, Entity: page.clone()}
		}
	}
	log.Debug().Str("adapter", "docstore").Str("query", query).Msg("[mock] page not found")
	return SearchResult{}
}

func (d *Docstore) mockGetPage(pageID string) SearchResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	page, ok := d.pages[pageID]
	if !ok {
		return SearchResult{}
	}
	return SearchResult{Found: true, Entity: page.clone()}
}

func (d *Docstore) mockCreatePage(title string, data Entity) WriteResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	entity := data.clone()
	id := mockID("mock-page", title)
	entity["id"] = id
	d.pages[id] = entity

	log.Debug().Str("adapter", "docstore").Str("page", title).Msg("[mock] created page")
	return WriteResult{Created: true, Entity: entity.clone()}
}

func (d *Docstore) mockAppendBlocks(pageID string, blocks []string) WriteResult {
	d.mu.Lock()
	defer d.mu.Unlock()

	page, ok := d.pages[pageID]
	if !ok {
		return WriteResult{Reason: fmt.Sprintf("page %s does not exist", pageID)}
	}
	content, _ := page["content"].(string)
	page["content"] = strings.TrimSpace(content + "\n" + strings.Join(blocks, "\n"))

	log.Debug().Str("adapter", "docstore").Str("page", pageID).Msg("[mock] appended blocks")
	return WriteResult{Created: true, Entity: page.clone()}
}
