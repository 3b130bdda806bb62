package adapter

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	contractx "github.com/jmakkonen/salespilot/agent/contract"
	composiox "github.com/jmakkonen/salespilot/pkg/composio"
)

// Gateway is the slice of the tool-invocation gateway the adapters need.
// *composio.Client satisfies it.
type Gateway interface {
	ListTools(ctx context.Context, userID string, names []string) ([]composiox.ToolSpec, error)
	Execute(ctx context.Context, userID, tool string, args map[string]any) (composiox.Result, error)
}

const (
	RecordTypeCompany = "company"
	RecordTypeContact = "contact"
)

var crmGatewayTools = []string{
	"HUBSPOT_SEARCH_COMPANIES",
	"HUBSPOT_CREATE_COMPANY",
	"HUBSPOT_CREATE_CONTACT",
	"HUBSPOT_CREATE_NOTE",
}

// CRM is the dual-mode client for the CRM system. It is constructed live
// when a gateway is reachable and durably downgrades to deterministic mock
// data when live initialization or a live call fails. There is no
// transition back to live without a restart.
type CRM struct {
	gateway Gateway
	userID  string
	mock    atomic.Bool

	mu        sync.Mutex
	companies map[string]Entity // natural key: lowercased name
	contacts  map[string]Entity // natural key: lowercased email
	notes     []crmNote
}

type crmNote struct {
	recordID   string
	recordType string
	text       string
}

// NewCRM never fails: a nil gateway, or one whose tool catalog cannot be
// fetched, yields a mock-mode instance.
func NewCRM(ctx context.Context, gw Gateway, userID string) *CRM {
	c := &CRM{
		gateway:   gw,
		userID:    strings.TrimSpace(userID),
		companies: mockCompanyFixtures(),
		contacts:  make(map[string]Entity),
	}

	if gw == nil {
		c.mock.Store(true)
		log.Info().Str("adapter", "crm").Msg("no gateway configured, running in mock mode")
		return c
	}

	if _, err := gw.ListTools(ctx, c.userID, crmGatewayTools); err != nil {
		c.mock.Store(true)
		log.Warn().Err(err).Str("adapter", "crm").Msg("gateway init failed, falling back to mock mode")
		return c
	}

	log.Info().Str("adapter", "crm").Msg("crm adapter initialized in live mode")
	return c
}

func (c *CRM) Mock() bool {
	return c.mock.Load()
}

// downgrade flips the instance to mock mode for its remaining lifetime.
func (c *CRM) downgrade(op string, err error) {
	if c.mock.CompareAndSwap(false, true) {
		log.Warn().Err(err).Str("adapter", "crm").Str("op", op).Msg("live call failed, downgrading to mock mode")
	}
}

// SearchCompany looks a company up by its natural key. Idempotent and
// side-effect-free.
func (c *CRM) SearchCompany(ctx context.Context, name string) (SearchResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SearchResult{}, fmt.Errorf("%w: company name is required", contractx.ErrValidation)
	}

	if c.mock.Load() {
		return c.mockSearchCompany(name), nil
	}

	res, err := c.gateway.Execute(ctx, c.userID, "HUBSPOT_SEARCH_COMPANIES", map[string]any{
		"query": name,
		"limit": 1,
	})
	if err != nil {
		c.downgrade("search_company", err)
		return c.mockSearchCompany(name), nil
	}
	if !res.Successful {
		return SearchResult{}, fmt.Errorf("crm search failed: %s", res.Error)
	}

	entity := firstEntity(res.Data)
	if entity == nil {
		return SearchResult{}, nil
	}
	return SearchResult{Found: true, Entity: entity}, nil
}

// CreateCompany performs no deduplication; callers pre-check existence.
func (c *CRM) CreateCompany(ctx context.Context, data Entity) (WriteResult, error) {
	name, _ := data["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return WriteResult{}, fmt.Errorf("%w: company name is required", contractx.ErrValidation)
	}

	if c.mock.Load() {
		return c.mockCreateCompany(name, data), nil
	}

	res, err := c.gateway.Execute(ctx, c.userID, "HUBSPOT_CREATE_COMPANY", map[string]any{
		"properties": map[string]any(data),
	})
	if err != nil {
		c.downgrade("create_company", err)
		return c.mockCreateCompany(name, data), nil
	}
	if !res.Successful {
		return WriteResult{Reason: res.Error}, nil
	}
	return WriteResult{Created: true, Entity: Entity(res.Data)}, nil
}

func (c *CRM) CreateContact(ctx context.Context, data Entity) (WriteResult, error) {
	email, _ := data["email"].(string)
	email = strings.TrimSpace(email)
	if email == "" {
		return WriteResult{}, fmt.Errorf("%w: contact email is required", contractx.ErrValidation)
	}

	if c.mock.Load() {
		return c.mockCreateContact(email, data), nil
	}

	res, err := c.gateway.Execute(ctx, c.userID, "HUBSPOT_CREATE_CONTACT", map[string]any{
		"properties": map[string]any(data),
	})
	if err != nil {
		c.downgrade("create_contact", err)
		return c.mockCreateContact(email, data), nil
	}
	if !res.Successful {
		return WriteResult{Reason: res.Error}, nil
	}
	return WriteResult{Created: true, Entity: Entity(res.Data)}, nil
}

// AddNote attaches free text to an existing record. recordType
// discriminates the association and must be company or contact.
func (c *CRM) AddNote(ctx context.Context, recordID, text, recordType string) (WriteResult, error) {
	if recordType != RecordTypeCompany && recordType != RecordTypeContact {
		return WriteResult{}, fmt.Errorf("%w: record type must be %q or %q, got %q",
			contractx.ErrValidation, RecordTypeCompany, RecordTypeContact, recordType)
	}
	if strings.TrimSpace(recordID) == "" {
		return WriteResult{}, fmt.Errorf("%w: record id is required", contractx.ErrValidation)
	}

	if c.mock.Load() {
		return c.mockAddNote(recordID, text, recordType), nil
	}

	res, err := c.gateway.Execute(ctx, c.userID, "HUBSPOT_CREATE_NOTE", map[string]any{
		"note": text,
		"associations": []map[string]any{
			{
				"to":   map[string]any{"id": recordID},
				"type": recordType + "_to_note",
			},
		},
	})
	if err != nil {
		c.downgrade("add_note", err)
		return c.mockAddNote(recordID, text, recordType), nil
	}
	if !res.Successful {
		return WriteResult{Reason: res.Error}, nil
	}
	return WriteResult{Created: true, Entity: Entity(res.Data)}, nil
}

// CreateCompanyWithContacts creates a company and its contacts serially,
// tallying contact failures as partial results.
func (c *CRM) CreateCompanyWithContacts(ctx context.Context, company Entity, contacts []Entity) (WriteResult, int, int, error) {
	companyRes, err := c.CreateCompany(ctx, company)
	if err != nil || !companyRes.Created {
		return companyRes, 0, len(contacts), err
	}

	companyID := companyRes.Entity.ID()
	created, failed := 0, 0
	for _, contact := range contacts {
		data := contact.clone()
		if companyID != "" {
			data["company_id"] = companyID
		}
		res, err := c.CreateContact(ctx, data)
		if err != nil || !res.Created {
			failed++
			continue
		}
		created++
	}
	return companyRes, created, failed, nil
}

/* ------------------------------- mock mode ------------------------------- */

func mockCompanyFixtures() map[string]Entity {
	return map[string]Entity{
		"stripe": {
			"id":          "mock-stripe-001",
			"name":        "Stripe",
			"domain":      "stripe.com",
			"industry":    "Financial Services",
			"description": "Online payment processing",
			"url":         "https://app.hubspot.com/contacts/mock/company/mock-stripe-001",
		},
		"notion": {
			"id":          "mock-notion-001",
			"name":        "Notion",
			"domain":      "notion.so",
			"industry":    "Software",
			"description": "Productivity and collaboration software",
			"url":         "https://app.hubspot.com/contacts/mock/company/mock-notion-001",
		},
	}
}

// mockID derives a stable id from the natural key so repeated mock runs
// agree on references.
func mockID(prefix, key string) string {
	h := fnv.New32a()
	h.Write([]byte(key))
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "-")
	return fmt.Sprintf("%s-%s-%03d", prefix, slug, h.Sum32()%1000)
}

func (c *CRM) mockSearchCompany(name string) SearchResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	entity, ok := c.companies[strings.ToLower(name)]
	if !ok {
		log.Debug().Str("adapter", "crm").Str("company", name).Msg("[mock] company not found")
		return SearchResult{}
	}
	return SearchResult{Found: true, Entity: entity.clone()}
}

func (c *CRM) mockCreateCompany(name string, data Entity) WriteResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	entity := data.clone()
	id := mockID("mock", name)
	entity["id"] = id
	entity["url"] = "https://app.hubspot.com/contacts/mock/company/" + id
	c.companies[strings.ToLower(name)] = entity

	log.Debug().Str("adapter", "crm").Str("company", name).Msg("[mock] created company")
	return WriteResult{Created: true, Entity: entity.clone()}
}

func (c *CRM) mockCreateContact(email string, data Entity) WriteResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	entity := data.clone()
	id := mockID("mock-contact", email)
	entity["id"] = id
	entity["url"] = "https://app.hubspot.com/contacts/mock/contact/" + id
	c.contacts[strings.ToLower(email)] = entity

	log.Debug().Str("adapter", "crm").Str("contact", email).Msg("[mock] created contact")
	return WriteResult{Created: true, Entity: entity.clone()}
}

func (c *CRM) mockAddNote(recordID, text, recordType string) WriteResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.notes = append(c.notes, crmNote{recordID: recordID, recordType: recordType, text: text})
	log.Debug().Str("adapter", "crm").Str("record", recordID).Msg("[mock] added note")
	return WriteResult{Created: true, Entity: Entity{"id": mockID("mock-note", recordID+text)}}
}

// firstEntity pulls the first record out of a gateway search payload.
func firstEntity(data map[string]any) Entity {
	if data == nil {
		return nil
	}
	results, ok := data["results"].([]any)
	if !ok || len(results) == 0 {
		return nil
	}
	first, ok := results[0].(map[string]any)
	if !ok {
		return nil
	}
	return Entity(first)
}
