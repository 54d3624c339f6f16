package apollo

import (
	"context"
	"net/http"
	"strings"

	"github.com/Spantree/apollo-io-mcp-server/ratelimit"
)

// PhoneNumber is a raw number plus a type tag ("mobile", "work", ...).
type PhoneNumber struct {
	RawNumber string `json:"raw_number"`
	Type      string `json:"type,omitempty"`
}

// ContactSearchQuery filters contacts already saved to the CRM (not the
// global people database; use PeopleSearch for prospecting).
type ContactSearchQuery struct {
	// Query matches name, email, company, title, and similar fields.
	Query string
	// LabelIDs filters by list IDs (label_ids on the read model).
	LabelIDs []string
	Page     int
	// PerPage defaults to 25, capped at 100 by the API.
	PerPage int
}

type ContactSearchResponse struct {
	Contacts   []map[string]any `json:"contacts"`
	Pagination Pagination       `json:"pagination"`
}

type ContactCreateRequest struct {
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	Email            string        `json:"email,omitempty"`
	OrganizationName string        `json:"organization_name,omitempty"`
	Title            string        `json:"title,omitempty"`
	LabelNames       []string      `json:"label_names,omitempty"`
	PhoneNumbers     []PhoneNumber `json:"phone_numbers,omitempty"`
	City             string        `json:"city,omitempty"`
	State            string        `json:"state,omitempty"`
	Country          string        `json:"country,omitempty"`
	LinkedinURL      string        `json:"linkedin_url,omitempty"`
}

type ContactCreateResponse struct {
	Contact map[string]any `json:"contact"`
}

// ContactUpdate carries a partial update: nil fields are left untouched
// on the remote contact, non-nil ones are sent. A non-nil empty
// LabelNames slice is meaningful - it clears every list membership -
// which is why the slice fields distinguish nil from empty instead of
// relying on omitempty.
type ContactUpdate struct {
	FirstName        *string
	LastName         *string
	Email            *string
	OrganizationName *string
	Title            *string
	LabelNames       []string
	PhoneNumbers     []PhoneNumber
	City             *string
	State            *string
	Country          *string
	LinkedinURL      *string
}

func (u ContactUpdate) payload() map[string]any {
	m := map[string]any{}
	setString(m, "first_name", u.FirstName)
	setString(m, "last_name", u.LastName)
	setString(m, "email", u.Email)
	setString(m, "organization_name", u.OrganizationName)
	setString(m, "title", u.Title)
	if u.LabelNames != nil {
		m["label_names"] = u.LabelNames
	}
	if u.PhoneNumbers != nil {
		m["phone_numbers"] = u.PhoneNumbers
	}
	setString(m, "city", u.City)
	setString(m, "state", u.State)
	setString(m, "country", u.Country)
	setString(m, "linkedin_url", u.LinkedinURL)
	return m
}

func setString(m map[string]any, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

type ContactUpdateResponse struct {
	Contact map[string]any `json:"contact"`
}

type ContactBulkItem struct {
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	Email            string        `json:"email,omitempty"`
	OrganizationName string        `json:"organization_name,omitempty"`
	Title            string        `json:"title,omitempty"`
	LabelNames       []string      `json:"label_names,omitempty"`
	PhoneNumbers     []PhoneNumber `json:"phone_numbers,omitempty"`
	City             string        `json:"city,omitempty"`
	State            string        `json:"state,omitempty"`
	Country          string        `json:"country,omitempty"`
	LinkedinURL      string        `json:"linkedin_url,omitempty"`
}

type ContactBulkCreateResponse struct {
	CreatedContacts  []map[string]any `json:"created_contacts"`
	ExistingContacts []map[string]any `json:"existing_contacts"`
}

type ContactBulkUpdateItem struct {
	ID               string        `json:"id"`
	FirstName        string        `json:"first_name,omitempty"`
	LastName         string        `json:"last_name,omitempty"`
	Email            string        `json:"email,omitempty"`
	OrganizationName string        `json:"organization_name,omitempty"`
	Title            string        `json:"title,omitempty"`
	LabelNames       []string      `json:"label_names,omitempty"`
	PhoneNumbers     []PhoneNumber `json:"phone_numbers,omitempty"`
	City             string        `json:"city,omitempty"`
	State            string        `json:"state,omitempty"`
	Country          string        `json:"country,omitempty"`
	LinkedinURL      string        `json:"linkedin_url,omitempty"`
}

type ContactBulkUpdateResponse struct {
	Contacts []map[string]any `json:"contacts"`
}

// maxBulkItems is the API's cap on bulk create/update payloads.
const maxBulkItems = 100

// ContactSearch searches saved CRM contacts.
// https://docs.apollo.io/reference/contacts-search
func (c *Client) ContactSearch(ctx context.Context, q ContactSearchQuery) (*ContactSearchResponse, error) {
	values := searchPageValues(q.Query, q.LabelIDs, "contact_label_ids[]", q.Page, q.PerPage)
	var out ContactSearchResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodGet, "/contacts/search", values, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ContactByID fetches one saved contact. A 404 satisfies
// errors.Is(err, ErrNotFound).
func (c *Client) ContactByID(ctx context.Context, contactID string) (map[string]any, error) {
	var out ContactUpdateResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodGet, "/contacts/"+contactID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Contact, nil
}

// ContactCreate creates a contact, auto-creating any lists named in
// LabelNames. The created contact's labels are seeded into the cache
// from the request, since the response only echoes label_ids.
// https://docs.apollo.io/reference/create-contact
func (c *Client) ContactCreate(ctx context.Context, req ContactCreateRequest) (*ContactCreateResponse, error) {
	var out ContactCreateResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodPost, "/contacts", nil, req, &out); err != nil {
		return nil, err
	}
	if id, ok := out.Contact["id"].(string); ok && id != "" {
		c.cache.Seed(id, req.LabelNames)
	}
	return &out, nil
}

// ContactUpdate applies a partial update. If upd carries LabelNames the
// remote list memberships are replaced wholesale and the cache is
// updated to match; use ContactAddToList / ContactRemoveFromList to
// change a single membership safely.
// https://docs.apollo.io/reference/update-contact
func (c *Client) ContactUpdate(ctx context.Context, contactID string, upd ContactUpdate) (*ContactUpdateResponse, error) {
	var out ContactUpdateResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodPut, "/contacts/"+contactID, nil, upd.payload(), &out); err != nil {
		return nil, err
	}
	if upd.LabelNames != nil {
		c.cache.Set(contactID, upd.LabelNames)
	}
	return &out, nil
}

// ContactBulkCreate creates up to 100 contacts in one call. Contacts
// that already exist (matched by email) come back in ExistingContacts
// and are not modified. Created contacts get their label sets seeded
// into the cache from the request payload.
// https://docs.apollo.io/reference/create-contacts-bulk
func (c *Client) ContactBulkCreate(ctx context.Context, contacts []ContactBulkItem) (*ContactBulkCreateResponse, error) {
	if len(contacts) > maxBulkItems {
		contacts = contacts[:maxBulkItems]
	}
	body := map[string]any{"contacts": contacts}
	var out ContactBulkCreateResponse
	if err := c.doJSON(ctx, ratelimit.Bulk, http.MethodPost, "/contacts/bulk_create", nil, body, &out); err != nil {
		return nil, err
	}
	c.seedContactLabels(out.CreatedContacts, contacts)
	return &out, nil
}

// ContactBulkUpdate updates up to 100 contacts in one call. Items that
// carry LabelNames replace those contacts' list memberships wholesale.
// https://docs.apollo.io/reference/update-contacts-bulk
func (c *Client) ContactBulkUpdate(ctx context.Context, contacts []ContactBulkUpdateItem) (*ContactBulkUpdateResponse, error) {
	if len(contacts) > maxBulkItems {
		contacts = contacts[:maxBulkItems]
	}
	body := map[string]any{"contacts": contacts}
	var out ContactBulkUpdateResponse
	if err := c.doJSON(ctx, ratelimit.Bulk, http.MethodPost, "/contacts/bulk_update", nil, body, &out); err != nil {
		return nil, err
	}
	for _, item := range contacts {
		if item.ID != "" && item.LabelNames != nil {
			c.cache.Set(item.ID, item.LabelNames)
		}
	}
	return &out, nil
}

// seedContactLabels matches created contacts back to the request items
// that produced them - the create response does not echo label_names.
// Matching is by email first, then by "first last" name; contacts that
// match nothing are simply not seeded.
func (c *Client) seedContactLabels(created []map[string]any, items []ContactBulkItem) {
	byEmail := make(map[string]ContactBulkItem, len(items))
	byName := make(map[string]ContactBulkItem, len(items))
	for _, item := range items {
		if item.Email != "" {
			byEmail[strings.ToLower(item.Email)] = item
		}
		name := strings.ToLower(strings.TrimSpace(item.FirstName + " " + item.LastName))
		if name != "" {
			byName[name] = item
		}
	}

	for _, entity := range created {
		id, _ := entity["id"].(string)
		if id == "" {
			continue
		}
		var item ContactBulkItem
		var ok bool
		if email, _ := entity["email"].(string); email != "" {
			item, ok = byEmail[strings.ToLower(email)]
		}
		if !ok {
			first, _ := entity["first_name"].(string)
			last, _ := entity["last_name"].(string)
			name := strings.ToLower(strings.TrimSpace(first + " " + last))
			if name == "" {
				name, _ = entity["name"].(string)
				name = strings.ToLower(strings.TrimSpace(name))
			}
			item, ok = byName[name]
		}
		if !ok {
			continue
		}
		c.cache.Seed(id, item.LabelNames)
	}
}
