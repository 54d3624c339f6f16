package apollo

import (
	"context"
	"net/http"
	"strings"

	"github.com/Spantree/apollo-io-mcp-server/ratelimit"
)

// AccountSearchQuery filters accounts already saved to the CRM (not the
// global company database; use OrganizationSearch for prospecting).
type AccountSearchQuery struct {
	// Query matches name, domain, and similar fields.
	Query string
	// LabelIDs filters by list IDs (label_ids on the read model).
	LabelIDs []string
	Page     int
	PerPage  int
}

type AccountSearchResponse struct {
	Accounts   []map[string]any `json:"accounts"`
	Pagination Pagination       `json:"pagination"`
}

type AccountCreateRequest struct {
	Name              string         `json:"name"`
	Domain            string         `json:"domain,omitempty"`
	OwnerID           string         `json:"owner_id,omitempty"`
	AccountStageID    string         `json:"account_stage_id,omitempty"`
	Phone             string         `json:"phone,omitempty"`
	RawAddress        string         `json:"raw_address,omitempty"`
	LabelNames        []string       `json:"label_names,omitempty"`
	TypedCustomFields map[string]any `json:"typed_custom_fields,omitempty"`
}

type AccountCreateResponse struct {
	Account map[string]any `json:"account"`
}

// AccountUpdate carries a partial update with the same nil-vs-empty
// semantics as ContactUpdate: nil fields are untouched, a non-nil empty
// LabelNames clears every list membership.
type AccountUpdate struct {
	Name              *string
	Domain            *string
	OwnerID           *string
	AccountStageID    *string
	Phone             *string
	RawAddress        *string
	LabelNames        []string
	TypedCustomFields map[string]any
}

func (u AccountUpdate) payload() map[string]any {
	m := map[string]any{}
	setString(m, "name", u.Name)
	setString(m, "domain", u.Domain)
	setString(m, "owner_id", u.OwnerID)
	setString(m, "account_stage_id", u.AccountStageID)
	setString(m, "phone", u.Phone)
	setString(m, "raw_address", u.RawAddress)
	if u.LabelNames != nil {
		m["label_names"] = u.LabelNames
	}
	if u.TypedCustomFields != nil {
		m["typed_custom_fields"] = u.TypedCustomFields
	}
	return m
}

type AccountUpdateResponse struct {
	Account map[string]any `json:"account"`
}

type AccountBulkItem struct {
	Name              string         `json:"name"`
	Domain            string         `json:"domain,omitempty"`
	OwnerID           string         `json:"owner_id,omitempty"`
	AccountStageID    string         `json:"account_stage_id,omitempty"`
	Phone             string         `json:"phone,omitempty"`
	RawAddress        string         `json:"raw_address,omitempty"`
	LabelNames        []string       `json:"label_names,omitempty"`
	TypedCustomFields map[string]any `json:"typed_custom_fields,omitempty"`
}

type AccountBulkCreateResponse struct {
	CreatedAccounts  []map[string]any `json:"created_accounts"`
	ExistingAccounts []map[string]any `json:"existing_accounts"`
}

type AccountBulkUpdateItem struct {
	ID                string         `json:"id"`
	Name              string         `json:"name,omitempty"`
	Domain            string         `json:"domain,omitempty"`
	OwnerID           string         `json:"owner_id,omitempty"`
	AccountStageID    string         `json:"account_stage_id,omitempty"`
	Phone             string         `json:"phone,omitempty"`
	RawAddress        string         `json:"raw_address,omitempty"`
	LabelNames        []string       `json:"label_names,omitempty"`
	TypedCustomFields map[string]any `json:"typed_custom_fields,omitempty"`
}

type AccountBulkUpdateResponse struct {
	Accounts []map[string]any `json:"accounts"`
}

// AccountSearch searches saved CRM accounts. Requires a master API key.
// https://docs.apollo.io/reference/search-accounts
func (c *Client) AccountSearch(ctx context.Context, q AccountSearchQuery) (*AccountSearchResponse, error) {
	values := searchPageValues(q.Query, q.LabelIDs, "account_label_ids[]", q.Page, q.PerPage)
	var out AccountSearchResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodGet, "/accounts/search", values, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AccountByID fetches one saved account. A 404 satisfies
// errors.Is(err, ErrNotFound).
func (c *Client) AccountByID(ctx context.Context, accountID string) (map[string]any, error) {
	var out AccountUpdateResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodGet, "/accounts/"+accountID, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Account, nil
}

// AccountCreate creates an account, auto-creating any lists named in
// LabelNames. Requires a master API key.
// https://docs.apollo.io/reference/create-an-account
func (c *Client) AccountCreate(ctx context.Context, req AccountCreateRequest) (*AccountCreateResponse, error) {
	var out AccountCreateResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodPost, "/accounts", nil, req, &out); err != nil {
		return nil, err
	}
	if id, ok := out.Account["id"].(string); ok && id != "" {
		c.cache.Seed(id, req.LabelNames)
	}
	return &out, nil
}

// AccountUpdate applies a partial update. If upd carries LabelNames the
// remote list memberships are replaced wholesale and the cache is
// updated to match; use AccountAddToList / AccountRemoveFromList to
// change a single membership safely. Requires a master API key.
// https://docs.apollo.io/reference/update-an-account
func (c *Client) AccountUpdate(ctx context.Context, accountID string, upd AccountUpdate) (*AccountUpdateResponse, error) {
	var out AccountUpdateResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodPut, "/accounts/"+accountID, nil, upd.payload(), &out); err != nil {
		return nil, err
	}
	if upd.LabelNames != nil {
		c.cache.Set(accountID, upd.LabelNames)
	}
	return &out, nil
}

// AccountBulkCreate creates up to 100 accounts in one call. Accounts
// that already exist (matched by domain) come back in ExistingAccounts
// and are not modified. Requires a master API key.
func (c *Client) AccountBulkCreate(ctx context.Context, accounts []AccountBulkItem) (*AccountBulkCreateResponse, error) {
	if len(accounts) > maxBulkItems {
		accounts = accounts[:maxBulkItems]
	}
	body := map[string]any{"accounts": accounts}
	var out AccountBulkCreateResponse
	if err := c.doJSON(ctx, ratelimit.Bulk, http.MethodPost, "/accounts/bulk_create", nil, body, &out); err != nil {
		return nil, err
	}
	c.seedAccountLabels(out.CreatedAccounts, accounts)
	return &out, nil
}

// AccountBulkUpdate updates up to 100 accounts in one call. Items that
// carry LabelNames replace those accounts' list memberships wholesale.
// Requires a master API key.
func (c *Client) AccountBulkUpdate(ctx context.Context, accounts []AccountBulkUpdateItem) (*AccountBulkUpdateResponse, error) {
	if len(accounts) > maxBulkItems {
		accounts = accounts[:maxBulkItems]
	}
	body := map[string]any{"accounts": accounts}
	var out AccountBulkUpdateResponse
	if err := c.doJSON(ctx, ratelimit.Bulk, http.MethodPost, "/accounts/bulk_update", nil, body, &out); err != nil {
		return nil, err
	}
	for _, item := range accounts {
		if item.ID != "" && item.LabelNames != nil {
			c.cache.Set(item.ID, item.LabelNames)
		}
	}
	return &out, nil
}

// seedAccountLabels matches created accounts back to the request items
// by domain first, then by name.
func (c *Client) seedAccountLabels(created []map[string]any, items []AccountBulkItem) {
	byDomain := make(map[string]AccountBulkItem, len(items))
	byName := make(map[string]AccountBulkItem, len(items))
	for _, item := range items {
		if item.Domain != "" {
			byDomain[strings.ToLower(item.Domain)] = item
		}
		if item.Name != "" {
			byName[strings.ToLower(item.Name)] = item
		}
	}

	for _, entity := range created {
		id, _ := entity["id"].(string)
		if id == "" {
			continue
		}
		var item AccountBulkItem
		var ok bool
		if domain, _ := entity["domain"].(string); domain != "" {
			item, ok = byDomain[strings.ToLower(domain)]
		}
		if !ok {
			name, _ := entity["name"].(string)
			item, ok = byName[strings.ToLower(name)]
		}
		if !ok {
			continue
		}
		c.cache.Seed(id, item.LabelNames)
	}
}
