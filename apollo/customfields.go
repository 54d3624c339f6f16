package apollo

import (
	"context"
	"net/http"

	"github.com/Spantree/apollo-io-mcp-server/ratelimit"
)

// CustomField describes a team-defined field on contacts or accounts.
type CustomField struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Modality string `json:"modality"`
}

type CustomFieldListResponse struct {
	TypedCustomFields []CustomField `json:"typed_custom_fields"`
}

type CustomFieldCreateRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Modality string `json:"modality"`
}

type CustomFieldCreateResponse struct {
	TypedCustomField CustomField `json:"typed_custom_field"`
}

// CustomFieldsList lists the team's custom field definitions. Requires
// a master API key.
func (c *Client) CustomFieldsList(ctx context.Context) (*CustomFieldListResponse, error) {
	var out CustomFieldListResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodGet, "/typed_custom_fields", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CustomFieldCreate defines a new custom field. Requires a master API
// key.
func (c *Client) CustomFieldCreate(ctx context.Context, req CustomFieldCreateRequest) (*CustomFieldCreateResponse, error) {
	var out CustomFieldCreateResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodPost, "/typed_custom_fields", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
