package apollo

import (
	"context"
	"net/http"

	"github.com/Spantree/apollo-io-mcp-server/ratelimit"
)

// Label is a list as the API reports it. Modality says what the list
// holds: "contacts", "accounts", or "emailer_campaigns".
type Label struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Modality    string `json:"modality"`
	CachedCount int    `json:"cached_count"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	UserID      string `json:"user_id"`
	TeamID      string `json:"team_id"`
}

// LabelsList fetches every list in the team and filters by modality
// client-side; the endpoint itself returns all lists as a bare JSON
// array. An empty modality returns everything.
func (c *Client) LabelsList(ctx context.Context, modality string) ([]Label, error) {
	var all []Label
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodGet, "/labels", nil, nil, &all); err != nil {
		return nil, err
	}
	if modality == "" {
		return all, nil
	}
	filtered := make([]Label, 0, len(all))
	for _, l := range all {
		if l.Modality == modality {
			filtered = append(filtered, l)
		}
	}
	return filtered, nil
}
