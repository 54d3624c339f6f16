package apollo

import (
	"context"
	"net/http"

	"github.com/Spantree/apollo-io-mcp-server/ratelimit"
)

// RateLimitPeriod is the remote quota for one time window.
type RateLimitPeriod struct {
	Limit    int `json:"limit"`
	Consumed int `json:"consumed"`
	LeftOver int `json:"left_over"`
}

// EndpointRateLimit is the remote quota for one endpoint across the
// three windows the API tracks.
type EndpointRateLimit struct {
	Day    RateLimitPeriod `json:"day"`
	Hour   RateLimitPeriod `json:"hour"`
	Minute RateLimitPeriod `json:"minute"`
}

// UsageStats reports remaining API quota per endpoint, keyed by
// "api/v1/<endpoint>#<action>". Requires a master API key.
// https://docs.apollo.io/reference/view-api-usage-stats
func (c *Client) UsageStats(ctx context.Context) (map[string]EndpointRateLimit, error) {
	var out map[string]EndpointRateLimit
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodGet, "/usage_stats/api_usage_stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
