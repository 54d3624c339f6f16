// Package apollo is a typed client for the Apollo.io REST API
// (https://docs.apollo.io). It covers people and organization search
// and enrichment, CRM contacts and accounts, labels, custom fields,
// and usage stats.
//
// Apollo's update endpoints replace an entity's list memberships
// (label_names) wholesale, and its read endpoints do not echo
// label_names back. The client therefore keeps a process-local
// LabelCache of the last label set it wrote per entity, which the
// add-to-list and remove-from-list helpers consult before every
// mutation. See lists.go.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Spantree/apollo-io-mcp-server/internal/retryutil"
	"github.com/Spantree/apollo-io-mcp-server/ratelimit"
)

const DefaultBaseURL = "https://api.apollo.io/api/v1"

// Modalities scope a label to an entity type. The API calls these
// "labels"; the Apollo UI calls them "Lists".
const (
	ModalityContacts         = "contacts"
	ModalityAccounts         = "accounts"
	ModalityEmailerCampaigns = "emailer_campaigns"
)

type ClientConfig struct {
	// APIKey is sent as the x-api-key header on every request. Some
	// endpoints (account writes, labels, usage stats) require a master
	// key; the client does not enforce that locally, the API answers
	// 403 for a regular key.
	APIKey string

	BaseURL    string
	HTTPClient *http.Client

	// Limiter gates every outbound call. Nil admits everything.
	Limiter *ratelimit.Limiter

	// Cache holds last-written label sets per entity. Nil gets a fresh
	// in-memory cache.
	Cache *LabelCache

	// RetryDelay is the pause between retries of transient GET
	// failures. Zero means 2s.
	RetryDelay time.Duration

	Logger *slog.Logger
}

type Client struct {
	http       *http.Client
	baseURL    string
	apiKey     string
	limiter    *ratelimit.Limiter
	cache      *LabelCache
	retryDelay time.Duration
	logger     *slog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	cache := cfg.Cache
	if cache == nil {
		cache = NewLabelCache()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = 2 * time.Second
	}
	return &Client{
		http:       httpClient,
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		limiter:    cfg.Limiter,
		cache:      cache,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// LabelCache exposes the client's cache, mainly so callers can seed or
// inspect it in tests.
func (c *Client) LabelCache() *LabelCache { return c.cache }

// doJSON performs an API call. GETs are retried on 429 and 5xx since
// they are idempotent; writes get exactly one attempt.
func (c *Client) doJSON(ctx context.Context, class ratelimit.Class, method, path string, query url.Values, body, out any) error {
	if method != http.MethodGet {
		return c.doOnce(ctx, class, method, path, query, body, out)
	}
	return retryutil.Do(ctx, c.logger, "apollo_request", 3, c.retryDelay, func(ctx context.Context) (bool, error) {
		err := c.doOnce(ctx, class, method, path, query, body, out)
		var se *StatusError
		if errors.As(err, &se) {
			return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500, err
		}
		return false, err
	})
}

// doOnce performs one API round trip: rate-limit admission, request
// build, status check, response decode. body and out may be nil.
func (c *Client) doOnce(ctx context.Context, class ratelimit.Class, method, path string, query url.Values, body, out any) error {
	if err := c.limiter.Wait(ctx, class); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	requestID := uuid.NewString()
	c.logger.Debug("apollo_request", "request_id", requestID, "method", method, "path", path, "class", string(class))

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("apollo_request_error", "request_id", requestID, "method", method, "path", path, "error", err.Error())
		return err
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("apollo_request_failed", "request_id", requestID, "method", method, "path", path, "status", resp.StatusCode)
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Pagination is shared by every search response.
type Pagination struct {
	Page         int `json:"page"`
	PerPage      int `json:"per_page"`
	TotalEntries int `json:"total_entries"`
	TotalPages   int `json:"total_pages"`
}

// maxSearchPerPage is the API's per_page cap on CRM search endpoints.
const maxSearchPerPage = 100

func searchPageValues(query string, labelIDs []string, labelParam string, page, perPage int) url.Values {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 25
	}
	if perPage > maxSearchPerPage {
		perPage = maxSearchPerPage
	}
	v := url.Values{}
	v.Set("page", fmt.Sprintf("%d", page))
	v.Set("per_page", fmt.Sprintf("%d", perPage))
	if query != "" {
		v.Set("q", query)
	}
	for _, id := range labelIDs {
		v.Add(labelParam, id)
	}
	return v
}
