package apollo

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Spantree/apollo-io-mcp-server/ratelimit"
)

// Breadcrumb describes one facet the API applied to a search.
type Breadcrumb struct {
	Label       string `json:"label"`
	SignalField string `json:"signal_field_name"`
	Value       any    `json:"value"`
	DisplayName string `json:"display_name"`
}

type PrimaryPhone struct {
	Number          string `json:"number"`
	Source          string `json:"source"`
	SanitizedNumber string `json:"sanitized_number"`
}

// Organization is the global-database company read model.
type Organization struct {
	ID                    string       `json:"id"`
	Name                  string       `json:"name"`
	WebsiteURL            string       `json:"website_url"`
	PrimaryDomain         string       `json:"primary_domain"`
	LinkedinURL           string       `json:"linkedin_url"`
	TwitterURL            string       `json:"twitter_url"`
	FacebookURL           string       `json:"facebook_url"`
	LogoURL               string       `json:"logo_url"`
	Phone                 string       `json:"phone"`
	PrimaryPhone          PrimaryPhone `json:"primary_phone"`
	FoundedYear           int          `json:"founded_year"`
	EstimatedNumEmployees int          `json:"estimated_num_employees"`
	Industry              string       `json:"industry"`
	Keywords              []string     `json:"keywords"`
	AnnualRevenue         float64      `json:"annual_revenue"`
	TotalFunding          float64      `json:"total_funding"`
	LatestFundingStage    string       `json:"latest_funding_stage"`
	City                  string       `json:"city"`
	State                 string       `json:"state"`
	Country               string       `json:"country"`
	ShortDescription      string       `json:"short_description"`
	Technologies          []string     `json:"technology_names"`
}

// OrganizationSearchQuery targets the global company database.
type OrganizationSearchQuery struct {
	NumEmployeesRanges []string `json:"organization_num_employees_ranges,omitempty"`
	Locations          []string `json:"organization_locations,omitempty"`
	ExcludedLocations  []string `json:"organization_not_locations,omitempty"`
	RevenueMin         *int64   `json:"revenue_range_min,omitempty"`
	RevenueMax         *int64   `json:"revenue_range_max,omitempty"`
	Technologies       []string `json:"currently_using_any_of_technology_uids,omitempty"`
	KeywordTags        []string `json:"q_organization_keyword_tags,omitempty"`
	Name               string   `json:"q_organization_name,omitempty"`
	OrganizationIDs    []string `json:"organization_ids,omitempty"`
	Page               int      `json:"page,omitempty"`
	PerPage            int      `json:"per_page,omitempty"`
}

type OrganizationSearchResponse struct {
	Organizations []Organization   `json:"organizations"`
	Accounts      []map[string]any `json:"accounts"`
	Breadcrumbs   []Breadcrumb     `json:"breadcrumbs"`
	Pagination    Pagination       `json:"pagination"`
}

type OrganizationEnrichmentResponse struct {
	Organization Organization `json:"organization"`
}

type OrganizationJobPosting struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	LastSeenAt string `json:"last_seen_at"`
	PostedAt   string `json:"posted_at"`
}

type OrganizationJobPostingsResponse struct {
	OrganizationJobPostings []OrganizationJobPosting `json:"organization_job_postings"`
	Pagination              Pagination               `json:"pagination"`
}

// OrganizationEnrichment looks up one company by domain.
// https://docs.apollo.io/reference/organization-enrichment
func (c *Client) OrganizationEnrichment(ctx context.Context, domain string) (*OrganizationEnrichmentResponse, error) {
	values := url.Values{}
	values.Set("domain", domain)
	var out OrganizationEnrichmentResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodGet, "/organizations/enrich", values, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrganizationSearch searches the global company database.
// https://docs.apollo.io/reference/organization-search
func (c *Client) OrganizationSearch(ctx context.Context, q OrganizationSearchQuery) (*OrganizationSearchResponse, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = 25
	}
	if q.PerPage > maxSearchPerPage {
		q.PerPage = maxSearchPerPage
	}
	var out OrganizationSearchResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodPost, "/mixed_companies/search", nil, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OrganizationJobPostings lists active job postings for one company.
// https://docs.apollo.io/reference/organization-jobs-postings
func (c *Client) OrganizationJobPostings(ctx context.Context, organizationID string, page, perPage int) (*OrganizationJobPostingsResponse, error) {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 25
	}
	if perPage > maxSearchPerPage {
		perPage = maxSearchPerPage
	}
	values := url.Values{}
	values.Set("page", strconv.Itoa(page))
	values.Set("per_page", strconv.Itoa(perPage))
	var out OrganizationJobPostingsResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodGet, "/organizations/"+organizationID+"/job_postings", values, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
