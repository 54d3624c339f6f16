package apollo

import (
	"context"
	"net/http"

	"github.com/Spantree/apollo-io-mcp-server/ratelimit"
)

// PeopleEnrichmentQuery identifies one person in the global database.
// More identifying input yields better matches; email or LinkedIn URL
// alone is usually enough. The reveal flags may consume credits;
// revealing phone numbers requires a webhook URL since Apollo delivers
// them asynchronously.
type PeopleEnrichmentQuery struct {
	ID                   string `json:"id,omitempty"`
	FirstName            string `json:"first_name,omitempty"`
	LastName             string `json:"last_name,omitempty"`
	Name                 string `json:"name,omitempty"`
	Email                string `json:"email,omitempty"`
	HashedEmail          string `json:"hashed_email,omitempty"`
	Domain               string `json:"domain,omitempty"`
	Organization         string `json:"organization_name,omitempty"`
	LinkedinURL          string `json:"linkedin_url,omitempty"`
	RevealPersonalEmails bool   `json:"reveal_personal_emails,omitempty"`
	RevealPhoneNumber    bool   `json:"reveal_phone_number,omitempty"`
	WebhookURL           string `json:"webhook_url,omitempty"`
}

// Person is the enriched read model. Fields the API omits stay zero.
type Person struct {
	ID                string           `json:"id"`
	FirstName         string           `json:"first_name"`
	LastName          string           `json:"last_name"`
	Name              string           `json:"name"`
	Email             string           `json:"email"`
	Title             string           `json:"title"`
	Headline          string           `json:"headline"`
	LinkedinURL       string           `json:"linkedin_url"`
	City              string           `json:"city"`
	State             string           `json:"state"`
	Country           string           `json:"country"`
	PhotoURL          string           `json:"photo_url"`
	EmailStatus       string           `json:"email_status"`
	Organization      map[string]any   `json:"organization"`
	EmploymentHistory []map[string]any `json:"employment_history"`
}

type PeopleEnrichmentResponse struct {
	Person Person `json:"person"`
}

// BulkPeopleEnrichmentQuery enriches up to 10 people at once. The
// reveal flags apply to every matched person.
type BulkPeopleEnrichmentQuery struct {
	RevealPersonalEmails bool                    `json:"reveal_personal_emails,omitempty"`
	RevealPhoneNumber    bool                    `json:"reveal_phone_number,omitempty"`
	WebhookURL           string                  `json:"webhook_url,omitempty"`
	Details              []PeopleEnrichmentQuery `json:"details"`
}

type BulkPeopleEnrichmentResponse struct {
	Status                    string   `json:"status"`
	ErrorCode                 string   `json:"error_code"`
	ErrorMessage              string   `json:"error_message"`
	TotalRequestedEnrichments int      `json:"total_requested_enrichments"`
	UniqueEnrichedRecords     int      `json:"unique_enriched_records"`
	MissingRecords            int      `json:"missing_records"`
	CreditsConsumed           float64  `json:"credits_consumed"`
	Matches                   []Person `json:"matches"`
}

// PeopleSearchQuery targets the global people database (prospecting).
// Saved CRM contacts are searched with ContactSearch instead.
type PeopleSearchQuery struct {
	PersonTitles                   []string `json:"person_titles,omitempty"`
	PersonLocations                []string `json:"person_locations,omitempty"`
	PersonSeniorities              []string `json:"person_seniorities,omitempty"`
	OrganizationDomains            []string `json:"q_organization_domains_list,omitempty"`
	OrganizationLocations          []string `json:"organization_locations,omitempty"`
	OrganizationNumEmployeesRanges []string `json:"organization_num_employees_ranges,omitempty"`
	Keywords                       string   `json:"q_keywords,omitempty"`
	ContactEmailStatus             []string `json:"contact_email_status,omitempty"`
	Page                           int      `json:"page,omitempty"`
	PerPage                        int      `json:"per_page,omitempty"`
}

type PeopleSearchResponse struct {
	People      []map[string]any `json:"people"`
	Contacts    []map[string]any `json:"contacts"`
	Breadcrumbs []Breadcrumb     `json:"breadcrumbs"`
	Pagination  Pagination       `json:"pagination"`
}

// PeopleEnrichment matches one person and enriches the record.
// https://docs.apollo.io/reference/people-enrichment
func (c *Client) PeopleEnrichment(ctx context.Context, q PeopleEnrichmentQuery) (*PeopleEnrichmentResponse, error) {
	var out PeopleEnrichmentResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodPost, "/people/match", nil, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BulkPeopleEnrichment enriches up to 10 people in one call, consuming
// one credit per unique match.
// https://docs.apollo.io/reference/bulk-people-enrichment
func (c *Client) BulkPeopleEnrichment(ctx context.Context, q BulkPeopleEnrichmentQuery) (*BulkPeopleEnrichmentResponse, error) {
	var out BulkPeopleEnrichmentResponse
	if err := c.doJSON(ctx, ratelimit.Bulk, http.MethodPost, "/people/bulk_match", nil, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PeopleSearch searches the global people database. Results do not
// include email addresses; enrich the interesting ones afterwards.
// https://docs.apollo.io/reference/people-search
func (c *Client) PeopleSearch(ctx context.Context, q PeopleSearchQuery) (*PeopleSearchResponse, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PerPage <= 0 {
		q.PerPage = 25
	}
	if q.PerPage > maxSearchPerPage {
		q.PerPage = maxSearchPerPage
	}
	var out PeopleSearchResponse
	if err := c.doJSON(ctx, ratelimit.Standard, http.MethodPost, "/mixed_people/search", nil, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
