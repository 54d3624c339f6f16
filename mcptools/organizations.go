package mcptools

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Spantree/apollo-io-mcp-server/apollo"
)

type organizationEnrichmentInput struct {
	Domain string `json:"domain"`
}

type organizationSearchInput struct {
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

type organizationJobPostingsInput struct {
	OrganizationID string `json:"organization_id"`
	Page           int    `json:"page,omitempty"`
	PerPage        int    `json:"per_page,omitempty"`
}

func (s *Server) registerOrganizationTools() {
	addTool(s, &mcp.Tool{
		Name:        "organization_enrichment",
		Description: "Enrich one company from the global Apollo database by its domain (e.g. \"apollo.io\"). Returns firmographics: industry, employee count, revenue, funding, technologies, social URLs.",
		Annotations: readOnlyAnnotations("Organization Enrichment"),
	}, func(ctx context.Context, in organizationEnrichmentInput) (any, error) {
		if in.Domain == "" {
			return nil, errors.New("domain is required")
		}
		return s.client.OrganizationEnrichment(ctx, in.Domain)
	})

	addTool(s, &mcp.Tool{
		Name:        "organization_search",
		Description: "Search the global Apollo company database by size, location, revenue, keywords, or technologies in use. For companies already saved to your CRM use account_search instead.",
		Annotations: readOnlyAnnotations("Organization Search"),
	}, func(ctx context.Context, in organizationSearchInput) (any, error) {
		return s.client.OrganizationSearch(ctx, apollo.OrganizationSearchQuery{
			NumEmployeesRanges: in.NumEmployeesRanges,
			Locations:          in.Locations,
			ExcludedLocations:  in.ExcludedLocations,
			RevenueMin:         in.RevenueMin,
			RevenueMax:         in.RevenueMax,
			Technologies:       in.Technologies,
			KeywordTags:        in.KeywordTags,
			Name:               in.Name,
			OrganizationIDs:    in.OrganizationIDs,
			Page:               in.Page,
			PerPage:            in.PerPage,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "organization_job_postings",
		Description: "List a company's active job postings, a strong buying signal. Get the organization_id from organization_search or organization_enrichment.",
		Annotations: readOnlyAnnotations("Organization Job Postings"),
	}, func(ctx context.Context, in organizationJobPostingsInput) (any, error) {
		if in.OrganizationID == "" {
			return nil, errors.New("organization_id is required")
		}
		return s.client.OrganizationJobPostings(ctx, in.OrganizationID, in.Page, in.PerPage)
	})
}
