package mcptools

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Spantree/apollo-io-mcp-server/apollo"
)

type peopleSearchInput struct {
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

func (s *Server) registerPeopleTools() {
	addTool(s, &mcp.Tool{
		Name:        "people_enrichment",
		Description: "Enrich one person's record from the global Apollo database. Provide as much identifying input as possible (name, email, company domain, LinkedIn URL); email or LinkedIn URL alone usually matches. Set reveal_personal_emails to spend credits on personal addresses.",
		Annotations: readOnlyAnnotations("People Enrichment"),
	}, func(ctx context.Context, in apollo.PeopleEnrichmentQuery) (any, error) {
		return s.client.PeopleEnrichment(ctx, in)
	})

	addTool(s, &mcp.Tool{
		Name:        "people_bulk_enrichment",
		Description: "Enrich up to 10 people in one call. Each entry in details takes the same fields as people_enrichment; the reveal flags apply to every match. Consumes one credit per unique match.",
		Annotations: readOnlyAnnotations("Bulk People Enrichment"),
	}, func(ctx context.Context, in apollo.BulkPeopleEnrichmentQuery) (any, error) {
		if len(in.Details) == 0 {
			return nil, errors.New("details is required")
		}
		return s.client.BulkPeopleEnrichment(ctx, in)
	})

	addTool(s, &mcp.Tool{
		Name:        "people_search",
		Description: "Search the global Apollo people database (prospecting). Results never include email addresses; run people_enrichment on interesting matches. For contacts already saved to your CRM use contact_search instead.",
		Annotations: readOnlyAnnotations("People Search"),
	}, func(ctx context.Context, in peopleSearchInput) (any, error) {
		return s.client.PeopleSearch(ctx, apollo.PeopleSearchQuery{
			PersonTitles:                   in.PersonTitles,
			PersonLocations:                in.PersonLocations,
			PersonSeniorities:              in.PersonSeniorities,
			OrganizationDomains:            in.OrganizationDomains,
			OrganizationLocations:          in.OrganizationLocations,
			OrganizationNumEmployeesRanges: in.OrganizationNumEmployeesRanges,
			Keywords:                       in.Keywords,
			ContactEmailStatus:             in.ContactEmailStatus,
			Page:                           in.Page,
			PerPage:                        in.PerPage,
		})
	})
}
