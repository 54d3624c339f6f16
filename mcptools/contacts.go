package mcptools

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Spantree/apollo-io-mcp-server/apollo"
)

type contactSearchInput struct {
	Query    string   `json:"query,omitempty"`
	LabelIDs []string `json:"label_ids,omitempty"`
	Page     int      `json:"page,omitempty"`
	PerPage  int      `json:"per_page,omitempty"`
}

type contactCreateInput struct {
	FirstName        string               `json:"first_name"`
	LastName         string               `json:"last_name"`
	Email            string               `json:"email,omitempty"`
	OrganizationName string               `json:"organization_name,omitempty"`
	Title            string               `json:"title,omitempty"`
	LabelNames       []string             `json:"label_names,omitempty"`
	PhoneNumbers     []apollo.PhoneNumber `json:"phone_numbers,omitempty"`
	City             string               `json:"city,omitempty"`
	State            string               `json:"state,omitempty"`
	Country          string               `json:"country,omitempty"`
	LinkedinURL      string               `json:"linkedin_url,omitempty"`
}

type contactUpdateInput struct {
	ContactID        string               `json:"contact_id"`
	FirstName        *string              `json:"first_name,omitempty"`
	LastName         *string              `json:"last_name,omitempty"`
	Email            *string              `json:"email,omitempty"`
	OrganizationName *string              `json:"organization_name,omitempty"`
	Title            *string              `json:"title,omitempty"`
	LabelNames       []string             `json:"label_names,omitempty"`
	PhoneNumbers     []apollo.PhoneNumber `json:"phone_numbers,omitempty"`
	City             *string              `json:"city,omitempty"`
	State            *string              `json:"state,omitempty"`
	Country          *string              `json:"country,omitempty"`
	LinkedinURL      *string              `json:"linkedin_url,omitempty"`
}

type contactBulkCreateInput struct {
	Contacts []apollo.ContactBulkItem `json:"contacts"`
}

type contactBulkUpdateInput struct {
	Contacts []apollo.ContactBulkUpdateItem `json:"contacts"`
}

type contactListOpInput struct {
	ContactIDs []string `json:"contact_ids"`
	LabelName  string   `json:"label_name"`
}

func (in contactListOpInput) validate() error {
	if len(in.ContactIDs) == 0 {
		return errors.New("contact_ids is required")
	}
	if in.LabelName == "" {
		return errors.New("label_name is required")
	}
	return nil
}

func (s *Server) registerContactTools() {
	addTool(s, &mcp.Tool{
		Name:        "contact_search",
		Description: "Search contacts already saved to your CRM by name, email, company, or title. Filter by list with label_ids (get IDs from labels_list). Not for prospecting; use people_search for the global database.",
		Annotations: readOnlyAnnotations("Contact Search"),
	}, func(ctx context.Context, in contactSearchInput) (any, error) {
		return s.client.ContactSearch(ctx, apollo.ContactSearchQuery{
			Query:    in.Query,
			LabelIDs: in.LabelIDs,
			Page:     in.Page,
			PerPage:  in.PerPage,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "contact_create",
		Description: "Create one contact in your CRM. Lists named in label_names are created automatically if they don't exist.",
		Annotations: writeAnnotations("Create Contact", false),
	}, func(ctx context.Context, in contactCreateInput) (any, error) {
		if in.FirstName == "" && in.LastName == "" {
			return nil, errors.New("first_name or last_name is required")
		}
		return s.client.ContactCreate(ctx, apollo.ContactCreateRequest{
			FirstName:        in.FirstName,
			LastName:         in.LastName,
			Email:            in.Email,
			OrganizationName: in.OrganizationName,
			Title:            in.Title,
			LabelNames:       in.LabelNames,
			PhoneNumbers:     in.PhoneNumbers,
			City:             in.City,
			State:            in.State,
			Country:          in.Country,
			LinkedinURL:      in.LinkedinURL,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "contact_update",
		Description: "Update fields on one saved contact. Omitted fields are left unchanged. WARNING: label_names REPLACES the contact's list memberships wholesale; to change a single membership use contact_add_to_list or contact_remove_from_list.",
		Annotations: writeAnnotations("Update Contact", true),
	}, func(ctx context.Context, in contactUpdateInput) (any, error) {
		if in.ContactID == "" {
			return nil, errors.New("contact_id is required")
		}
		return s.client.ContactUpdate(ctx, in.ContactID, apollo.ContactUpdate{
			FirstName:        in.FirstName,
			LastName:         in.LastName,
			Email:            in.Email,
			OrganizationName: in.OrganizationName,
			Title:            in.Title,
			LabelNames:       in.LabelNames,
			PhoneNumbers:     in.PhoneNumbers,
			City:             in.City,
			State:            in.State,
			Country:          in.Country,
			LinkedinURL:      in.LinkedinURL,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "contact_bulk_create",
		Description: "Create up to 100 contacts in one call. Contacts that already exist (matched by email) are returned in existing_contacts and left untouched.",
		Annotations: writeAnnotations("Bulk Create Contacts", false),
	}, func(ctx context.Context, in contactBulkCreateInput) (any, error) {
		if len(in.Contacts) == 0 {
			return nil, errors.New("contacts is required")
		}
		return s.client.ContactBulkCreate(ctx, in.Contacts)
	})

	addTool(s, &mcp.Tool{
		Name:        "contact_bulk_update",
		Description: "Update up to 100 contacts in one call; each item needs an id. WARNING: items carrying label_names replace those contacts' list memberships wholesale.",
		Annotations: writeAnnotations("Bulk Update Contacts", true),
	}, func(ctx context.Context, in contactBulkUpdateInput) (any, error) {
		if len(in.Contacts) == 0 {
			return nil, errors.New("contacts is required")
		}
		return s.client.ContactBulkUpdate(ctx, in.Contacts)
	})

	addTool(s, &mcp.Tool{
		Name:        "contact_add_to_list",
		Description: "Add up to 10 contacts to a list WITHOUT losing their other list memberships. The list is created automatically if it doesn't exist. Returns updated_contacts, found_ids, not_found_ids, total_requested; IDs that could not be found or updated land in not_found_ids.",
		Annotations: writeAnnotations("Add Contacts to List", true),
	}, func(ctx context.Context, in contactListOpInput) (any, error) {
		if err := in.validate(); err != nil {
			return nil, err
		}
		res, err := s.client.ContactAddToList(ctx, in.ContactIDs, in.LabelName)
		if err != nil {
			return nil, err
		}
		return listOpResultMap("updated_contacts", res), nil
	})

	addTool(s, &mcp.Tool{
		Name:        "contact_remove_from_list",
		Description: "Remove up to 10 contacts from a list while keeping their other list memberships. Removing a contact that is not on the list is a successful no-op. Returns updated_contacts, found_ids, not_found_ids, total_requested.",
		Annotations: writeAnnotations("Remove Contacts from List", true),
	}, func(ctx context.Context, in contactListOpInput) (any, error) {
		if err := in.validate(); err != nil {
			return nil, err
		}
		res, err := s.client.ContactRemoveFromList(ctx, in.ContactIDs, in.LabelName)
		if err != nil {
			return nil, err
		}
		return listOpResultMap("updated_contacts", res), nil
	})
}
