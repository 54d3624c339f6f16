package mcptools

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Spantree/apollo-io-mcp-server/apollo"
)

type accountSearchInput struct {
	Query    string   `json:"query,omitempty"`
	LabelIDs []string `json:"label_ids,omitempty"`
	Page     int      `json:"page,omitempty"`
	PerPage  int      `json:"per_page,omitempty"`
}

type accountCreateInput struct {
	Name              string         `json:"name"`
	Domain            string         `json:"domain,omitempty"`
	OwnerID           string         `json:"owner_id,omitempty"`
	AccountStageID    string         `json:"account_stage_id,omitempty"`
	Phone             string         `json:"phone,omitempty"`
	RawAddress        string         `json:"raw_address,omitempty"`
	LabelNames        []string       `json:"label_names,omitempty"`
	TypedCustomFields map[string]any `json:"typed_custom_fields,omitempty"`
}

type accountUpdateInput struct {
	AccountID         string         `json:"account_id"`
	Name              *string        `json:"name,omitempty"`
	Domain            *string        `json:"domain,omitempty"`
	OwnerID           *string        `json:"owner_id,omitempty"`
	AccountStageID    *string        `json:"account_stage_id,omitempty"`
	Phone             *string        `json:"phone,omitempty"`
	RawAddress        *string        `json:"raw_address,omitempty"`
	LabelNames        []string       `json:"label_names,omitempty"`
	TypedCustomFields map[string]any `json:"typed_custom_fields,omitempty"`
}

type accountBulkCreateInput struct {
	Accounts []apollo.AccountBulkItem `json:"accounts"`
}

type accountBulkUpdateInput struct {
	Accounts []apollo.AccountBulkUpdateItem `json:"accounts"`
}

type accountListOpInput struct {
	AccountIDs []string `json:"account_ids"`
	LabelName  string   `json:"label_name"`
}

func (in accountListOpInput) validate() error {
	if len(in.AccountIDs) == 0 {
		return errors.New("account_ids is required")
	}
	if in.LabelName == "" {
		return errors.New("label_name is required")
	}
	return nil
}

func (s *Server) registerAccountTools() {
	addTool(s, &mcp.Tool{
		Name:        "account_search",
		Description: "Search accounts already saved to your CRM by name or domain. Filter by list with label_ids (get IDs from labels_list). Requires a master API key. For prospecting the global database use organization_search.",
		Annotations: readOnlyAnnotations("Account Search"),
	}, func(ctx context.Context, in accountSearchInput) (any, error) {
		return s.client.AccountSearch(ctx, apollo.AccountSearchQuery{
			Query:    in.Query,
			LabelIDs: in.LabelIDs,
			Page:     in.Page,
			PerPage:  in.PerPage,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "account_create",
		Description: "Create one account in your CRM. Lists named in label_names are created automatically. Requires a master API key.",
		Annotations: writeAnnotations("Create Account", false),
	}, func(ctx context.Context, in accountCreateInput) (any, error) {
		if in.Name == "" {
			return nil, errors.New("name is required")
		}
		return s.client.AccountCreate(ctx, apollo.AccountCreateRequest{
			Name:              in.Name,
			Domain:            in.Domain,
			OwnerID:           in.OwnerID,
			AccountStageID:    in.AccountStageID,
			Phone:             in.Phone,
			RawAddress:        in.RawAddress,
			LabelNames:        in.LabelNames,
			TypedCustomFields: in.TypedCustomFields,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "account_update",
		Description: "Update fields on one saved account. Omitted fields are left unchanged. WARNING: label_names REPLACES the account's list memberships wholesale; to change a single membership use account_add_to_list or account_remove_from_list. Requires a master API key.",
		Annotations: writeAnnotations("Update Account", true),
	}, func(ctx context.Context, in accountUpdateInput) (any, error) {
		if in.AccountID == "" {
			return nil, errors.New("account_id is required")
		}
		return s.client.AccountUpdate(ctx, in.AccountID, apollo.AccountUpdate{
			Name:              in.Name,
			Domain:            in.Domain,
			OwnerID:           in.OwnerID,
			AccountStageID:    in.AccountStageID,
			Phone:             in.Phone,
			RawAddress:        in.RawAddress,
			LabelNames:        in.LabelNames,
			TypedCustomFields: in.TypedCustomFields,
		})
	})

	addTool(s, &mcp.Tool{
		Name:        "account_bulk_create",
		Description: "Create up to 100 accounts in one call. Accounts that already exist (matched by domain) are returned in existing_accounts and left untouched. Requires a master API key.",
		Annotations: writeAnnotations("Bulk Create Accounts", false),
	}, func(ctx context.Context, in accountBulkCreateInput) (any, error) {
		if len(in.Accounts) == 0 {
			return nil, errors.New("accounts is required")
		}
		return s.client.AccountBulkCreate(ctx, in.Accounts)
	})

	addTool(s, &mcp.Tool{
		Name:        "account_bulk_update",
		Description: "Update up to 100 accounts in one call; each item needs an id. WARNING: items carrying label_names replace those accounts' list memberships wholesale. Requires a master API key.",
		Annotations: writeAnnotations("Bulk Update Accounts", true),
	}, func(ctx context.Context, in accountBulkUpdateInput) (any, error) {
		if len(in.Accounts) == 0 {
			return nil, errors.New("accounts is required")
		}
		return s.client.AccountBulkUpdate(ctx, in.Accounts)
	})

	addTool(s, &mcp.Tool{
		Name:        "account_add_to_list",
		Description: "Add up to 10 accounts to a list WITHOUT losing their other list memberships. The list is created automatically if it doesn't exist. Requires a master API key. Returns updated_accounts, found_ids, not_found_ids, total_requested.",
		Annotations: writeAnnotations("Add Accounts to List", true),
	}, func(ctx context.Context, in accountListOpInput) (any, error) {
		if err := in.validate(); err != nil {
			return nil, err
		}
		res, err := s.client.AccountAddToList(ctx, in.AccountIDs, in.LabelName)
		if err != nil {
			return nil, err
		}
		return listOpResultMap("updated_accounts", res), nil
	})

	addTool(s, &mcp.Tool{
		Name:        "account_remove_from_list",
		Description: "Remove up to 10 accounts from a list while keeping their other list memberships. Removing an account that is not on the list is a successful no-op. Requires a master API key. Returns updated_accounts, found_ids, not_found_ids, total_requested.",
		Annotations: writeAnnotations("Remove Accounts from List", true),
	}, func(ctx context.Context, in accountListOpInput) (any, error) {
		if err := in.validate(); err != nil {
			return nil, err
		}
		res, err := s.client.AccountRemoveFromList(ctx, in.AccountIDs, in.LabelName)
		if err != nil {
			return nil, err
		}
		return listOpResultMap("updated_accounts", res), nil
	})
}
