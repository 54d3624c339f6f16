package mcptools

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Spantree/apollo-io-mcp-server/apollo"
)

type labelsListInput struct {
	// Modality filters by entity type: "contacts", "accounts", or
	// "emailer_campaigns". Empty returns every label.
	Modality string `json:"modality,omitempty"`
}

type emptyInput struct{}

type customFieldCreateInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Modality string `json:"modality"`
}

func (s *Server) registerMiscTools() {
	addTool(s, &mcp.Tool{
		Name:        "labels_list",
		Description: "List the labels (called \"Lists\" in the Apollo UI) in your account, optionally filtered by modality: contacts, accounts, or emailer_campaigns. Requires a master API key.",
		Annotations: readOnlyAnnotations("List Labels"),
	}, func(ctx context.Context, in labelsListInput) (any, error) {
		switch in.Modality {
		case "", apollo.ModalityContacts, apollo.ModalityAccounts, apollo.ModalityEmailerCampaigns:
		default:
			return nil, errors.New("modality must be one of contacts, accounts, emailer_campaigns")
		}
		labels, err := s.client.LabelsList(ctx, in.Modality)
		if err != nil {
			return nil, err
		}
		return map[string]any{"labels": labels}, nil
	})

	addTool(s, &mcp.Tool{
		Name:        "usage_stats",
		Description: "Report remaining Apollo API quota per endpoint across minute, hour, and day windows. Requires a master API key.",
		Annotations: readOnlyAnnotations("API Usage Stats"),
	}, func(ctx context.Context, in emptyInput) (any, error) {
		return s.client.UsageStats(ctx)
	})

	addTool(s, &mcp.Tool{
		Name:        "custom_fields_list",
		Description: "List the team's custom field definitions for contacts and accounts. Use the returned IDs as keys in typed_custom_fields on account writes. Requires a master API key.",
		Annotations: readOnlyAnnotations("List Custom Fields"),
	}, func(ctx context.Context, in emptyInput) (any, error) {
		return s.client.CustomFieldsList(ctx)
	})

	addTool(s, &mcp.Tool{
		Name:        "custom_field_create",
		Description: "Define a new custom field on contacts or accounts. Requires a master API key.",
		Annotations: writeAnnotations("Create Custom Field", false),
	}, func(ctx context.Context, in customFieldCreateInput) (any, error) {
		if in.Name == "" || in.Type == "" || in.Modality == "" {
			return nil, errors.New("name, type, and modality are required")
		}
		return s.client.CustomFieldCreate(ctx, apollo.CustomFieldCreateRequest{
			Name:     in.Name,
			Type:     in.Type,
			Modality: in.Modality,
		})
	})
}
