package mcptools

import (
	"testing"

	"github.com/Spantree/apollo-io-mcp-server/apollo"
)

func TestToolCatalog(t *testing.T) {
	srv := New(Deps{Client: apollo.NewClient(apollo.ClientConfig{APIKey: "k"}), Version: "test"})

	want := []string{
		"people_enrichment",
		"people_bulk_enrichment",
		"people_search",
		"organization_enrichment",
		"organization_search",
		"organization_job_postings",
		"contact_search",
		"contact_create",
		"contact_update",
		"contact_bulk_create",
		"contact_bulk_update",
		"contact_add_to_list",
		"contact_remove_from_list",
		"account_search",
		"account_create",
		"account_update",
		"account_bulk_create",
		"account_bulk_update",
		"account_add_to_list",
		"account_remove_from_list",
		"labels_list",
		"usage_stats",
		"custom_fields_list",
		"custom_field_create",
	}

	tools := srv.Tools()
	if len(tools) != len(want) {
		t.Fatalf("registered %d tools, want %d", len(tools), len(want))
	}
	for i, name := range want {
		if tools[i].Name != name {
			t.Errorf("tool[%d] = %q, want %q", i, tools[i].Name, name)
		}
	}
}

func TestToolCatalogReadOnlyFlags(t *testing.T) {
	srv := New(Deps{Client: apollo.NewClient(apollo.ClientConfig{APIKey: "k"}), Version: "test"})

	readOnly := map[string]bool{
		"people_enrichment":         true,
		"people_bulk_enrichment":    true,
		"people_search":             true,
		"organization_enrichment":   true,
		"organization_search":       true,
		"organization_job_postings": true,
		"contact_search":            true,
		"account_search":            true,
		"labels_list":               true,
		"usage_stats":               true,
		"custom_fields_list":        true,
	}
	for _, tool := range srv.Tools() {
		if got := tool.ReadOnly; got != readOnly[tool.Name] {
			t.Errorf("%s read_only = %v, want %v", tool.Name, got, readOnly[tool.Name])
		}
	}
}

func TestListOpResultMapKeys(t *testing.T) {
	res := &apollo.ListOpResult{
		UpdatedEntities: []map[string]any{{"id": "c1"}},
		FoundIDs:        []string{"c1"},
		NotFoundIDs:     []string{"ghost"},
		TotalRequested:  2,
	}
	m := listOpResultMap("updated_contacts", res)
	if _, ok := m["updated_contacts"]; !ok {
		t.Fatalf("missing updated_contacts: %v", m)
	}
	if m["total_requested"] != 2 {
		t.Fatalf("total_requested = %v", m["total_requested"])
	}
	if got := m["not_found_ids"].([]string); len(got) != 1 || got[0] != "ghost" {
		t.Fatalf("not_found_ids = %v", got)
	}
}
