package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestToolsCmdYAMLListsCatalog(t *testing.T) {
	cmd := newToolsCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--format", "yaml"})

	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"contact_add_to_list", "account_remove_from_list", "people_search", "usage_stats"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("yaml output missing %s", name)
		}
	}
}

func TestToolsCmdRejectsUnknownFormat(t *testing.T) {
	cmd := newToolsCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--format", "xml"})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestResolveAPIKeyFallsBackToApolloEnvNames(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if got := resolveAPIKey(); got != "" {
		t.Fatalf("empty environment resolved key %q", got)
	}

	t.Setenv("APOLLO_IO_API_KEY", "io-key")
	if got := resolveAPIKey(); got != "io-key" {
		t.Fatalf("resolved %q, want io-key", got)
	}

	t.Setenv("APOLLO_API_KEY", "plain-key")
	if got := resolveAPIKey(); got != "plain-key" {
		t.Fatalf("resolved %q, want plain-key", got)
	}

	viper.Set("api_key", "flag-key")
	if got := resolveAPIKey(); got != "flag-key" {
		t.Fatalf("resolved %q, want flag-key", got)
	}
}
