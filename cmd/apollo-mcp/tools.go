package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Spantree/apollo-io-mcp-server/apollo"
	"github.com/Spantree/apollo-io-mcp-server/internal/clifmt"
	"github.com/Spantree/apollo-io-mcp-server/mcptools"
)

func newToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List available MCP tools",
		RunE:  runToolsCmd,
	}
	cmd.Flags().String("format", "text", "Output format: text|yaml.")
	return cmd
}

func runToolsCmd(cmd *cobra.Command, _ []string) error {
	server := mcptools.New(mcptools.Deps{
		Client:  apollo.NewClient(apollo.ClientConfig{}),
		Version: version,
	})
	tools := server.Tools()

	format, _ := cmd.Flags().GetString("format")
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		rows := make([]clifmt.NameDetailRow, 0, len(tools))
		for _, tool := range tools {
			rows = append(rows, clifmt.NameDetailRow{Name: tool.Name, Detail: tool.Description})
		}
		clifmt.PrintNameDetailTable(cmd.OutOrStdout(), "Tools", rows)
		return nil
	case "yaml":
		raw, err := yaml.Marshal(tools)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(raw)
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
