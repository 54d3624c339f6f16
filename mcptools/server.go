// Package mcptools exposes the Apollo.io client as MCP tools over
// stdio. Each tool mirrors one client operation; results are serialized
// as indented JSON text so any MCP host can display them.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Spantree/apollo-io-mcp-server/apollo"
)

const serverName = "apollo-io"

type Deps struct {
	Client *apollo.Client
	Logger *slog.Logger
	// Version is reported to MCP hosts during initialization.
	Version string
}

// Server wraps an MCP server with the full Apollo tool catalog
// registered.
type Server struct {
	mcp    *mcp.Server
	client *apollo.Client
	logger *slog.Logger
	tools  []ToolInfo
}

// ToolInfo is a catalog entry, used by the tools subcommand and tests.
type ToolInfo struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	ReadOnly    bool   `json:"read_only" yaml:"read_only"`
}

func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: deps.Version,
		}, nil),
		client: deps.Client,
		logger: logger,
	}
	s.registerPeopleTools()
	s.registerOrganizationTools()
	s.registerContactTools()
	s.registerAccountTools()
	s.registerMiscTools()
	return s
}

// Run serves MCP over stdin/stdout until ctx is cancelled or the host
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp_server_starting", "name", serverName, "tools", len(s.tools))
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// Tools returns the registered catalog in registration order.
func (s *Server) Tools() []ToolInfo {
	out := make([]ToolInfo, len(s.tools))
	copy(out, s.tools)
	return out
}

// addTool registers one tool. The handler returns the value to
// serialize; errors are logged here and surfaced to the host by the
// SDK. The input schema is inferred from In's json tags.
func addTool[In any](s *Server, tool *mcp.Tool, handler func(ctx context.Context, in In) (any, error)) {
	readOnly := tool.Annotations != nil && tool.Annotations.ReadOnlyHint
	s.tools = append(s.tools, ToolInfo{Name: tool.Name, Description: tool.Description, ReadOnly: readOnly})

	mcp.AddTool(s.mcp, tool, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		s.logger.Debug("tool_call", "tool", tool.Name)
		out, err := handler(ctx, in)
		if err != nil {
			s.logger.Warn("tool_call_failed", "tool", tool.Name, "error", err.Error())
			return nil, nil, err
		}
		res, err := textResult(out)
		if err != nil {
			return nil, nil, err
		}
		return res, nil, nil
	})
}

func textResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}, nil
}

func boolPtr(b bool) *bool { return &b }

func readOnlyAnnotations(title string) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		Title:         title,
		ReadOnlyHint:  true,
		OpenWorldHint: boolPtr(true),
	}
}

func writeAnnotations(title string, idempotent bool) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		Title:           title,
		DestructiveHint: boolPtr(false),
		IdempotentHint:  idempotent,
		OpenWorldHint:   boolPtr(true),
	}
}

// listOpResultMap shapes a ListOpResult for the wire, keyed per entity
// type ("updated_contacts" or "updated_accounts").
func listOpResultMap(entityKey string, res *apollo.ListOpResult) map[string]any {
	return map[string]any{
		entityKey:         res.UpdatedEntities,
		"found_ids":       res.FoundIDs,
		"not_found_ids":   res.NotFoundIDs,
		"total_requested": res.TotalRequested,
	}
}
