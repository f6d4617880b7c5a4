package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/whatnow/internal/catalog"
	"github.com/kalambet/whatnow/internal/session"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Session *session.Session
	Version string
}

// NewMCPServer creates an MCP server exposing activity suggestions and favorites.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"whatnow",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("whatnow suggests a random leisure activity matching a category, mood and available time, and remembers favorites."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("suggest_activity",
			mcp.WithDescription("Apply a filter and pick a random matching activity. Omitted fields mean no constraint."),
			mcp.WithString("category", mcp.Description("One of Indoor, Creative, Social, Physical, or All")),
			mcp.WithString("mood", mcp.Description("One of Bored, Energetic, Stressed")),
			mcp.WithNumber("max_duration", mcp.Description("Time available in minutes; longer activities are excluded")),
		),
		mcpSuggest(deps),
	)

	s.AddTool(
		mcp.NewTool("spin_again",
			mcp.WithDescription("Pick another random activity using the current filter. May repeat the previous pick."),
		),
		mcpSpinAgain(deps),
	)

	s.AddTool(
		mcp.NewTool("toggle_favorite",
			mcp.WithDescription("Add an activity to favorites, or remove it if it already is one."),
			mcp.WithNumber("id", mcp.Description("Activity id"), mcp.Required()),
		),
		mcpToggleFavorite(deps),
	)

	s.AddTool(
		mcp.NewTool("list_favorites",
			mcp.WithDescription("List favorite activities."),
		),
		mcpListFavorites(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"whatnow://catalog",
			"Activity Catalog",
			mcp.WithResourceDescription("Every activity whatnow can suggest, as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCatalog(deps),
	)

	return s
}

func mcpSuggest(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		maxDuration := ""
		if d := req.GetInt("max_duration", 0); d != 0 {
			maxDuration = strconv.Itoa(d)
		}

		spec, err := catalog.ParseFilter(req.GetString("category", ""), req.GetString("mood", ""), maxDuration)
		if err != nil {
			return mcpError(err.Error()), nil
		}

		return mcpPick(deps.Session.SetFilter(spec))
	}
}

func mcpSpinAgain(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcpPick(deps.Session.Reroll())
	}
}

func mcpToggleFavorite(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetInt("id", 0)
		if id == 0 {
			return mcpError("id is required"), nil
		}
		if _, ok := deps.Session.Lookup(id); !ok {
			return mcpError(fmt.Sprintf("activity %d not found", id)), nil
		}

		b, err := json.Marshal(toggle(deps.Session, id))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpListFavorites(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		favs := deps.Session.Favorites()
		if len(favs) == 0 {
			return mcpText("[]"), nil
		}
		b, err := json.Marshal(favs)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal favorites: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceCatalog(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Session.Catalog())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpPick(p session.Pick) (*mcp.CallToolResult, error) {
	if p.None() {
		return mcpText("No matching activity. Try a broader filter."), nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal pick: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
