package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTeamTools(s *server.MCPServer, client *Client) {
	s.AddTool(mcp.NewTool("list_teams",
		mcp.WithDescription("List all teams in Local PM"),
		mcp.WithNumber("limit", mcp.Description("Maximum number of teams to return (default: 20)")),
		mcp.WithNumber("page", mcp.Description("Page number for pagination (1-indexed, default: 1). Use with limit to paginate through results.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 20)
		page := req.GetInt("page", 1)
		query := fmt.Sprintf("?limit=%d&page=%d&depth=0", limit, page)

		var resp restPage
		if err := client.GetJSON(ctx, "/teams"+query, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(formatPaginated(resp))
	})

	s.AddTool(mcp.NewTool("get_team",
		mcp.WithDescription("Get detailed information about a specific team by ID"),
		mcp.WithString("id", mcp.Required(), mcp.Description("The team ID")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return rawResult(client.Get(ctx, "/teams/"+id+"?depth=1"))
	})

	s.AddTool(mcp.NewTool("create_team",
		mcp.WithDescription("Create a new team in Local PM"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Team name")),
		mcp.WithString("description", mcp.Description("Team description (supports HTML for rich text)")),
		mcp.WithString("color", mcp.Description("Hex color code (e.g., #6366f1)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		body := map[string]any{
			"name":        name,
			"description": req.GetString("description", ""),
			"color":       req.GetString("color", "#6366f1"),
		}
		return rawResult(client.Post(ctx, "/teams", body))
	})

	s.AddTool(mcp.NewTool("update_team",
		mcp.WithDescription("Update an existing team"),
		mcp.WithString("id", mcp.Required(), mcp.Description("The team ID to update")),
		mcp.WithString("name", mcp.Description("New team name")),
		mcp.WithString("description", mcp.Description("New team description")),
		mcp.WithString("color", mcp.Description("New hex color code")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		updates := map[string]any{}
		for key, value := range req.GetArguments() {
			if key == "id" {
				continue
			}
			updates[key] = value
		}
		return rawResult(client.Patch(ctx, "/teams/"+id, updates))
	})

	s.AddTool(mcp.NewTool("delete_team",
		mcp.WithDescription("Delete a team (tickets assigned to this team will become unassigned)"),
		mcp.WithString("id", mcp.Required(), mcp.Description("The team ID to delete")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return rawResult(client.Delete(ctx, "/teams/"+id))
	})
}
