package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"localpm/internal/model"
)

func registerProjectTools(s *server.MCPServer, client *Client, logger *zap.Logger) {
	s.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List all projects in Local PM. Returns project name, prefix, status, color, icon, and ticket count."),
		mcp.WithString("status",
			mcp.Description("Filter by status: active, on_hold, completed, cancelled"),
			mcp.Enum("active", "on_hold", "completed", "cancelled"),
		),
		mcp.WithNumber("limit", mcp.Description("Maximum number of projects to return (default: 20)")),
		mcp.WithNumber("page", mcp.Description("Page number for pagination (1-indexed, default: 1). Use with limit to paginate through results.")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 20)
		page := req.GetInt("page", 1)
		query := fmt.Sprintf("?limit=%d&page=%d&depth=0", limit, page)
		if status := req.GetString("status", ""); status != "" {
			query += "&where[status][equals]=" + model.ToStored(status)
		}

		var resp restPage
		if err := client.GetJSON(ctx, "/projects"+query, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(formatPaginated(resp))
	})

	s.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Get detailed information about a specific project by ID"),
		mcp.WithString("id", mcp.Required(), mcp.Description("The project ID")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return rawResult(client.Get(ctx, "/projects/"+id+"?depth=1"))
	})

	s.AddTool(mcp.NewTool("create_project",
		mcp.WithDescription("Create a new project in Local PM"),
		mcp.WithString("name", mcp.Required(), mcp.Description("Project name")),
		mcp.WithString("prefix", mcp.Required(), mcp.Description("Project prefix (2-6 uppercase letters, used for ticket IDs like PROJ-1)")),
		mcp.WithString("description", mcp.Description("Project description (supports HTML for rich text)")),
		mcp.WithString("status",
			mcp.Description("Project status"),
			mcp.Enum("active", "on_hold", "completed", "cancelled"),
		),
		mcp.WithString("icon", mcp.Description("Icon name: folder, rocket, zap, star, heart, flag, target, briefcase, code, box, layers, database")),
		mcp.WithString("color", mcp.Description("Hex color code (e.g., #6366f1)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		prefix, err := req.RequireString("prefix")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		status := model.ToStored(req.GetString("status", ""))
		if status == "" {
			status = model.ProjectActive
		}
		body := map[string]any{
			"name":        name,
			"prefix":      strings.ToUpper(prefix),
			"description": req.GetString("description", ""),
			"status":      status,
			"icon":        req.GetString("icon", "folder"),
			"color":       req.GetString("color", "#6366f1"),
		}
		return rawResult(client.Post(ctx, "/projects", body))
	})

	s.AddTool(mcp.NewTool("update_project",
		mcp.WithDescription("Update an existing project"),
		mcp.WithString("id", mcp.Required(), mcp.Description("The project ID to update")),
		mcp.WithString("name", mcp.Description("New project name")),
		mcp.WithString("description", mcp.Description("New project description")),
		mcp.WithString("status",
			mcp.Description("New project status"),
			mcp.Enum("active", "on_hold", "completed", "cancelled"),
		),
		mcp.WithString("icon", mcp.Description("New icon name")),
		mcp.WithString("color", mcp.Description("New hex color code")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		args := req.GetArguments()
		updates := map[string]any{}
		if name, ok := args["name"].(string); ok && name != "" {
			updates["name"] = name
		}
		if description, ok := args["description"]; ok {
			updates["description"] = description
		}
		if status, ok := args["status"].(string); ok && status != "" {
			updates["status"] = model.ToStored(status)
		}
		if icon, ok := args["icon"].(string); ok && icon != "" {
			updates["icon"] = icon
		}
		if color, ok := args["color"].(string); ok && color != "" {
			updates["color"] = color
		}
		return rawResult(client.Patch(ctx, "/projects/"+id, updates))
	})

	s.AddTool(mcp.NewTool("delete_project",
		mcp.WithDescription("Delete a project and optionally all its tickets"),
		mcp.WithString("id", mcp.Required(), mcp.Description("The project ID to delete")),
		mcp.WithBoolean("deleteTickets", mcp.Description("Whether to delete all tickets in the project (default: true)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return rawResult(deleteProjectCascade(ctx, client, logger, id, req.GetBool("deleteTickets", true)))
	})
}

// deleteProjectCascade optionally deletes the project's tickets first, then
// the project. Ticket deletion is best effort: a failed delete is logged and
// the loop continues, so the project is removed regardless.
func deleteProjectCascade(ctx context.Context, client *Client, logger *zap.Logger, id string, deleteTickets bool) (json.RawMessage, error) {
	if deleteTickets {
		var resp restPage
		if err := client.GetJSON(ctx, fmt.Sprintf("/tickets?where[project][equals]=%s&limit=1000", id), &resp); err != nil {
			return nil, err
		}
		for _, ticket := range resp.Docs {
			ticketID, ok := ticket["id"]
			if !ok {
				continue
			}
			if _, err := client.Delete(ctx, fmt.Sprintf("/tickets/%v", ticketID)); err != nil {
				logger.Warn("Failed to delete project ticket",
					zap.String("project_id", id),
					zap.Any("ticket_id", ticketID),
					zap.Error(err),
				)
			}
		}
	}
	return client.Delete(ctx, "/projects/"+id)
}
