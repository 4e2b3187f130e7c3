package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"localpm/internal/model"
)

func registerTicketTools(s *server.MCPServer, client *Client) {
	s.AddTool(mcp.NewTool("list_tickets",
		mcp.WithDescription("List tickets in Local PM with optional filters. By default returns only basic fields (id, title, status, project). Use \"include\" to request additional fields."),
		mcp.WithString("projectId", mcp.Description("Filter by project ID")),
		mcp.WithString("teamId", mcp.Description("Filter by team ID")),
		mcp.WithString("status",
			mcp.Description("Filter by status"),
			mcp.Enum("todo", "in_progress", "done"),
		),
		mcp.WithString("priority",
			mcp.Description("Filter by priority"),
			mcp.Enum("no_priority", "urgent", "high", "medium", "low"),
		),
		mcp.WithNumber("limit", mcp.Description("Maximum number of tickets to return (default: 20)")),
		mcp.WithNumber("page", mcp.Description("Page number for pagination (1-indexed, default: 1). Use with limit to paginate through results.")),
		mcp.WithArray("include",
			mcp.Description("Additional fields to include in the response. By default only id, title, status, and project are returned."),
			mcp.Items(map[string]any{"type": "string", "enum": optionalTicketFields}),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := req.GetInt("limit", 20)
		page := req.GetInt("page", 1)
		include := req.GetStringSlice("include", nil)

		query := fmt.Sprintf("?limit=%d&page=%d&depth=1", limit, page)
		if projectID := req.GetString("projectId", ""); projectID != "" {
			query += "&where[project][equals]=" + projectID
		}
		if teamID := req.GetString("teamId", ""); teamID != "" {
			query += "&where[team][equals]=" + teamID
		}
		if status := req.GetString("status", ""); status != "" {
			query += "&where[status][equals]=" + model.ToStored(status)
		}
		if priority := req.GetString("priority", ""); priority != "" {
			query += "&where[priority][equals]=" + model.ToStored(priority)
		}

		var resp restPage
		if err := client.GetJSON(ctx, "/tickets"+query, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		resp.Docs = filterTickets(resp.Docs, include)
		return jsonResult(formatPaginated(resp))
	})

	s.AddTool(mcp.NewTool("get_ticket",
		mcp.WithDescription("Get detailed information about a specific ticket by ID"),
		mcp.WithString("id", mcp.Required(), mcp.Description("The ticket ID")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return rawResult(client.Get(ctx, "/tickets/"+id+"?depth=1"))
	})

	s.AddTool(mcp.NewTool("create_ticket",
		mcp.WithDescription("Create a new ticket in Local PM"),
		mcp.WithString("title", mcp.Required(), mcp.Description("Ticket title")),
		mcp.WithString("description", mcp.Description("Ticket description (supports HTML for rich text)")),
		mcp.WithString("project", mcp.Required(), mcp.Description("Project ID (required)")),
		mcp.WithString("team", mcp.Description("Team ID (optional)")),
		mcp.WithString("status",
			mcp.Description("Ticket status"),
			mcp.Enum("todo", "in_progress", "done"),
		),
		mcp.WithString("priority",
			mcp.Description("Ticket priority"),
			mcp.Enum("no_priority", "urgent", "high", "medium", "low"),
		),
		mcp.WithString("dueDate", mcp.Description("Due date in ISO format (YYYY-MM-DD)")),
		mcp.WithArray("labels",
			mcp.Description("Array of labels with name and color"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":  map[string]any{"type": "string"},
					"color": map[string]any{"type": "string"},
				},
				"required": []string{"name", "color"},
			}),
		),
		mcp.WithArray("subtasks",
			mcp.Description("Array of subtasks with title and completed status"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":     map[string]any{"type": "string"},
					"completed": map[string]any{"type": "boolean"},
				},
				"required": []string{"title"},
			}),
		),
		mcp.WithArray("blockedBy",
			mcp.Description("Array of ticket IDs that block this ticket. The ticket cannot be worked on until all blocking tickets are done."),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		project, err := req.RequireString("project")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		args := req.GetArguments()
		status := model.ToStored(req.GetString("status", ""))
		if status == "" {
			status = model.StatusTodo
		}
		priority := model.ToStored(req.GetString("priority", ""))
		if priority == "" {
			priority = model.PriorityNone
		}

		body := map[string]any{
			"title":       title,
			"description": req.GetString("description", ""),
			"project":     toNumber(project),
			"status":      status,
			"priority":    priority,
			"labels":      orEmptySlice(args["labels"]),
			"subtasks":    orEmptySlice(args["subtasks"]),
			"blockedBy":   numberSlice(args["blockedBy"]),
		}
		if team := req.GetString("team", ""); team != "" {
			body["team"] = toNumber(team)
		}
		if dueDate := req.GetString("dueDate", ""); dueDate != "" {
			body["dueDate"] = dueDate
		}
		return rawResult(client.Post(ctx, "/tickets", body))
	})

	s.AddTool(mcp.NewTool("update_ticket",
		mcp.WithDescription("Update an existing ticket"),
		mcp.WithString("id", mcp.Required(), mcp.Description("The ticket ID to update")),
		mcp.WithString("title", mcp.Description("New ticket title")),
		mcp.WithString("description", mcp.Description("New ticket description")),
		mcp.WithString("team", mcp.Description("New team ID (use null to unassign)")),
		mcp.WithString("status",
			mcp.Description("New ticket status"),
			mcp.Enum("todo", "in_progress", "done"),
		),
		mcp.WithString("priority",
			mcp.Description("New ticket priority"),
			mcp.Enum("no_priority", "urgent", "high", "medium", "low"),
		),
		mcp.WithString("dueDate", mcp.Description("New due date in ISO format (use null to clear)")),
		mcp.WithArray("labels",
			mcp.Description("New array of labels (replaces existing)"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":  map[string]any{"type": "string"},
					"color": map[string]any{"type": "string"},
				},
				"required": []string{"name", "color"},
			}),
		),
		mcp.WithArray("subtasks",
			mcp.Description("New array of subtasks (replaces existing)"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":     map[string]any{"type": "string"},
					"completed": map[string]any{"type": "boolean"},
				},
				"required": []string{"title"},
			}),
		),
		mcp.WithArray("blockedBy",
			mcp.Description("Array of ticket IDs that block this ticket (replaces existing). Use empty array to clear."),
			mcp.Items(map[string]any{"type": "string"}),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		args := req.GetArguments()
		updates := map[string]any{}
		if title, ok := args["title"].(string); ok && title != "" {
			updates["title"] = title
		}
		if description, ok := args["description"]; ok {
			updates["description"] = description
		}
		if team, ok := args["team"]; ok {
			if s, isString := team.(string); isString && s != "" {
				updates["team"] = toNumber(s)
			} else {
				updates["team"] = nil
			}
		}
		if status, ok := args["status"].(string); ok && status != "" {
			updates["status"] = model.ToStored(status)
		}
		if priority, ok := args["priority"].(string); ok && priority != "" {
			updates["priority"] = model.ToStored(priority)
		}
		if dueDate, ok := args["dueDate"]; ok {
			updates["dueDate"] = dueDate
		}
		if labels, ok := args["labels"]; ok {
			updates["labels"] = labels
		}
		if subtasks, ok := args["subtasks"]; ok {
			updates["subtasks"] = subtasks
		}
		if blockedBy, ok := args["blockedBy"]; ok {
			updates["blockedBy"] = numberSlice(blockedBy)
		}
		return rawResult(client.Patch(ctx, "/tickets/"+id, updates))
	})

	s.AddTool(mcp.NewTool("move_ticket",
		mcp.WithDescription("Move a ticket to a different status (column on the Kanban board)"),
		mcp.WithString("id", mcp.Required(), mcp.Description("The ticket ID to move")),
		mcp.WithString("status",
			mcp.Required(),
			mcp.Description("New status"),
			mcp.Enum("todo", "in_progress", "done"),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		status, err := req.RequireString("status")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return rawResult(client.Patch(ctx, "/tickets/"+id, map[string]any{
			"status": model.ToStored(status),
		}))
	})

	s.AddTool(mcp.NewTool("delete_ticket",
		mcp.WithDescription("Delete a ticket"),
		mcp.WithString("id", mcp.Required(), mcp.Description("The ticket ID to delete")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return rawResult(client.Delete(ctx, "/tickets/"+id))
	})
}
