package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"localpm/internal/model"
)

type boardSummary struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
}

type boardResult struct {
	Todo       []map[string]any `json:"todo"`
	InProgress []map[string]any `json:"in_progress"`
	Done       []map[string]any `json:"done"`
	Summary    boardSummary     `json:"summary"`
}

// groupBoard splits tickets by status and applies the field projection.
func groupBoard(tickets []map[string]any, include []string) boardResult {
	b := boardResult{
		Todo:       []map[string]any{},
		InProgress: []map[string]any{},
		Done:       []map[string]any{},
	}
	for _, t := range tickets {
		status, _ := t["status"].(string)
		switch status {
		case model.StatusInProgress:
			b.InProgress = append(b.InProgress, filterTicket(t, include))
		case model.StatusDone:
			b.Done = append(b.Done, filterTicket(t, include))
		default:
			b.Todo = append(b.Todo, filterTicket(t, include))
		}
	}
	b.Summary = boardSummary{
		Total:      len(tickets),
		Todo:       len(b.Todo),
		InProgress: len(b.InProgress),
		Done:       len(b.Done),
	}
	return b
}

func registerBoardTools(s *server.MCPServer, client *Client) {
	s.AddTool(mcp.NewTool("get_board",
		mcp.WithDescription("Get the full Kanban board with tickets grouped by status. Optionally filter by project or team. By default returns only basic ticket fields (id, title, status, project). Use \"include\" to request additional fields."),
		mcp.WithString("projectId", mcp.Description("Filter by project ID")),
		mcp.WithString("teamId", mcp.Description("Filter by team ID")),
		mcp.WithArray("include",
			mcp.Description("Additional ticket fields to include. By default only id, title, status, and project are returned."),
			mcp.Items(map[string]any{"type": "string", "enum": optionalTicketFields}),
		),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		include := req.GetStringSlice("include", nil)

		query := "?limit=1000&depth=1"
		if projectID := req.GetString("projectId", ""); projectID != "" {
			query += "&where[project][equals]=" + projectID
		}
		if teamID := req.GetString("teamId", ""); teamID != "" {
			query += "&where[team][equals]=" + teamID
		}

		var resp restPage
		if err := client.GetJSON(ctx, "/tickets"+query, &resp); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(groupBoard(resp.Docs, include))
	})
}
