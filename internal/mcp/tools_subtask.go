package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type ticketSubtasks struct {
	Subtasks []struct {
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	} `json:"subtasks"`
}

func registerSubtaskTools(s *server.MCPServer, client *Client) {
	s.AddTool(mcp.NewTool("toggle_subtask",
		mcp.WithDescription("Toggle a subtask completion status"),
		mcp.WithString("ticketId", mcp.Required(), mcp.Description("The ticket ID containing the subtask")),
		mcp.WithNumber("subtaskIndex", mcp.Required(), mcp.Description("The index of the subtask to toggle (0-based)")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticketID, err := req.RequireString("ticketId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		index, err := req.RequireInt("subtaskIndex")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var ticket ticketSubtasks
		if err := client.GetJSON(ctx, "/tickets/"+ticketID, &ticket); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if index < 0 || index >= len(ticket.Subtasks) {
			return mcp.NewToolResultError(fmt.Sprintf("Subtask index %d out of range", index)), nil
		}
		ticket.Subtasks[index].Completed = !ticket.Subtasks[index].Completed

		return rawResult(client.Patch(ctx, "/tickets/"+ticketID, map[string]any{
			"subtasks": ticket.Subtasks,
		}))
	})

	s.AddTool(mcp.NewTool("add_subtask",
		mcp.WithDescription("Add a subtask to a ticket"),
		mcp.WithString("ticketId", mcp.Required(), mcp.Description("The ticket ID to add subtask to")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Subtask title")),
	), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ticketID, err := req.RequireString("ticketId")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		title, err := req.RequireString("title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var ticket ticketSubtasks
		if err := client.GetJSON(ctx, "/tickets/"+ticketID, &ticket); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		subtasks := append(ticket.Subtasks, struct {
			Title     string `json:"title"`
			Completed bool   `json:"completed"`
		}{Title: title})

		return rawResult(client.Patch(ctx, "/tickets/"+ticketID, map[string]any{
			"subtasks": subtasks,
		}))
	})
}
