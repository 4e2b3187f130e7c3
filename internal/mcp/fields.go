package mcp

var defaultTicketFields = []string{"id", "title", "status", "project"}

var optionalTicketFields = []string{
	"description", "team", "priority", "dueDate", "labels", "subtasks",
	"blockedBy", "sortOrder", "createdAt", "updatedAt",
}

// filterTicket projects a ticket down to the default fields plus any
// requested optional fields. Unknown include values are ignored.
func filterTicket(ticket map[string]any, include []string) map[string]any {
	fields := make(map[string]struct{}, len(defaultTicketFields)+len(include))
	for _, f := range defaultTicketFields {
		fields[f] = struct{}{}
	}
	for _, f := range include {
		for _, opt := range optionalTicketFields {
			if f == opt {
				fields[f] = struct{}{}
				break
			}
		}
	}

	filtered := make(map[string]any, len(fields))
	for field := range fields {
		if v, ok := ticket[field]; ok {
			filtered[field] = v
		}
	}
	return filtered
}

func filterTickets(tickets []map[string]any, include []string) []map[string]any {
	out := make([]map[string]any, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, filterTicket(t, include))
	}
	return out
}
