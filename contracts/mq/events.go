package mq

// Routing keys published on the "events" topic exchange.
const (
	TicketCreatedKey  = "ticket.created"
	TicketUpdatedKey  = "ticket.updated"
	TicketMovedKey    = "ticket.moved"
	TicketDeletedKey  = "ticket.deleted"
	ProjectDeletedKey = "project.deleted"
)

type TicketEventPayload struct {
	TicketID  int64  `json:"ticket_id"`
	TicketKey string `json:"ticket_key"` // e.g. PROJ-12
	ProjectID int64  `json:"project_id"`
	Title     string `json:"title"`
	Status    string `json:"status"`
	Action    string `json:"action"` // created / updated / moved / deleted
}

type ProjectEventPayload struct {
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
	Prefix    string `json:"prefix"`
	Action    string `json:"action"`
}
