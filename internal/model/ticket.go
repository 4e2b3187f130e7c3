package model

import "time"

type Label struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type Subtask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Ticket is a unit of work inside a project. Project and Team carry either the
// bare ID (depth 0) or the expanded object (depth >= 1); TeamID may be nil and
// then Team marshals as null.
type Ticket struct {
	ID          int64      `json:"id"`
	TicketID    string     `json:"ticketId"` // {prefix}-{counter}, assigned once at creation
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`   // TODO / IN_PROGRESS / DONE
	Priority    string     `json:"priority"` // NO_PRIORITY / URGENT / HIGH / MEDIUM / LOW
	Project     any        `json:"project"`
	Team        any        `json:"team"`
	BlockedBy   []int64    `json:"blockedBy"`
	Labels      []Label    `json:"labels"`
	Subtasks    []Subtask  `json:"subtasks"`
	DueDate     *time.Time `json:"dueDate"`
	SortOrder   int        `json:"sortOrder"` // position within the status column
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	ProjectID int64  `json:"-"`
	TeamID    *int64 `json:"-"`
}

type ActivityEntry struct {
	ID         int64          `json:"id"`
	EntityType string         `json:"entityType"`
	EntityID   int64          `json:"entityId"`
	Action     string         `json:"action"`
	Detail     map[string]any `json:"detail"`
	CreatedAt  time.Time      `json:"createdAt"`
}
