package model

import (
	"regexp"
	"time"
)

// PrefixPattern is the shape of a project prefix (used to build ticket IDs like PROJ-12).
var PrefixPattern = regexp.MustCompile(`^[A-Z]{2,6}$`)

type Project struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Prefix        string    `json:"prefix"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Color         string    `json:"color"`
	Status        string    `json:"status"` // ACTIVE / ON_HOLD / COMPLETED / CANCELLED
	TicketCounter int64     `json:"ticketCounter"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type Team struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
