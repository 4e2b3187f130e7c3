package model

import "strings"

// Ticket status values (stored form).
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Ticket priority values (stored form).
const (
	PriorityNone   = "NO_PRIORITY"
	PriorityUrgent = "URGENT"
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// Project status values (stored form).
const (
	ProjectActive    = "ACTIVE"
	ProjectOnHold    = "ON_HOLD"
	ProjectCompleted = "COMPLETED"
	ProjectCancelled = "CANCELLED"
)

// storedVocab maps the lowercase vocabulary used by automation clients to the
// uppercase stored form. Unknown values pass through unchanged.
var storedVocab = map[string]string{
	"active":      ProjectActive,
	"on_hold":     ProjectOnHold,
	"completed":   ProjectCompleted,
	"cancelled":   ProjectCancelled,
	"todo":        StatusTodo,
	"in_progress": StatusInProgress,
	"done":        StatusDone,
	"no_priority": PriorityNone,
	"urgent":      PriorityUrgent,
	"high":        PriorityHigh,
	"medium":      PriorityMedium,
	"low":         PriorityLow,
}

// ToStored translates an external lowercase value into its stored form.
func ToStored(value string) string {
	if stored, ok := storedVocab[value]; ok {
		return stored
	}
	return value
}

// ToExternal translates a stored value into the lowercase external form.
func ToExternal(value string) string {
	return strings.ToLower(value)
}

func ValidTicketStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

func ValidTicketPriority(p string) bool {
	switch p {
	case PriorityNone, PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}
