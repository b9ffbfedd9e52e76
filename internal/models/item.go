package models

import "time"

// ItemStatus is the progress state of a list item.
type ItemStatus string

const (
	ItemStatusPending    ItemStatus = "PENDING"
	ItemStatusInProgress ItemStatus = "IN_PROGRESS"
	ItemStatusCompleted  ItemStatus = "COMPLETED"
)

// Valid reports whether s is a known item status.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusPending, ItemStatusInProgress, ItemStatusCompleted:
		return true
	}
	return false
}

// Priority ranks list items.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ListItem is a single entry on a list: a grocery, a task, a chore.
type ListItem struct {
	ID          string `json:"id"`
	ListID      string `json:"list_id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	AssignedToID *string    `json:"assigned_to_id,omitempty"`
	Quantity     *int       `json:"quantity,omitempty"`
	TimeEstimate *int       `json:"time_estimate,omitempty"` // minutes
	Priority     *Priority  `json:"priority,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`

	Status        ItemStatus `json:"status"`
	CompletedByID *string    `json:"completed_by_id,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListStats summarizes completion progress on a list.
type ListStats struct {
	TotalItems           int                `json:"total_items"`
	CompletedItems       int                `json:"completed_items"`
	CompletionPercentage float64            `json:"completion_percentage"`
	ItemsByStatus        map[ItemStatus]int `json:"items_by_status"`
	UserContributions    []UserContribution `json:"user_contributions"`
	LastCompletedAt      *time.Time         `json:"last_completed_at,omitempty"`
}

// UserContribution is how many of a list's items one user completed.
type UserContribution struct {
	UserID               string  `json:"user_id"`
	CompletedItems       int     `json:"completed_items"`
	CompletionPercentage float64 `json:"completion_percentage"`
}
