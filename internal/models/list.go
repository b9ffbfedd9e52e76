package models

import "time"

// ListType categorizes a list.
type ListType string

const (
	ListTypeShopping ListType = "SHOPPING"
	ListTypeTodo     ListType = "TODO"
	ListTypeChores   ListType = "CHORES"
	ListTypeCustom   ListType = "CUSTOM"
)

// Valid reports whether t is a known list type.
func (t ListType) Valid() bool {
	switch t {
	case ListTypeShopping, ListTypeTodo, ListTypeChores, ListTypeCustom:
		return true
	}
	return false
}

// ListCollaboratorRole is a collaborator's role on a list.
// The list owner is not a collaborator and needs no role.
type ListCollaboratorRole string

const (
	ListRoleViewer ListCollaboratorRole = "VIEWER"
	ListRoleEditor ListCollaboratorRole = "EDITOR"
	ListRoleOwner  ListCollaboratorRole = "OWNER"
)

// Valid reports whether r is a known collaborator role.
func (r ListCollaboratorRole) Valid() bool {
	switch r {
	case ListRoleViewer, ListRoleEditor, ListRoleOwner:
		return true
	}
	return false
}

// List is a named collection of items.
type List struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        ListType `json:"type"`
	Description string   `json:"description,omitempty"`
	IsShared    bool     `json:"is_shared"`

	// GroupID is set when the list belongs to a group.
	GroupID *string `json:"group_id,omitempty"`

	// OwnerID has full authority over the list regardless of collaborator rows.
	OwnerID string `json:"owner_id"`

	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ListCollaborator grants a user access to a list.
type ListCollaborator struct {
	ListID  string               `json:"list_id"`
	UserID  string               `json:"user_id"`
	Role    ListCollaboratorRole `json:"role"`
	AddedAt time.Time            `json:"added_at"`
}

// ListDetails is a list with its items, collaborators and recurrence.
type ListDetails struct {
	List          *List               `json:"list"`
	Items         []*ListItem         `json:"items"`
	Collaborators []*ListCollaborator `json:"collaborators"`
	Recurrence    *ListRecurrence     `json:"recurrence,omitempty"`
}

// ListFilter narrows GetUserLists. Empty fields match everything.
type ListFilter struct {
	Type    ListType `json:"type,omitempty"`
	GroupID string   `json:"group_id,omitempty"`
}
