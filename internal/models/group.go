package models

import "time"

// GroupType categorizes a group.
type GroupType string

const (
	GroupTypeFamily    GroupType = "FAMILY"
	GroupTypeRoommates GroupType = "ROOMMATES"
	GroupTypeFriends   GroupType = "FRIENDS"
	GroupTypeCustom    GroupType = "CUSTOM"
)

// Valid reports whether t is a known group type.
func (t GroupType) Valid() bool {
	switch t {
	case GroupTypeFamily, GroupTypeRoommates, GroupTypeFriends, GroupTypeCustom:
		return true
	}
	return false
}

// GroupRole is a member's role within a group.
type GroupRole string

const (
	GroupRoleMember GroupRole = "MEMBER"
	GroupRoleAdmin  GroupRole = "ADMIN"
)

// Valid reports whether r is a known group role.
func (r GroupRole) Valid() bool {
	switch r {
	case GroupRoleMember, GroupRoleAdmin:
		return true
	}
	return false
}

// Group represents a set of users sharing lists.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Family").
	Name string `json:"name"`

	Description string    `json:"description,omitempty"`
	Type        GroupType `json:"type"`

	// InviteCode lets a user join the group without an admin adding them.
	// Rotated by GenerateInviteCode.
	InviteCode string `json:"invite_code"`

	// CreatedByID is the user who created the group and became its first admin.
	CreatedByID string `json:"created_by_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GroupMember is one user's membership in a group.
type GroupMember struct {
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	Role     GroupRole `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// GroupDetails is a group with its members and its non-deleted lists.
type GroupDetails struct {
	Group   *Group         `json:"group"`
	Members []*GroupMember `json:"members"`
	Lists   []*List        `json:"lists"`
}

// UserGroup is a group seen from one member's perspective.
type UserGroup struct {
	Group *Group    `json:"group"`
	Role  GroupRole `json:"role"`
}
