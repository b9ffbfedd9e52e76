// Package access holds the role policy for groups and lists.
//
// Every predicate is a pure function of the caller's relationship to the
// resource. Switches enumerate every role value without a default branch,
// so adding a role surfaces each predicate that has to decide about it.
package access

import "github.com/adrianbrandt/web-chores/internal/models"

// ListAction is a change to who can access a list.
type ListAction int

const (
	ActionAddCollaborator ListAction = iota
	ActionRemoveCollaborator
)

// String returns the string representation of the action.
func (a ListAction) String() string {
	switch a {
	case ActionAddCollaborator:
		return "add_collaborator"
	case ActionRemoveCollaborator:
		return "remove_collaborator"
	}
	return "unknown"
}

// CanManageGroup reports whether a member with role may add or remove
// members, edit group details or rotate the invite code.
func CanManageGroup(role models.GroupRole) bool {
	switch role {
	case models.GroupRoleAdmin:
		return true
	case models.GroupRoleMember:
		return false
	}
	return false
}

// CanViewList reports whether the caller may see a list. role is nil when
// the caller has no collaborator row.
func CanViewList(isOwner bool, role *models.ListCollaboratorRole) bool {
	if isOwner {
		return true
	}
	if role == nil {
		return false
	}
	switch *role {
	case models.ListRoleViewer, models.ListRoleEditor, models.ListRoleOwner:
		return true
	}
	return false
}

// CanEditList reports whether the caller may change a list or its items.
func CanEditList(isOwner bool, role *models.ListCollaboratorRole) bool {
	if isOwner {
		return true
	}
	if role == nil {
		return false
	}
	switch *role {
	case models.ListRoleEditor, models.ListRoleOwner:
		return true
	case models.ListRoleViewer:
		return false
	}
	return false
}

// CanManageListAccess reports whether the caller may perform action on the
// list's collaborators. Adding is open to editors; removing needs the
// OWNER collaborator role.
func CanManageListAccess(isOwner bool, role *models.ListCollaboratorRole, action ListAction) bool {
	if isOwner {
		return true
	}
	if role == nil {
		return false
	}
	switch action {
	case ActionAddCollaborator:
		switch *role {
		case models.ListRoleEditor, models.ListRoleOwner:
			return true
		case models.ListRoleViewer:
			return false
		}
	case ActionRemoveCollaborator:
		switch *role {
		case models.ListRoleOwner:
			return true
		case models.ListRoleEditor, models.ListRoleViewer:
			return false
		}
	}
	return false
}

// CanDeleteList reports whether the caller may delete a list. Only the
// true owner can; an OWNER collaborator cannot.
func CanDeleteList(isOwner bool) bool {
	return isOwner
}

// RoleOf returns the role carried by a collaborator row, or nil for a
// caller without one.
func RoleOf(c *models.ListCollaborator) *models.ListCollaboratorRole {
	if c == nil {
		return nil
	}
	role := c.Role
	return &role
}
