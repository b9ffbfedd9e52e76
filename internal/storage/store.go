// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/adrianbrandt/web-chores/internal/models"
)

// ErrNotFound is returned by point reads when no row matches.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned by inserts that violate a primary or unique key.
var ErrDuplicate = errors.New("duplicate key")

// Tx is the set of reads and writes available inside a unit of work.
// Implementations are also usable outside a transaction for plain reads.
type Tx interface {
	// CreateGroup persists a new group. ID and timestamps are filled in
	// by the store when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// GetGroupByInviteCode returns ErrNotFound if no group uses the code.
	GetGroupByInviteCode(ctx context.Context, inviteCode string) (*models.Group, error)

	// UpdateGroup overwrites name, description, type and invite code.
	UpdateGroup(ctx context.Context, group *models.Group) error

	CreateGroupMember(ctx context.Context, member *models.GroupMember) error

	// GetGroupMember returns ErrNotFound if userID is not a member.
	GetGroupMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error)

	// DeleteGroupMember returns ErrNotFound if no row was removed.
	DeleteGroupMember(ctx context.Context, groupID, userID string) error

	CountGroupMembersByRole(ctx context.Context, groupID string, role models.GroupRole) (int, error)

	CreateList(ctx context.Context, list *models.List) error

	// GetList returns ErrNotFound if the list does not exist. Soft-deleted
	// lists are returned with IsDeleted set.
	GetList(ctx context.Context, listID string) (*models.List, error)

	// UpdateList overwrites name, type, description, is_shared and the
	// soft-delete columns.
	UpdateList(ctx context.Context, list *models.List) error

	// CreateListCollaborators inserts all rows or returns ErrDuplicate.
	CreateListCollaborators(ctx context.Context, collaborators []*models.ListCollaborator) error

	// GetListCollaborator returns ErrNotFound if userID has no row.
	GetListCollaborator(ctx context.Context, listID, userID string) (*models.ListCollaborator, error)

	// DeleteListCollaborator returns ErrNotFound if no row was removed.
	DeleteListCollaborator(ctx context.Context, listID, userID string) error

	CreateListRecurrence(ctx context.Context, rec *models.ListRecurrence) error

	// GetListRecurrence returns ErrNotFound if the list has no recurrence.
	GetListRecurrence(ctx context.Context, listID string) (*models.ListRecurrence, error)

	UpdateListRecurrence(ctx context.Context, rec *models.ListRecurrence) error

	CreateListItem(ctx context.Context, item *models.ListItem) error

	// GetListItem returns ErrNotFound if the item does not exist.
	GetListItem(ctx context.Context, itemID string) (*models.ListItem, error)

	UpdateListItem(ctx context.Context, item *models.ListItem) error

	// DeleteListItem returns ErrNotFound if no row was removed.
	DeleteListItem(ctx context.Context, itemID string) error
}

// Store defines the interface for web-chores storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	Tx

	// WithTx runs fn inside one write transaction. The transaction commits
	// when fn returns nil and rolls back on any error, which WithTx returns
	// unchanged.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// ListGroupMembers returns all members of a group ordered by join time.
	ListGroupMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error)

	// ListGroupsForUser returns every group userID belongs to with their role.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.UserGroup, error)

	// ListGroupLists returns the non-deleted lists that belong to a group.
	ListGroupLists(ctx context.Context, groupID string) ([]*models.List, error)

	// ListListsForUser returns non-deleted lists userID owns or collaborates on.
	ListListsForUser(ctx context.Context, userID string, filter models.ListFilter) ([]*models.List, error)

	ListCollaborators(ctx context.Context, listID string) ([]*models.ListCollaborator, error)

	ListItems(ctx context.Context, listID string) ([]*models.ListItem, error)

	// ListRegenerationCandidates returns recurrences whose end date has not
	// passed and whose last occurrence is unset or before now, joined with
	// their non-deleted anchor list.
	ListRegenerationCandidates(ctx context.Context, now time.Time) ([]*models.DueRecurrence, error)

	// Close releases any resources held by the store.
	Close() error
}
