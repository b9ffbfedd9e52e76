package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/adrianbrandt/web-chores/internal/models"
	"github.com/adrianbrandt/web-chores/internal/storage"
)

const listColumns = "l.id, l.name, l.type, l.description, l.is_shared, l.group_id, l.owner_id, l.is_deleted, l.deleted_at, l.created_at, l.updated_at"

// listTargets returns Scan destinations for listColumns and a func that
// copies the scanned values into list.
func listTargets(list *models.List) (targets []any, finish func()) {
	var groupID sql.NullString
	var isShared, isDeleted int
	var deletedAt sql.NullInt64
	var createdAt, updatedAt int64
	targets = []any{&list.ID, &list.Name, &list.Type, &list.Description, &isShared,
		&groupID, &list.OwnerID, &isDeleted, &deletedAt, &createdAt, &updatedAt}
	finish = func() {
		list.IsShared = isShared != 0
		list.GroupID = stringFromNull(groupID)
		list.IsDeleted = isDeleted != 0
		list.DeletedAt = timeFromNull(deletedAt)
		list.CreatedAt = fromMillis(createdAt)
		list.UpdatedAt = fromMillis(updatedAt)
	}
	return targets, finish
}

func scanList(row rowScanner) (*models.List, error) {
	list := &models.List{}
	targets, finish := listTargets(list)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	finish()
	return list, nil
}

func collectLists(rows *sql.Rows) ([]*models.List, error) {
	defer rows.Close()

	lists := []*models.List{}
	for rows.Next() {
		list, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate lists: %w", err)
	}
	return lists, nil
}

// CreateList persists a new list.
func (q *queries) CreateList(ctx context.Context, list *models.List) error {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = q.now().UTC()
	}
	list.UpdatedAt = list.CreatedAt

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO lists (id, name, type, description, is_shared, group_id, owner_id, is_deleted, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		list.ID, list.Name, list.Type, list.Description, boolToInt(list.IsShared),
		nullString(list.GroupID), list.OwnerID, boolToInt(list.IsDeleted), nullMillis(list.DeletedAt),
		toMillis(list.CreatedAt), toMillis(list.UpdatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("failed to insert list: %w", storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert list: %w", err)
	}
	return nil
}

// GetList retrieves a list by ID, including soft-deleted ones.
func (q *queries) GetList(ctx context.Context, listID string) (*models.List, error) {
	list, err := scanList(q.db.QueryRowContext(ctx,
		"SELECT "+listColumns+" FROM lists l WHERE l.id = ?", listID))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return list, nil
}

// UpdateList persists the mutable list columns.
func (q *queries) UpdateList(ctx context.Context, list *models.List) error {
	list.UpdatedAt = q.now().UTC()

	res, err := q.db.ExecContext(ctx, `
		UPDATE lists
		SET name = ?, type = ?, description = ?, is_shared = ?, is_deleted = ?, deleted_at = ?, updated_at = ?
		WHERE id = ?`,
		list.Name, list.Type, list.Description, boolToInt(list.IsShared),
		boolToInt(list.IsDeleted), nullMillis(list.DeletedAt), toMillis(list.UpdatedAt), list.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	return requireAffected(res)
}

// ListGroupLists retrieves the non-deleted lists of a group, newest first.
func (q *queries) ListGroupLists(ctx context.Context, groupID string) ([]*models.List, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+listColumns+" FROM lists l WHERE l.group_id = ? AND l.is_deleted = 0 ORDER BY l.created_at DESC, l.id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group lists: %w", err)
	}
	return collectLists(rows)
}

// ListListsForUser retrieves non-deleted lists userID owns or collaborates on.
func (q *queries) ListListsForUser(ctx context.Context, userID string, filter models.ListFilter) ([]*models.List, error) {
	var sb strings.Builder
	sb.WriteString("SELECT " + listColumns + ` FROM lists l
		WHERE l.is_deleted = 0
		AND (l.owner_id = ? OR EXISTS (
			SELECT 1 FROM list_collaborators c WHERE c.list_id = l.id AND c.user_id = ?))`)
	args := []any{userID, userID}

	if filter.Type != "" {
		sb.WriteString(" AND l.type = ?")
		args = append(args, filter.Type)
	}
	if filter.GroupID != "" {
		sb.WriteString(" AND l.group_id = ?")
		args = append(args, filter.GroupID)
	}
	sb.WriteString(" ORDER BY l.created_at DESC, l.id")

	rows, err := q.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists for user: %w", err)
	}
	return collectLists(rows)
}

// CreateListCollaborators inserts every row, failing on the first duplicate.
// Run it inside WithTx so a failure leaves no partial rows.
func (q *queries) CreateListCollaborators(ctx context.Context, collaborators []*models.ListCollaborator) error {
	now := q.now().UTC()
	for _, c := range collaborators {
		if c.AddedAt.IsZero() {
			c.AddedAt = now
		}
		_, err := q.db.ExecContext(ctx,
			"INSERT INTO list_collaborators (list_id, user_id, role, added_at) VALUES (?, ?, ?, ?)",
			c.ListID, c.UserID, c.Role, toMillis(c.AddedAt),
		)
		if err != nil {
			if isConstraintViolation(err) {
				return fmt.Errorf("failed to insert list collaborator: %w", storage.ErrDuplicate)
			}
			return fmt.Errorf("failed to insert list collaborator: %w", err)
		}
	}
	return nil
}

// GetListCollaborator retrieves userID's collaborator row on a list.
func (q *queries) GetListCollaborator(ctx context.Context, listID, userID string) (*models.ListCollaborator, error) {
	c := &models.ListCollaborator{}
	var addedAt int64
	err := q.db.QueryRowContext(ctx,
		"SELECT list_id, user_id, role, added_at FROM list_collaborators WHERE list_id = ? AND user_id = ?",
		listID, userID,
	).Scan(&c.ListID, &c.UserID, &c.Role, &addedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list collaborator: %w", err)
	}
	c.AddedAt = fromMillis(addedAt)
	return c, nil
}

// DeleteListCollaborator removes userID's collaborator row on a list.
func (q *queries) DeleteListCollaborator(ctx context.Context, listID, userID string) error {
	res, err := q.db.ExecContext(ctx,
		"DELETE FROM list_collaborators WHERE list_id = ? AND user_id = ?", listID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete list collaborator: %w", err)
	}
	return requireAffected(res)
}

// ListCollaborators retrieves all collaborators of a list.
func (q *queries) ListCollaborators(ctx context.Context, listID string) ([]*models.ListCollaborator, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT list_id, user_id, role, added_at FROM list_collaborators WHERE list_id = ? ORDER BY added_at, user_id",
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaborators: %w", err)
	}
	defer rows.Close()

	collaborators := []*models.ListCollaborator{}
	for rows.Next() {
		c := &models.ListCollaborator{}
		var addedAt int64
		if err := rows.Scan(&c.ListID, &c.UserID, &c.Role, &addedAt); err != nil {
			return nil, fmt.Errorf("failed to scan list collaborator: %w", err)
		}
		c.AddedAt = fromMillis(addedAt)
		collaborators = append(collaborators, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list collaborators: %w", err)
	}
	return collaborators, nil
}
