package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/adrianbrandt/web-chores/internal/models"
	"github.com/adrianbrandt/web-chores/internal/storage"
)

const itemColumns = `id, list_id, title, description, assigned_to_id, quantity, time_estimate,
	priority, due_date, status, completed_by_id, completed_at, created_at, updated_at`

func scanItem(row rowScanner) (*models.ListItem, error) {
	item := &models.ListItem{}
	var assignedTo, priority, completedBy sql.NullString
	var quantity, timeEstimate, dueDate, completedAt sql.NullInt64
	var createdAt, updatedAt int64
	if err := row.Scan(&item.ID, &item.ListID, &item.Title, &item.Description,
		&assignedTo, &quantity, &timeEstimate, &priority, &dueDate, &item.Status,
		&completedBy, &completedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	item.AssignedToID = stringFromNull(assignedTo)
	item.Quantity = intFromNull(quantity)
	item.TimeEstimate = intFromNull(timeEstimate)
	if priority.Valid {
		p := models.Priority(priority.String)
		item.Priority = &p
	}
	item.DueDate = timeFromNull(dueDate)
	item.CompletedByID = stringFromNull(completedBy)
	item.CompletedAt = timeFromNull(completedAt)
	item.CreatedAt = fromMillis(createdAt)
	item.UpdatedAt = fromMillis(updatedAt)
	return item, nil
}

func nullPriority(p *models.Priority) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(*p), Valid: true}
}

// CreateListItem persists a new item.
func (q *queries) CreateListItem(ctx context.Context, item *models.ListItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = models.ItemStatusPending
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = q.now().UTC()
	}
	item.UpdatedAt = item.CreatedAt

	_, err := q.db.ExecContext(ctx,
		"INSERT INTO list_items ("+itemColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.ListID, item.Title, item.Description,
		nullString(item.AssignedToID), nullInt(item.Quantity), nullInt(item.TimeEstimate),
		nullPriority(item.Priority), nullMillis(item.DueDate), item.Status,
		nullString(item.CompletedByID), nullMillis(item.CompletedAt),
		toMillis(item.CreatedAt), toMillis(item.UpdatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("failed to insert list item: %w", storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert list item: %w", err)
	}
	return nil
}

// GetListItem retrieves an item by ID.
func (q *queries) GetListItem(ctx context.Context, itemID string) (*models.ListItem, error) {
	item, err := scanItem(q.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+" FROM list_items WHERE id = ?", itemID))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list item: %w", err)
	}
	return item, nil
}

// UpdateListItem overwrites every mutable column of an item.
func (q *queries) UpdateListItem(ctx context.Context, item *models.ListItem) error {
	item.UpdatedAt = q.now().UTC()

	res, err := q.db.ExecContext(ctx, `
		UPDATE list_items
		SET title = ?, description = ?, assigned_to_id = ?, quantity = ?, time_estimate = ?,
			priority = ?, due_date = ?, status = ?, completed_by_id = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		item.Title, item.Description, nullString(item.AssignedToID), nullInt(item.Quantity),
		nullInt(item.TimeEstimate), nullPriority(item.Priority), nullMillis(item.DueDate), item.Status,
		nullString(item.CompletedByID), nullMillis(item.CompletedAt), toMillis(item.UpdatedAt), item.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update list item: %w", err)
	}
	return requireAffected(res)
}

// DeleteListItem removes an item.
func (q *queries) DeleteListItem(ctx context.Context, itemID string) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM list_items WHERE id = ?", itemID)
	if err != nil {
		return fmt.Errorf("failed to delete list item: %w", err)
	}
	return requireAffected(res)
}

// ListItems retrieves the items of a list in creation order.
func (q *queries) ListItems(ctx context.Context, listID string) ([]*models.ListItem, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM list_items WHERE list_id = ? ORDER BY created_at, id", listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := []*models.ListItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate list items: %w", err)
	}
	return items, nil
}
