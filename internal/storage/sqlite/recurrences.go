package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/adrianbrandt/web-chores/internal/models"
	"github.com/adrianbrandt/web-chores/internal/storage"
)

const recurrenceColumns = "r.id, r.list_id, r.frequency, r.custom_interval, r.start_date, r.end_date, r.last_occurrence"

// recurrenceTargets mirrors listTargets for recurrenceColumns.
func recurrenceTargets(dest *models.ListRecurrence) (targets []any, finish func()) {
	var customInterval, endDate, lastOccurrence sql.NullInt64
	var startDate int64
	targets = []any{&dest.ID, &dest.ListID, &dest.Frequency, &customInterval, &startDate, &endDate, &lastOccurrence}
	finish = func() {
		dest.CustomInterval = intFromNull(customInterval)
		dest.StartDate = fromMillis(startDate)
		dest.EndDate = timeFromNull(endDate)
		dest.LastOccurrence = timeFromNull(lastOccurrence)
	}
	return targets, finish
}

// CreateListRecurrence attaches a schedule to a list.
func (q *queries) CreateListRecurrence(ctx context.Context, rec *models.ListRecurrence) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO list_recurrences (id, list_id, frequency, custom_interval, start_date, end_date, last_occurrence)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ListID, rec.Frequency, nullInt(rec.CustomInterval),
		toMillis(rec.StartDate), nullMillis(rec.EndDate), nullMillis(rec.LastOccurrence),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("failed to insert list recurrence: %w", storage.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert list recurrence: %w", err)
	}
	return nil
}

// GetListRecurrence retrieves the schedule of a list.
func (q *queries) GetListRecurrence(ctx context.Context, listID string) (*models.ListRecurrence, error) {
	rec := &models.ListRecurrence{}
	targets, finish := recurrenceTargets(rec)
	err := q.db.QueryRowContext(ctx,
		"SELECT "+recurrenceColumns+" FROM list_recurrences r WHERE r.list_id = ?", listID,
	).Scan(targets...)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list recurrence: %w", err)
	}
	finish()
	return rec, nil
}

// UpdateListRecurrence persists the schedule fields and last occurrence.
func (q *queries) UpdateListRecurrence(ctx context.Context, rec *models.ListRecurrence) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE list_recurrences
		SET frequency = ?, custom_interval = ?, start_date = ?, end_date = ?, last_occurrence = ?
		WHERE id = ?`,
		rec.Frequency, nullInt(rec.CustomInterval), toMillis(rec.StartDate),
		nullMillis(rec.EndDate), nullMillis(rec.LastOccurrence), rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update list recurrence: %w", err)
	}
	return requireAffected(res)
}

// ListRegenerationCandidates retrieves schedules that have not ended and
// have not fired at or after now, joined with their live anchor list.
func (q *queries) ListRegenerationCandidates(ctx context.Context, now time.Time) ([]*models.DueRecurrence, error) {
	nowMs := toMillis(now)
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+recurrenceColumns+`, `+listColumns+`
		FROM list_recurrences r
		JOIN lists l ON l.id = r.list_id
		WHERE l.is_deleted = 0
		AND (r.end_date IS NULL OR r.end_date >= ?)
		AND (r.last_occurrence IS NULL OR r.last_occurrence < ?)
		ORDER BY r.start_date, r.id`,
		nowMs, nowMs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list regeneration candidates: %w", err)
	}
	defer rows.Close()

	due := []*models.DueRecurrence{}
	for rows.Next() {
		rec := &models.ListRecurrence{}
		recTargets, finish := recurrenceTargets(rec)

		list := &models.List{}
		listDest, finishList := listTargets(list)

		if err := rows.Scan(append(recTargets, listDest...)...); err != nil {
			return nil, fmt.Errorf("failed to scan regeneration candidate: %w", err)
		}
		finish()
		finishList()

		due = append(due, &models.DueRecurrence{Recurrence: rec, List: list})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate regeneration candidates: %w", err)
	}
	return due, nil
}
