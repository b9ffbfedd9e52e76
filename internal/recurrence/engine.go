// Package recurrence re-creates recurring lists on schedule.
//
// A run selects every recurrence that has not ended and has not fired at
// or after now, keeps those whose next occurrence has arrived, and for
// each one copies the anchor list and stamps LastOccurrence in its own
// transaction. A failed recurrence is reported and the run moves on.
package recurrence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adrianbrandt/web-chores/internal/calculator"
	"github.com/adrianbrandt/web-chores/internal/events"
	"github.com/adrianbrandt/web-chores/internal/models"
	"github.com/adrianbrandt/web-chores/internal/storage"
)

const (
	lockKey = "chores:recurrence:run"
	lockTTL = 5 * time.Minute
)

// errNotDue is returned inside a regeneration transaction when the
// recurrence was already handled by a concurrent run.
var errNotDue = errors.New("recurrence no longer due")

// Failure records one recurrence that could not be regenerated.
type Failure struct {
	RecurrenceID string `json:"recurrence_id"`
	ListID       string `json:"list_id"`
	Err          error  `json:"-"`
}

// RunResult summarizes one regeneration run.
type RunResult struct {
	// Skipped is set when another replica held the run lock.
	Skipped     bool      `json:"skipped"`
	Selected    int       `json:"selected"`
	NotDue      int       `json:"not_due"`
	Regenerated int       `json:"regenerated"`
	NewListIDs  []string  `json:"new_list_ids"`
	Failures    []Failure `json:"failures,omitempty"`
}

// Engine regenerates recurring lists with system authority.
type Engine struct {
	store     storage.Store
	logger    *slog.Logger
	now       func() time.Time
	locker    Locker
	publisher events.Publisher
	metrics   *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocker coordinates runs across replicas.
func WithLocker(l Locker) Option { return func(e *Engine) { e.locker = l } }

// WithPublisher emits a list.regenerated event for every new list.
func WithPublisher(p events.Publisher) Option { return func(e *Engine) { e.publisher = p } }

// WithMetrics records run metrics.
func WithMetrics(m *Metrics) Option { return func(e *Engine) { e.metrics = m } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

// NewEngine creates an Engine over store.
func NewEngine(store storage.Store, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		logger:    logger,
		now:       time.Now,
		locker:    LocalLocker{},
		publisher: events.Noop{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunOnce performs one regeneration pass. The returned error is set only
// when the pass could not start; per-recurrence failures are reported in
// the result.
func (e *Engine) RunOnce(ctx context.Context) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{NewListIDs: []string{}}

	release, ok, err := e.locker.TryLock(ctx, lockKey, lockTTL)
	if err != nil {
		e.metrics.observeRun("error", time.Since(start).Seconds())
		return nil, err
	}
	if !ok {
		e.logger.Info("regeneration run skipped, lock held elsewhere")
		result.Skipped = true
		e.metrics.observeRun("skipped", time.Since(start).Seconds())
		return result, nil
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			e.logger.Warn("failed to release regeneration lock", "error", err)
		}
	}()

	now := e.now().UTC()
	candidates, err := e.store.ListRegenerationCandidates(ctx, now)
	if err != nil {
		e.metrics.observeRun("error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to select recurrences: %w", err)
	}
	result.Selected = len(candidates)

	for _, due := range candidates {
		if !calculator.IsDue(due.Recurrence, now) {
			result.NotDue++
			continue
		}

		newList, err := e.regenerate(ctx, due.Recurrence.ID, due.List.ID, now)
		if errors.Is(err, errNotDue) {
			result.NotDue++
			continue
		}
		if err != nil {
			e.logger.Error("regeneration failed",
				"recurrence_id", due.Recurrence.ID,
				"list_id", due.List.ID,
				"error", err,
			)
			e.metrics.failed()
			result.Failures = append(result.Failures, Failure{
				RecurrenceID: due.Recurrence.ID,
				ListID:       due.List.ID,
				Err:          err,
			})
			continue
		}

		result.Regenerated++
		result.NewListIDs = append(result.NewListIDs, newList.ID)
		e.metrics.regenerated()
		e.logger.Info("list regenerated",
			"recurrence_id", due.Recurrence.ID,
			"anchor_list_id", due.List.ID,
			"new_list_id", newList.ID,
		)
		e.publish(ctx, due.Recurrence.ID, due.List.ID, newList, now)
	}

	outcome := "ok"
	if len(result.Failures) > 0 {
		outcome = "partial"
	}
	e.metrics.observeRun(outcome, time.Since(start).Seconds())
	e.logger.Info("regeneration run finished",
		"selected", result.Selected,
		"regenerated", result.Regenerated,
		"not_due", result.NotDue,
		"failures", len(result.Failures),
	)
	return result, nil
}

// regenerate copies the anchor list and stamps the recurrence in one
// transaction. Both rows are re-read under the write lock so a concurrent
// run or a delete since selection is observed.
func (e *Engine) regenerate(ctx context.Context, recurrenceID, anchorID string, now time.Time) (*models.List, error) {
	var newList *models.List
	err := e.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		anchor, err := tx.GetList(ctx, anchorID)
		if err != nil {
			return fmt.Errorf("failed to load anchor list: %w", err)
		}
		if anchor.IsDeleted {
			return errNotDue
		}

		rec, err := tx.GetListRecurrence(ctx, anchorID)
		if err != nil {
			return fmt.Errorf("failed to load recurrence: %w", err)
		}
		if rec.ID != recurrenceID || !calculator.IsDue(rec, now) {
			return errNotDue
		}

		newList = &models.List{
			Name:        anchor.Name,
			Type:        anchor.Type,
			Description: anchor.Description,
			IsShared:    anchor.IsShared,
			GroupID:     anchor.GroupID,
			OwnerID:     anchor.OwnerID,
		}
		if err := tx.CreateList(ctx, newList); err != nil {
			return err
		}

		rec.LastOccurrence = &now
		return tx.UpdateListRecurrence(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return newList, nil
}

func (e *Engine) publish(ctx context.Context, recurrenceID, anchorID string, newList *models.List, now time.Time) {
	event := events.ListRegenerated{
		Type:         events.TypeListRegenerated,
		RecurrenceID: recurrenceID,
		AnchorListID: anchorID,
		NewListID:    newList.ID,
		OwnerID:      newList.OwnerID,
		GroupID:      newList.GroupID,
		OccurredAt:   now,
	}
	if err := e.publisher.Publish(ctx, anchorID, event); err != nil {
		e.logger.Warn("failed to publish regeneration event", "new_list_id", newList.ID, "error", err)
	}
}

// Run calls RunOnce immediately and then every interval until ctx is
// cancelled.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Info("recurrence engine started", "interval", interval)
	for {
		if _, err := e.RunOnce(ctx); err != nil && ctx.Err() == nil {
			e.logger.Error("regeneration run failed", "error", err)
		}

		select {
		case <-ctx.Done():
			e.logger.Info("recurrence engine stopped")
			return
		case <-ticker.C:
		}
	}
}
