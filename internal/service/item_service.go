package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/adrianbrandt/web-chores/internal/access"
	domainerrors "github.com/adrianbrandt/web-chores/internal/errors"
	"github.com/adrianbrandt/web-chores/internal/models"
	"github.com/adrianbrandt/web-chores/internal/storage"
	"github.com/adrianbrandt/web-chores/internal/validation"
)

// CreateItemInput is the payload for CreateListItem.
type CreateItemInput struct {
	Title        string           `json:"title" validate:"required"`
	Description  string           `json:"description,omitempty"`
	AssignedToID *string          `json:"assigned_to_id,omitempty"`
	Quantity     *int             `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	TimeEstimate *int             `json:"time_estimate,omitempty" validate:"omitempty,gte=0"`
	Priority     *models.Priority `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
}

// ItemPatch is a sparse update. Empty strings and nil pointers are left
// untouched.
type ItemPatch struct {
	Title         string             `json:"title,omitempty"`
	Description   string             `json:"description,omitempty"`
	AssignedToID  *string            `json:"assigned_to_id,omitempty"`
	Quantity      *int               `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	TimeEstimate  *int               `json:"time_estimate,omitempty" validate:"omitempty,gte=0"`
	Priority      *models.Priority   `json:"priority,omitempty" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	DueDate       *time.Time         `json:"due_date,omitempty"`
	Status        *models.ItemStatus `json:"status,omitempty" validate:"omitempty,oneof=PENDING IN_PROGRESS COMPLETED"`
	CompletedByID *string            `json:"completed_by_id,omitempty"`
	CompletedAt   *time.Time         `json:"completed_at,omitempty"`
}

// ItemService manages the items on a list.
type ItemService struct {
	store     storage.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewItemService creates a new ItemService with the given storage backend.
func NewItemService(store storage.Store, logger *slog.Logger) *ItemService {
	return &ItemService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// CreateListItem adds a PENDING item to a list on behalf of the owner or
// an EDITOR/OWNER collaborator.
func (s *ItemService) CreateListItem(ctx context.Context, listID string, in CreateItemInput, actingUserID string) (*models.ListItem, error) {
	if err := s.validator.Validate(in, domainerrors.ErrListItemMissingFields); err != nil {
		return nil, err
	}

	item := &models.ListItem{
		ListID:       listID,
		Title:        in.Title,
		Description:  in.Description,
		AssignedToID: in.AssignedToID,
		Quantity:     in.Quantity,
		TimeEstimate: in.TimeEstimate,
		Priority:     in.Priority,
		DueDate:      in.DueDate,
		Status:       models.ItemStatusPending,
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if err := requireListEditor(ctx, tx, listID, actingUserID); err != nil {
			return err
		}
		return tx.CreateListItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created", "item_id", item.ID, "list_id", listID, "acting_user_id", actingUserID)
	return item, nil
}

// UpdateListItem applies a sparse patch. Moving to COMPLETED stamps who
// completed the item and when; moving away from COMPLETED clears both.
func (s *ItemService) UpdateListItem(ctx context.Context, itemID string, patch ItemPatch, actingUserID string) (*models.ListItem, error) {
	if err := s.validator.Validate(patch, domainerrors.ErrListItemMissingFields); err != nil {
		return nil, err
	}

	var item *models.ListItem
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		item, err = checkListItem(ctx, tx, itemID, actingUserID)
		if err != nil {
			return err
		}

		s.applyItemPatch(item, patch, actingUserID)
		return notFound(tx.UpdateListItem(ctx, item), domainerrors.ErrListItemNotFound)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item updated", "item_id", itemID, "status", item.Status, "acting_user_id", actingUserID)
	return item, nil
}

func (s *ItemService) applyItemPatch(item *models.ListItem, patch ItemPatch, actingUserID string) {
	if patch.Title != "" {
		item.Title = patch.Title
	}
	if patch.Description != "" {
		item.Description = patch.Description
	}
	if patch.AssignedToID != nil {
		item.AssignedToID = patch.AssignedToID
	}
	if patch.Quantity != nil {
		item.Quantity = patch.Quantity
	}
	if patch.TimeEstimate != nil {
		item.TimeEstimate = patch.TimeEstimate
	}
	if patch.Priority != nil {
		item.Priority = patch.Priority
	}
	if patch.DueDate != nil {
		item.DueDate = patch.DueDate
	}

	if patch.Status == nil || *patch.Status == item.Status {
		return
	}
	item.Status = *patch.Status

	if item.Status != models.ItemStatusCompleted {
		item.CompletedByID = nil
		item.CompletedAt = nil
		return
	}

	completedBy := actingUserID
	if patch.CompletedByID != nil {
		completedBy = *patch.CompletedByID
	}
	completedAt := s.now().UTC()
	if patch.CompletedAt != nil {
		completedAt = patch.CompletedAt.UTC()
	}
	item.CompletedByID = &completedBy
	item.CompletedAt = &completedAt
}

// DeleteListItem removes an item permanently.
func (s *ItemService) DeleteListItem(ctx context.Context, itemID, actingUserID string) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if _, err := checkListItem(ctx, tx, itemID, actingUserID); err != nil {
			return err
		}
		return notFound(tx.DeleteListItem(ctx, itemID), domainerrors.ErrListItemNotFound)
	})
	if err != nil {
		return err
	}

	s.logger.Info("item deleted", "item_id", itemID, "acting_user_id", actingUserID)
	return nil
}

// checkListItem resolves an item's parent list and applies the same edit
// policy as CreateListItem. Update and delete both go through it.
func checkListItem(ctx context.Context, tx storage.Tx, itemID, userID string) (*models.ListItem, error) {
	item, err := tx.GetListItem(ctx, itemID)
	if err != nil {
		return nil, notFound(err, domainerrors.ErrListItemNotFound)
	}
	if err := requireListEditor(ctx, tx, item.ListID, userID); err != nil {
		return nil, err
	}
	return item, nil
}

func requireListEditor(ctx context.Context, tx storage.Tx, listID, userID string) error {
	list, role, err := loadListAccess(ctx, tx, listID, userID)
	if err != nil {
		return err
	}
	if !access.CanEditList(list.OwnerID == userID, role) {
		return domainerrors.ErrListInsufficientPermissions
	}
	return nil
}
