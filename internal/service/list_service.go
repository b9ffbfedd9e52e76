package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adrianbrandt/web-chores/internal/access"
	"github.com/adrianbrandt/web-chores/internal/calculator"
	domainerrors "github.com/adrianbrandt/web-chores/internal/errors"
	"github.com/adrianbrandt/web-chores/internal/models"
	"github.com/adrianbrandt/web-chores/internal/storage"
	"github.com/adrianbrandt/web-chores/internal/validation"
)

// RecurrenceInput describes a schedule on create, or a sparse change to
// one on update. An empty Frequency means ONE_TIME and a nil StartDate
// means now when a schedule is first created.
type RecurrenceInput struct {
	Frequency      models.Frequency `json:"frequency,omitempty"`
	CustomInterval *int             `json:"custom_interval,omitempty"`
	StartDate      *time.Time       `json:"start_date,omitempty"`
	EndDate        *time.Time       `json:"end_date,omitempty"`
}

// CollaboratorInput grants a user access at list creation.
type CollaboratorInput struct {
	UserID string                      `json:"user_id" validate:"required"`
	Role   models.ListCollaboratorRole `json:"role,omitempty" validate:"omitempty,oneof=VIEWER EDITOR OWNER"`
}

// CreateListInput is the payload for CreateList.
type CreateListInput struct {
	Name          string              `json:"name" validate:"required"`
	Type          models.ListType     `json:"type" validate:"required,oneof=SHOPPING TODO CHORES CUSTOM"`
	OwnerID       string              `json:"owner_id" validate:"required"`
	Description   string              `json:"description,omitempty"`
	IsShared      bool                `json:"is_shared"`
	GroupID       *string             `json:"group_id,omitempty"`
	Recurrence    *RecurrenceInput    `json:"recurrence,omitempty"`
	Collaborators []CollaboratorInput `json:"collaborators,omitempty" validate:"dive"`
}

// ListPatch is a sparse update. Empty strings and nil pointers are left
// untouched.
type ListPatch struct {
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	Type        models.ListType  `json:"type,omitempty" validate:"omitempty,oneof=SHOPPING TODO CHORES CUSTOM"`
	IsShared    *bool            `json:"is_shared,omitempty"`
	Recurrence  *RecurrenceInput `json:"recurrence,omitempty"`
}

type addCollaboratorInput struct {
	UserID string                      `json:"user_id" validate:"required"`
	Role   models.ListCollaboratorRole `json:"role" validate:"oneof=VIEWER EDITOR OWNER"`
}

// ListService manages lists, their collaborators and recurrences.
type ListService struct {
	store     storage.Store
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewListService creates a new ListService with the given storage backend.
func NewListService(store storage.Store, logger *slog.Logger) *ListService {
	return &ListService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// CreateList creates a list with its optional recurrence and collaborators
// in one transaction.
func (s *ListService) CreateList(ctx context.Context, in CreateListInput) (*models.List, error) {
	if err := s.validator.Validate(in, domainerrors.ErrListMissingFields); err != nil {
		return nil, err
	}

	var rec *models.ListRecurrence
	if in.Recurrence != nil {
		rec = &models.ListRecurrence{}
		if err := applyRecurrence(rec, in.Recurrence, s.now().UTC(), true); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(in.Collaborators))
	for _, c := range in.Collaborators {
		if seen[c.UserID] {
			return nil, domainerrors.ErrListCollaboratorExists.WithDetails(map[string]string{"user_id": c.UserID})
		}
		seen[c.UserID] = true
	}

	list := &models.List{
		Name:        in.Name,
		Type:        in.Type,
		Description: in.Description,
		IsShared:    in.IsShared,
		GroupID:     in.GroupID,
		OwnerID:     in.OwnerID,
	}

	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if list.GroupID != nil {
			if _, err := tx.GetGroup(ctx, *list.GroupID); err != nil {
				return notFound(err, domainerrors.ErrGroupNotFound)
			}
		}

		if err := tx.CreateList(ctx, list); err != nil {
			return err
		}

		if rec != nil {
			rec.ListID = list.ID
			if err := tx.CreateListRecurrence(ctx, rec); err != nil {
				return err
			}
		}

		if len(in.Collaborators) > 0 {
			collaborators := make([]*models.ListCollaborator, len(in.Collaborators))
			for i, c := range in.Collaborators {
				role := c.Role
				if role == "" {
					role = models.ListRoleViewer
				}
				collaborators[i] = &models.ListCollaborator{ListID: list.ID, UserID: c.UserID, Role: role}
			}
			if err := tx.CreateListCollaborators(ctx, collaborators); err != nil {
				return duplicate(err, domainerrors.ErrListCollaboratorExists)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("list created",
		"list_id", list.ID,
		"owner_id", list.OwnerID,
		"collaborators_count", len(in.Collaborators),
		"recurring", rec != nil,
	)
	return list, nil
}

// UpdateList applies a sparse patch on behalf of the owner or an
// EDITOR/OWNER collaborator, upserting the recurrence when one is given.
func (s *ListService) UpdateList(ctx context.Context, listID string, patch ListPatch, actingUserID string) (*models.List, error) {
	if err := s.validator.Validate(patch, domainerrors.ErrListMissingFields); err != nil {
		return nil, err
	}

	var list *models.List
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var role *models.ListCollaboratorRole
		var err error
		list, role, err = loadListAccess(ctx, tx, listID, actingUserID)
		if err != nil {
			return err
		}
		if !access.CanEditList(list.OwnerID == actingUserID, role) {
			return domainerrors.ErrListInsufficientPermissions
		}

		if patch.Name != "" {
			list.Name = patch.Name
		}
		if patch.Description != "" {
			list.Description = patch.Description
		}
		if patch.Type != "" {
			list.Type = patch.Type
		}
		if patch.IsShared != nil {
			list.IsShared = *patch.IsShared
		}
		if err := tx.UpdateList(ctx, list); err != nil {
			return notFound(err, domainerrors.ErrListNotFound)
		}

		if patch.Recurrence != nil {
			return s.upsertRecurrence(ctx, tx, listID, patch.Recurrence)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("list updated", "list_id", listID, "acting_user_id", actingUserID)
	return list, nil
}

func (s *ListService) upsertRecurrence(ctx context.Context, tx storage.Tx, listID string, in *RecurrenceInput) error {
	rec, err := tx.GetListRecurrence(ctx, listID)
	if errors.Is(err, storage.ErrNotFound) {
		rec = &models.ListRecurrence{ListID: listID}
		if err := applyRecurrence(rec, in, s.now().UTC(), true); err != nil {
			return err
		}
		return tx.CreateListRecurrence(ctx, rec)
	}
	if err != nil {
		return err
	}

	if err := applyRecurrence(rec, in, s.now().UTC(), false); err != nil {
		return err
	}
	return tx.UpdateListRecurrence(ctx, rec)
}

// applyRecurrence copies the set fields of in onto rec, filling creation
// defaults when create is true, and validates the result.
func applyRecurrence(rec *models.ListRecurrence, in *RecurrenceInput, now time.Time, create bool) error {
	if in.Frequency != "" {
		rec.Frequency = in.Frequency
	} else if create {
		rec.Frequency = models.FrequencyOneTime
	}
	if in.CustomInterval != nil {
		rec.CustomInterval = in.CustomInterval
	}
	if in.StartDate != nil {
		rec.StartDate = in.StartDate.UTC()
	} else if create {
		rec.StartDate = now
	}
	if in.EndDate != nil {
		end := in.EndDate.UTC()
		rec.EndDate = &end
	}

	if err := calculator.ValidateRecurrence(rec.Frequency, rec.CustomInterval, rec.StartDate, rec.EndDate); err != nil {
		return domainerrors.ErrListInvalidRecurrence.WithCause(err)
	}
	return nil
}

// DeleteList soft-deletes a list. Only the owner may delete it.
func (s *ListService) DeleteList(ctx context.Context, listID, actingUserID string) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		list, err := tx.GetList(ctx, listID)
		if err != nil {
			return notFound(err, domainerrors.ErrListNotFound)
		}
		if list.IsDeleted {
			return domainerrors.ErrListNotFound
		}
		if !access.CanDeleteList(list.OwnerID == actingUserID) {
			return domainerrors.ErrListInsufficientPermissions
		}

		now := s.now().UTC()
		list.IsDeleted = true
		list.DeletedAt = &now
		return notFound(tx.UpdateList(ctx, list), domainerrors.ErrListNotFound)
	})
	if err != nil {
		return err
	}

	s.logger.Info("list deleted", "list_id", listID, "acting_user_id", actingUserID)
	return nil
}

// AddListCollaborator grants userID a role on a list. The owner and
// EDITOR/OWNER collaborators may add.
func (s *ListService) AddListCollaborator(ctx context.Context, listID, userID string, role models.ListCollaboratorRole, actingUserID string) (*models.ListCollaborator, error) {
	if role == "" {
		role = models.ListRoleViewer
	}
	if err := s.validator.Validate(addCollaboratorInput{UserID: userID, Role: role}, domainerrors.ErrListMissingFields); err != nil {
		return nil, err
	}

	collaborator := &models.ListCollaborator{ListID: listID, UserID: userID, Role: role}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		list, actingRole, err := loadListAccess(ctx, tx, listID, actingUserID)
		if err != nil {
			return err
		}
		if !access.CanManageListAccess(list.OwnerID == actingUserID, actingRole, access.ActionAddCollaborator) {
			return domainerrors.ErrListInsufficientPermissions
		}

		if _, err := tx.GetListCollaborator(ctx, listID, userID); err == nil {
			return domainerrors.ErrListCollaboratorExists
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		err = tx.CreateListCollaborators(ctx, []*models.ListCollaborator{collaborator})
		return duplicate(err, domainerrors.ErrListCollaboratorExists)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("collaborator added", "list_id", listID, "user_id", userID, "role", role, "acting_user_id", actingUserID)
	return collaborator, nil
}

// RemoveListCollaborator revokes userID's access to a list. Only the
// owner and OWNER collaborators may remove.
func (s *ListService) RemoveListCollaborator(ctx context.Context, listID, userID, actingUserID string) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		list, actingRole, err := loadListAccess(ctx, tx, listID, actingUserID)
		if err != nil {
			return err
		}
		if !access.CanManageListAccess(list.OwnerID == actingUserID, actingRole, access.ActionRemoveCollaborator) {
			return domainerrors.ErrListInsufficientPermissions
		}
		return notFound(tx.DeleteListCollaborator(ctx, listID, userID), domainerrors.ErrListCollaboratorNotFound)
	})
	if err != nil {
		return err
	}

	s.logger.Info("collaborator removed", "list_id", listID, "user_id", userID, "acting_user_id", actingUserID)
	return nil
}

// GetListByID returns a list with its items, collaborators and recurrence.
// Lists the caller cannot view are reported as not found.
func (s *ListService) GetListByID(ctx context.Context, listID, callerID string) (*models.ListDetails, error) {
	list, role, err := loadListAccess(ctx, s.store, listID, callerID)
	if err != nil {
		return nil, err
	}
	if !access.CanViewList(list.OwnerID == callerID, role) {
		return nil, domainerrors.ErrListNotFound
	}

	items, err := s.store.ListItems(ctx, listID)
	if err != nil {
		return nil, err
	}
	collaborators, err := s.store.ListCollaborators(ctx, listID)
	if err != nil {
		return nil, err
	}

	details := &models.ListDetails{List: list, Items: items, Collaborators: collaborators}
	rec, err := s.store.GetListRecurrence(ctx, listID)
	switch {
	case err == nil:
		details.Recurrence = rec
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}
	return details, nil
}

// GetUserLists returns the non-deleted lists callerID owns or collaborates on.
func (s *ListService) GetUserLists(ctx context.Context, callerID string, filter models.ListFilter) ([]*models.List, error) {
	lists, err := s.store.ListListsForUser(ctx, callerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list user lists: %w", err)
	}
	return lists, nil
}

// GetListCompletionStats aggregates completion progress for a list.
func (s *ListService) GetListCompletionStats(ctx context.Context, listID string) (*models.ListStats, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, notFound(err, domainerrors.ErrListNotFound)
	}
	if list.IsDeleted {
		return nil, domainerrors.ErrListNotFound
	}

	items, err := s.store.ListItems(ctx, listID)
	if err != nil {
		return nil, err
	}
	return calculator.CompletionStats(items), nil
}

// loadListAccess returns a live list and userID's collaborator role on it,
// nil when userID has no collaborator row.
func loadListAccess(ctx context.Context, tx storage.Tx, listID, userID string) (*models.List, *models.ListCollaboratorRole, error) {
	list, err := tx.GetList(ctx, listID)
	if err != nil {
		return nil, nil, notFound(err, domainerrors.ErrListNotFound)
	}
	if list.IsDeleted {
		return nil, nil, domainerrors.ErrListNotFound
	}

	collaborator, err := tx.GetListCollaborator(ctx, listID, userID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, nil, err
	}
	return list, access.RoleOf(collaborator), nil
}
