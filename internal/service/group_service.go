package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/adrianbrandt/web-chores/internal/access"
	domainerrors "github.com/adrianbrandt/web-chores/internal/errors"
	"github.com/adrianbrandt/web-chores/internal/models"
	"github.com/adrianbrandt/web-chores/internal/storage"
	"github.com/adrianbrandt/web-chores/internal/validation"
)

// CreateGroupInput is the payload for CreateGroup.
type CreateGroupInput struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description,omitempty"`
	Type        models.GroupType `json:"type,omitempty" validate:"omitempty,oneof=FAMILY ROOMMATES FRIENDS CUSTOM"`
	CreatorID   string           `json:"creator_id" validate:"required"`
}

// GroupPatch is a sparse update. Empty fields are left untouched.
type GroupPatch struct {
	Name        string           `json:"name,omitempty"`
	Description string           `json:"description,omitempty"`
	Type        models.GroupType `json:"type,omitempty" validate:"omitempty,oneof=FAMILY ROOMMATES FRIENDS CUSTOM"`
}

type addMemberInput struct {
	UserID string           `json:"user_id" validate:"required"`
	Role   models.GroupRole `json:"role" validate:"oneof=MEMBER ADMIN"`
}

// GroupService manages groups and their memberships.
type GroupService struct {
	store     storage.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{
		store:     store,
		validator: validation.New(),
		logger:    logger,
	}
}

// CreateGroup creates a group and its founding ADMIN member together.
func (s *GroupService) CreateGroup(ctx context.Context, in CreateGroupInput) (*models.Group, error) {
	if err := s.validator.Validate(in, domainerrors.ErrGroupMissingFields); err != nil {
		return nil, err
	}
	if in.Type == "" {
		in.Type = models.GroupTypeCustom
	}

	inviteCode, err := newInviteCode()
	if err != nil {
		return nil, err
	}

	group := &models.Group{
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
		InviteCode:  inviteCode,
		CreatedByID: in.CreatorID,
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.CreateGroup(ctx, group); err != nil {
			return err
		}
		return tx.CreateGroupMember(ctx, &models.GroupMember{
			GroupID: group.ID,
			UserID:  in.CreatorID,
			Role:    models.GroupRoleAdmin,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group created", "group_id", group.ID, "creator_id", in.CreatorID)
	return group, nil
}

// AddMember adds userID to a group. An empty role means MEMBER.
//
// Any caller may add members; only removal and edits are ADMIN-gated.
func (s *GroupService) AddMember(ctx context.Context, groupID, userID string, role models.GroupRole) (*models.GroupMember, error) {
	if role == "" {
		role = models.GroupRoleMember
	}
	if err := s.validator.Validate(addMemberInput{UserID: userID, Role: role}, domainerrors.ErrGroupMissingFields); err != nil {
		return nil, err
	}

	member := &models.GroupMember{GroupID: groupID, UserID: userID, Role: role}
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return s.insertMember(ctx, tx, member)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("member added", "group_id", groupID, "user_id", userID, "role", role)
	return member, nil
}

// JoinGroupByInviteCode adds userID to the group owning inviteCode as a MEMBER.
func (s *GroupService) JoinGroupByInviteCode(ctx context.Context, inviteCode, userID string) (*models.GroupMember, error) {
	if inviteCode == "" {
		return nil, domainerrors.ErrGroupInvalidInviteCode
	}
	if userID == "" {
		return nil, domainerrors.ErrGroupMissingFields
	}

	var member *models.GroupMember
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		group, err := tx.GetGroupByInviteCode(ctx, inviteCode)
		if err != nil {
			return notFound(err, domainerrors.ErrGroupInvalidInviteCode)
		}
		member = &models.GroupMember{GroupID: group.ID, UserID: userID, Role: models.GroupRoleMember}
		return s.insertMember(ctx, tx, member)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("member joined by invite", "group_id", member.GroupID, "user_id", userID)
	return member, nil
}

func (s *GroupService) insertMember(ctx context.Context, tx storage.Tx, member *models.GroupMember) error {
	if _, err := tx.GetGroup(ctx, member.GroupID); err != nil {
		return notFound(err, domainerrors.ErrGroupNotFound)
	}
	if _, err := tx.GetGroupMember(ctx, member.GroupID, member.UserID); err == nil {
		return domainerrors.ErrGroupMemberExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return duplicate(tx.CreateGroupMember(ctx, member), domainerrors.ErrGroupMemberExists)
}

// RemoveMember removes targetUserID from a group on behalf of an ADMIN.
// The ADMIN count and the delete share one write-locked transaction so
// concurrent removals cannot leave a group without an ADMIN.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, targetUserID, actingUserID string) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if _, err := tx.GetGroup(ctx, groupID); err != nil {
			return notFound(err, domainerrors.ErrGroupNotFound)
		}

		target, err := tx.GetGroupMember(ctx, groupID, targetUserID)
		if err != nil {
			return notFound(err, domainerrors.ErrGroupMemberNotFound)
		}

		if err := requireGroupManager(ctx, tx, groupID, actingUserID); err != nil {
			return err
		}

		if target.Role == models.GroupRoleAdmin {
			admins, err := tx.CountGroupMembersByRole(ctx, groupID, models.GroupRoleAdmin)
			if err != nil {
				return err
			}
			if admins <= 1 {
				return domainerrors.ErrGroupLastOwner
			}
		}

		return notFound(tx.DeleteGroupMember(ctx, groupID, targetUserID), domainerrors.ErrGroupMemberNotFound)
	})
	if err != nil {
		return err
	}

	s.logger.Info("member removed", "group_id", groupID, "user_id", targetUserID, "acting_user_id", actingUserID)
	return nil
}

// UpdateGroupDetails applies a sparse patch on behalf of an ADMIN.
func (s *GroupService) UpdateGroupDetails(ctx context.Context, groupID string, patch GroupPatch, actingUserID string) (*models.Group, error) {
	if err := s.validator.Validate(patch, domainerrors.ErrGroupMissingFields); err != nil {
		return nil, err
	}

	var group *models.Group
	err := s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		var err error
		group, err = tx.GetGroup(ctx, groupID)
		if err != nil {
			return notFound(err, domainerrors.ErrGroupNotFound)
		}
		if err := requireGroupManager(ctx, tx, groupID, actingUserID); err != nil {
			return err
		}

		if patch.Name != "" {
			group.Name = patch.Name
		}
		if patch.Description != "" {
			group.Description = patch.Description
		}
		if patch.Type != "" {
			group.Type = patch.Type
		}
		return notFound(tx.UpdateGroup(ctx, group), domainerrors.ErrGroupNotFound)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("group updated", "group_id", groupID, "acting_user_id", actingUserID)
	return group, nil
}

// GenerateInviteCode replaces a group's invite code on behalf of an ADMIN.
func (s *GroupService) GenerateInviteCode(ctx context.Context, groupID, actingUserID string) (string, error) {
	inviteCode, err := newInviteCode()
	if err != nil {
		return "", err
	}

	err = s.store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		group, err := tx.GetGroup(ctx, groupID)
		if err != nil {
			return notFound(err, domainerrors.ErrGroupNotFound)
		}
		if err := requireGroupManager(ctx, tx, groupID, actingUserID); err != nil {
			return err
		}
		group.InviteCode = inviteCode
		return notFound(tx.UpdateGroup(ctx, group), domainerrors.ErrGroupNotFound)
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("invite code rotated", "group_id", groupID, "acting_user_id", actingUserID)
	return inviteCode, nil
}

// GetGroupByID returns a group with its members and non-deleted lists.
func (s *GroupService) GetGroupByID(ctx context.Context, groupID string) (*models.GroupDetails, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, notFound(err, domainerrors.ErrGroupNotFound)
	}

	members, err := s.store.ListGroupMembers(ctx, groupID)
	if err != nil {
		return nil, err
	}
	lists, err := s.store.ListGroupLists(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return &models.GroupDetails{Group: group, Members: members, Lists: lists}, nil
}

// ListUserGroups returns every group userID belongs to with their role.
func (s *GroupService) ListUserGroups(ctx context.Context, userID string) ([]*models.UserGroup, error) {
	groups, err := s.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user groups: %w", err)
	}
	return groups, nil
}

// requireGroupManager fails with Forbidden unless userID is an ADMIN of the group.
func requireGroupManager(ctx context.Context, tx storage.Tx, groupID, userID string) error {
	member, err := tx.GetGroupMember(ctx, groupID, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return domainerrors.ErrGroupInsufficientPermissions
	}
	if err != nil {
		return err
	}
	if !access.CanManageGroup(member.Role) {
		return domainerrors.ErrGroupInsufficientPermissions
	}
	return nil
}
