package rpc

import (
	"context"

	"github.com/adrianbrandt/web-chores/internal/models"
	"github.com/adrianbrandt/web-chores/internal/service"
)

// Empty is the response of procedures that return nothing.
type Empty struct{}

type CreateGroupRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Type        models.GroupType `json:"type,omitempty"`
}

type AddMemberRequest struct {
	GroupID string           `json:"group_id"`
	UserID  string           `json:"user_id"`
	Role    models.GroupRole `json:"role,omitempty"`
}

type RemoveMemberRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

type UpdateGroupRequest struct {
	GroupID string `json:"group_id"`
	service.GroupPatch
}

type GenerateInviteCodeRequest struct {
	GroupID string `json:"group_id"`
}

type GenerateInviteCodeResponse struct {
	InviteCode string `json:"invite_code"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*models.UserGroup `json:"groups"`
}

type JoinGroupRequest struct {
	InviteCode string `json:"invite_code"`
}

type groupHandler struct {
	svc *service.GroupService
}

func (h *groupHandler) CreateGroup(ctx context.Context, userID string, req *CreateGroupRequest) (*models.Group, error) {
	return h.svc.CreateGroup(ctx, service.CreateGroupInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		CreatorID:   userID,
	})
}

func (h *groupHandler) AddMember(ctx context.Context, _ string, req *AddMemberRequest) (*models.GroupMember, error) {
	return h.svc.AddMember(ctx, req.GroupID, req.UserID, req.Role)
}

func (h *groupHandler) RemoveMember(ctx context.Context, userID string, req *RemoveMemberRequest) (*Empty, error) {
	if err := h.svc.RemoveMember(ctx, req.GroupID, req.UserID, userID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (h *groupHandler) UpdateGroup(ctx context.Context, userID string, req *UpdateGroupRequest) (*models.Group, error) {
	return h.svc.UpdateGroupDetails(ctx, req.GroupID, req.GroupPatch, userID)
}

func (h *groupHandler) GenerateInviteCode(ctx context.Context, userID string, req *GenerateInviteCodeRequest) (*GenerateInviteCodeResponse, error) {
	code, err := h.svc.GenerateInviteCode(ctx, req.GroupID, userID)
	if err != nil {
		return nil, err
	}
	return &GenerateInviteCodeResponse{InviteCode: code}, nil
}

func (h *groupHandler) GetGroup(ctx context.Context, _ string, req *GetGroupRequest) (*models.GroupDetails, error) {
	return h.svc.GetGroupByID(ctx, req.GroupID)
}

func (h *groupHandler) ListGroups(ctx context.Context, userID string, _ *ListGroupsRequest) (*ListGroupsResponse, error) {
	groups, err := h.svc.ListUserGroups(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ListGroupsResponse{Groups: groups}, nil
}

func (h *groupHandler) JoinGroup(ctx context.Context, userID string, req *JoinGroupRequest) (*models.GroupMember, error) {
	return h.svc.JoinGroupByInviteCode(ctx, req.InviteCode, userID)
}
