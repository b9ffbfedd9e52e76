package rpc

import (
	"context"

	"github.com/adrianbrandt/web-chores/internal/models"
	"github.com/adrianbrandt/web-chores/internal/recurrence"
	"github.com/adrianbrandt/web-chores/internal/service"
)

type CreateListRequest struct {
	Name          string                      `json:"name"`
	Type          models.ListType             `json:"type"`
	Description   string                      `json:"description,omitempty"`
	IsShared      bool                        `json:"is_shared"`
	GroupID       *string                     `json:"group_id,omitempty"`
	Recurrence    *service.RecurrenceInput    `json:"recurrence,omitempty"`
	Collaborators []service.CollaboratorInput `json:"collaborators,omitempty"`
}

type UpdateListRequest struct {
	ListID string `json:"list_id"`
	service.ListPatch
}

type DeleteListRequest struct {
	ListID string `json:"list_id"`
}

type AddCollaboratorRequest struct {
	ListID string                      `json:"list_id"`
	UserID string                      `json:"user_id"`
	Role   models.ListCollaboratorRole `json:"role,omitempty"`
}

type RemoveCollaboratorRequest struct {
	ListID string `json:"list_id"`
	UserID string `json:"user_id"`
}

type GetListRequest struct {
	ListID string `json:"list_id"`
}

type ListListsRequest struct {
	models.ListFilter
}

type ListListsResponse struct {
	Lists []*models.List `json:"lists"`
}

type GetListStatsRequest struct {
	ListID string `json:"list_id"`
}

type RegenerateRecurringRequest struct{}

type listHandler struct {
	svc    *service.ListService
	engine *recurrence.Engine
}

func (h *listHandler) CreateList(ctx context.Context, userID string, req *CreateListRequest) (*models.List, error) {
	return h.svc.CreateList(ctx, service.CreateListInput{
		Name:          req.Name,
		Type:          req.Type,
		OwnerID:       userID,
		Description:   req.Description,
		IsShared:      req.IsShared,
		GroupID:       req.GroupID,
		Recurrence:    req.Recurrence,
		Collaborators: req.Collaborators,
	})
}

func (h *listHandler) UpdateList(ctx context.Context, userID string, req *UpdateListRequest) (*models.List, error) {
	return h.svc.UpdateList(ctx, req.ListID, req.ListPatch, userID)
}

func (h *listHandler) DeleteList(ctx context.Context, userID string, req *DeleteListRequest) (*Empty, error) {
	if err := h.svc.DeleteList(ctx, req.ListID, userID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (h *listHandler) AddCollaborator(ctx context.Context, userID string, req *AddCollaboratorRequest) (*models.ListCollaborator, error) {
	return h.svc.AddListCollaborator(ctx, req.ListID, req.UserID, req.Role, userID)
}

func (h *listHandler) RemoveCollaborator(ctx context.Context, userID string, req *RemoveCollaboratorRequest) (*Empty, error) {
	if err := h.svc.RemoveListCollaborator(ctx, req.ListID, req.UserID, userID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (h *listHandler) GetList(ctx context.Context, userID string, req *GetListRequest) (*models.ListDetails, error) {
	return h.svc.GetListByID(ctx, req.ListID, userID)
}

func (h *listHandler) ListLists(ctx context.Context, userID string, req *ListListsRequest) (*ListListsResponse, error) {
	lists, err := h.svc.GetUserLists(ctx, userID, req.ListFilter)
	if err != nil {
		return nil, err
	}
	return &ListListsResponse{Lists: lists}, nil
}

func (h *listHandler) GetListStats(ctx context.Context, _ string, req *GetListStatsRequest) (*models.ListStats, error) {
	return h.svc.GetListCompletionStats(ctx, req.ListID)
}

// RegenerateRecurring triggers a regeneration pass on demand. The pass
// runs with system authority; the caller only needs an identity.
func (h *listHandler) RegenerateRecurring(ctx context.Context, _ string, _ *RegenerateRecurringRequest) (*recurrence.RunResult, error) {
	return h.engine.RunOnce(ctx)
}
