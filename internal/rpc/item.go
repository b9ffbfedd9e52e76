package rpc

import (
	"context"

	"github.com/adrianbrandt/web-chores/internal/models"
	"github.com/adrianbrandt/web-chores/internal/service"
)

type CreateItemRequest struct {
	ListID string `json:"list_id"`
	service.CreateItemInput
}

type UpdateItemRequest struct {
	ItemID string `json:"item_id"`
	service.ItemPatch
}

type DeleteItemRequest struct {
	ItemID string `json:"item_id"`
}

type itemHandler struct {
	svc *service.ItemService
}

func (h *itemHandler) CreateItem(ctx context.Context, userID string, req *CreateItemRequest) (*models.ListItem, error) {
	return h.svc.CreateListItem(ctx, req.ListID, req.CreateItemInput, userID)
}

func (h *itemHandler) UpdateItem(ctx context.Context, userID string, req *UpdateItemRequest) (*models.ListItem, error) {
	return h.svc.UpdateListItem(ctx, req.ItemID, req.ItemPatch, userID)
}

func (h *itemHandler) DeleteItem(ctx context.Context, userID string, req *DeleteItemRequest) (*Empty, error) {
	if err := h.svc.DeleteListItem(ctx, req.ItemID, userID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}
