// Package rpc exposes the managers as Connect unary procedures.
//
// Messages are plain Go structs carried by a JSON codec, so no generated
// code is involved. The caller id comes from the identity interceptor in
// internal/middleware; handlers return domain errors unchanged and the
// error interceptor renders them.
package rpc

import (
	"context"
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"

	"github.com/adrianbrandt/web-chores/internal/middleware"
	"github.com/adrianbrandt/web-chores/internal/recurrence"
	"github.com/adrianbrandt/web-chores/internal/service"
)

// Procedure paths.
const (
	GroupServiceCreateGroupProcedure        = "/chores.v1.GroupService/CreateGroup"
	GroupServiceAddMemberProcedure          = "/chores.v1.GroupService/AddMember"
	GroupServiceRemoveMemberProcedure       = "/chores.v1.GroupService/RemoveMember"
	GroupServiceUpdateGroupProcedure        = "/chores.v1.GroupService/UpdateGroup"
	GroupServiceGenerateInviteCodeProcedure = "/chores.v1.GroupService/GenerateInviteCode"
	GroupServiceGetGroupProcedure           = "/chores.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure         = "/chores.v1.GroupService/ListGroups"
	GroupServiceJoinGroupProcedure          = "/chores.v1.GroupService/JoinGroup"

	ListServiceCreateListProcedure          = "/chores.v1.ListService/CreateList"
	ListServiceUpdateListProcedure          = "/chores.v1.ListService/UpdateList"
	ListServiceDeleteListProcedure          = "/chores.v1.ListService/DeleteList"
	ListServiceAddCollaboratorProcedure     = "/chores.v1.ListService/AddCollaborator"
	ListServiceRemoveCollaboratorProcedure  = "/chores.v1.ListService/RemoveCollaborator"
	ListServiceGetListProcedure             = "/chores.v1.ListService/GetList"
	ListServiceListListsProcedure           = "/chores.v1.ListService/ListLists"
	ListServiceGetListStatsProcedure        = "/chores.v1.ListService/GetListStats"
	ListServiceRegenerateRecurringProcedure = "/chores.v1.ListService/RegenerateRecurring"

	ItemServiceCreateItemProcedure = "/chores.v1.ItemService/CreateItem"
	ItemServiceUpdateItemProcedure = "/chores.v1.ItemService/UpdateItem"
	ItemServiceDeleteItemProcedure = "/chores.v1.ItemService/DeleteItem"
)

// Codec encodes messages with encoding/json. It is registered under the
// "json" name so it replaces Connect's protobuf JSON codec.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (Codec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal implements connect.Codec. An empty body decodes as the zero
// message.
func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// Services are the managers served over RPC.
type Services struct {
	Groups *service.GroupService
	Lists  *service.ListService
	Items  *service.ItemService
	Engine *recurrence.Engine
}

// Register mounts every procedure on mux. opts typically carry the
// interceptor chain.
func Register(mux *http.ServeMux, svc Services, opts ...connect.HandlerOption) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	groups := &groupHandler{svc: svc.Groups}
	lists := &listHandler{svc: svc.Lists, engine: svc.Engine}
	items := &itemHandler{svc: svc.Items}

	handlers := map[string]http.Handler{
		GroupServiceCreateGroupProcedure:        unary(GroupServiceCreateGroupProcedure, groups.CreateGroup, opts),
		GroupServiceAddMemberProcedure:          unary(GroupServiceAddMemberProcedure, groups.AddMember, opts),
		GroupServiceRemoveMemberProcedure:       unary(GroupServiceRemoveMemberProcedure, groups.RemoveMember, opts),
		GroupServiceUpdateGroupProcedure:        unary(GroupServiceUpdateGroupProcedure, groups.UpdateGroup, opts),
		GroupServiceGenerateInviteCodeProcedure: unary(GroupServiceGenerateInviteCodeProcedure, groups.GenerateInviteCode, opts),
		GroupServiceGetGroupProcedure:           unary(GroupServiceGetGroupProcedure, groups.GetGroup, opts),
		GroupServiceListGroupsProcedure:         unary(GroupServiceListGroupsProcedure, groups.ListGroups, opts),
		GroupServiceJoinGroupProcedure:          unary(GroupServiceJoinGroupProcedure, groups.JoinGroup, opts),

		ListServiceCreateListProcedure:          unary(ListServiceCreateListProcedure, lists.CreateList, opts),
		ListServiceUpdateListProcedure:          unary(ListServiceUpdateListProcedure, lists.UpdateList, opts),
		ListServiceDeleteListProcedure:          unary(ListServiceDeleteListProcedure, lists.DeleteList, opts),
		ListServiceAddCollaboratorProcedure:     unary(ListServiceAddCollaboratorProcedure, lists.AddCollaborator, opts),
		ListServiceRemoveCollaboratorProcedure:  unary(ListServiceRemoveCollaboratorProcedure, lists.RemoveCollaborator, opts),
		ListServiceGetListProcedure:             unary(ListServiceGetListProcedure, lists.GetList, opts),
		ListServiceListListsProcedure:           unary(ListServiceListListsProcedure, lists.ListLists, opts),
		ListServiceGetListStatsProcedure:        unary(ListServiceGetListStatsProcedure, lists.GetListStats, opts),
		ListServiceRegenerateRecurringProcedure: unary(ListServiceRegenerateRecurringProcedure, lists.RegenerateRecurring, opts),

		ItemServiceCreateItemProcedure: unary(ItemServiceCreateItemProcedure, items.CreateItem, opts),
		ItemServiceUpdateItemProcedure: unary(ItemServiceUpdateItemProcedure, items.UpdateItem, opts),
		ItemServiceDeleteItemProcedure: unary(ItemServiceDeleteItemProcedure, items.DeleteItem, opts),
	}

	for procedure, h := range handlers {
		mux.Handle(procedure, h)
	}
}

// handlerFunc is a procedure body: the caller id and decoded request in,
// a response message or domain error out.
type handlerFunc[Req, Res any] func(ctx context.Context, userID string, req *Req) (*Res, error)

func unary[Req, Res any](procedure string, fn handlerFunc[Req, Res], opts []connect.HandlerOption) *connect.Handler {
	return connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			res, err := fn(ctx, middleware.GetUserID(ctx), req.Msg)
			if err != nil {
				return nil, err
			}
			return connect.NewResponse(res), nil
		},
		opts...,
	)
}

// NewClient creates a Connect client for one procedure using the JSON codec.
func NewClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}
