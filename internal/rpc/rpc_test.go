package rpc

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrianbrandt/web-chores/internal/middleware"
	"github.com/adrianbrandt/web-chores/internal/models"
	"github.com/adrianbrandt/web-chores/internal/recurrence"
	"github.com/adrianbrandt/web-chores/internal/service"
	"github.com/adrianbrandt/web-chores/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	Register(mux, Services{
		Groups: service.NewGroupService(store, logger),
		Lists:  service.NewListService(store, logger),
		Items:  service.NewItemService(store, logger),
		Engine: recurrence.NewEngine(store, logger),
	}, connect.WithInterceptors(
		middleware.LoggingInterceptor(logger),
		middleware.MetricsInterceptor(middleware.NewRPCMetrics(prometheus.NewRegistry())),
		middleware.ErrorInterceptor(),
		middleware.RequireIdentity(),
	))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func call[Req, Res any](t *testing.T, srv *httptest.Server, procedure, userID string, msg *Req) (*Res, error) {
	t.Helper()
	client := NewClient[Req, Res](srv.Client(), srv.URL, procedure)
	req := connect.NewRequest(msg)
	if userID != "" {
		req.Header().Set(middleware.HeaderUserID, userID)
	}
	resp, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func assertConnectError(t *testing.T, err error, code connect.Code, domainCode string) {
	t.Helper()
	require.Error(t, err)
	var connectErr *connect.Error
	require.ErrorAs(t, err, &connectErr)
	assert.Equal(t, code, connectErr.Code())
	assert.Equal(t, domainCode, connectErr.Meta().Get(middleware.HeaderErrorCode))
}

func TestIdentityRequired(t *testing.T) {
	srv := newTestServer(t)

	_, err := call[ListGroupsRequest, ListGroupsResponse](t, srv, GroupServiceListGroupsProcedure, "", &ListGroupsRequest{})
	assertConnectError(t, err, connect.CodeUnauthenticated, "AUTH_IDENTITY_MISSING")
}

func TestGroupProcedures(t *testing.T) {
	srv := newTestServer(t)

	group, err := call[CreateGroupRequest, models.Group](t, srv, GroupServiceCreateGroupProcedure, "alice",
		&CreateGroupRequest{Name: "Flat 4B", Type: models.GroupTypeRoommates})
	require.NoError(t, err)
	assert.Equal(t, "alice", group.CreatedByID)
	assert.NotEmpty(t, group.InviteCode)

	t.Run("join by invite code", func(t *testing.T) {
		member, err := call[JoinGroupRequest, models.GroupMember](t, srv, GroupServiceJoinGroupProcedure, "bob",
			&JoinGroupRequest{InviteCode: group.InviteCode})
		require.NoError(t, err)
		assert.Equal(t, models.GroupRoleMember, member.Role)
	})

	t.Run("member cannot rotate invite code", func(t *testing.T) {
		_, err := call[GenerateInviteCodeRequest, GenerateInviteCodeResponse](t, srv, GroupServiceGenerateInviteCodeProcedure, "bob",
			&GenerateInviteCodeRequest{GroupID: group.ID})
		assertConnectError(t, err, connect.CodePermissionDenied, "GROUP_INSUFFICIENT_PERMISSIONS")
	})

	t.Run("last admin cannot leave", func(t *testing.T) {
		_, err := call[RemoveMemberRequest, Empty](t, srv, GroupServiceRemoveMemberProcedure, "alice",
			&RemoveMemberRequest{GroupID: group.ID, UserID: "alice"})
		assertConnectError(t, err, connect.CodeInvalidArgument, "GROUP_CANNOT_REMOVE_LAST_OWNER")
	})

	t.Run("update and read back", func(t *testing.T) {
		updated, err := call[UpdateGroupRequest, models.Group](t, srv, GroupServiceUpdateGroupProcedure, "alice",
			&UpdateGroupRequest{GroupID: group.ID, GroupPatch: service.GroupPatch{Name: "Flat 4C"}})
		require.NoError(t, err)
		assert.Equal(t, "Flat 4C", updated.Name)

		details, err := call[GetGroupRequest, models.GroupDetails](t, srv, GroupServiceGetGroupProcedure, "bob",
			&GetGroupRequest{GroupID: group.ID})
		require.NoError(t, err)
		assert.Equal(t, "Flat 4C", details.Group.Name)
		assert.Len(t, details.Members, 2)
	})

	t.Run("list groups", func(t *testing.T) {
		resp, err := call[ListGroupsRequest, ListGroupsResponse](t, srv, GroupServiceListGroupsProcedure, "bob", &ListGroupsRequest{})
		require.NoError(t, err)
		require.Len(t, resp.Groups, 1)
		assert.Equal(t, models.GroupRoleMember, resp.Groups[0].Role)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := call[GetGroupRequest, models.GroupDetails](t, srv, GroupServiceGetGroupProcedure, "alice",
			&GetGroupRequest{GroupID: "missing"})
		assertConnectError(t, err, connect.CodeNotFound, "GROUP_NOT_FOUND")
	})
}

func TestListAndItemProcedures(t *testing.T) {
	srv := newTestServer(t)

	list, err := call[CreateListRequest, models.List](t, srv, ListServiceCreateListProcedure, "alice", &CreateListRequest{
		Name:          "Groceries",
		Type:          models.ListTypeShopping,
		IsShared:      true,
		Collaborators: []service.CollaboratorInput{{UserID: "bob", Role: models.ListRoleViewer}},
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", list.OwnerID)

	t.Run("missing type is rejected", func(t *testing.T) {
		_, err := call[CreateListRequest, models.List](t, srv, ListServiceCreateListProcedure, "alice", &CreateListRequest{Name: "x"})
		assertConnectError(t, err, connect.CodeInvalidArgument, "LIST_MISSING_REQUIRED_FIELDS")
	})

	t.Run("viewer cannot add items", func(t *testing.T) {
		_, err := call[CreateItemRequest, models.ListItem](t, srv, ItemServiceCreateItemProcedure, "bob",
			&CreateItemRequest{ListID: list.ID, CreateItemInput: service.CreateItemInput{Title: "Milk"}})
		assertConnectError(t, err, connect.CodePermissionDenied, "LIST_INSUFFICIENT_PERMISSIONS")
	})

	var itemID string
	t.Run("owner adds and completes an item", func(t *testing.T) {
		item, err := call[CreateItemRequest, models.ListItem](t, srv, ItemServiceCreateItemProcedure, "alice",
			&CreateItemRequest{ListID: list.ID, CreateItemInput: service.CreateItemInput{Title: "Milk"}})
		require.NoError(t, err)
		itemID = item.ID

		completed := models.ItemStatusCompleted
		updated, err := call[UpdateItemRequest, models.ListItem](t, srv, ItemServiceUpdateItemProcedure, "alice",
			&UpdateItemRequest{ItemID: item.ID, ItemPatch: service.ItemPatch{Status: &completed}})
		require.NoError(t, err)
		require.NotNil(t, updated.CompletedByID)
		assert.Equal(t, "alice", *updated.CompletedByID)
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := call[GetListStatsRequest, models.ListStats](t, srv, ListServiceGetListStatsProcedure, "bob",
			&GetListStatsRequest{ListID: list.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalItems)
		assert.Equal(t, 1, stats.CompletedItems)
		assert.InDelta(t, 100.0, stats.CompletionPercentage, 0.001)
	})

	t.Run("viewer sees the list", func(t *testing.T) {
		details, err := call[GetListRequest, models.ListDetails](t, srv, ListServiceGetListProcedure, "bob",
			&GetListRequest{ListID: list.ID})
		require.NoError(t, err)
		assert.Len(t, details.Items, 1)

		resp, err := call[ListListsRequest, ListListsResponse](t, srv, ListServiceListListsProcedure, "bob",
			&ListListsRequest{ListFilter: models.ListFilter{Type: models.ListTypeShopping}})
		require.NoError(t, err)
		assert.Len(t, resp.Lists, 1)
	})

	t.Run("stranger cannot see the list", func(t *testing.T) {
		_, err := call[GetListRequest, models.ListDetails](t, srv, ListServiceGetListProcedure, "mallory",
			&GetListRequest{ListID: list.ID})
		assertConnectError(t, err, connect.CodeNotFound, "LIST_NOT_FOUND")
	})

	t.Run("collaborator management", func(t *testing.T) {
		collab, err := call[AddCollaboratorRequest, models.ListCollaborator](t, srv, ListServiceAddCollaboratorProcedure, "alice",
			&AddCollaboratorRequest{ListID: list.ID, UserID: "carol", Role: models.ListRoleEditor})
		require.NoError(t, err)
		assert.Equal(t, models.ListRoleEditor, collab.Role)

		_, err = call[AddCollaboratorRequest, models.ListCollaborator](t, srv, ListServiceAddCollaboratorProcedure, "alice",
			&AddCollaboratorRequest{ListID: list.ID, UserID: "carol"})
		assertConnectError(t, err, connect.CodeAlreadyExists, "LIST_COLLABORATOR_ALREADY_EXISTS")

		_, err = call[RemoveCollaboratorRequest, Empty](t, srv, ListServiceRemoveCollaboratorProcedure, "alice",
			&RemoveCollaboratorRequest{ListID: list.ID, UserID: "carol"})
		require.NoError(t, err)
	})

	t.Run("item delete and list delete", func(t *testing.T) {
		_, err := call[DeleteItemRequest, Empty](t, srv, ItemServiceDeleteItemProcedure, "alice", &DeleteItemRequest{ItemID: itemID})
		require.NoError(t, err)

		_, err = call[DeleteListRequest, Empty](t, srv, ListServiceDeleteListProcedure, "bob", &DeleteListRequest{ListID: list.ID})
		assertConnectError(t, err, connect.CodePermissionDenied, "LIST_INSUFFICIENT_PERMISSIONS")

		_, err = call[DeleteListRequest, Empty](t, srv, ListServiceDeleteListProcedure, "alice", &DeleteListRequest{ListID: list.ID})
		require.NoError(t, err)

		_, err = call[UpdateListRequest, models.List](t, srv, ListServiceUpdateListProcedure, "alice",
			&UpdateListRequest{ListID: list.ID, ListPatch: service.ListPatch{Name: "gone"}})
		assertConnectError(t, err, connect.CodeNotFound, "LIST_NOT_FOUND")
	})
}

func TestRegenerateRecurring(t *testing.T) {
	srv := newTestServer(t)

	_, err := call[CreateListRequest, models.List](t, srv, ListServiceCreateListProcedure, "alice", &CreateListRequest{
		Name:       "Daily chores",
		Type:       models.ListTypeChores,
		Recurrence: &service.RecurrenceInput{Frequency: models.FrequencyDaily},
	})
	require.NoError(t, err)

	result, err := call[RegenerateRecurringRequest, recurrence.RunResult](t, srv, ListServiceRegenerateRecurringProcedure, "alice",
		&RegenerateRecurringRequest{})
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 1, result.Regenerated)
	assert.Len(t, result.NewListIDs, 1)
}
