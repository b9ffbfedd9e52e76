package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/adrianbrandt/web-chores/internal/errors"
	"github.com/adrianbrandt/web-chores/internal/models"
)

func TestCreateGroup(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	t.Run("creates group with a single admin", func(t *testing.T) {
		group, err := svc.groups.CreateGroup(ctx, CreateGroupInput{Name: "Chores", CreatorID: "u1"})
		require.NoError(t, err)

		assert.NotEmpty(t, group.ID)
		assert.Equal(t, models.GroupTypeCustom, group.Type)
		assert.Len(t, group.InviteCode, 16)

		members, err := svc.store.ListGroupMembers(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, "u1", members[0].UserID)
		assert.Equal(t, models.GroupRoleAdmin, members[0].Role)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := svc.groups.CreateGroup(ctx, CreateGroupInput{CreatorID: "u1"})
		assert.ErrorIs(t, err, domainerrors.ErrGroupMissingFields)
		assert.Equal(t, domainerrors.KindBadRequest, domainerrors.KindOf(err))
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := svc.groups.CreateGroup(ctx, CreateGroupInput{Name: "X", Type: "CLUB", CreatorID: "u1"})
		assert.ErrorIs(t, err, domainerrors.ErrGroupMissingFields)
	})
}

func TestRemoveLastAdmin(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	group, err := svc.groups.CreateGroup(ctx, CreateGroupInput{Name: "Chores", CreatorID: "u1"})
	require.NoError(t, err)

	err = svc.groups.RemoveMember(ctx, group.ID, "u1", "u1")
	assert.ErrorIs(t, err, domainerrors.ErrGroupLastOwner)
	assert.Equal(t, domainerrors.KindBadRequest, domainerrors.KindOf(err))

	admins, err := svc.store.CountGroupMembersByRole(ctx, group.ID, models.GroupRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, admins)
}

func TestAddMember(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	group, err := svc.groups.CreateGroup(ctx, CreateGroupInput{Name: "Flat", CreatorID: "u1"})
	require.NoError(t, err)

	t.Run("defaults to MEMBER", func(t *testing.T) {
		member, err := svc.groups.AddMember(ctx, group.ID, "u2", "")
		require.NoError(t, err)
		assert.Equal(t, models.GroupRoleMember, member.Role)
	})

	t.Run("duplicate membership", func(t *testing.T) {
		_, err := svc.groups.AddMember(ctx, group.ID, "u2", models.GroupRoleAdmin)
		assert.ErrorIs(t, err, domainerrors.ErrGroupMemberExists)
		assert.Equal(t, domainerrors.KindConflict, domainerrors.KindOf(err))
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := svc.groups.AddMember(ctx, "missing", "u3", "")
		assert.ErrorIs(t, err, domainerrors.ErrGroupNotFound)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.groups.AddMember(ctx, group.ID, "u3", "OWNER")
		assert.ErrorIs(t, err, domainerrors.ErrGroupMissingFields)
	})
}

func TestRemoveMember(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	group, err := svc.groups.CreateGroup(ctx, CreateGroupInput{Name: "Flat", CreatorID: "admin"})
	require.NoError(t, err)
	_, err = svc.groups.AddMember(ctx, group.ID, "member", "")
	require.NoError(t, err)
	_, err = svc.groups.AddMember(ctx, group.ID, "other", "")
	require.NoError(t, err)

	t.Run("member cannot remove", func(t *testing.T) {
		err := svc.groups.RemoveMember(ctx, group.ID, "other", "member")
		assert.ErrorIs(t, err, domainerrors.ErrGroupInsufficientPermissions)
		assert.Equal(t, domainerrors.KindForbidden, domainerrors.KindOf(err))
	})

	t.Run("outsider cannot remove", func(t *testing.T) {
		err := svc.groups.RemoveMember(ctx, group.ID, "other", "stranger")
		assert.ErrorIs(t, err, domainerrors.ErrGroupInsufficientPermissions)
	})

	t.Run("second removal is not found", func(t *testing.T) {
		require.NoError(t, svc.groups.RemoveMember(ctx, group.ID, "other", "admin"))

		err := svc.groups.RemoveMember(ctx, group.ID, "other", "admin")
		assert.ErrorIs(t, err, domainerrors.ErrGroupMemberNotFound)
		assert.Equal(t, domainerrors.KindNotFound, domainerrors.KindOf(err))
	})

	t.Run("unknown group", func(t *testing.T) {
		err := svc.groups.RemoveMember(ctx, "missing", "member", "admin")
		assert.ErrorIs(t, err, domainerrors.ErrGroupNotFound)
	})

	t.Run("admin may leave when another admin remains", func(t *testing.T) {
		_, err := svc.groups.AddMember(ctx, group.ID, "admin2", models.GroupRoleAdmin)
		require.NoError(t, err)

		require.NoError(t, svc.groups.RemoveMember(ctx, group.ID, "admin", "admin"))

		admins, err := svc.store.CountGroupMembersByRole(ctx, group.ID, models.GroupRoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, 1, admins)
	})
}

func TestRemoveMemberConcurrentAdmins(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	group, err := svc.groups.CreateGroup(ctx, CreateGroupInput{Name: "Flat", CreatorID: "a1"})
	require.NoError(t, err)
	_, err = svc.groups.AddMember(ctx, group.ID, "a2", models.GroupRoleAdmin)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	start := make(chan struct{})
	for i, admin := range []string{"a1", "a2"} {
		wg.Add(1)
		go func(i int, admin string) {
			defer wg.Done()
			<-start
			errs[i] = svc.groups.RemoveMember(ctx, group.ID, admin, admin)
		}(i, admin)
	}
	close(start)
	wg.Wait()

	var succeeded, lastOwner int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case domainerrors.Is(err, domainerrors.ErrGroupLastOwner):
			lastOwner++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, lastOwner)

	admins, err := svc.store.CountGroupMembersByRole(ctx, group.ID, models.GroupRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, admins)
}

func TestUpdateGroupDetails(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	group, err := svc.groups.CreateGroup(ctx, CreateGroupInput{
		Name:        "Flat",
		Description: "Third floor",
		Type:        models.GroupTypeRoommates,
		CreatorID:   "admin",
	})
	require.NoError(t, err)
	_, err = svc.groups.AddMember(ctx, group.ID, "member", "")
	require.NoError(t, err)

	t.Run("sparse patch keeps unset fields", func(t *testing.T) {
		updated, err := svc.groups.UpdateGroupDetails(ctx, group.ID, GroupPatch{Name: "Flat 3B"}, "admin")
		require.NoError(t, err)
		assert.Equal(t, "Flat 3B", updated.Name)
		assert.Equal(t, "Third floor", updated.Description)
		assert.Equal(t, models.GroupTypeRoommates, updated.Type)

		got, err := svc.groups.GetGroupByID(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, "Flat 3B", got.Group.Name)
	})

	t.Run("member is forbidden", func(t *testing.T) {
		_, err := svc.groups.UpdateGroupDetails(ctx, group.ID, GroupPatch{Name: "Mine"}, "member")
		assert.ErrorIs(t, err, domainerrors.ErrGroupInsufficientPermissions)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := svc.groups.UpdateGroupDetails(ctx, "missing", GroupPatch{Name: "X"}, "admin")
		assert.ErrorIs(t, err, domainerrors.ErrGroupNotFound)
	})
}

func TestInviteCodes(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	group, err := svc.groups.CreateGroup(ctx, CreateGroupInput{Name: "Family", CreatorID: "admin"})
	require.NoError(t, err)

	t.Run("member cannot rotate", func(t *testing.T) {
		_, err := svc.groups.AddMember(ctx, group.ID, "member", "")
		require.NoError(t, err)
		_, err = svc.groups.GenerateInviteCode(ctx, group.ID, "member")
		assert.ErrorIs(t, err, domainerrors.ErrGroupInsufficientPermissions)
	})

	t.Run("rotation invalidates the old code", func(t *testing.T) {
		code, err := svc.groups.GenerateInviteCode(ctx, group.ID, "admin")
		require.NoError(t, err)
		assert.Len(t, code, 16)
		assert.NotEqual(t, group.InviteCode, code)

		_, err = svc.groups.JoinGroupByInviteCode(ctx, group.InviteCode, "late")
		assert.ErrorIs(t, err, domainerrors.ErrGroupInvalidInviteCode)

		member, err := svc.groups.JoinGroupByInviteCode(ctx, code, "late")
		require.NoError(t, err)
		assert.Equal(t, group.ID, member.GroupID)
		assert.Equal(t, models.GroupRoleMember, member.Role)

		_, err = svc.groups.JoinGroupByInviteCode(ctx, code, "late")
		assert.ErrorIs(t, err, domainerrors.ErrGroupMemberExists)
	})
}

func TestGroupReads(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	home, err := svc.groups.CreateGroup(ctx, CreateGroupInput{Name: "Home", CreatorID: "u1"})
	require.NoError(t, err)
	_, err = svc.groups.CreateGroup(ctx, CreateGroupInput{Name: "Work", CreatorID: "u2"})
	require.NoError(t, err)
	_, err = svc.groups.AddMember(ctx, home.ID, "u2", "")
	require.NoError(t, err)

	live, err := svc.lists.CreateList(ctx, CreateListInput{Name: "Groceries", Type: models.ListTypeShopping, OwnerID: "u1", GroupID: &home.ID})
	require.NoError(t, err)
	gone, err := svc.lists.CreateList(ctx, CreateListInput{Name: "Old", Type: models.ListTypeTodo, OwnerID: "u1", GroupID: &home.ID})
	require.NoError(t, err)
	require.NoError(t, svc.lists.DeleteList(ctx, gone.ID, "u1"))

	t.Run("GetGroupByID includes members and live lists", func(t *testing.T) {
		details, err := svc.groups.GetGroupByID(ctx, home.ID)
		require.NoError(t, err)
		assert.Len(t, details.Members, 2)
		require.Len(t, details.Lists, 1)
		assert.Equal(t, live.ID, details.Lists[0].ID)
	})

	t.Run("GetGroupByID unknown", func(t *testing.T) {
		_, err := svc.groups.GetGroupByID(ctx, "missing")
		assert.ErrorIs(t, err, domainerrors.ErrGroupNotFound)
	})

	t.Run("ListUserGroups carries the caller's role", func(t *testing.T) {
		groups, err := svc.groups.ListUserGroups(ctx, "u2")
		require.NoError(t, err)
		require.Len(t, groups, 2)

		roles := map[string]models.GroupRole{}
		for _, g := range groups {
			roles[g.Group.Name] = g.Role
		}
		assert.Equal(t, models.GroupRoleMember, roles["Home"])
		assert.Equal(t, models.GroupRoleAdmin, roles["Work"])
	})
}
