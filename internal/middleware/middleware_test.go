package middleware

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"

	domainerrors "github.com/adrianbrandt/web-chores/internal/errors"
)

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode connect.Code
		wantMeta string
	}{
		{"bad request", domainerrors.ErrGroupLastOwner, connect.CodeInvalidArgument, "GROUP_CANNOT_REMOVE_LAST_OWNER"},
		{"unauthorized", domainerrors.ErrIdentityMissing, connect.CodeUnauthenticated, "AUTH_IDENTITY_MISSING"},
		{"forbidden", domainerrors.ErrListInsufficientPermissions, connect.CodePermissionDenied, "LIST_INSUFFICIENT_PERMISSIONS"},
		{"not found", domainerrors.ErrListNotFound, connect.CodeNotFound, "LIST_NOT_FOUND"},
		{"conflict", domainerrors.ErrListCollaboratorExists, connect.CodeAlreadyExists, "LIST_COLLABORATOR_ALREADY_EXISTS"},
		{"wrapped domain error", fmt.Errorf("outer: %w", domainerrors.ErrGroupNotFound), connect.CodeNotFound, "GROUP_NOT_FOUND"},
		{"store failure", errors.New("database is locked"), connect.CodeInternal, ""},
		{"internal kind", domainerrors.Internalf("BOOM", "boom"), connect.CodeInternal, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToConnectError(tt.err)
			assert.Equal(t, tt.wantCode, got.Code())
			assert.Equal(t, tt.wantMeta, got.Meta().Get(HeaderErrorCode))
			if tt.wantCode == connect.CodeInternal {
				assert.Equal(t, "internal error", got.Message())
			}
		})
	}
}

func TestUserIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetUserID(ctx))
	assert.Equal(t, "u1", GetUserID(WithUserID(ctx, "u1")))
}
