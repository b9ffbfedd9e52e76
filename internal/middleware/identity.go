package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	domainerrors "github.com/adrianbrandt/web-chores/internal/errors"
)

// HeaderUserID carries the caller id resolved by the trusted gateway.
const HeaderUserID = "X-User-ID"

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserIDKey is the context key for storing the caller's user ID.
const UserIDKey contextKey = "user_id"

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// RequireIdentity returns an interceptor that reads the caller id from the
// X-User-ID header and rejects requests without one. The gateway in front
// of this service authenticates the caller; this layer only trusts it.
func RequireIdentity() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			userID := strings.TrimSpace(req.Header().Get(HeaderUserID))
			if userID == "" {
				return nil, domainerrors.ErrIdentityMissing
			}
			return next(WithUserID(ctx, userID), req)
		}
	}
}
