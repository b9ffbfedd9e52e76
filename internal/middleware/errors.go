package middleware

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	domainerrors "github.com/adrianbrandt/web-chores/internal/errors"
)

// HeaderErrorCode carries the domain error code on error responses.
const HeaderErrorCode = "X-Error-Code"

// ToConnectError renders a domain error as a Connect error. Errors that
// are not domain errors become CodeInternal with a generic message.
func ToConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) || domainErr.Kind == domainerrors.KindInternal {
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}

	var code connect.Code
	switch domainErr.Kind {
	case domainerrors.KindBadRequest:
		code = connect.CodeInvalidArgument
	case domainerrors.KindUnauthorized:
		code = connect.CodeUnauthenticated
	case domainerrors.KindForbidden:
		code = connect.CodePermissionDenied
	case domainerrors.KindNotFound:
		code = connect.CodeNotFound
	case domainerrors.KindConflict:
		code = connect.CodeAlreadyExists
	default:
		code = connect.CodeInternal
	}

	connectErr = connect.NewError(code, errors.New(domainErr.Message))
	connectErr.Meta().Set(HeaderErrorCode, domainErr.Code)
	return connectErr
}

// ErrorInterceptor converts handler errors into Connect errors. Internal
// failures are logged here with their cause before being masked.
func ErrorInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			resp, err := next(ctx, req)
			if err == nil {
				return resp, nil
			}

			connectErr := ToConnectError(err)
			if connectErr.Code() == connect.CodeInternal {
				slog.Error("RPC internal failure",
					"procedure", req.Spec().Procedure,
					"user_id", GetUserID(ctx),
					"error", err,
				)
			}
			return nil, connectErr
		}
	}
}
