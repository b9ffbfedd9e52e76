package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// It logs the procedure name, caller ID, duration, and the Connect and
// domain error codes on failure.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure
			userID := req.Header().Get(HeaderUserID) // identity is resolved further in

			resp, err := next(ctx, req)

			duration := time.Since(start).Milliseconds()
			if err == nil {
				logger.Info("RPC ok",
					"procedure", procedure,
					"user_id", userID,
					"duration_ms", duration,
				)
				return resp, nil
			}

			var connectErr *connect.Error
			if errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal {
				logger.Warn("RPC error",
					"procedure", procedure,
					"code", connectErr.Code(),
					"error_code", connectErr.Meta().Get(HeaderErrorCode),
					"error", connectErr.Message(),
					"user_id", userID,
					"duration_ms", duration,
				)
			} else {
				logger.Error("RPC error",
					"procedure", procedure,
					"error", err,
					"user_id", userID,
					"duration_ms", duration,
				)
			}

			return resp, err
		}
	}
}
