package router

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/famquest/backend/pkg/errorx"
	"github.com/famquest/backend/pkg/xcontext"
)

const (
	apiKeyHeader = "X-Api-Key"
	userIDHeader = "X-User-Id"
)

// Authenticate verifies the gateway's api key and attaches the end user id
// it forwards. Requests without a user header stay anonymous; handlers that
// need an identity reject them.
func Authenticate() MiddlewareFunc {
	return func(ctx context.Context, r *http.Request) (context.Context, error) {
		apiKey := xcontext.Configs(ctx).ApiServer.ApiKey
		if apiKey != "" {
			given := r.Header.Get(apiKeyHeader)
			if subtle.ConstantTimeCompare([]byte(given), []byte(apiKey)) != 1 {
				return nil, errorx.New(errorx.PermissionDenied, "Invalid api key")
			}
		}

		header := r.Header.Get(userIDHeader)
		if header == "" {
			return ctx, nil
		}

		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || userID <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Invalid user id")
		}

		return xcontext.WithRequestUserID(ctx, userID), nil
	}
}
