package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/reciteclub/backend/internal/model"
	"github.com/reciteclub/backend/pkg/errorx"
	"github.com/reciteclub/backend/pkg/jwt"
	"github.com/reciteclub/backend/pkg/router"
	"github.com/reciteclub/backend/pkg/xcontext"
)

// Authenticate verifies the access token and attaches the caller's user id to
// the context. The token comes from the Authorization Bearer header or, as a
// fallback, the configured cookie.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		cfg := xcontext.Configs(ctx).Auth
		token := getAccessToken(router.GetRequest(ctx), cfg.AccessToken.Name)
		if token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Not authenticated")
		}

		verifier := jwt.NewVerifier[model.AccessToken](cfg.TokenSecret)
		info, err := verifier.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, info.ID), nil
	}
}

func getAccessToken(req *http.Request, cookieName string) string {
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	auth, token, found := strings.Cut(authorization, " ")
	if found {
		if auth == "Bearer" {
			return token
		}

		return ""
	}

	cookie, err := req.Cookie(cookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}
