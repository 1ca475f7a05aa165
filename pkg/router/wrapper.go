package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reciteclub/backend/pkg/errorx"
	"github.com/reciteclub/backend/pkg/xcontext"
)

type httpRequestKey struct{}

// GetRequest returns the incoming *http.Request attached by the router, so
// middlewares can read headers and cookies without depending on gin.
func GetRequest(ctx context.Context) *http.Request {
	req, ok := ctx.Value(httpRequestKey{}).(*http.Request)
	if !ok {
		return nil
	}

	return req
}

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = gctx.BindQuery(&req)
		default:
			if gctx.Request.ContentLength > 0 {
				err = gctx.ShouldBindJSON(&req)
			}
		}
		if err != nil {
			writeResponse(gctx, nil, errorx.New(errorx.BadRequest, "Cannot bind the request"))
			return
		}

		ctx := context.WithValue(router.rootCtx, httpRequestKey{}, gctx.Request)
		for _, middleware := range router.befores {
			ctx, err = middleware(ctx)
			if err != nil {
				writeResponse(gctx, nil, err)
				return
			}
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Handler of %s failed: %v", gctx.FullPath(), err)
		}

		writeResponse(gctx, resp, err)
	}
}
