package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerFunc is a business handler. It receives a context carrying the
// configs, logger, database and (after authentication) the request user id,
// and returns either a response object or an error, usually an errorx.Error.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can derive a new context (for
// example, attach the authenticated user id) or fail the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

type Router struct {
	Inner gin.IRouter

	rootCtx context.Context
	befores []MiddlewareFunc
}

// New creates a Router whose handlers run against contexts derived from ctx.
func New(ctx context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	return &Router{Inner: gin.New(), rootCtx: ctx}
}

// Branch creates a sub router with a copy of the current middleware chain, so
// middlewares registered on the branch do not affect the parent.
func (r *Router) Branch(pattern string) *Router {
	return &Router{
		Inner:   r.Inner.Group(pattern),
		rootCtx: r.rootCtx,
		befores: append([]MiddlewareFunc{}, r.befores...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}
