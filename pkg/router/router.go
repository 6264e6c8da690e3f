package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can derive a new context (to
// attach the request user, a transaction, etc.) or fail the request with an
// error.
type MiddlewareFunc func(ctx context.Context, r *http.Request) (context.Context, error)

type Router struct {
	Inner gin.IRouter

	base        context.Context
	middlewares []MiddlewareFunc
}

// New creates a router over the given base context. The base context must
// carry the database, logger, and configs.
func New(ctx context.Context) *Router {
	return &Router{Inner: gin.New(), base: ctx}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) Use(middleware MiddlewareFunc) {
	r.middlewares = append(r.middlewares, middleware)
}

func (r *Router) Group(pattern string) *Router {
	return &Router{
		Inner:       r.Inner.Group(pattern),
		base:        r.base,
		middlewares: append([]MiddlewareFunc{}, r.middlewares...),
	}
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}
