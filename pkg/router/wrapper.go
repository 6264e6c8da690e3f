package router

import (
	"net/http"

	"github.com/famquest/backend/pkg/errorx"
	"github.com/famquest/backend/pkg/xcontext"
	"github.com/gin-gonic/gin"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = ginCtx.BindQuery(&req)
		case http.MethodPost:
			err = ginCtx.BindJSON(&req)
		}
		if err != nil {
			writeResponse(ginCtx, newErrorResponse(
				errorx.New(errorx.BadRequest, "Cannot bind the request")))
			return
		}

		ctx := router.base
		for _, middleware := range router.middlewares {
			ctx, err = middleware(ctx, ginCtx.Request)
			if err != nil {
				writeResponse(ginCtx, newErrorResponse(err))
				return
			}
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			if _, ok := err.(errorx.Error); !ok {
				xcontext.Logger(ctx).Errorf("Handler returned a non-client error: %v", err)
			}

			writeResponse(ginCtx, newErrorResponse(err))
			return
		}

		writeResponse(ginCtx, newResponse(resp))
	}
}

func writeResponse(ginCtx *gin.Context, resp response) {
	ginCtx.JSON(http.StatusOK, resp)
}
