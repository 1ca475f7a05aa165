package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/reciteclub/backend/pkg/errorx"
)

type Response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// writeResponse renders the uniform envelope. Failures carry an errorx code
// and its client-safe message; anything else collapses into errorx.Unknown.
func writeResponse(gctx *gin.Context, data any, err error) {
	if err != nil {
		errx := errorx.Error{}
		if !errors.As(err, &errx) {
			errx = errorx.Unknown
		}

		gctx.JSON(http.StatusOK, Response{Code: int64(errx.Code), Error: errx.Message})
		return
	}

	gctx.JSON(http.StatusOK, Response{Code: 0, Data: data})
}
