package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clipstream-service/pkg/errno"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 返回成功响应
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Failed 返回失败响应，业务错误码透传，其余统一为500
func Failed(ctx *gin.Context, err error) {
	var e *errno.Errno
	if !errors.As(err, &e) {
		e = &errno.Errno{Code: errno.ErrInternalServer.Code, Message: err.Error()}
	}

	ctx.JSON(httpStatus(e.Code), Response{
		Code:    e.Code,
		Message: e.Message,
	})
}

func httpStatus(code int) int {
	switch {
	case code >= 400 && code < 500:
		return code
	case code >= 500 && code < 600:
		return http.StatusInternalServerError
	case code >= 20000:
		return http.StatusBadRequest
	default:
		return http.StatusOK
	}
}
