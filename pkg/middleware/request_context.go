package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// 上下文键与透传头。auth中间件写入的user_uuid会覆盖这里的匿名头。
const (
	CtxKeyUserUUID  = "user_uuid"
	CtxKeyRequestID = "request_id"

	HeaderUserUUID  = "X-User-UUID"
	HeaderRequestID = "X-Request-ID"
)

// RequestContextMiddleware 为每个请求注入user_uuid与request_id。
// 上游没带request_id就现场生成一个，并回写到响应头便于排查。
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(CtxKeyRequestID, reqID)
		c.Writer.Header().Set(HeaderRequestID, reqID)

		if userUUID := c.GetHeader(HeaderUserUUID); userUUID != "" {
			c.Set(CtxKeyUserUUID, userUUID)
		}
		c.Next()
	}
}
