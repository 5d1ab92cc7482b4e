package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"clipstream-service/pkg/errno"
	"clipstream-service/pkg/restapi"
)

// IdentityClaims 网关签发的身份声明，核心只消费已认证的身份与角色
type IdentityClaims struct {
	UserUUID string `json:"user_uuid"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware 解析Bearer令牌并注入调用者身份。令牌签发在网关侧完成，这里只做校验。
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			restapi.Failed(c, errno.ErrUnauthorized)
			c.Abort()
			return
		}

		claims := &IdentityClaims{}
		token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errno.ErrUnauthorized
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			restapi.Failed(c, errno.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(CtxKeyUserUUID, claims.UserUUID)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

// RequireAdmin 仅放行admin角色，用于运维接口
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if role, _ := c.Get("user_role"); role != "admin" {
			restapi.Failed(c, errno.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
