package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRequestContextMiddleware_PropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestContextMiddleware())
	engine.GET("/ping", func(c *gin.Context) {
		require.Equal(t, "req-42", c.GetString(CtxKeyRequestID))
		require.Equal(t, "user-1", c.GetString(CtxKeyUserUUID))
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	req.Header.Set(HeaderUserUUID, "user-1")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	require.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))
}

func TestRequestContextMiddleware_GeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestContextMiddleware())
	engine.GET("/ping", func(c *gin.Context) {
		// 匿名请求不注入user_uuid
		_, ok := c.Get(CtxKeyUserUUID)
		require.False(t, ok)
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}
