package http

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"clipstream-service/pkg/config"
)

func TestRouter_RegistersSearchRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.SetGlobalConfig(&config.Config{})

	engine := gin.New()
	NewRouter(nil, nil, nil, nil).SetupRoutes(engine)

	paths := make(map[string]struct{})
	for _, route := range engine.Routes() {
		if route.Method == "GET" {
			paths[route.Path] = struct{}{}
		}
	}
	require.Contains(t, paths, "/api/v1/search")
	require.Contains(t, paths, "/api/v1/search/suggestions")
	require.NotContains(t, paths, "/api/v1/search/suggest")
}
