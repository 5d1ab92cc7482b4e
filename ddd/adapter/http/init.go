package http

import (
	"github.com/gin-gonic/gin"

	"clipstream-service/pkg/manager"
)

// routeRegistrar 延迟装配：路由注册时才构建应用服务，
// 保证资源管理器已经完成初始化。
type routeRegistrar struct{}

func (routeRegistrar) SetupRoutes(engine *gin.Engine) {
	router := DefaultRouter()
	router.SetupMiddleware(engine)
	router.SetupRoutes(engine)
}

func init() {
	manager.RegisterRouteRegistrar(routeRegistrar{})
}
