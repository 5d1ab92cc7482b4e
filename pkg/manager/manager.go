package manager

import (
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clipstream-service/pkg/config"
)

// Resource 可初始化、可关闭的基础资源（数据库、缓存、消息队列等）
type Resource interface {
	MustOpen()
	Close()
}

// ResourcePlugin 资源插件，注册后由管理器统一初始化
type ResourcePlugin interface {
	Name() string
	MustCreateResource() Resource
}

// Dependencies 依赖注入容器，组件初始化时传入
type Dependencies struct {
	DB     *gorm.DB
	Config *config.Config
}

// Component 后台组件（消费者、Worker等）
type Component interface {
	Start() error
	Stop() error
	GetName() string
}

// ComponentPlugin 组件插件
type ComponentPlugin interface {
	Name() string
	MustCreateComponent(deps *Dependencies) Component
}

// RouteRegistrar 路由注册器
type RouteRegistrar interface {
	SetupRoutes(engine *gin.Engine)
}

type registryState struct {
	mu               sync.Mutex
	resourcePlugins  []ResourcePlugin
	componentPlugins []ComponentPlugin
	resources        []Resource
	components       []Component
	routeRegistrars  []RouteRegistrar
}

var state = &registryState{}

// RegisterResourcePlugin 注册资源插件，应在init阶段调用
func RegisterResourcePlugin(p ResourcePlugin) {
	if p == nil {
		return
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	state.resourcePlugins = append(state.resourcePlugins, p)
}

// RegisterComponentPlugin 注册组件插件，应在init阶段调用
func RegisterComponentPlugin(p ComponentPlugin) {
	if p == nil {
		return
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	state.componentPlugins = append(state.componentPlugins, p)
}

// RegisterRouteRegistrar 注册路由注册器
func RegisterRouteRegistrar(r RouteRegistrar) {
	if r == nil {
		return
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	state.routeRegistrars = append(state.routeRegistrars, r)
}

// MustInitResources 初始化所有已注册的资源，失败直接panic
func MustInitResources() {
	state.mu.Lock()
	defer state.mu.Unlock()
	for _, p := range state.resourcePlugins {
		res := p.MustCreateResource()
		res.MustOpen()
		state.resources = append(state.resources, res)
	}
}

// CloseResources 逆序关闭所有资源
func CloseResources() {
	state.mu.Lock()
	defer state.mu.Unlock()
	for i := len(state.resources) - 1; i >= 0; i-- {
		state.resources[i].Close()
	}
	state.resources = nil
}

// MustInitComponents 创建并启动所有组件，失败直接panic
func MustInitComponents(deps *Dependencies) {
	state.mu.Lock()
	defer state.mu.Unlock()
	for _, p := range state.componentPlugins {
		comp := p.MustCreateComponent(deps)
		if err := comp.Start(); err != nil {
			panic("failed to start component " + p.Name() + ": " + err.Error())
		}
		state.components = append(state.components, comp)
	}
}

// RegisterAllRoutes 将所有注册器挂载到gin引擎
func RegisterAllRoutes(engine *gin.Engine) {
	state.mu.Lock()
	defer state.mu.Unlock()
	for _, r := range state.routeRegistrars {
		r.SetupRoutes(engine)
	}
}

// Shutdown 逆序停止所有组件
func Shutdown() {
	state.mu.Lock()
	defer state.mu.Unlock()
	for i := len(state.components) - 1; i >= 0; i-- {
		_ = state.components[i].Stop()
	}
	state.components = nil
}
