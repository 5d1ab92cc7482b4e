package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"clipstream-service/internal/resource"
	"clipstream-service/pkg/config"
	"clipstream-service/pkg/logger"
	"clipstream-service/pkg/manager"
	"clipstream-service/pkg/observability"
	"clipstream-service/pkg/registry"
	"clipstream-service/pkg/task"

	// 导入适配器和Worker包以触发init注册
	_ "clipstream-service/ddd/adapter/component"
	_ "clipstream-service/ddd/adapter/http"
	_ "clipstream-service/ddd/infrastructure/worker"
)

func Run() {
	// 先使用标准输出确保能看到日志
	fmt.Println("[STARTUP] Starting clipstream service...")

	// 加载配置
	fmt.Println("[STARTUP] Loading config file...")
	cfgPath := resolveConfigPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Printf("[ERROR] Failed to load config (%s): %v\n", cfgPath, err)
		os.Exit(1)
	}
	// 设置全局配置（必须在资源管理器初始化之前）
	config.SetGlobalConfig(cfg)
	fmt.Printf("[STARTUP] Config file loaded: %s\n", cfgPath)

	// 立即初始化日志服务（确保所有后续组件都能使用正确的日志器）
	fmt.Println("[STARTUP] Initializing logger...")
	logService := logger.NewLogger(cfg)
	logger.SetGlobalLogger(logService)
	fmt.Println("[STARTUP] Logger initialized")

	logger.Debug("Logger initialized", map[string]interface{}{
		"level":  cfg.Log.Level,
		"format": cfg.Log.Format,
		"output": cfg.Log.Output,
	})

	logger.Infof("Clipstream service starting version=%s", "1.0.0")

	// 持续剖析
	stopProfiling := observability.StartProfiling(cfg)
	defer stopProfiling()

	// Worker开启时检查FFmpeg是否可用，直接在启动阶段失败
	if cfg.Worker.Enabled {
		ffmpegBin := strings.TrimSpace(cfg.Pipeline.FFmpegBinary)
		if ffmpegBin == "" {
			ffmpegBin = "ffmpeg"
		}
		if _, err := exec.LookPath(ffmpegBin); err != nil {
			logger.Fatal(fmt.Sprintf("FFmpeg binary not found, please install or set pipeline.ffmpeg_binary binary=%s error=%s", ffmpegBin, err.Error()))
		}
	}

	// 资源管理器初始化（MySQL、Redis、MinIO、Kafka）
	logger.Infof("Initializing resource manager...")
	manager.MustInitResources()
	defer manager.CloseResources()
	logger.Infof("Resource manager initialized")

	// 创建依赖注入容器
	deps := &manager.Dependencies{
		DB:     resource.DefaultMysqlResource().MainDB(),
		Config: cfg,
	}

	// 初始化所有组件（上传事件消费者、流水线Worker）
	logger.Infof("Initializing components...")
	manager.MustInitComponents(deps)
	logger.Infof("All components initialized")

	// 启动后台任务
	logger.Infof("Starting background tasks...")
	if err := task.StartAll(context.Background()); err != nil {
		logger.Fatal(fmt.Sprintf("Failed to start background tasks error=%v", err))
	}
	logger.Infof("Background tasks started")

	// 创建Gin引擎并注册路由
	logger.Infof("Creating HTTP routes...")
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	engine := gin.New()
	manager.RegisterAllRoutes(engine)
	logger.Infof("Routes registered")

	// 启动HTTP服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(fmt.Sprintf("Failed to start HTTP server error=%v", err))
		}
	}()
	logger.Infof("HTTP server started addr=%s service=%s", addr, "clipstream-service")

	// 服务注册（网关通过etcd发现实例）
	var serviceRegistry *registry.ServiceRegistry
	if cfg.ServiceRegistry.Enabled {
		registerHost := cfg.ServiceRegistry.RegisterHost
		if registerHost == "" {
			registerHost = cfg.Server.Host
		}
		serviceID := cfg.ServiceRegistry.ServiceID
		if serviceID == "" {
			hostname, _ := os.Hostname()
			serviceID = fmt.Sprintf("%s-%s-%d", cfg.ServiceRegistry.ServiceName, hostname, cfg.Server.Port)
		}
		serviceRegistry, err = registry.NewServiceRegistry(
			registry.RegistryConfig{
				Endpoints:   cfg.ServiceRegistry.Endpoints,
				DialTimeout: 5 * time.Second,
			},
			registry.ServiceConfig{
				ServiceName: cfg.ServiceRegistry.ServiceName,
				ServiceID:   serviceID,
				TTL:         cfg.ServiceRegistry.TTL,
			},
			fmt.Sprintf("%s:%d", registerHost, cfg.Server.Port),
		)
		if err != nil {
			logger.Warnf("Failed to create service registry error=%v", err)
		} else if err := serviceRegistry.Register(); err != nil {
			logger.Warnf("Failed to register service error=%v", err)
		}
	}

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Received shutdown signal, shutting down server...")

	if serviceRegistry != nil {
		if err := serviceRegistry.Deregister(); err != nil {
			logger.Warnf("Failed to deregister service error=%v", err)
		}
	}

	// 先停后台任务（Worker归还未完成的租约由回收循环兜底）
	logger.Infof("Stopping background tasks...")
	task.StopAll()

	// 关闭所有组件
	logger.Infof("Shutting down components...")
	manager.Shutdown()
	logger.Infof("Components closed")

	// 设置5秒超时
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("Server forced to close error=%v", err))
	}

	logger.Infof("Server exited safely")

	if logService != nil {
		logService.Close()
	}

	fmt.Println("[SHUTDOWN] Clipstream service exited safely")
}

// resolveConfigPath 根据环境选择配置文件，支持CONFIG_PATH覆盖、CONFIG_ENV区分环境
func resolveConfigPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}

	env := strings.ToLower(strings.TrimSpace(os.Getenv("CONFIG_ENV")))
	if env == "" {
		env = "dev"
	}

	switch env {
	case "prod", "production":
		return "configs/config_prod.yaml"
	case "dev", "development":
		return "configs/config.dev.yaml"
	default:
		return fmt.Sprintf("configs/config.%s.yaml", env)
	}
}
