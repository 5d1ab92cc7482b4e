package worker

import (
	"context"
	"fmt"

	"clipstream-service/ddd/domain/service"
	"clipstream-service/ddd/infrastructure/queue"
	"clipstream-service/pkg/config"
	"clipstream-service/pkg/logger"
	"clipstream-service/pkg/manager"
	"clipstream-service/pkg/task"
)

// PipelineWorkerComponentPlugin 负责启动流水线Worker
type PipelineWorkerComponentPlugin struct{}

func (p *PipelineWorkerComponentPlugin) Name() string {
	return "pipelineWorkerComponent"
}

func (p *PipelineWorkerComponentPlugin) MustCreateComponent(deps *manager.Dependencies) manager.Component {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.GetGlobalConfig()
	}

	// 调度、流水线与索引服务必须取进程级单例，
	// HTTP侧和Worker侧才会共享同一份队列与内存索引。
	schedulerSvc := service.DefaultSchedulerService()
	pipelineSvc := service.DefaultPipelineService()

	return &pipelineWorkerComponent{
		name:          "pipelineWorker",
		enabled:       cfg.Worker.Enabled,
		worker:        NewPipelineWorker(schedulerSvc, pipelineSvc, cfg.Worker, cfg.Scheduler),
		schedulerSvc:  schedulerSvc,
		similaritySvc: service.DefaultSimilarityService(),
		searchSvc:     service.DefaultSearchService(),
	}
}

type pipelineWorkerComponent struct {
	name          string
	enabled       bool
	worker        PipelineWorker
	schedulerSvc  service.SchedulerService
	similaritySvc service.SimilarityService
	searchSvc     service.SearchService
}

func (c *pipelineWorkerComponent) Start() error {
	if !c.enabled {
		logger.Infof("Pipeline worker component disabled by config name=%s", c.name)
		return nil
	}
	if c.worker == nil {
		return fmt.Errorf("pipeline worker not initialized")
	}

	// 启动前先恢复状态：重建内存索引、把库里可调度的作业放回队列
	ctx := context.Background()
	if count, err := c.similaritySvc.RebuildIndex(ctx); err != nil {
		return fmt.Errorf("failed to rebuild similarity index: %w", err)
	} else {
		logger.Infof("Similarity index rebuilt on startup videos=%d", count)
	}
	if count, err := c.searchSvc.RebuildIndex(ctx); err != nil {
		return fmt.Errorf("failed to rebuild search index: %w", err)
	} else {
		logger.Infof("Search index rebuilt on startup videos=%d", count)
	}
	if count, err := c.schedulerSvc.RecoverQueue(ctx); err != nil {
		return fmt.Errorf("failed to recover job queue: %w", err)
	} else {
		logger.Infof("Job queue recovered on startup jobs=%d", count)
	}

	// 注册后台任务，让应用启动时统一管理
	task.Register(&backgroundTaskAdapter{name: c.name, startFunc: c.worker.Start, stopFunc: c.worker.Stop})
	logger.Infof("Pipeline worker component registered background tasks name=%s", c.name)
	return nil
}

func (c *pipelineWorkerComponent) Stop() error {
	// 背景任务由 task.Manager 控制停止，这里只负责收掉队列
	queue.CloseDefaultJobQueue()
	logger.Infof("Pipeline worker component stopped name=%s", c.name)
	return nil
}

func (c *pipelineWorkerComponent) GetName() string {
	return c.name
}

// backgroundTaskAdapter adapts Start/Stop functions to the BackgroundTask interface.
type backgroundTaskAdapter struct {
	name      string
	startFunc func(ctx context.Context) error
	stopFunc  func() error
}

func (b *backgroundTaskAdapter) Name() string                    { return b.name }
func (b *backgroundTaskAdapter) Start(ctx context.Context) error { return b.startFunc(ctx) }
func (b *backgroundTaskAdapter) Stop() error                     { return b.stopFunc() }
