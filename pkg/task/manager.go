package task

import (
	"context"
	"sync"

	"clipstream-service/pkg/logger"
)

// BackgroundTask 常驻后台任务（worker池、回收循环、投递消费者）
type BackgroundTask interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
}

type registry struct {
	tasks  []BackgroundTask
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

var defaultRegistry = &registry{tasks: make([]BackgroundTask, 0)}

// Register 登记后台任务，须在StartAll之前（装配阶段）调用
func Register(t BackgroundTask) {
	if t == nil {
		return
	}
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	defaultRegistry.tasks = append(defaultRegistry.tasks, t)
}

// StartAll 按登记顺序启动全部后台任务，重复调用无效果
func StartAll(ctx context.Context) error {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if defaultRegistry.cancel != nil {
		return nil
	}
	defaultRegistry.ctx, defaultRegistry.cancel = context.WithCancel(ctx)
	for _, t := range defaultRegistry.tasks {
		if err := t.Start(defaultRegistry.ctx); err != nil {
			return err
		}
		logger.Infof("Background task started task=%s", t.Name())
	}
	return nil
}

// StopAll 按登记的逆序停止全部后台任务
func StopAll() {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if defaultRegistry.cancel == nil {
		return
	}
	defaultRegistry.cancel()
	for i := len(defaultRegistry.tasks) - 1; i >= 0; i-- {
		t := defaultRegistry.tasks[i]
		if err := t.Stop(); err != nil {
			logger.Warnf("Background task stop failed task=%s error=%v", t.Name(), err)
			continue
		}
		logger.Infof("Background task stopped task=%s", t.Name())
	}
	defaultRegistry.cancel = nil
}
