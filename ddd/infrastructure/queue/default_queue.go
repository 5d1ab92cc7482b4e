package queue

import (
	"sync"

	"clipstream-service/pkg/config"
)

var (
	queueOnce    sync.Once
	defaultQueue JobQueue
)

// DefaultJobQueue 获取默认作业队列
func DefaultJobQueue() JobQueue {
	queueOnce.Do(func() {
		capacity := 1000
		if cfg := config.GetGlobalConfig(); cfg != nil {
			if cfg.Scheduler.QueueCapacity > 0 {
				capacity = cfg.Scheduler.QueueCapacity
			}
		}
		defaultQueue = NewMemoryJobQueue(capacity)
	})
	return defaultQueue
}

// CloseDefaultJobQueue 关闭默认作业队列
func CloseDefaultJobQueue() {
	if defaultQueue != nil {
		_ = defaultQueue.Close()
	}
}
