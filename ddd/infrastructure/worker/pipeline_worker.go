package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/service"
	"clipstream-service/ddd/infrastructure/queue"
	"clipstream-service/pkg/config"
	"clipstream-service/pkg/errno"
	"clipstream-service/pkg/logger"
)

// PipelineWorker 流水线执行者。从队列取作业、持有租约并驱动流水线。
type PipelineWorker interface {
	Start(ctx context.Context) error
	Stop() error
}

type pipelineWorker struct {
	workerID  string
	poolSize  int
	scheduler service.SchedulerService
	pipeline  service.PipelineService
	leaseTTL  time.Duration
	reclaim   time.Duration
	grace     time.Duration

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPipelineWorker 创建流水线Worker
func NewPipelineWorker(scheduler service.SchedulerService, pipeline service.PipelineService, workerCfg config.WorkerConfig, schedulerCfg config.SchedulerConfig) PipelineWorker {
	poolSize := workerCfg.PoolSize
	if poolSize <= 0 {
		poolSize = 2
	}
	workerID := workerCfg.WorkerID
	if workerID == "" {
		workerID = "clipstream-worker"
	}
	return &pipelineWorker{
		workerID:  workerID,
		poolSize:  poolSize,
		scheduler: scheduler,
		pipeline:  pipeline,
		leaseTTL:  schedulerCfg.LeaseTTL,
		reclaim:   schedulerCfg.ReclaimInterval,
		grace:     workerCfg.ShutdownGracePeriod,
	}
}

func (w *pipelineWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	for i := 0; i < w.poolSize; i++ {
		slotID := fmt.Sprintf("%s-%d", w.workerID, i)
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			w.runLoop(runCtx, slotID)
		}()
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.reclaimLoop(runCtx)
	}()

	logger.Infof("Pipeline worker started worker_id=%s pool_size=%d", w.workerID, w.poolSize)
	return nil
}

func (w *pipelineWorker) Stop() error {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(w.grace):
		logger.Warnf("Pipeline worker shutdown grace period exceeded worker_id=%s", w.workerID)
	}
	logger.Infof("Pipeline worker stopped worker_id=%s", w.workerID)
	return nil
}

// runLoop 单个执行槽：取作业 → 租约 → 执行 → 上报结局
func (w *pipelineWorker) runLoop(ctx context.Context, slotID string) {
	for {
		jobUUID, err := w.scheduler.NextJob(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, queue.ErrQueueClosed) {
				return
			}
			logger.Errorf("Failed to dequeue job worker_id=%s error=%v", slotID, err)
			continue
		}

		job, err := w.scheduler.LeaseJob(ctx, jobUUID, slotID)
		if err != nil {
			if errors.Is(err, service.ErrLeaseNotAcquired) {
				// 另一执行者正在处理该视频，等回收循环善后
				continue
			}
			var domainErr *entity.DomainError
			if errors.As(err, &domainErr) {
				// 作业状态已变化（管理员介入或已完成），跳过
				logger.Warnf("Skip non-dispatchable job job_uuid=%s error=%v", jobUUID, err)
				continue
			}
			logger.Errorf("Failed to lease job job_uuid=%s worker_id=%s error=%v", jobUUID, slotID, err)
			continue
		}

		w.execute(ctx, job.JobUUID(), job.VideoUUID(), slotID)
	}
}

// execute 执行单个作业，期间后台续租
func (w *pipelineWorker) execute(ctx context.Context, jobUUID, videoUUID, slotID string) {
	execCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	renewDone := make(chan struct{})
	go func() {
		defer close(renewDone)
		ticker := time.NewTicker(w.leaseTTL / 3)
		defer ticker.Stop()
		for {
			select {
			case <-execCtx.Done():
				return
			case <-ticker.C:
				if err := w.scheduler.RenewLease(context.Background(), jobUUID, slotID); err != nil {
					// 续租失败意味着租约已丢失，立即中止执行
					logger.Warnf("Lease renewal failed, aborting job_uuid=%s worker_id=%s error=%v", jobUUID, slotID, err)
					cancel()
					return
				}
			}
		}
	}()

	outcome, err := w.pipeline.ExecuteVideo(execCtx, videoUUID)
	cancel()
	<-renewDone

	// 结局上报用独立上下文，关停期间也要落库
	reportCtx, reportCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer reportCancel()

	if err != nil {
		permanent := errno.IsPermanent(err)
		logger.Warnf("Pipeline execution failed job_uuid=%s video_uuid=%s worker_id=%s permanent=%t error=%v",
			jobUUID, videoUUID, slotID, permanent, err)
		if failErr := w.scheduler.FailJob(reportCtx, jobUUID, slotID, err.Error(), permanent); failErr != nil {
			logger.Errorf("Failed to record job failure job_uuid=%s error=%v", jobUUID, failErr)
		}
		return
	}

	if completeErr := w.scheduler.CompleteJob(reportCtx, jobUUID, slotID); completeErr != nil {
		logger.Errorf("Failed to record job completion job_uuid=%s error=%v", jobUUID, completeErr)
		return
	}
	logger.Infof("Job finished job_uuid=%s video_uuid=%s worker_id=%s outcome=%s", jobUUID, videoUUID, slotID, outcome)
}

// reclaimLoop 周期回收超时租约
func (w *pipelineWorker) reclaimLoop(ctx context.Context) {
	ticker := time.NewTicker(w.reclaim)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reclaimed, err := w.scheduler.ReclaimExpiredLeases(ctx)
			if err != nil {
				logger.Errorf("Lease reclaim sweep failed worker_id=%s error=%v", w.workerID, err)
				continue
			}
			if reclaimed > 0 {
				logger.Infof("Lease reclaim sweep worker_id=%s reclaimed=%d", w.workerID, reclaimed)
			}
		}
	}
}
