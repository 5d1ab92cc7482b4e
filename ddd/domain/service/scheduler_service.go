package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/gateway"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/ddd/infrastructure/queue"
	"clipstream-service/pkg/config"
	"clipstream-service/pkg/logger"
)

// ErrLeaseNotAcquired 作业租约被其它执行者持有
var ErrLeaseNotAcquired = errors.New("job lease held by another worker")

// SchedulerService 作业调度领域服务。负责入队、租约、退避重试与超时回收。
type SchedulerService interface {
	// EnqueueVideo 为视频创建处理作业并入队。已有活跃作业时幂等返回现有作业。
	EnqueueVideo(ctx context.Context, videoUUID string) (*entity.ProcessingJobEntity, error)

	// NextJob 阻塞等待下一个可调度作业UUID
	NextJob(ctx context.Context) (string, error)

	// LeaseJob 为Worker获取作业租约，同一视频同一时刻只允许一个执行者
	LeaseJob(ctx context.Context, jobUUID, workerID string) (*entity.ProcessingJobEntity, error)

	// RenewLease 续租
	RenewLease(ctx context.Context, jobUUID, workerID string) error

	// CompleteJob 作业成功完成
	CompleteJob(ctx context.Context, jobUUID, workerID string) error

	// FailJob 作业失败。瞬时失败按指数退避重新排队，次数耗尽或永久性失败
	// 则放弃作业并标记视频失败。
	FailJob(ctx context.Context, jobUUID, workerID, reason string, permanent bool) error

	// ReclaimExpiredLeases 回收超时租约，重新入队。回收不消耗重试次数。
	ReclaimExpiredLeases(ctx context.Context) (int, error)

	// RecoverQueue 启动恢复：把数据库中可调度的作业重新装入内存队列
	RecoverQueue(ctx context.Context) (int, error)

	// RetryVideo 管理员重试失败的视频，作业重新排到队尾
	RetryVideo(ctx context.Context, videoUUID string, fromStart bool) (*entity.ProcessingJobEntity, error)

	// BackoffDuration 计算第attempts次失败后的退避时长
	BackoffDuration(attempts int) time.Duration

	// QueueDepth 当前内存队列深度
	QueueDepth() int

	// Statistics 作业统计
	Statistics(ctx context.Context) (*repo.JobStatistics, error)
}

type schedulerServiceImpl struct {
	jobRepo    repo.ProcessingJobRepository
	videoRepo  repo.VideoRepository
	jobQueue   queue.JobQueue
	leaseStore gateway.LeaseStore
	cfg        config.SchedulerConfig
}

// NewSchedulerService 创建调度领域服务
func NewSchedulerService(
	jobRepo repo.ProcessingJobRepository,
	videoRepo repo.VideoRepository,
	jobQueue queue.JobQueue,
	leaseStore gateway.LeaseStore,
	cfg config.SchedulerConfig,
) SchedulerService {
	return &schedulerServiceImpl{
		jobRepo:    jobRepo,
		videoRepo:  videoRepo,
		jobQueue:   jobQueue,
		leaseStore: leaseStore,
		cfg:        cfg,
	}
}

func leaseKey(videoUUID string) string {
	return "video:" + videoUUID
}

// EnqueueVideo 为视频创建处理作业并入队
func (s *schedulerServiceImpl) EnqueueVideo(ctx context.Context, videoUUID string) (*entity.ProcessingJobEntity, error) {
	existing, err := s.jobRepo.GetActiveJobByVideo(ctx, videoUUID)
	if err == nil && existing != nil {
		// 同一视频只允许一个活跃作业，重复入队幂等返回
		if !s.jobQueue.Contains(existing.JobUUID()) && existing.Status() != vo.JobStatusLeased {
			_ = s.jobQueue.Enqueue(ctx, existing.JobUUID())
		}
		return existing, nil
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to query active job: %w", err)
	}

	job := entity.NewProcessingJobEntity(videoUUID, s.cfg.MaxAttempts)
	if err := s.jobRepo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	if err := s.jobQueue.Enqueue(ctx, job.JobUUID()); err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	logger.Infof("Job enqueued job_uuid=%s video_uuid=%s", job.JobUUID(), videoUUID)
	return job, nil
}

// NextJob 阻塞等待下一个可调度作业
func (s *schedulerServiceImpl) NextJob(ctx context.Context) (string, error) {
	return s.jobQueue.Dequeue(ctx)
}

// LeaseJob 为Worker获取作业租约
func (s *schedulerServiceImpl) LeaseJob(ctx context.Context, jobUUID, workerID string) (*entity.ProcessingJobEntity, error) {
	job, err := s.jobRepo.GetJobByUUID(ctx, jobUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	// 跨实例租约先行，抢不到说明另一实例正在处理该视频
	acquired, err := s.leaseStore.Acquire(ctx, leaseKey(job.VideoUUID()), workerID, s.cfg.LeaseTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lease: %w", err)
	}
	if !acquired {
		return nil, ErrLeaseNotAcquired
	}

	if err := job.Lease(workerID, s.cfg.LeaseTTL); err != nil {
		_ = s.leaseStore.Release(ctx, leaseKey(job.VideoUUID()), workerID)
		return nil, err
	}
	if err := s.jobRepo.UpdateJob(ctx, job); err != nil {
		_ = s.leaseStore.Release(ctx, leaseKey(job.VideoUUID()), workerID)
		return nil, fmt.Errorf("failed to persist lease: %w", err)
	}

	logger.Infof("Job leased job_uuid=%s video_uuid=%s worker_id=%s attempt=%d",
		job.JobUUID(), job.VideoUUID(), workerID, job.Attempts())
	return job, nil
}

// RenewLease 续租
func (s *schedulerServiceImpl) RenewLease(ctx context.Context, jobUUID, workerID string) error {
	job, err := s.jobRepo.GetJobByUUID(ctx, jobUUID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	renewed, err := s.leaseStore.Renew(ctx, leaseKey(job.VideoUUID()), workerID, s.cfg.LeaseTTL)
	if err != nil {
		return fmt.Errorf("failed to renew lease: %w", err)
	}
	if !renewed {
		return ErrLeaseNotAcquired
	}
	if err := job.RenewLease(workerID, s.cfg.LeaseTTL); err != nil {
		return err
	}
	return s.jobRepo.UpdateJob(ctx, job)
}

// CompleteJob 作业成功完成
func (s *schedulerServiceImpl) CompleteJob(ctx context.Context, jobUUID, workerID string) error {
	job, err := s.jobRepo.GetJobByUUID(ctx, jobUUID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}
	if err := job.Succeed(); err != nil {
		return err
	}
	if err := s.jobRepo.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to persist job completion: %w", err)
	}
	_ = s.leaseStore.Release(ctx, leaseKey(job.VideoUUID()), workerID)

	logger.Infof("Job completed job_uuid=%s video_uuid=%s worker_id=%s", jobUUID, job.VideoUUID(), workerID)
	return nil
}

// FailJob 作业失败
func (s *schedulerServiceImpl) FailJob(ctx context.Context, jobUUID, workerID, reason string, permanent bool) error {
	job, err := s.jobRepo.GetJobByUUID(ctx, jobUUID)
	if err != nil {
		return fmt.Errorf("failed to get job: %w", err)
	}

	if permanent {
		// 永久性失败重试也不会成功，首次出现即放弃
		if err := job.Abandon(reason); err != nil {
			return err
		}
	} else if err := job.Fail(reason, s.BackoffDuration(job.Attempts())); err != nil {
		return err
	}
	if err := s.jobRepo.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("failed to persist job failure: %w", err)
	}
	_ = s.leaseStore.Release(ctx, leaseKey(job.VideoUUID()), workerID)

	if job.Status() == vo.JobStatusAbandoned {
		logger.Warnf("Job abandoned job_uuid=%s video_uuid=%s attempts=%d permanent=%t reason=%s",
			jobUUID, job.VideoUUID(), job.Attempts(), permanent, reason)
		return s.markVideoFailed(ctx, job.VideoUUID(), reason)
	}

	if nb := job.NotBefore(); nb != nil {
		_ = s.jobQueue.EnqueueAfter(job.JobUUID(), *nb)
	} else {
		_ = s.jobQueue.Enqueue(ctx, job.JobUUID())
	}
	logger.Warnf("Job failed, backoff scheduled job_uuid=%s video_uuid=%s attempt=%d reason=%s",
		jobUUID, job.VideoUUID(), job.Attempts(), reason)
	return nil
}

func (s *schedulerServiceImpl) markVideoFailed(ctx context.Context, videoUUID, reason string) error {
	video, err := s.videoRepo.GetVideoByUUID(ctx, videoUUID)
	if err != nil {
		return fmt.Errorf("failed to get video: %w", err)
	}
	if err := video.MarkFailed(reason); err != nil {
		// 视频可能已进入终态（例如重复短路），不再覆盖
		logger.Warnf("Skip marking video failed video_uuid=%s status=%s", videoUUID, video.Status())
		return nil
	}
	return s.videoRepo.UpdateVideo(ctx, video)
}

// ReclaimExpiredLeases 回收超时租约
func (s *schedulerServiceImpl) ReclaimExpiredLeases(ctx context.Context) (int, error) {
	jobs, err := s.jobRepo.GetExpiredLeaseJobs(ctx, time.Now(), 100)
	if err != nil {
		return 0, fmt.Errorf("failed to query expired leases: %w", err)
	}
	reclaimed := 0
	for _, job := range jobs {
		holder := job.WorkerID()
		if err := job.Reclaim(); err != nil {
			continue
		}
		if err := s.jobRepo.UpdateJob(ctx, job); err != nil {
			logger.Errorf("Failed to persist reclaimed job job_uuid=%s error=%v", job.JobUUID(), err)
			continue
		}
		_ = s.leaseStore.Release(ctx, leaseKey(job.VideoUUID()), holder)
		_ = s.jobQueue.Enqueue(ctx, job.JobUUID())
		reclaimed++
		logger.Warnf("Lease reclaimed job_uuid=%s video_uuid=%s worker_id=%s", job.JobUUID(), job.VideoUUID(), holder)
	}
	return reclaimed, nil
}

// RecoverQueue 启动恢复
func (s *schedulerServiceImpl) RecoverQueue(ctx context.Context) (int, error) {
	jobs, err := s.jobRepo.GetDispatchableJobs(ctx, time.Now().Add(s.cfg.BackoffCap), 0)
	if err != nil {
		return 0, fmt.Errorf("failed to query dispatchable jobs: %w", err)
	}
	recovered := 0
	for _, job := range jobs {
		if nb := job.NotBefore(); nb != nil {
			if err := s.jobQueue.EnqueueAfter(job.JobUUID(), *nb); err != nil {
				continue
			}
		} else if err := s.jobQueue.Enqueue(ctx, job.JobUUID()); err != nil {
			continue
		}
		recovered++
	}
	logger.Infof("Queue recovered jobs=%d", recovered)
	return recovered, nil
}

// RetryVideo 管理员重试失败的视频
func (s *schedulerServiceImpl) RetryVideo(ctx context.Context, videoUUID string, fromStart bool) (*entity.ProcessingJobEntity, error) {
	video, err := s.videoRepo.GetVideoByUUID(ctx, videoUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	if err := video.ResetForRetry(fromStart); err != nil {
		return nil, err
	}
	if err := s.videoRepo.UpdateVideo(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to persist video retry: %w", err)
	}

	job, err := s.jobRepo.GetLatestJobByVideo(ctx, videoUUID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get latest job: %w", err)
	}
	// 管理员重试走常规调度纪律，重新排到队尾
	if job != nil && !job.Status().IsFinalStatus() && job.Status() != vo.JobStatusLeased {
		if err := job.ResetForRetry(); err == nil {
			if err := s.jobRepo.UpdateJob(ctx, job); err != nil {
				return nil, fmt.Errorf("failed to persist job retry: %w", err)
			}
			_ = s.jobQueue.Enqueue(ctx, job.JobUUID())
			logger.Infof("Video retry requeued job_uuid=%s video_uuid=%s from_start=%t", job.JobUUID(), videoUUID, fromStart)
			return job, nil
		}
	}
	if job != nil && job.Status() == vo.JobStatusAbandoned {
		if err := job.ResetForRetry(); err != nil {
			return nil, err
		}
		if err := s.jobRepo.UpdateJob(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to persist job retry: %w", err)
		}
		_ = s.jobQueue.Enqueue(ctx, job.JobUUID())
		logger.Infof("Video retry requeued job_uuid=%s video_uuid=%s from_start=%t", job.JobUUID(), videoUUID, fromStart)
		return job, nil
	}

	// 没有可复用的作业，创建新作业排队
	newJob := entity.NewProcessingJobEntity(videoUUID, s.cfg.MaxAttempts)
	if err := s.jobRepo.CreateJob(ctx, newJob); err != nil {
		return nil, fmt.Errorf("failed to create retry job: %w", err)
	}
	_ = s.jobQueue.Enqueue(ctx, newJob.JobUUID())
	logger.Infof("Video retry enqueued job_uuid=%s video_uuid=%s from_start=%t", newJob.JobUUID(), videoUUID, fromStart)
	return newJob, nil
}

// BackoffDuration 计算退避时长：base * factor^(attempts-1)，上限封顶
func (s *schedulerServiceImpl) BackoffDuration(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	backoff := s.cfg.BackoffBase
	for i := 1; i < attempts; i++ {
		backoff *= time.Duration(s.cfg.BackoffFactor)
		if backoff >= s.cfg.BackoffCap {
			return s.cfg.BackoffCap
		}
	}
	if backoff > s.cfg.BackoffCap {
		return s.cfg.BackoffCap
	}
	return backoff
}

// QueueDepth 当前内存队列深度
func (s *schedulerServiceImpl) QueueDepth() int {
	return s.jobQueue.Size()
}

// Statistics 作业统计
func (s *schedulerServiceImpl) Statistics(ctx context.Context) (*repo.JobStatistics, error) {
	return s.jobRepo.GetJobStatistics(ctx)
}
