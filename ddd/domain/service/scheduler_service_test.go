package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/ddd/infrastructure/lease"
	"clipstream-service/ddd/infrastructure/queue"
	"clipstream-service/pkg/config"
)

func newTestScheduler(t *testing.T, cfg config.SchedulerConfig) (SchedulerService, *fakeJobRepo, *fakeVideoRepo, queue.JobQueue) {
	t.Helper()
	if cfg.MaxAttempts == 0 {
		cfg = config.SchedulerConfig{
			MaxAttempts:     3,
			BackoffBase:     30 * time.Second,
			BackoffFactor:   2,
			BackoffCap:      30 * time.Minute,
			LeaseTTL:        time.Minute,
			ReclaimInterval: time.Second,
			QueueCapacity:   100,
		}
	}
	jobRepo := newFakeJobRepo()
	videoRepo := newFakeVideoRepo()
	q := queue.NewMemoryJobQueue(cfg.QueueCapacity)
	svc := NewSchedulerService(jobRepo, videoRepo, q, lease.NewMemoryLeaseStore(), cfg)
	return svc, jobRepo, videoRepo, q
}

func seedQueuedVideo(t *testing.T, videoRepo *fakeVideoRepo) *entity.VideoEntity {
	t.Helper()
	v := entity.NewVideoEntity("stream-1", "user-1", "title", "desc", "uploads/x/source")
	require.NoError(t, v.MarkQueued())
	require.NoError(t, videoRepo.CreateVideo(context.Background(), v))
	return v
}

func TestScheduler_EnqueueVideoCreatesJob(t *testing.T) {
	svc, jobRepo, videoRepo, q := newTestScheduler(t, config.SchedulerConfig{})
	ctx := context.Background()
	v := seedQueuedVideo(t, videoRepo)

	job, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)
	require.Equal(t, vo.JobStatusPending, job.Status())
	require.True(t, q.Contains(job.JobUUID()))

	stored, err := jobRepo.GetJobByUUID(ctx, job.JobUUID())
	require.NoError(t, err)
	require.Equal(t, v.VideoUUID(), stored.VideoUUID())
}

func TestScheduler_EnqueueVideoIsIdempotent(t *testing.T) {
	svc, _, videoRepo, q := newTestScheduler(t, config.SchedulerConfig{})
	ctx := context.Background()
	v := seedQueuedVideo(t, videoRepo)

	first, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)
	second, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)
	require.Equal(t, first.JobUUID(), second.JobUUID())
	require.Equal(t, 1, q.Size())
}

func TestScheduler_LeaseJobSingleFlightPerVideo(t *testing.T) {
	svc, _, videoRepo, _ := newTestScheduler(t, config.SchedulerConfig{})
	ctx := context.Background()
	v := seedQueuedVideo(t, videoRepo)

	job, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)

	leased, err := svc.LeaseJob(ctx, job.JobUUID(), "worker-a")
	require.NoError(t, err)
	require.Equal(t, vo.JobStatusLeased, leased.Status())
	require.Equal(t, 1, leased.Attempts())

	// 第二个执行者抢同一视频的租约必须失败
	_, err = svc.LeaseJob(ctx, job.JobUUID(), "worker-b")
	require.ErrorIs(t, err, ErrLeaseNotAcquired)
}

func TestScheduler_CompleteJobReleasesLease(t *testing.T) {
	svc, jobRepo, videoRepo, _ := newTestScheduler(t, config.SchedulerConfig{})
	ctx := context.Background()
	v := seedQueuedVideo(t, videoRepo)

	job, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)
	_, err = svc.LeaseJob(ctx, job.JobUUID(), "worker-a")
	require.NoError(t, err)

	require.NoError(t, svc.CompleteJob(ctx, job.JobUUID(), "worker-a"))
	stored, err := jobRepo.GetJobByUUID(ctx, job.JobUUID())
	require.NoError(t, err)
	require.Equal(t, vo.JobStatusSucceeded, stored.Status())

	// 租约已释放，同一视频的新作业可被租
	require.NoError(t, v.StartProcessing())
	next, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)
	_, err = svc.LeaseJob(ctx, next.JobUUID(), "worker-b")
	require.NoError(t, err)
}

func TestScheduler_FailJobSchedulesBackoffRequeue(t *testing.T) {
	svc, jobRepo, videoRepo, q := newTestScheduler(t, config.SchedulerConfig{})
	ctx := context.Background()
	v := seedQueuedVideo(t, videoRepo)

	job, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)
	_, err = svc.NextJob(ctx)
	require.NoError(t, err)
	_, err = svc.LeaseJob(ctx, job.JobUUID(), "worker-a")
	require.NoError(t, err)

	require.NoError(t, svc.FailJob(ctx, job.JobUUID(), "worker-a", "transcode exploded", false))

	stored, err := jobRepo.GetJobByUUID(ctx, job.JobUUID())
	require.NoError(t, err)
	require.Equal(t, vo.JobStatusFailed, stored.Status())
	require.NotNil(t, stored.NotBefore())
	require.True(t, q.Contains(job.JobUUID()))

	// 退避未到期，作业不应被立即取出
	_, ok := q.TryDequeue()
	require.False(t, ok)
}

func TestScheduler_FailJobExhaustionAbandonsAndFailsVideo(t *testing.T) {
	cfg := config.SchedulerConfig{
		MaxAttempts:   1,
		BackoffBase:   time.Millisecond,
		BackoffFactor: 2,
		BackoffCap:    time.Second,
		LeaseTTL:      time.Minute,
		QueueCapacity: 100,
	}
	svc, jobRepo, videoRepo, _ := newTestScheduler(t, cfg)
	ctx := context.Background()
	v := seedQueuedVideo(t, videoRepo)
	require.NoError(t, v.StartProcessing())

	job, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)
	_, err = svc.LeaseJob(ctx, job.JobUUID(), "worker-a")
	require.NoError(t, err)

	require.NoError(t, svc.FailJob(ctx, job.JobUUID(), "worker-a", "fatal", false))

	stored, err := jobRepo.GetJobByUUID(ctx, job.JobUUID())
	require.NoError(t, err)
	require.Equal(t, vo.JobStatusAbandoned, stored.Status())

	video, err := videoRepo.GetVideoByUUID(ctx, v.VideoUUID())
	require.NoError(t, err)
	require.Equal(t, vo.VideoStatusFailed, video.Status())
	require.Equal(t, "fatal", video.FailureReason())
}

func TestScheduler_FailJobDoesNotOverrideDuplicateVerdict(t *testing.T) {
	cfg := config.SchedulerConfig{
		MaxAttempts:   1,
		BackoffBase:   time.Millisecond,
		BackoffFactor: 2,
		BackoffCap:    time.Second,
		LeaseTTL:      time.Minute,
		QueueCapacity: 100,
	}
	svc, _, videoRepo, _ := newTestScheduler(t, cfg)
	ctx := context.Background()
	v := seedQueuedVideo(t, videoRepo)
	require.NoError(t, v.StartProcessing())
	require.NoError(t, v.MarkDuplicate("original-uuid"))

	job, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)
	_, err = svc.LeaseJob(ctx, job.JobUUID(), "worker-a")
	require.NoError(t, err)
	require.NoError(t, svc.FailJob(ctx, job.JobUUID(), "worker-a", "late failure", false))

	video, err := videoRepo.GetVideoByUUID(ctx, v.VideoUUID())
	require.NoError(t, err)
	require.Equal(t, vo.VideoStatusDuplicate, video.Status())
}

func TestScheduler_BackoffDurationGrowsAndCaps(t *testing.T) {
	cfg := config.SchedulerConfig{
		MaxAttempts:   10,
		BackoffBase:   30 * time.Second,
		BackoffFactor: 2,
		BackoffCap:    5 * time.Minute,
		LeaseTTL:      time.Minute,
		QueueCapacity: 100,
	}
	svc, _, _, _ := newTestScheduler(t, cfg)

	require.Equal(t, 30*time.Second, svc.BackoffDuration(1))
	require.Equal(t, time.Minute, svc.BackoffDuration(2))
	require.Equal(t, 2*time.Minute, svc.BackoffDuration(3))
	require.Equal(t, 4*time.Minute, svc.BackoffDuration(4))
	require.Equal(t, 5*time.Minute, svc.BackoffDuration(5))
	require.Equal(t, 5*time.Minute, svc.BackoffDuration(9))
	// 非法输入按首轮处理
	require.Equal(t, 30*time.Second, svc.BackoffDuration(0))
}

func TestScheduler_ReclaimExpiredLeases(t *testing.T) {
	cfg := config.SchedulerConfig{
		MaxAttempts:   3,
		BackoffBase:   30 * time.Second,
		BackoffFactor: 2,
		BackoffCap:    30 * time.Minute,
		LeaseTTL:      10 * time.Millisecond,
		QueueCapacity: 100,
	}
	svc, jobRepo, videoRepo, q := newTestScheduler(t, cfg)
	ctx := context.Background()
	v := seedQueuedVideo(t, videoRepo)

	job, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)
	_, err = svc.NextJob(ctx)
	require.NoError(t, err)
	leased, err := svc.LeaseJob(ctx, job.JobUUID(), "worker-crashed")
	require.NoError(t, err)
	require.Equal(t, 1, leased.Attempts())

	time.Sleep(30 * time.Millisecond)

	reclaimed, err := svc.ReclaimExpiredLeases(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, reclaimed)

	stored, err := jobRepo.GetJobByUUID(ctx, job.JobUUID())
	require.NoError(t, err)
	require.Equal(t, vo.JobStatusPending, stored.Status())
	require.Equal(t, 0, stored.Attempts(), "reclaim must refund the attempt")
	require.True(t, q.Contains(job.JobUUID()))

	// 回收后另一执行者可以正常接手
	_, err = svc.LeaseJob(ctx, job.JobUUID(), "worker-b")
	require.NoError(t, err)
}

func TestScheduler_RecoverQueue(t *testing.T) {
	svc, jobRepo, videoRepo, q := newTestScheduler(t, config.SchedulerConfig{})
	ctx := context.Background()

	v1 := seedQueuedVideo(t, videoRepo)
	v2 := seedQueuedVideo(t, videoRepo)
	require.NoError(t, jobRepo.CreateJob(ctx, entity.NewProcessingJobEntity(v1.VideoUUID(), 3)))
	require.NoError(t, jobRepo.CreateJob(ctx, entity.NewProcessingJobEntity(v2.VideoUUID(), 3)))

	recovered, err := svc.RecoverQueue(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, recovered)
	require.Equal(t, 2, q.Size())
}

func TestScheduler_RetryVideoRequeuesAtTail(t *testing.T) {
	cfg := config.SchedulerConfig{
		MaxAttempts:   1,
		BackoffBase:   time.Millisecond,
		BackoffFactor: 2,
		BackoffCap:    time.Second,
		LeaseTTL:      time.Minute,
		QueueCapacity: 100,
	}
	svc, jobRepo, videoRepo, q := newTestScheduler(t, cfg)
	ctx := context.Background()

	v := seedQueuedVideo(t, videoRepo)
	require.NoError(t, v.StartProcessing())

	job, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)
	_, err = svc.NextJob(ctx)
	require.NoError(t, err)
	_, err = svc.LeaseJob(ctx, job.JobUUID(), "worker-a")
	require.NoError(t, err)
	require.NoError(t, svc.FailJob(ctx, job.JobUUID(), "worker-a", "fatal", false))

	// 队列里已有别的作业，管理员重试不插队，排在它后面
	require.NoError(t, q.Enqueue(ctx, "other-job"))

	retried, err := svc.RetryVideo(ctx, v.VideoUUID(), false)
	require.NoError(t, err)
	require.Equal(t, job.JobUUID(), retried.JobUUID())
	require.Equal(t, vo.JobStatusPending, retried.Status())
	require.Equal(t, 0, retried.Attempts())

	first, err := svc.NextJob(ctx)
	require.NoError(t, err)
	require.Equal(t, "other-job", first)
	second, err := svc.NextJob(ctx)
	require.NoError(t, err)
	require.Equal(t, job.JobUUID(), second)

	video, err := videoRepo.GetVideoByUUID(ctx, v.VideoUUID())
	require.NoError(t, err)
	require.Equal(t, vo.VideoStatusQueued, video.Status())

	stored, err := jobRepo.GetJobByUUID(ctx, job.JobUUID())
	require.NoError(t, err)
	require.Empty(t, stored.LastError())
}

func TestScheduler_FailJobPermanentAbandonsImmediately(t *testing.T) {
	svc, jobRepo, videoRepo, q := newTestScheduler(t, config.SchedulerConfig{})
	ctx := context.Background()
	v := seedQueuedVideo(t, videoRepo)
	require.NoError(t, v.StartProcessing())

	job, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)
	_, err = svc.NextJob(ctx)
	require.NoError(t, err)
	_, err = svc.LeaseJob(ctx, job.JobUUID(), "worker-a")
	require.NoError(t, err)

	// MaxAttempts=3，但永久性失败首次即放弃，不进入退避重试
	require.NoError(t, svc.FailJob(ctx, job.JobUUID(), "worker-a", "source media corrupt", true))

	stored, err := jobRepo.GetJobByUUID(ctx, job.JobUUID())
	require.NoError(t, err)
	require.Equal(t, vo.JobStatusAbandoned, stored.Status())
	require.Equal(t, 1, stored.Attempts())
	require.Nil(t, stored.NotBefore())
	require.False(t, q.Contains(job.JobUUID()))

	video, err := videoRepo.GetVideoByUUID(ctx, v.VideoUUID())
	require.NoError(t, err)
	require.Equal(t, vo.VideoStatusFailed, video.Status())
	require.Equal(t, "source media corrupt", video.FailureReason())
}

func TestScheduler_RetryVideoRejectsNonFailed(t *testing.T) {
	svc, _, videoRepo, _ := newTestScheduler(t, config.SchedulerConfig{})
	ctx := context.Background()
	v := seedQueuedVideo(t, videoRepo)

	_, err := svc.RetryVideo(ctx, v.VideoUUID(), false)
	require.Error(t, err)

	var domainErr *entity.DomainError
	require.ErrorAs(t, err, &domainErr)
}

func TestScheduler_Statistics(t *testing.T) {
	svc, _, videoRepo, _ := newTestScheduler(t, config.SchedulerConfig{})
	ctx := context.Background()
	v := seedQueuedVideo(t, videoRepo)

	_, err := svc.EnqueueVideo(ctx, v.VideoUUID())
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalJobs)
	require.Equal(t, int64(1), stats.PendingJobs)
	require.Equal(t, 1, svc.QueueDepth())
}
