package repo

import (
	"context"
	"time"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/vo"
)

// ProcessingJobRepository 处理作业仓储接口
type ProcessingJobRepository interface {
	// CreateJob 创建作业
	CreateJob(ctx context.Context, job *entity.ProcessingJobEntity) error

	// GetJobByUUID 根据UUID获取作业
	GetJobByUUID(ctx context.Context, jobUUID string) (*entity.ProcessingJobEntity, error)

	// GetActiveJobByVideo 获取视频当前活跃的作业（pending/leased/failed）
	GetActiveJobByVideo(ctx context.Context, videoUUID string) (*entity.ProcessingJobEntity, error)

	// GetLatestJobByVideo 获取视频最近一次作业
	GetLatestJobByVideo(ctx context.Context, videoUUID string) (*entity.ProcessingJobEntity, error)

	// UpdateJob 更新作业
	UpdateJob(ctx context.Context, job *entity.ProcessingJobEntity) error

	// GetDispatchableJobs 获取可调度作业（退避已到期），按入队时间排序
	GetDispatchableJobs(ctx context.Context, now time.Time, limit int) ([]*entity.ProcessingJobEntity, error)

	// GetExpiredLeaseJobs 获取租约已超时的作业
	GetExpiredLeaseJobs(ctx context.Context, now time.Time, limit int) ([]*entity.ProcessingJobEntity, error)

	// GetJobsByStatus 根据状态获取作业
	GetJobsByStatus(ctx context.Context, status vo.JobStatus, limit, offset int) ([]*entity.ProcessingJobEntity, error)

	// GetJobStatistics 获取作业统计信息
	GetJobStatistics(ctx context.Context) (*JobStatistics, error)
}

// JobStatistics 作业统计信息
type JobStatistics struct {
	TotalJobs     int64 `json:"total_jobs"`
	PendingJobs   int64 `json:"pending_jobs"`
	LeasedJobs    int64 `json:"leased_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	SucceededJobs int64 `json:"succeeded_jobs"`
	AbandonedJobs int64 `json:"abandoned_jobs"`
}
