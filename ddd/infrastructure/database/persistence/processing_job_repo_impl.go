package persistence

import (
	"context"
	"time"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/ddd/infrastructure/database/convertor"
	"clipstream-service/ddd/infrastructure/database/dao"
)

// ProcessingJobRepositoryImpl 处理作业仓储实现
type ProcessingJobRepositoryImpl struct {
	dao       *dao.ProcessingJobDAO
	convertor *convertor.ProcessingJobConvertor
}

// NewProcessingJobRepository 创建处理作业仓储实例
func NewProcessingJobRepository() repo.ProcessingJobRepository {
	return &ProcessingJobRepositoryImpl{
		dao:       dao.NewProcessingJobDAO(),
		convertor: convertor.NewProcessingJobConvertor(),
	}
}

// CreateJob 创建作业
func (r *ProcessingJobRepositoryImpl) CreateJob(ctx context.Context, job *entity.ProcessingJobEntity) error {
	return r.dao.Create(ctx, r.convertor.ToPO(job))
}

// GetJobByUUID 根据UUID获取作业
func (r *ProcessingJobRepositoryImpl) GetJobByUUID(ctx context.Context, jobUUID string) (*entity.ProcessingJobEntity, error) {
	jobPo, err := r.dao.FindByUUID(ctx, jobUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntity(jobPo), nil
}

// GetActiveJobByVideo 获取视频当前活跃的作业
func (r *ProcessingJobRepositoryImpl) GetActiveJobByVideo(ctx context.Context, videoUUID string) (*entity.ProcessingJobEntity, error) {
	jobPo, err := r.dao.FindActiveByVideo(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntity(jobPo), nil
}

// GetLatestJobByVideo 获取视频最近一次作业
func (r *ProcessingJobRepositoryImpl) GetLatestJobByVideo(ctx context.Context, videoUUID string) (*entity.ProcessingJobEntity, error) {
	jobPo, err := r.dao.FindLatestByVideo(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntity(jobPo), nil
}

// UpdateJob 更新作业
func (r *ProcessingJobRepositoryImpl) UpdateJob(ctx context.Context, job *entity.ProcessingJobEntity) error {
	return r.dao.Update(ctx, r.convertor.ToPO(job))
}

// GetDispatchableJobs 获取可调度作业
func (r *ProcessingJobRepositoryImpl) GetDispatchableJobs(ctx context.Context, now time.Time, limit int) ([]*entity.ProcessingJobEntity, error) {
	pos, err := r.dao.QueryDispatchable(ctx, now, limit)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// GetExpiredLeaseJobs 获取租约已超时的作业
func (r *ProcessingJobRepositoryImpl) GetExpiredLeaseJobs(ctx context.Context, now time.Time, limit int) ([]*entity.ProcessingJobEntity, error) {
	pos, err := r.dao.QueryExpiredLeases(ctx, now, limit)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// GetJobsByStatus 根据状态获取作业
func (r *ProcessingJobRepositoryImpl) GetJobsByStatus(ctx context.Context, status vo.JobStatus, limit, offset int) ([]*entity.ProcessingJobEntity, error) {
	pos, err := r.dao.QueryByStatus(ctx, status.String(), limit, offset)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// GetJobStatistics 获取作业统计信息
func (r *ProcessingJobRepositoryImpl) GetJobStatistics(ctx context.Context) (*repo.JobStatistics, error) {
	counts, err := r.dao.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &repo.JobStatistics{
		PendingJobs:   counts[vo.JobStatusPending.String()],
		LeasedJobs:    counts[vo.JobStatusLeased.String()],
		FailedJobs:    counts[vo.JobStatusFailed.String()],
		SucceededJobs: counts[vo.JobStatusSucceeded.String()],
		AbandonedJobs: counts[vo.JobStatusAbandoned.String()],
	}
	stats.TotalJobs = stats.PendingJobs + stats.LeasedJobs + stats.FailedJobs + stats.SucceededJobs + stats.AbandonedJobs
	return stats, nil
}
