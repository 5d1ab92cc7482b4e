package app

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"clipstream-service/ddd/application/cqe"
	"clipstream-service/ddd/application/dto"
	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/gateway"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/domain/service"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/ddd/infrastructure/database/persistence"
	"clipstream-service/ddd/infrastructure/lease"
	"clipstream-service/internal/resource"
	"clipstream-service/pkg/assert"
	"clipstream-service/pkg/config"
	"clipstream-service/pkg/errno"
	"clipstream-service/pkg/logger"
)

var (
	singleAdminApp AdminApp
	onceAdminApp   sync.Once
)

// 管理操作持有租约时使用的执行者标识
const adminLeaseOwner = "admin-console"

type AdminApp interface {
	// RetryProcessing 重试失败视频，作业按常规纪律重新排队
	RetryProcessing(ctx context.Context, req *cqe.RetryProcessingReq) (*dto.ProcessingJobDto, error)
	// ListDuplicates 重复视频清单
	ListDuplicates(ctx context.Context) ([]*dto.DuplicateEntryDto, error)
	// OverrideDuplicate 修正重复判定（确认/撤销/改指向）
	OverrideDuplicate(ctx context.Context, req *cqe.OverrideDuplicateReq) (*dto.VideoDto, error)
	// GetSystemStats 系统运行统计
	GetSystemStats(ctx context.Context) (*dto.SystemStatsDto, error)
	// ListJobsByStatus 按状态查询作业
	ListJobsByStatus(ctx context.Context, status string, limit int) ([]*dto.ProcessingJobDto, error)
	// GetQueueStatus 调度队列即时视图（深度 + 等待/执行中的作业）
	GetQueueStatus(ctx context.Context) (*dto.QueueStatusDto, error)
	// GetJobStatistics 作业统计
	GetJobStatistics(ctx context.Context) (dto.JobStatisticsDto, error)
	// ReindexAll 重建相似度与搜索索引
	ReindexAll(ctx context.Context) (map[string]int, error)
}

type adminAppImpl struct {
	videoRepo  repo.VideoRepository
	jobRepo    repo.ProcessingJobRepository
	scheduler  service.SchedulerService
	similarity service.SimilarityService
	search     service.SearchService
	leaseStore gateway.LeaseStore
	leaseTTL   config.SchedulerConfig
}

func DefaultAdminApp() AdminApp {
	assert.NotCircular()
	onceAdminApp.Do(func() {
		singleAdminApp = NewAdminAppWith(
			persistence.NewVideoRepository(),
			persistence.NewProcessingJobRepository(),
			service.DefaultSchedulerService(),
			service.DefaultSimilarityService(),
			service.DefaultSearchService(),
			lease.NewRedisLeaseStore(resource.DefaultRedisResource().Client(), ""),
			config.GetGlobalConfig().Scheduler,
		)
	})
	assert.NotNil(singleAdminApp)
	return singleAdminApp
}

func NewAdminAppWith(
	videoRepo repo.VideoRepository,
	jobRepo repo.ProcessingJobRepository,
	scheduler service.SchedulerService,
	similarity service.SimilarityService,
	search service.SearchService,
	leaseStore gateway.LeaseStore,
	schedulerCfg config.SchedulerConfig,
) AdminApp {
	return &adminAppImpl{
		videoRepo:  videoRepo,
		jobRepo:    jobRepo,
		scheduler:  scheduler,
		similarity: similarity,
		search:     search,
		leaseStore: leaseStore,
		leaseTTL:   schedulerCfg,
	}
}

func (a *adminAppImpl) RetryProcessing(ctx context.Context, req *cqe.RetryProcessingReq) (*dto.ProcessingJobDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	job, err := a.scheduler.RetryVideo(ctx, req.VideoUUID, req.FromStart)
	if err != nil {
		var domainErr *entity.DomainError
		if errors.As(err, &domainErr) {
			return nil, errno.ErrJobNotFailed
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrVideoNotFound
		}
		return nil, errno.NewBizError(errno.ErrInternalServer, err)
	}
	logger.Infof("Admin retry accepted video_uuid=%s from_start=%t job_uuid=%s", req.VideoUUID, req.FromStart, job.JobUUID())
	return dto.NewProcessingJobDto(job), nil
}

func (a *adminAppImpl) ListDuplicates(ctx context.Context) ([]*dto.DuplicateEntryDto, error) {
	videos, err := a.videoRepo.GetVideosByStatus(ctx, vo.VideoStatusDuplicate, 0, 0)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	entries := make([]*dto.DuplicateEntryDto, 0, len(videos))
	for _, v := range videos {
		entry := &dto.DuplicateEntryDto{Video: dto.NewAdminVideoDto(v, "")}
		if v.DuplicateOf() != "" {
			if original, err := a.videoRepo.GetVideoByUUID(ctx, v.DuplicateOf()); err == nil {
				entry.DuplicateOf = dto.NewAdminVideoDto(original, "")
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (a *adminAppImpl) OverrideDuplicate(ctx context.Context, req *cqe.OverrideDuplicateReq) (*dto.VideoDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	video, err := a.videoRepo.GetVideoByUUID(ctx, req.VideoUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrVideoNotFound
		}
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if !video.IsDuplicate() {
		return nil, errno.ErrVideoNotDuplicate
	}

	// 修正操作与流水线互斥，必须先持有该视频的租约
	acquired, err := a.leaseStore.Acquire(ctx, "video:"+req.VideoUUID, adminLeaseOwner, a.leaseTTL.LeaseTTL)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrInternalServer, err)
	}
	if !acquired {
		return nil, errno.ErrLeaseHeld
	}
	defer func() {
		_ = a.leaseStore.Release(ctx, "video:"+req.VideoUUID, adminLeaseOwner)
	}()

	switch req.Action {
	case cqe.OverrideActionConfirm:
		logger.Infof("Duplicate verdict confirmed video_uuid=%s original_uuid=%s", req.VideoUUID, video.DuplicateOf())

	case cqe.OverrideActionUnflag:
		if err := video.UnflagDuplicate(); err != nil {
			return nil, errno.NewBizError(errno.ErrInvalidParam, err)
		}
		if err := a.videoRepo.UpdateVideo(ctx, video); err != nil {
			return nil, errno.NewBizError(errno.ErrDatabase, err)
		}
		if _, err := a.scheduler.EnqueueVideo(ctx, req.VideoUUID); err != nil {
			return nil, errno.NewBizError(errno.ErrInternalServer, err)
		}
		logger.Infof("Duplicate verdict unflagged video_uuid=%s", req.VideoUUID)

	case cqe.OverrideActionMergeInto:
		original, err := a.videoRepo.GetVideoByUUID(ctx, req.OriginalUUID)
		if err != nil || original.IsDuplicate() {
			return nil, errno.ErrInvalidOverride
		}
		if err := video.RepointDuplicate(req.OriginalUUID); err != nil {
			return nil, errno.NewBizError(errno.ErrInvalidParam, err)
		}
		if err := a.videoRepo.UpdateVideo(ctx, video); err != nil {
			return nil, errno.NewBizError(errno.ErrDatabase, err)
		}
		logger.Infof("Duplicate verdict repointed video_uuid=%s original_uuid=%s", req.VideoUUID, req.OriginalUUID)
	}

	return dto.NewAdminVideoDto(video, ""), nil
}

func (a *adminAppImpl) GetSystemStats(ctx context.Context) (*dto.SystemStatsDto, error) {
	jobStats, err := a.scheduler.Statistics(ctx)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	videoCounts, err := a.videoRepo.CountVideosByStatus(ctx)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	byStatus := make(map[string]int64, len(videoCounts))
	for status, n := range videoCounts {
		byStatus[status.String()] = n
	}
	return &dto.SystemStatsDto{
		Jobs:            dto.NewJobStatisticsDto(jobStats),
		VideosByStatus:  byStatus,
		QueueDepth:      a.scheduler.QueueDepth(),
		SimilarityIndex: a.similarity.IndexSize(),
		SearchIndex:     a.search.IndexSize(),
	}, nil
}

func (a *adminAppImpl) ListJobsByStatus(ctx context.Context, status string, limit int) ([]*dto.ProcessingJobDto, error) {
	st := vo.JobStatus(status)
	if !st.IsValid() {
		return nil, errno.ErrInvalidParam
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	jobs, err := a.jobRepo.GetJobsByStatus(ctx, st, limit, 0)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	dtos := make([]*dto.ProcessingJobDto, 0, len(jobs))
	for _, j := range jobs {
		dtos = append(dtos, dto.NewProcessingJobDto(j))
	}
	return dtos, nil
}

func (a *adminAppImpl) GetQueueStatus(ctx context.Context) (*dto.QueueStatusDto, error) {
	pending, err := a.jobRepo.GetJobsByStatus(ctx, vo.JobStatusPending, 100, 0)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	leased, err := a.jobRepo.GetJobsByStatus(ctx, vo.JobStatusLeased, 100, 0)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	status := &dto.QueueStatusDto{
		Depth:   a.scheduler.QueueDepth(),
		Pending: make([]*dto.ProcessingJobDto, 0, len(pending)),
		Leased:  make([]*dto.ProcessingJobDto, 0, len(leased)),
	}
	for _, j := range pending {
		status.Pending = append(status.Pending, dto.NewProcessingJobDto(j))
	}
	for _, j := range leased {
		status.Leased = append(status.Leased, dto.NewProcessingJobDto(j))
	}
	return status, nil
}

func (a *adminAppImpl) GetJobStatistics(ctx context.Context) (dto.JobStatisticsDto, error) {
	stats, err := a.scheduler.Statistics(ctx)
	if err != nil {
		return dto.JobStatisticsDto{}, errno.NewBizError(errno.ErrDatabase, err)
	}
	return dto.NewJobStatisticsDto(stats), nil
}

func (a *adminAppImpl) ReindexAll(ctx context.Context) (map[string]int, error) {
	simCount, err := a.similarity.RebuildIndex(ctx)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrInternalServer, err)
	}
	searchCount, err := a.search.RebuildIndex(ctx)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrInternalServer, err)
	}
	return map[string]int{"similarity": simCount, "search": searchCount}, nil
}
