package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
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
	"clipstream-service/ddd/infrastructure/storage"
	"clipstream-service/internal/resource"
	"clipstream-service/pkg/assert"
	"clipstream-service/pkg/config"
	"clipstream-service/pkg/errno"
	"clipstream-service/pkg/logger"
)

var (
	singleVideoApp VideoApp
	onceVideoApp   sync.Once
)

type VideoApp interface {
	// RegisterUpload 登记上传，返回视频UUID与限时上传链接
	RegisterUpload(ctx context.Context, req *cqe.RegisterUploadReq) (*dto.UploadTicketDto, error)
	// CompleteUpload 上传完成，视频入队处理
	CompleteUpload(ctx context.Context, req *cqe.CompleteUploadReq) (*dto.VideoDto, error)
	// GetVideo 获取视频详情
	GetVideo(ctx context.Context, req *cqe.GetVideoReq) (*dto.VideoDto, error)
	// GetProcessingStatus 获取视频处理进度（检查点 + 最近作业）
	GetProcessingStatus(ctx context.Context, videoUUID string) (*dto.ProcessingStatusDto, error)
	// ListStreamVideos 获取流下的视频列表
	ListStreamVideos(ctx context.Context, req *cqe.ListStreamVideosReq) (*dto.VideoListDto, error)
	// GetDuplicates 获取指向某视频的重复视频列表
	GetDuplicates(ctx context.Context, videoUUID string) ([]*dto.VideoDto, error)
	// LikeVideo 点赞，返回最新计数
	LikeVideo(ctx context.Context, req *cqe.LikeVideoReq) (*dto.EngagementDto, error)
	// CreateShareLink 创建限时分享链接并累加分享计数
	CreateShareLink(ctx context.Context, req *cqe.CreateShareLinkReq) (*dto.ShareLinkDto, error)
	// ResolveShareLink 解析分享令牌，返回可播放的视频详情
	ResolveShareLink(ctx context.Context, req *cqe.ResolveShareLinkReq) (*dto.VideoDto, error)
	// ListShareLinks 获取视频的全部分享链接
	ListShareLinks(ctx context.Context, videoUUID string) ([]*dto.ShareLinkDto, error)
	// GetStreamURLs 获取限时播放链接（正片与精华片段）
	GetStreamURLs(ctx context.Context, videoUUID string) (*dto.StreamURLsDto, error)
	// GetTranscript 获取视频转写
	GetTranscript(ctx context.Context, videoUUID string) ([]dto.TranscriptSegmentDto, error)
	// GetTrimmedClips 获取自动剪辑片段
	GetTrimmedClips(ctx context.Context, videoUUID string) ([]dto.TrimmedClipDto, error)
	// GetTimeline 获取时间线（转写分段+片段标记）
	GetTimeline(ctx context.Context, videoUUID string) (*dto.TimelineDto, error)
	// GetEmbedding 获取内容向量
	GetEmbedding(ctx context.Context, videoUUID string) (*dto.EmbeddingDto, error)
	// DeleteVideo 删除视频：先取租约与流水线互斥，再清库并摘除索引
	DeleteVideo(ctx context.Context, req *cqe.DeleteVideoReq) error
}

type videoAppImpl struct {
	videoRepo     repo.VideoRepository
	streamRepo    repo.StreamRepository
	jobRepo       repo.ProcessingJobRepository
	shareLinkRepo repo.ShareLinkRepository
	storage       gateway.StorageGateway
	scheduler     service.SchedulerService
	search        service.SearchService
	similarity    service.SimilarityService
	leaseStore    gateway.LeaseStore
	leaseTTL      time.Duration
	presignExpiry time.Duration
}

func DefaultVideoApp() VideoApp {
	assert.NotCircular()
	onceVideoApp.Do(func() {
		cfg := config.GetGlobalConfig()
		singleVideoApp = NewVideoAppWith(
			persistence.NewVideoRepository(),
			persistence.NewStreamRepository(),
			persistence.NewProcessingJobRepository(),
			persistence.NewShareLinkRepository(),
			storage.NewMinioStorage(resource.DefaultMinioResource()),
			service.DefaultSchedulerService(),
			service.DefaultSearchService(),
			service.DefaultSimilarityService(),
			lease.NewRedisLeaseStore(resource.DefaultRedisResource().Client(), ""),
			cfg.Scheduler.LeaseTTL,
			cfg.Minio.PresignExpiry,
		)
	})
	assert.NotNil(singleVideoApp)
	return singleVideoApp
}

func NewVideoAppWith(
	videoRepo repo.VideoRepository,
	streamRepo repo.StreamRepository,
	jobRepo repo.ProcessingJobRepository,
	shareLinkRepo repo.ShareLinkRepository,
	storageGateway gateway.StorageGateway,
	scheduler service.SchedulerService,
	search service.SearchService,
	similarity service.SimilarityService,
	leaseStore gateway.LeaseStore,
	leaseTTL time.Duration,
	presignExpiry time.Duration,
) VideoApp {
	if presignExpiry <= 0 {
		presignExpiry = 15 * time.Minute
	}
	return &videoAppImpl{
		videoRepo:     videoRepo,
		streamRepo:    streamRepo,
		jobRepo:       jobRepo,
		shareLinkRepo: shareLinkRepo,
		storage:       storageGateway,
		scheduler:     scheduler,
		search:        search,
		similarity:    similarity,
		leaseStore:    leaseStore,
		leaseTTL:      leaseTTL,
		presignExpiry: presignExpiry,
	}
}

func (a *videoAppImpl) RegisterUpload(ctx context.Context, req *cqe.RegisterUploadReq) (*dto.UploadTicketDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := a.streamRepo.GetStreamByUUID(ctx, req.StreamUUID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrStreamNotFound
		}
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}

	storageKey := fmt.Sprintf("uploads/%s/source", uuid.New().String())
	video := entity.NewVideoEntity(req.StreamUUID, req.UserUUID, req.Title, req.Description, storageKey)
	if err := a.videoRepo.CreateVideo(ctx, video); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}

	uploadURL, err := a.storage.PresignPutURL(ctx, storageKey, a.presignExpiry)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrInternalServer, err)
	}
	logger.Infof("Upload registered video_uuid=%s stream_uuid=%s", video.VideoUUID(), req.StreamUUID)
	return &dto.UploadTicketDto{VideoUUID: video.VideoUUID(), UploadURL: uploadURL}, nil
}

func (a *videoAppImpl) CompleteUpload(ctx context.Context, req *cqe.CompleteUploadReq) (*dto.VideoDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	video, err := a.getVideo(ctx, req.VideoUUID)
	if err != nil {
		return nil, err
	}

	exists, err := a.storage.ObjectExists(ctx, video.StorageKey())
	if err != nil {
		return nil, errno.NewBizError(errno.ErrInternalServer, err)
	}
	if !exists {
		return nil, errno.ErrCorruptMedia
	}

	if err := video.MarkQueued(); err != nil {
		return nil, errno.NewBizError(errno.ErrInvalidParam, err)
	}
	if err := a.videoRepo.UpdateVideo(ctx, video); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if _, err := a.scheduler.EnqueueVideo(ctx, video.VideoUUID()); err != nil {
		return nil, errno.NewBizError(errno.ErrInternalServer, err)
	}
	return a.toVideoDto(ctx, video), nil
}

func (a *videoAppImpl) GetVideo(ctx context.Context, req *cqe.GetVideoReq) (*dto.VideoDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	video, err := a.getVideo(ctx, req.VideoUUID)
	if err != nil {
		return nil, err
	}
	return a.toVideoDto(ctx, video), nil
}

func (a *videoAppImpl) GetProcessingStatus(ctx context.Context, videoUUID string) (*dto.ProcessingStatusDto, error) {
	if videoUUID == "" {
		return nil, errno.ErrVideoUUIDRequired
	}
	video, err := a.getVideo(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	status := &dto.ProcessingStatusDto{Video: dto.NewVideoDto(video, "")}

	// 最近作业不存在不算错误：上传尚未完成时还没有作业
	if job, err := a.jobRepo.GetLatestJobByVideo(ctx, videoUUID); err == nil {
		status.Job = dto.NewPublicProcessingJobDto(job)
		status.EstimatedCompletionAt = estimateCompletion(video, job, time.Now())
	}
	return status, nil
}

// estimateCompletion 粗略估计完成时间：剩余阶段数 × 已完成阶段的平均耗时。
// 至少完成一个阶段后才有样本可依。
func estimateCompletion(video *entity.VideoEntity, job *entity.ProcessingJobEntity, now time.Time) *time.Time {
	if video.Status() != vo.VideoStatusProcessing || job.StartedAt() == nil {
		return nil
	}
	completed := video.ProcessingIndex() + 1
	remaining := vo.StageCount - completed
	if completed <= 0 || remaining <= 0 {
		return nil
	}
	elapsed := now.Sub(*job.StartedAt())
	if elapsed <= 0 {
		return nil
	}
	meanStage := elapsed / time.Duration(completed)
	eta := now.Add(meanStage * time.Duration(remaining))
	return &eta
}

func (a *videoAppImpl) ListStreamVideos(ctx context.Context, req *cqe.ListStreamVideosReq) (*dto.VideoListDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	videos, err := a.videoRepo.GetVideosByStream(ctx, req.StreamUUID, req.Size, (req.Page-1)*req.Size)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	list := &dto.VideoListDto{Videos: make([]*dto.VideoDto, 0, len(videos)), Page: req.Page, Size: req.Size}
	for _, v := range videos {
		list.Videos = append(list.Videos, a.toVideoDto(ctx, v))
	}
	return list, nil
}

func (a *videoAppImpl) GetDuplicates(ctx context.Context, videoUUID string) ([]*dto.VideoDto, error) {
	if videoUUID == "" {
		return nil, errno.ErrVideoUUIDRequired
	}
	videos, err := a.videoRepo.GetDuplicatesOf(ctx, videoUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	dtos := make([]*dto.VideoDto, 0, len(videos))
	for _, v := range videos {
		dtos = append(dtos, dto.NewVideoDto(v, ""))
	}
	return dtos, nil
}

func (a *videoAppImpl) LikeVideo(ctx context.Context, req *cqe.LikeVideoReq) (*dto.EngagementDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	video, err := a.getVideo(ctx, req.VideoUUID)
	if err != nil {
		return nil, err
	}
	likes, err := a.videoRepo.IncrementLikeCount(ctx, req.VideoUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	a.search.RefreshEngagement(req.VideoUUID, likes, video.ShareCount())
	return &dto.EngagementDto{VideoUUID: req.VideoUUID, LikeCount: likes, ShareCount: video.ShareCount()}, nil
}

func (a *videoAppImpl) CreateShareLink(ctx context.Context, req *cqe.CreateShareLinkReq) (*dto.ShareLinkDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	video, err := a.getVideo(ctx, req.VideoUUID)
	if err != nil {
		return nil, err
	}

	link := entity.NewShareLinkEntity(req.VideoUUID, req.UserUUID, time.Duration(req.TTLHours)*time.Hour)
	if err := a.shareLinkRepo.CreateShareLink(ctx, link); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}

	shares, err := a.videoRepo.IncrementShareCount(ctx, req.VideoUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	a.search.RefreshEngagement(req.VideoUUID, video.LikeCount(), shares)
	return dto.NewShareLinkDto(link), nil
}

func (a *videoAppImpl) ResolveShareLink(ctx context.Context, req *cqe.ResolveShareLinkReq) (*dto.VideoDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	link, err := a.shareLinkRepo.GetShareLinkByToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrShareLinkNotFound
		}
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if link.IsExpired(time.Now()) {
		return nil, errno.ErrShareLinkExpired
	}
	video, err := a.getVideo(ctx, link.VideoUUID())
	if err != nil {
		return nil, err
	}
	return a.toVideoDto(ctx, video), nil
}

func (a *videoAppImpl) ListShareLinks(ctx context.Context, videoUUID string) ([]*dto.ShareLinkDto, error) {
	if videoUUID == "" {
		return nil, errno.ErrVideoUUIDRequired
	}
	links, err := a.shareLinkRepo.GetShareLinksByVideo(ctx, videoUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	dtos := make([]*dto.ShareLinkDto, 0, len(links))
	for _, l := range links {
		dtos = append(dtos, dto.NewShareLinkDto(l))
	}
	return dtos, nil
}

func (a *videoAppImpl) GetStreamURLs(ctx context.Context, videoUUID string) (*dto.StreamURLsDto, error) {
	if videoUUID == "" {
		return nil, errno.ErrVideoUUIDRequired
	}
	video, err := a.getVideo(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	if video.PlaybackKey() == "" {
		return nil, errno.ErrVideoNotReady
	}
	playbackURL, err := a.storage.PresignGetURL(ctx, video.PlaybackKey(), a.presignExpiry)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrInternalServer, err)
	}
	urls := &dto.StreamURLsDto{VideoUUID: videoUUID, PlaybackURL: playbackURL}
	for i, clip := range video.Clips() {
		clipKey := fmt.Sprintf("videos/%s/clips/clip_%02d.mp4", videoUUID, i)
		clipURL, err := a.storage.PresignGetURL(ctx, clipKey, a.presignExpiry)
		if err != nil {
			logger.Warnf("Failed to presign clip url video_uuid=%s clip=%d error=%v", videoUUID, i, err)
			continue
		}
		urls.Clips = append(urls.Clips, dto.ClipURLDto{Label: clip.Label, Start: clip.Start, End: clip.End, URL: clipURL})
	}
	return urls, nil
}

func (a *videoAppImpl) GetTranscript(ctx context.Context, videoUUID string) ([]dto.TranscriptSegmentDto, error) {
	if videoUUID == "" {
		return nil, errno.ErrVideoUUIDRequired
	}
	video, err := a.getVideo(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	segments := make([]dto.TranscriptSegmentDto, 0, len(video.Transcript()))
	for _, seg := range video.Transcript() {
		segments = append(segments, dto.TranscriptSegmentDto{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	return segments, nil
}

func (a *videoAppImpl) GetTrimmedClips(ctx context.Context, videoUUID string) ([]dto.TrimmedClipDto, error) {
	if videoUUID == "" {
		return nil, errno.ErrVideoUUIDRequired
	}
	video, err := a.getVideo(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	clips := make([]dto.TrimmedClipDto, 0, len(video.Clips()))
	for _, clip := range video.Clips() {
		clips = append(clips, dto.TrimmedClipDto{Start: clip.Start, End: clip.End, Label: clip.Label})
	}
	return clips, nil
}

func (a *videoAppImpl) GetTimeline(ctx context.Context, videoUUID string) (*dto.TimelineDto, error) {
	segments, err := a.GetTranscript(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	clips, err := a.GetTrimmedClips(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	video, err := a.getVideo(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	return &dto.TimelineDto{
		VideoUUID:       videoUUID,
		DurationSeconds: video.DurationSeconds(),
		Segments:        segments,
		Clips:           clips,
	}, nil
}

func (a *videoAppImpl) GetEmbedding(ctx context.Context, videoUUID string) (*dto.EmbeddingDto, error) {
	if videoUUID == "" {
		return nil, errno.ErrVideoUUIDRequired
	}
	video, err := a.getVideo(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	return &dto.EmbeddingDto{
		VideoUUID: videoUUID,
		Dim:       len(video.Embedding()),
		Vector:    video.Embedding(),
	}, nil
}

func (a *videoAppImpl) DeleteVideo(ctx context.Context, req *cqe.DeleteVideoReq) error {
	if err := req.Validate(); err != nil {
		return err
	}
	video, err := a.getVideo(ctx, req.VideoUUID)
	if err != nil {
		return err
	}

	// 删除与流水线互斥：拿不到租约说明某Worker正在处理该视频
	acquired, err := a.leaseStore.Acquire(ctx, "video:"+req.VideoUUID, adminLeaseOwner, a.leaseTTL)
	if err != nil {
		return errno.NewBizError(errno.ErrInternalServer, err)
	}
	if !acquired {
		return errno.ErrLeaseHeld
	}
	defer func() {
		_ = a.leaseStore.Release(ctx, "video:"+req.VideoUUID, adminLeaseOwner)
	}()

	if err := a.videoRepo.DeleteVideo(ctx, req.VideoUUID); err != nil {
		return errno.NewBizError(errno.ErrDatabase, err)
	}
	a.similarity.RemoveVideo(req.VideoUUID)
	a.search.RemoveVideo(req.VideoUUID)
	logger.Infof("Video deleted video_uuid=%s stream_uuid=%s", req.VideoUUID, video.StreamUUID())
	return nil
}

func (a *videoAppImpl) getVideo(ctx context.Context, videoUUID string) (*entity.VideoEntity, error) {
	video, err := a.videoRepo.GetVideoByUUID(ctx, videoUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrVideoNotFound
		}
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return video, nil
}

// toVideoDto 组装DTO，就绪视频附带限时播放链接
func (a *videoAppImpl) toVideoDto(ctx context.Context, video *entity.VideoEntity) *dto.VideoDto {
	playbackURL := ""
	if video.PlaybackKey() != "" {
		if url, err := a.storage.PresignGetURL(ctx, video.PlaybackKey(), a.presignExpiry); err == nil {
			playbackURL = url
		}
	}
	return dto.NewVideoDto(video, playbackURL)
}
