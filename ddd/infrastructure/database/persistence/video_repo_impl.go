package persistence

import (
	"context"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/ddd/infrastructure/database/convertor"
	"clipstream-service/ddd/infrastructure/database/dao"
)

// VideoRepositoryImpl 视频仓储实现
type VideoRepositoryImpl struct {
	dao       *dao.VideoDAO
	convertor *convertor.VideoConvertor
}

// NewVideoRepository 创建视频仓储实例
func NewVideoRepository() repo.VideoRepository {
	return &VideoRepositoryImpl{
		dao:       dao.NewVideoDAO(),
		convertor: convertor.NewVideoConvertor(),
	}
}

// CreateVideo 创建视频
func (r *VideoRepositoryImpl) CreateVideo(ctx context.Context, video *entity.VideoEntity) error {
	return r.dao.Create(ctx, r.convertor.ToPO(video))
}

// GetVideoByUUID 根据UUID获取视频
func (r *VideoRepositoryImpl) GetVideoByUUID(ctx context.Context, videoUUID string) (*entity.VideoEntity, error) {
	videoPo, err := r.dao.FindByUUID(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntity(videoPo), nil
}

// GetVideosByUUIDs 批量获取视频
func (r *VideoRepositoryImpl) GetVideosByUUIDs(ctx context.Context, videoUUIDs []string) ([]*entity.VideoEntity, error) {
	pos, err := r.dao.FindByUUIDs(ctx, videoUUIDs)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// GetVideosByStream 获取流下的视频列表
func (r *VideoRepositoryImpl) GetVideosByStream(ctx context.Context, streamUUID string, limit, offset int) ([]*entity.VideoEntity, error) {
	pos, err := r.dao.QueryByStream(ctx, streamUUID, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// GetVideosByStatus 根据状态获取视频
func (r *VideoRepositoryImpl) GetVideosByStatus(ctx context.Context, status vo.VideoStatus, limit, offset int) ([]*entity.VideoEntity, error) {
	pos, err := r.dao.QueryByStatus(ctx, status.String(), limit, offset)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// UpdateVideo 全量更新视频
func (r *VideoRepositoryImpl) UpdateVideo(ctx context.Context, video *entity.VideoEntity) error {
	return r.dao.Update(ctx, r.convertor.ToPO(video))
}

// DeleteVideo 删除视频
func (r *VideoRepositoryImpl) DeleteVideo(ctx context.Context, videoUUID string) error {
	return r.dao.Delete(ctx, videoUUID)
}

// AdvanceProcessingIndex 带前置条件推进断点
func (r *VideoRepositoryImpl) AdvanceProcessingIndex(ctx context.Context, videoUUID string, from, to int) error {
	return r.dao.AdvanceProcessingIndex(ctx, videoUUID, from, to)
}

// GetIndexableVideos 获取可参与索引重建的视频
func (r *VideoRepositoryImpl) GetIndexableVideos(ctx context.Context) ([]*entity.VideoEntity, error) {
	pos, err := r.dao.QueryIndexable(ctx)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// GetDuplicatesOf 获取指向某原视频的重复视频
func (r *VideoRepositoryImpl) GetDuplicatesOf(ctx context.Context, originalUUID string) ([]*entity.VideoEntity, error) {
	pos, err := r.dao.QueryDuplicatesOf(ctx, originalUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// GetVideosByPovGroup 获取同一多视角分组的视频
func (r *VideoRepositoryImpl) GetVideosByPovGroup(ctx context.Context, povGroupID string) ([]*entity.VideoEntity, error) {
	pos, err := r.dao.QueryByPovGroup(ctx, povGroupID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// IncrementLikeCount 点赞计数原子累加
func (r *VideoRepositoryImpl) IncrementLikeCount(ctx context.Context, videoUUID string) (int64, error) {
	return r.dao.IncrementCounter(ctx, videoUUID, "like_count")
}

// IncrementShareCount 分享计数原子累加
func (r *VideoRepositoryImpl) IncrementShareCount(ctx context.Context, videoUUID string) (int64, error) {
	return r.dao.IncrementCounter(ctx, videoUUID, "share_count")
}

// CountVideosByStatus 统计各状态视频数量
func (r *VideoRepositoryImpl) CountVideosByStatus(ctx context.Context) (map[vo.VideoStatus]int64, error) {
	raw, err := r.dao.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[vo.VideoStatus]int64, len(raw))
	for k, v := range raw {
		counts[vo.VideoStatus(k)] = v
	}
	return counts, nil
}

// GetStreamStorageStats 统计流的存量信息
func (r *VideoRepositoryImpl) GetStreamStorageStats(ctx context.Context, streamUUID string) (*repo.StreamStorageStats, error) {
	row, err := r.dao.QueryStreamStats(ctx, streamUUID)
	if err != nil {
		return nil, err
	}
	return &repo.StreamStorageStats{
		StreamUUID:     streamUUID,
		VideoCount:     row.VideoCount,
		ReadyCount:     row.ReadyCount,
		DuplicateCount: row.DuplicateCount,
		FailedCount:    row.FailedCount,
		TotalDurationS: row.TotalDuration,
	}, nil
}
