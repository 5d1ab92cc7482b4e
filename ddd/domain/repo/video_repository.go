package repo

import (
	"context"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/vo"
)

// VideoRepository 视频仓储接口
type VideoRepository interface {
	// CreateVideo 创建视频
	CreateVideo(ctx context.Context, video *entity.VideoEntity) error

	// GetVideoByUUID 根据UUID获取视频
	GetVideoByUUID(ctx context.Context, videoUUID string) (*entity.VideoEntity, error)

	// GetVideosByUUIDs 批量获取视频
	GetVideosByUUIDs(ctx context.Context, videoUUIDs []string) ([]*entity.VideoEntity, error)

	// GetVideosByStream 获取流下的视频列表
	GetVideosByStream(ctx context.Context, streamUUID string, limit, offset int) ([]*entity.VideoEntity, error)

	// GetVideosByStatus 根据状态获取视频
	GetVideosByStatus(ctx context.Context, status vo.VideoStatus, limit, offset int) ([]*entity.VideoEntity, error)

	// UpdateVideo 全量更新视频
	UpdateVideo(ctx context.Context, video *entity.VideoEntity) error

	// DeleteVideo 删除视频
	DeleteVideo(ctx context.Context, videoUUID string) error

	// AdvanceProcessingIndex 带前置条件地推进断点，防止并发执行者重复推进
	AdvanceProcessingIndex(ctx context.Context, videoUUID string, from, to int) error

	// GetIndexableVideos 获取可参与相似度索引重建的视频（已就绪且有向量）
	GetIndexableVideos(ctx context.Context) ([]*entity.VideoEntity, error)

	// GetDuplicatesOf 获取指向某原视频的重复视频
	GetDuplicatesOf(ctx context.Context, originalUUID string) ([]*entity.VideoEntity, error)

	// GetVideosByPovGroup 获取同一多视角分组的视频
	GetVideosByPovGroup(ctx context.Context, povGroupID string) ([]*entity.VideoEntity, error)

	// IncrementLikeCount 点赞计数原子累加，返回累加后的值
	IncrementLikeCount(ctx context.Context, videoUUID string) (int64, error)

	// IncrementShareCount 分享计数原子累加，返回累加后的值
	IncrementShareCount(ctx context.Context, videoUUID string) (int64, error)

	// CountVideosByStatus 统计各状态视频数量
	CountVideosByStatus(ctx context.Context) (map[vo.VideoStatus]int64, error)

	// GetStreamStorageStats 统计流的存量信息
	GetStreamStorageStats(ctx context.Context, streamUUID string) (*StreamStorageStats, error)
}

// StreamStorageStats 流维度的存量统计
type StreamStorageStats struct {
	StreamUUID     string  `json:"stream_uuid"`
	VideoCount     int64   `json:"video_count"`
	ReadyCount     int64   `json:"ready_count"`
	DuplicateCount int64   `json:"duplicate_count"`
	FailedCount    int64   `json:"failed_count"`
	TotalDurationS float64 `json:"total_duration_s"`
}
