package repo

import (
	"context"

	"clipstream-service/ddd/domain/vo"
)

// SimilarLinkRepository 相似推荐关联仓储接口
type SimilarLinkRepository interface {
	// ReplaceLinksForVideo 全量替换视频的相似关联
	ReplaceLinksForVideo(ctx context.Context, videoUUID string, neighbors []vo.SimilarNeighbor) error

	// GetLinksForVideo 获取视频的相似关联，按分数降序
	GetLinksForVideo(ctx context.Context, videoUUID string, limit int) ([]vo.SimilarNeighbor, error)

	// DeleteLinksForVideo 删除视频的全部相似关联
	DeleteLinksForVideo(ctx context.Context, videoUUID string) error
}
