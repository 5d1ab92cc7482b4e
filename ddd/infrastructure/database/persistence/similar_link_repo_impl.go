package persistence

import (
	"context"

	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/ddd/infrastructure/database/dao"
	"clipstream-service/ddd/infrastructure/database/po"
)

// SimilarLinkRepositoryImpl 相似关联仓储实现
type SimilarLinkRepositoryImpl struct {
	dao *dao.SimilarLinkDAO
}

// NewSimilarLinkRepository 创建相似关联仓储实例
func NewSimilarLinkRepository() repo.SimilarLinkRepository {
	return &SimilarLinkRepositoryImpl{
		dao: dao.NewSimilarLinkDAO(),
	}
}

// ReplaceLinksForVideo 全量替换视频的相似关联
func (r *SimilarLinkRepositoryImpl) ReplaceLinksForVideo(ctx context.Context, videoUUID string, neighbors []vo.SimilarNeighbor) error {
	links := make([]*po.SimilarLink, 0, len(neighbors))
	for _, n := range neighbors {
		links = append(links, &po.SimilarLink{
			VideoUUID:    videoUUID,
			NeighborUUID: n.VideoUUID,
			Score:        n.Score,
		})
	}
	return r.dao.ReplaceForVideo(ctx, videoUUID, links)
}

// GetLinksForVideo 获取视频的相似关联
func (r *SimilarLinkRepositoryImpl) GetLinksForVideo(ctx context.Context, videoUUID string, limit int) ([]vo.SimilarNeighbor, error) {
	pos, err := r.dao.QueryForVideo(ctx, videoUUID, limit)
	if err != nil {
		return nil, err
	}
	neighbors := make([]vo.SimilarNeighbor, 0, len(pos))
	for _, p := range pos {
		neighbors = append(neighbors, vo.SimilarNeighbor{VideoUUID: p.NeighborUUID, Score: p.Score})
	}
	return neighbors, nil
}

// DeleteLinksForVideo 删除视频的全部相似关联
func (r *SimilarLinkRepositoryImpl) DeleteLinksForVideo(ctx context.Context, videoUUID string) error {
	return r.dao.DeleteForVideo(ctx, videoUUID)
}
