package service

import (
	"context"
	"fmt"
	"sort"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/ddd/infrastructure/similarity"
	"clipstream-service/pkg/config"
	"clipstream-service/pkg/logger"
)

// DuplicateMatch 重复判定结果
type DuplicateMatch struct {
	OriginalUUID string
	Score        float64
}

// SimilarityService 相似度领域服务。封装向量索引、重复检测与视角聚类。
type SimilarityService interface {
	// RebuildIndex 从仓储重建内存向量索引与聚类状态，启动时调用
	RebuildIndex(ctx context.Context) (int, error)

	// FindDuplicate 检测视频是否为已有视频的重复。命中返回原片信息。
	FindDuplicate(video *entity.VideoEntity) (*DuplicateMatch, bool)

	// PublishEmbedding 将非重复视频发布到向量索引，之后可被检索
	PublishEmbedding(video *entity.VideoEntity) error

	// AssignPovGroup 为视频分配视角组。同一时间窗内高相似的视频归入同组，
	// 组ID取成员中字典序最小的UUID，保证与加入顺序无关。
	AssignPovGroup(ctx context.Context, video *entity.VideoEntity) (string, error)

	// ComputeSimilarNeighbors 计算视频的相似邻居，按分数降序
	ComputeSimilarNeighbors(video *entity.VideoEntity, limit int) []vo.SimilarNeighbor

	// RemoveVideo 将视频从向量索引移除
	RemoveVideo(videoUUID string)

	// IndexSize 当前索引内条目数
	IndexSize() int
}

type similarityServiceImpl struct {
	index     *similarity.Index
	groups    *similarity.UnionFind
	videoRepo repo.VideoRepository
	cfg       config.SimilarityConfig
}

// NewSimilarityService 创建相似度领域服务
func NewSimilarityService(videoRepo repo.VideoRepository, cfg config.SimilarityConfig) SimilarityService {
	return &similarityServiceImpl{
		index:     similarity.NewIndex(cfg.EmbeddingDim, cfg.HashPlanes),
		groups:    similarity.NewUnionFind(),
		videoRepo: videoRepo,
		cfg:       cfg,
	}
}

// RebuildIndex 从仓储重建内存状态
func (s *similarityServiceImpl) RebuildIndex(ctx context.Context) (int, error) {
	videos, err := s.videoRepo.GetIndexableVideos(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load indexable videos: %w", err)
	}
	entries := make([]similarity.Entry, 0, len(videos))
	for _, v := range videos {
		if err := v.Embedding().Validate(s.cfg.EmbeddingDim); err != nil {
			logger.Warnf("Skip video with invalid embedding video_uuid=%s error=%v", v.VideoUUID(), err)
			continue
		}
		entries = append(entries, similarity.Entry{
			VideoUUID:  v.VideoUUID(),
			StreamUUID: v.StreamUUID(),
			Vector:     v.Embedding(),
			UploadedAt: v.UploadedAt(),
		})
		s.groups.Add(v.VideoUUID())
		if gid := v.PovGroupID(); gid != "" {
			// 以持久化的组成员关系恢复并查集
			for _, member := range videos {
				if member.PovGroupID() == gid && member.VideoUUID() != v.VideoUUID() {
					s.groups.Union(v.VideoUUID(), member.VideoUUID())
				}
			}
		}
	}
	s.index.Rebuild(entries)
	logger.Infof("Similarity index rebuilt entries=%d", len(entries))
	return len(entries), nil
}

// FindDuplicate 检测重复。多个候选超过阈值时，原片取最早上传者（再按UUID升序），
// 与得分高低无关，保证指向稳定的正本。
func (s *similarityServiceImpl) FindDuplicate(video *entity.VideoEntity) (*DuplicateMatch, bool) {
	matches := s.index.Query(video.Embedding(), s.cfg.DuplicateThreshold, video.VideoUUID())
	if len(matches) == 0 {
		return nil, false
	}
	canonical := matches[0]
	for _, m := range matches[1:] {
		if m.UploadedAt.Before(canonical.UploadedAt) ||
			(m.UploadedAt.Equal(canonical.UploadedAt) && m.VideoUUID < canonical.VideoUUID) {
			canonical = m
		}
	}
	return &DuplicateMatch{OriginalUUID: canonical.VideoUUID, Score: canonical.Score}, true
}

// PublishEmbedding 发布向量到索引
func (s *similarityServiceImpl) PublishEmbedding(video *entity.VideoEntity) error {
	if err := video.Embedding().Validate(s.cfg.EmbeddingDim); err != nil {
		return fmt.Errorf("failed to publish embedding: %w", err)
	}
	s.index.Publish(similarity.Entry{
		VideoUUID:  video.VideoUUID(),
		StreamUUID: video.StreamUUID(),
		Vector:     video.Embedding(),
		UploadedAt: video.UploadedAt(),
	})
	s.groups.Add(video.VideoUUID())
	return nil
}

// AssignPovGroup 分配视角组
func (s *similarityServiceImpl) AssignPovGroup(ctx context.Context, video *entity.VideoEntity) (string, error) {
	s.groups.Add(video.VideoUUID())

	matches := s.index.Query(video.Embedding(), s.cfg.PovThreshold, video.VideoUUID())
	for _, m := range matches {
		// 只有同一直播流内、上传时间相近的视频才可能是同一事件的多视角
		if m.StreamUUID != video.StreamUUID() {
			continue
		}
		delta := video.UploadedAt().Sub(m.UploadedAt)
		if delta < 0 {
			delta = -delta
		}
		if delta > s.cfg.PovWindow {
			continue
		}
		s.groups.Union(video.VideoUUID(), m.VideoUUID)
	}

	members := s.groups.Members(video.VideoUUID())
	sort.Strings(members)
	groupID := "pov-" + members[0]

	for _, memberUUID := range members {
		if memberUUID == video.VideoUUID() {
			video.SetPovGroupID(groupID)
			continue
		}
		member, err := s.videoRepo.GetVideoByUUID(ctx, memberUUID)
		if err != nil {
			logger.Warnf("Failed to load pov group member video_uuid=%s error=%v", memberUUID, err)
			continue
		}
		if member.PovGroupID() == groupID {
			continue
		}
		member.SetPovGroupID(groupID)
		if err := s.videoRepo.UpdateVideo(ctx, member); err != nil {
			return "", fmt.Errorf("failed to update pov group member: %w", err)
		}
	}
	return groupID, nil
}

// ComputeSimilarNeighbors 计算相似邻居
func (s *similarityServiceImpl) ComputeSimilarNeighbors(video *entity.VideoEntity, limit int) []vo.SimilarNeighbor {
	matches := s.index.Query(video.Embedding(), s.cfg.SimilarThreshold, video.VideoUUID())
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	neighbors := make([]vo.SimilarNeighbor, 0, len(matches))
	for _, m := range matches {
		neighbors = append(neighbors, vo.SimilarNeighbor{VideoUUID: m.VideoUUID, Score: m.Score})
	}
	return neighbors
}

// RemoveVideo 从索引移除视频
func (s *similarityServiceImpl) RemoveVideo(videoUUID string) {
	s.index.Remove(videoUUID)
}

// IndexSize 索引条目数
func (s *similarityServiceImpl) IndexSize() int {
	return s.index.Size()
}
