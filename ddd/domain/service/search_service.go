package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/ddd/infrastructure/search"
	"clipstream-service/pkg/config"
	"clipstream-service/pkg/logger"
)

// SearchService 搜索领域服务。封装内存倒排索引的发布与查询。
type SearchService interface {
	// RebuildIndex 从仓储重建搜索索引，启动时调用
	RebuildIndex(ctx context.Context) (int, error)

	// PublishVideo 将就绪视频发布到搜索索引
	PublishVideo(video *entity.VideoEntity)

	// RemoveVideo 从搜索索引移除视频
	RemoveVideo(videoUUID string)

	// Search 关键词搜索，返回命中的视频UUID及分数
	Search(query string, limit int) []search.Result

	// Suggest 前缀联想
	Suggest(prefix string) []string

	// RefreshEngagement 互动计数变化后刷新排序因子
	RefreshEngagement(videoUUID string, likes, shares int64)

	// IndexSize 索引内文档数
	IndexSize() int
}

type searchServiceImpl struct {
	index     *search.Index
	videoRepo repo.VideoRepository
	cfg       config.SearchConfig
}

// NewSearchService 创建搜索领域服务
func NewSearchService(videoRepo repo.VideoRepository, cfg config.SearchConfig) SearchService {
	return &searchServiceImpl{
		index:     search.NewIndex(cfg.TitleWeight, cfg.RecencyHalfLife),
		videoRepo: videoRepo,
		cfg:       cfg,
	}
}

func buildDocument(video *entity.VideoEntity) search.Document {
	body := video.Description()
	if text := video.Transcript().FullText(); text != "" {
		body = strings.TrimSpace(body + " " + text)
	}
	return search.Document{
		VideoUUID:  video.VideoUUID(),
		StreamUUID: video.StreamUUID(),
		Title:      video.Title(),
		Body:       body,
		UploadedAt: video.UploadedAt(),
		LikeCount:  video.LikeCount(),
		ShareCount: video.ShareCount(),
	}
}

// RebuildIndex 从仓储重建搜索索引
func (s *searchServiceImpl) RebuildIndex(ctx context.Context) (int, error) {
	videos, err := s.videoRepo.GetVideosByStatus(ctx, vo.VideoStatusReady, 0, 0)
	if err != nil {
		return 0, fmt.Errorf("failed to load ready videos: %w", err)
	}
	for _, v := range videos {
		s.index.Upsert(buildDocument(v))
	}
	logger.Infof("Search index rebuilt documents=%d", len(videos))
	return len(videos), nil
}

// PublishVideo 发布视频到搜索索引
func (s *searchServiceImpl) PublishVideo(video *entity.VideoEntity) {
	s.index.Upsert(buildDocument(video))
}

// RemoveVideo 从搜索索引移除视频
func (s *searchServiceImpl) RemoveVideo(videoUUID string) {
	s.index.Remove(videoUUID)
}

// Search 关键词搜索
func (s *searchServiceImpl) Search(query string, limit int) []search.Result {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.index.Search(query, time.Now(), limit)
}

// Suggest 前缀联想
func (s *searchServiceImpl) Suggest(prefix string) []string {
	return s.index.Suggest(prefix, s.cfg.MaxSuggestions)
}

// RefreshEngagement 刷新互动排序因子
func (s *searchServiceImpl) RefreshEngagement(videoUUID string, likes, shares int64) {
	s.index.UpdateEngagement(videoUUID, likes, shares)
}

// IndexSize 索引内文档数
func (s *searchServiceImpl) IndexSize() int {
	return s.index.Size()
}
