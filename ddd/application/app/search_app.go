package app

import (
	"context"
	"sync"

	"clipstream-service/ddd/application/cqe"
	"clipstream-service/ddd/application/dto"
	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/domain/service"
	"clipstream-service/ddd/infrastructure/database/persistence"
	"clipstream-service/pkg/assert"
	"clipstream-service/pkg/errno"
)

var (
	singleSearchApp SearchApp
	onceSearchApp   sync.Once
)

type SearchApp interface {
	// Search 关键词搜索
	Search(ctx context.Context, req *cqe.SearchVideosReq) (*dto.SearchResultDto, error)
	// Suggest 搜索联想
	Suggest(ctx context.Context, req *cqe.SuggestReq) (*dto.SuggestResultDto, error)
	// GetSimilarVideos 获取相似视频
	GetSimilarVideos(ctx context.Context, req *cqe.SimilarVideosReq) ([]*dto.SimilarVideoDto, error)
	// GetPovGroup 获取同场景多视角分组
	GetPovGroup(ctx context.Context, req *cqe.PovGroupReq) (*dto.PovGroupDto, error)
}

type searchAppImpl struct {
	videoRepo       repo.VideoRepository
	similarLinkRepo repo.SimilarLinkRepository
	search          service.SearchService
}

func DefaultSearchApp() SearchApp {
	assert.NotCircular()
	onceSearchApp.Do(func() {
		singleSearchApp = NewSearchAppWith(
			persistence.NewVideoRepository(),
			persistence.NewSimilarLinkRepository(),
			service.DefaultSearchService(),
		)
	})
	assert.NotNil(singleSearchApp)
	return singleSearchApp
}

func NewSearchAppWith(videoRepo repo.VideoRepository, similarLinkRepo repo.SimilarLinkRepository, search service.SearchService) SearchApp {
	return &searchAppImpl{
		videoRepo:       videoRepo,
		similarLinkRepo: similarLinkRepo,
		search:          search,
	}
}

func (a *searchAppImpl) Search(ctx context.Context, req *cqe.SearchVideosReq) (*dto.SearchResultDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hits := a.search.Search(req.Query, req.Limit)
	result := &dto.SearchResultDto{Query: req.Query, Hits: make([]*dto.SearchHitDto, 0, len(hits))}
	if len(hits) == 0 {
		return result, nil
	}

	uuids := make([]string, 0, len(hits))
	for _, h := range hits {
		uuids = append(uuids, h.VideoUUID)
	}
	videos, err := a.videoRepo.GetVideosByUUIDs(ctx, uuids)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	byUUID := make(map[string]*entity.VideoEntity, len(videos))
	for _, v := range videos {
		byUUID[v.VideoUUID()] = v
	}

	// 保持索引给出的排序
	for _, h := range hits {
		v, ok := byUUID[h.VideoUUID]
		if !ok {
			continue
		}
		result.Hits = append(result.Hits, &dto.SearchHitDto{Video: dto.NewVideoDto(v, ""), Score: h.Score})
	}
	result.Total = len(result.Hits)
	return result, nil
}

func (a *searchAppImpl) Suggest(ctx context.Context, req *cqe.SuggestReq) (*dto.SuggestResultDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &dto.SuggestResultDto{
		Prefix:      req.Prefix,
		Suggestions: a.search.Suggest(req.Prefix),
	}, nil
}

func (a *searchAppImpl) GetSimilarVideos(ctx context.Context, req *cqe.SimilarVideosReq) ([]*dto.SimilarVideoDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	neighbors, err := a.similarLinkRepo.GetLinksForVideo(ctx, req.VideoUUID, req.Limit)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	result := make([]*dto.SimilarVideoDto, 0, len(neighbors))
	for _, n := range neighbors {
		v, err := a.videoRepo.GetVideoByUUID(ctx, n.VideoUUID)
		if err != nil {
			continue
		}
		result = append(result, &dto.SimilarVideoDto{Video: dto.NewVideoDto(v, ""), Score: n.Score})
	}
	return result, nil
}

func (a *searchAppImpl) GetPovGroup(ctx context.Context, req *cqe.PovGroupReq) (*dto.PovGroupDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	video, err := a.videoRepo.GetVideoByUUID(ctx, req.VideoUUID)
	if err != nil {
		return nil, errno.ErrVideoNotFound
	}
	group := &dto.PovGroupDto{GroupID: video.PovGroupID()}
	if group.GroupID == "" {
		return group, nil
	}
	members, err := a.videoRepo.GetVideosByPovGroup(ctx, group.GroupID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	for _, m := range members {
		group.Videos = append(group.Videos, dto.NewVideoDto(m, ""))
	}
	return group, nil
}
