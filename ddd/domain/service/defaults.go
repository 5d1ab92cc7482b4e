package service

import (
	"sync"

	"clipstream-service/ddd/infrastructure/database/persistence"
	"clipstream-service/ddd/infrastructure/inference"
	"clipstream-service/ddd/infrastructure/lease"
	"clipstream-service/ddd/infrastructure/media"
	"clipstream-service/ddd/infrastructure/queue"
	"clipstream-service/ddd/infrastructure/reporter"
	"clipstream-service/ddd/infrastructure/storage"
	"clipstream-service/internal/resource"
	"clipstream-service/pkg/assert"
	"clipstream-service/pkg/config"
)

// 进程级领域服务单例。HTTP入口与Worker必须共享同一份内存索引与队列，
// 因此相似度/搜索/调度服务在这里统一装配。

var (
	onceScheduler   sync.Once
	singleScheduler SchedulerService

	onceSimilarity   sync.Once
	singleSimilarity SimilarityService

	onceSearch   sync.Once
	singleSearch SearchService

	oncePipeline   sync.Once
	singlePipeline PipelineService
)

// DefaultSchedulerService 默认调度服务
func DefaultSchedulerService() SchedulerService {
	assert.NotCircular()
	onceScheduler.Do(func() {
		cfg := config.GetGlobalConfig()
		singleScheduler = NewSchedulerService(
			persistence.NewProcessingJobRepository(),
			persistence.NewVideoRepository(),
			queue.DefaultJobQueue(),
			lease.NewRedisLeaseStore(resource.DefaultRedisResource().Client(), ""),
			cfg.Scheduler,
		)
	})
	assert.NotNil(singleScheduler)
	return singleScheduler
}

// DefaultSimilarityService 默认相似度服务
func DefaultSimilarityService() SimilarityService {
	assert.NotCircular()
	onceSimilarity.Do(func() {
		singleSimilarity = NewSimilarityService(persistence.NewVideoRepository(), config.GetGlobalConfig().Similarity)
	})
	assert.NotNil(singleSimilarity)
	return singleSimilarity
}

// DefaultSearchService 默认搜索服务
func DefaultSearchService() SearchService {
	assert.NotCircular()
	onceSearch.Do(func() {
		singleSearch = NewSearchService(persistence.NewVideoRepository(), config.GetGlobalConfig().Search)
	})
	assert.NotNil(singleSearch)
	return singleSearch
}

// DefaultPipelineService 默认流水线服务
func DefaultPipelineService() PipelineService {
	assert.NotCircular()
	oncePipeline.Do(func() {
		cfg := config.GetGlobalConfig()
		singlePipeline = NewPipelineService(
			persistence.NewVideoRepository(),
			persistence.NewSimilarLinkRepository(),
			storage.NewMinioStorage(resource.DefaultMinioResource()),
			inference.NewHTTPInferenceClient(cfg.Inference.BaseURL, cfg.Inference.Timeout),
			media.NewFFmpegMedia(cfg.Pipeline.FFmpegBinary),
			DefaultSimilarityService(),
			DefaultSearchService(),
			reporter.DefaultKafkaResultReporter(),
			cfg,
		)
	})
	assert.NotNil(singlePipeline)
	return singlePipeline
}
