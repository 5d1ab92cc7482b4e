package dto

import "clipstream-service/ddd/domain/repo"

// JobStatisticsDto 作业统计
type JobStatisticsDto struct {
	TotalJobs     int64 `json:"total_jobs"`
	PendingJobs   int64 `json:"pending_jobs"`
	LeasedJobs    int64 `json:"leased_jobs"`
	FailedJobs    int64 `json:"failed_jobs"`
	SucceededJobs int64 `json:"succeeded_jobs"`
	AbandonedJobs int64 `json:"abandoned_jobs"`
}

// SystemStatsDto 系统运行统计
type SystemStatsDto struct {
	Jobs            JobStatisticsDto `json:"jobs"`
	VideosByStatus  map[string]int64 `json:"videos_by_status"`
	QueueDepth      int              `json:"queue_depth"`
	SimilarityIndex int              `json:"similarity_index_size"`
	SearchIndex     int              `json:"search_index_size"`
}

// NewJobStatisticsDto 从仓储统计创建DTO
func NewJobStatisticsDto(s *repo.JobStatistics) JobStatisticsDto {
	if s == nil {
		return JobStatisticsDto{}
	}
	return JobStatisticsDto{
		TotalJobs:     s.TotalJobs,
		PendingJobs:   s.PendingJobs,
		LeasedJobs:    s.LeasedJobs,
		FailedJobs:    s.FailedJobs,
		SucceededJobs: s.SucceededJobs,
		AbandonedJobs: s.AbandonedJobs,
	}
}

// DuplicateEntryDto 重复视频清单条目
type DuplicateEntryDto struct {
	Video       *VideoDto `json:"video"`
	DuplicateOf *VideoDto `json:"duplicate_of,omitempty"`
}
