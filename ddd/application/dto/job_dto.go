package dto

import (
	"time"

	"clipstream-service/ddd/domain/entity"
)

// ProcessingJobDto 处理作业数据传输对象
type ProcessingJobDto struct {
	JobUUID        string     `json:"job_uuid"`
	VideoUUID      string     `json:"video_uuid"`
	Status         string     `json:"status"`
	Attempts       int        `json:"attempts"`
	MaxAttempts    int        `json:"max_attempts"`
	WorkerID       string     `json:"worker_id,omitempty"`
	LeaseExpiresAt *time.Time `json:"lease_expires_at,omitempty"`
	NotBefore      *time.Time `json:"not_before,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
	EnqueuedAt     time.Time  `json:"enqueued_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

// NewProcessingJobDto 从实体创建DTO
func NewProcessingJobDto(j *entity.ProcessingJobEntity) *ProcessingJobDto {
	if j == nil {
		return nil
	}
	return &ProcessingJobDto{
		JobUUID:        j.JobUUID(),
		VideoUUID:      j.VideoUUID(),
		Status:         j.Status().String(),
		Attempts:       j.Attempts(),
		MaxAttempts:    j.MaxAttempts(),
		WorkerID:       j.WorkerID(),
		LeaseExpiresAt: j.LeaseExpiresAt(),
		NotBefore:      j.NotBefore(),
		LastError:      j.LastError(),
		EnqueuedAt:     j.EnqueuedAt(),
		StartedAt:      j.StartedAt(),
		FinishedAt:     j.FinishedAt(),
	}
}

// NewPublicProcessingJobDto 对外投影，失败原因同FailureReason一样不透出内部错误链
func NewPublicProcessingJobDto(j *entity.ProcessingJobEntity) *ProcessingJobDto {
	d := NewProcessingJobDto(j)
	if d != nil && d.LastError != "" {
		d.LastError = publicFailureReason
	}
	return d
}

// QueueStatusDto 调度队列即时视图
type QueueStatusDto struct {
	Depth   int                 `json:"depth"`
	Pending []*ProcessingJobDto `json:"pending"`
	Leased  []*ProcessingJobDto `json:"leased"`
}

// ProcessingStatusDto 视频处理状态详情：视频检查点 + 最近一次作业
type ProcessingStatusDto struct {
	Video *VideoDto         `json:"video"`
	Job   *ProcessingJobDto `json:"job,omitempty"`
	// EstimatedCompletionAt 粗略完成时间估计：剩余阶段数 × 本次作业已完成阶段的平均耗时。
	// 处理中且至少完成一个阶段时才给出。
	EstimatedCompletionAt *time.Time `json:"estimated_completion_at,omitempty"`
}
