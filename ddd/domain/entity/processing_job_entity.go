package entity

import (
	"time"

	"github.com/google/uuid"

	"clipstream-service/ddd/domain/vo"
)

// ProcessingJobEntity 处理作业实体，一个视频同一时刻至多一个活跃作业
type ProcessingJobEntity struct {
	id             uint64 // 数据库主键ID
	jobUUID        string
	videoUUID      string
	status         vo.JobStatus
	attempts       int // 已消耗的执行次数，租约获取时递增
	maxAttempts    int
	workerID       string
	leaseExpiresAt *time.Time
	notBefore      *time.Time // 退避到期前不允许再次调度
	lastError      string
	enqueuedAt     time.Time
	startedAt      *time.Time
	finishedAt     *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

// NewProcessingJobEntity 创建新的处理作业实体
func NewProcessingJobEntity(videoUUID string, maxAttempts int) *ProcessingJobEntity {
	now := time.Now()
	return &ProcessingJobEntity{
		jobUUID:     uuid.New().String(),
		videoUUID:   videoUUID,
		status:      vo.JobStatusPending,
		attempts:    0,
		maxAttempts: maxAttempts,
		enqueuedAt:  now,
		createdAt:   now,
		updatedAt:   now,
	}
}

// JobSnapshot 持久化层重建实体所需的全量字段
type JobSnapshot struct {
	ID             uint64
	JobUUID        string
	VideoUUID      string
	Status         vo.JobStatus
	Attempts       int
	MaxAttempts    int
	WorkerID       string
	LeaseExpiresAt *time.Time
	NotBefore      *time.Time
	LastError      string
	EnqueuedAt     time.Time
	StartedAt      *time.Time
	FinishedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// RehydrateProcessingJobEntity 从持久化快照重建实体
func RehydrateProcessingJobEntity(s JobSnapshot) *ProcessingJobEntity {
	return &ProcessingJobEntity{
		id:             s.ID,
		jobUUID:        s.JobUUID,
		videoUUID:      s.VideoUUID,
		status:         s.Status,
		attempts:       s.Attempts,
		maxAttempts:    s.MaxAttempts,
		workerID:       s.WorkerID,
		leaseExpiresAt: s.LeaseExpiresAt,
		notBefore:      s.NotBefore,
		lastError:      s.LastError,
		enqueuedAt:     s.EnqueuedAt,
		startedAt:      s.StartedAt,
		finishedAt:     s.FinishedAt,
		createdAt:      s.CreatedAt,
		updatedAt:      s.UpdatedAt,
	}
}

// Getters
func (j *ProcessingJobEntity) ID() uint64                 { return j.id }
func (j *ProcessingJobEntity) JobUUID() string            { return j.jobUUID }
func (j *ProcessingJobEntity) VideoUUID() string          { return j.videoUUID }
func (j *ProcessingJobEntity) Status() vo.JobStatus       { return j.status }
func (j *ProcessingJobEntity) Attempts() int              { return j.attempts }
func (j *ProcessingJobEntity) MaxAttempts() int           { return j.maxAttempts }
func (j *ProcessingJobEntity) WorkerID() string           { return j.workerID }
func (j *ProcessingJobEntity) LeaseExpiresAt() *time.Time { return j.leaseExpiresAt }
func (j *ProcessingJobEntity) NotBefore() *time.Time      { return j.notBefore }
func (j *ProcessingJobEntity) LastError() string          { return j.lastError }
func (j *ProcessingJobEntity) EnqueuedAt() time.Time      { return j.enqueuedAt }
func (j *ProcessingJobEntity) StartedAt() *time.Time      { return j.startedAt }
func (j *ProcessingJobEntity) FinishedAt() *time.Time     { return j.finishedAt }
func (j *ProcessingJobEntity) CreatedAt() time.Time       { return j.createdAt }
func (j *ProcessingJobEntity) UpdatedAt() time.Time       { return j.updatedAt }

// IsActive 作业是否仍在排队或执行
func (j *ProcessingJobEntity) IsActive() bool {
	return j.status == vo.JobStatusPending || j.status == vo.JobStatusLeased || j.status == vo.JobStatusFailed
}

// IsDispatchable 作业当前是否可以被Worker租约
func (j *ProcessingJobEntity) IsDispatchable(now time.Time) bool {
	if j.status != vo.JobStatusPending && j.status != vo.JobStatusFailed {
		return false
	}
	if j.notBefore != nil && now.Before(*j.notBefore) {
		return false
	}
	return true
}

// Lease 将作业租给Worker，消耗一次执行次数
func (j *ProcessingJobEntity) Lease(workerID string, ttl time.Duration) error {
	now := time.Now()
	if !j.IsDispatchable(now) {
		return NewDomainError("cannot lease job in current status: " + j.status.String())
	}
	if j.attempts >= j.maxAttempts {
		return NewDomainError("job attempts exhausted")
	}
	expires := now.Add(ttl)
	j.status = vo.JobStatusLeased
	j.workerID = workerID
	j.attempts++
	j.leaseExpiresAt = &expires
	j.notBefore = nil
	if j.startedAt == nil {
		j.startedAt = &now
	}
	j.updatedAt = now
	return nil
}

// RenewLease 续租，只有持有租约的Worker可以续
func (j *ProcessingJobEntity) RenewLease(workerID string, ttl time.Duration) error {
	if j.status != vo.JobStatusLeased {
		return NewDomainError("cannot renew lease for job in status: " + j.status.String())
	}
	if j.workerID != workerID {
		return NewDomainError("lease held by another worker: " + j.workerID)
	}
	now := time.Now()
	expires := now.Add(ttl)
	j.leaseExpiresAt = &expires
	j.updatedAt = now
	return nil
}

// IsLeaseExpired 租约是否已超时
func (j *ProcessingJobEntity) IsLeaseExpired(now time.Time) bool {
	return j.status == vo.JobStatusLeased && j.leaseExpiresAt != nil && now.After(*j.leaseExpiresAt)
}

// Reclaim 回收超时租约，重新入队。回收不消耗执行次数。
func (j *ProcessingJobEntity) Reclaim() error {
	if j.status != vo.JobStatusLeased {
		return NewDomainError("cannot reclaim job in status: " + j.status.String())
	}
	// 回收把当次租约已消耗的次数退回，崩溃不应计为一次失败
	if j.attempts > 0 {
		j.attempts--
	}
	j.status = vo.JobStatusPending
	j.workerID = ""
	j.leaseExpiresAt = nil
	j.updatedAt = time.Now()
	return nil
}

// Succeed 作业成功完成
func (j *ProcessingJobEntity) Succeed() error {
	if j.status != vo.JobStatusLeased {
		return NewDomainError("cannot succeed job in status: " + j.status.String())
	}
	now := time.Now()
	j.status = vo.JobStatusSucceeded
	j.workerID = ""
	j.leaseExpiresAt = nil
	j.notBefore = nil
	j.finishedAt = &now
	j.updatedAt = now
	return nil
}

// Fail 作业失败。退避到期前不可再调度；次数耗尽时转为放弃。
func (j *ProcessingJobEntity) Fail(reason string, backoff time.Duration) error {
	if j.status != vo.JobStatusLeased {
		return NewDomainError("cannot fail job in status: " + j.status.String())
	}
	now := time.Now()
	j.lastError = reason
	j.workerID = ""
	j.leaseExpiresAt = nil
	j.updatedAt = now
	if j.attempts >= j.maxAttempts {
		j.status = vo.JobStatusAbandoned
		j.notBefore = nil
		j.finishedAt = &now
		return nil
	}
	nb := now.Add(backoff)
	j.status = vo.JobStatusFailed
	j.notBefore = &nb
	return nil
}

// Abandon 永久性失败，剩余重试次数作废直接放弃
func (j *ProcessingJobEntity) Abandon(reason string) error {
	if j.status != vo.JobStatusLeased {
		return NewDomainError("cannot abandon job in status: " + j.status.String())
	}
	now := time.Now()
	j.status = vo.JobStatusAbandoned
	j.lastError = reason
	j.workerID = ""
	j.leaseExpiresAt = nil
	j.notBefore = nil
	j.finishedAt = &now
	j.updatedAt = now
	return nil
}

// ResetForRetry 管理员重试：清空退避与计数，重新排队
func (j *ProcessingJobEntity) ResetForRetry() error {
	if j.status != vo.JobStatusFailed && j.status != vo.JobStatusAbandoned {
		return NewDomainError("can only retry failed or abandoned jobs")
	}
	now := time.Now()
	j.status = vo.JobStatusPending
	j.attempts = 0
	j.workerID = ""
	j.leaseExpiresAt = nil
	j.notBefore = nil
	j.lastError = ""
	j.finishedAt = nil
	j.enqueuedAt = now
	j.updatedAt = now
	return nil
}
