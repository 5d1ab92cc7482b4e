package convertor

import (
	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/ddd/infrastructure/database/po"
)

// ProcessingJobConvertor 处理作业转换器
type ProcessingJobConvertor struct{}

// NewProcessingJobConvertor 创建处理作业转换器
func NewProcessingJobConvertor() *ProcessingJobConvertor {
	return &ProcessingJobConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *ProcessingJobConvertor) ToEntity(jobPo *po.ProcessingJob) *entity.ProcessingJobEntity {
	status := vo.JobStatus(jobPo.Status)
	if !status.IsValid() {
		status = vo.JobStatusPending
	}
	return entity.RehydrateProcessingJobEntity(entity.JobSnapshot{
		ID:             jobPo.Id,
		JobUUID:        jobPo.JobUUID,
		VideoUUID:      jobPo.VideoUUID,
		Status:         status,
		Attempts:       jobPo.Attempts,
		MaxAttempts:    jobPo.MaxAttempts,
		WorkerID:       jobPo.WorkerID,
		LeaseExpiresAt: jobPo.LeaseExpiresAt,
		NotBefore:      jobPo.NotBefore,
		LastError:      jobPo.LastError,
		EnqueuedAt:     jobPo.EnqueuedAt,
		StartedAt:      jobPo.StartedAt,
		FinishedAt:     jobPo.FinishedAt,
		CreatedAt:      jobPo.CreatedAt,
		UpdatedAt:      jobPo.UpdatedAt,
	})
}

// ToPO 将Entity转换为PO
func (c *ProcessingJobConvertor) ToPO(jobEntity *entity.ProcessingJobEntity) *po.ProcessingJob {
	return &po.ProcessingJob{
		BaseModel: po.BaseModel{
			Id:        jobEntity.ID(),
			CreatedAt: jobEntity.CreatedAt(),
			UpdatedAt: jobEntity.UpdatedAt(),
		},
		JobUUID:        jobEntity.JobUUID(),
		VideoUUID:      jobEntity.VideoUUID(),
		Status:         jobEntity.Status().String(),
		Attempts:       jobEntity.Attempts(),
		MaxAttempts:    jobEntity.MaxAttempts(),
		WorkerID:       jobEntity.WorkerID(),
		LeaseExpiresAt: jobEntity.LeaseExpiresAt(),
		NotBefore:      jobEntity.NotBefore(),
		LastError:      jobEntity.LastError(),
		EnqueuedAt:     jobEntity.EnqueuedAt(),
		StartedAt:      jobEntity.StartedAt(),
		FinishedAt:     jobEntity.FinishedAt(),
	}
}

// ToEntities 批量将PO转换为Entity
func (c *ProcessingJobConvertor) ToEntities(pos []*po.ProcessingJob) []*entity.ProcessingJobEntity {
	if pos == nil {
		return nil
	}
	entities := make([]*entity.ProcessingJobEntity, 0, len(pos))
	for _, p := range pos {
		entities = append(entities, c.ToEntity(p))
	}
	return entities
}
