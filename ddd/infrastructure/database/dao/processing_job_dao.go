package dao

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"clipstream-service/ddd/infrastructure/database/po"
	"clipstream-service/internal/resource"
)

// ProcessingJobDAO 处理作业数据访问对象
type ProcessingJobDAO struct {
	db *gorm.DB
}

// NewProcessingJobDAO 创建处理作业DAO实例
func NewProcessingJobDAO() *ProcessingJobDAO {
	return &ProcessingJobDAO{
		db: resource.DefaultMysqlResource().MainDB(),
	}
}

// NewProcessingJobDAOWithDB 以指定连接创建处理作业DAO
func NewProcessingJobDAOWithDB(db *gorm.DB) *ProcessingJobDAO {
	return &ProcessingJobDAO{db: db}
}

// Create 创建作业
func (d *ProcessingJobDAO) Create(ctx context.Context, jobPo *po.ProcessingJob) error {
	err := d.db.WithContext(ctx).Model(&po.ProcessingJob{}).Create(jobPo).Error
	if err != nil {
		log.Printf("Error creating processing job %v", err)
		return err
	}
	return nil
}

// FindByUUID 根据UUID查询作业
func (d *ProcessingJobDAO) FindByUUID(ctx context.Context, jobUUID string) (*po.ProcessingJob, error) {
	var job po.ProcessingJob
	if err := d.db.WithContext(ctx).
		Where("job_uuid = ?", jobUUID).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("Error query processing job by uuid %v", err)
		return nil, err
	}
	return &job, nil
}

// FindActiveByVideo 查询视频的活跃作业（pending/leased/failed）
func (d *ProcessingJobDAO) FindActiveByVideo(ctx context.Context, videoUUID string) (*po.ProcessingJob, error) {
	var job po.ProcessingJob
	if err := d.db.WithContext(ctx).
		Where("video_uuid = ? AND status IN ?", videoUUID, []string{"pending", "leased", "failed"}).
		Order("id DESC").
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("Error query active job by video %v", err)
		return nil, err
	}
	return &job, nil
}

// FindLatestByVideo 查询视频最近一次作业
func (d *ProcessingJobDAO) FindLatestByVideo(ctx context.Context, videoUUID string) (*po.ProcessingJob, error) {
	var job po.ProcessingJob
	if err := d.db.WithContext(ctx).
		Where("video_uuid = ?", videoUUID).
		Order("id DESC").
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("Error query latest job by video %v", err)
		return nil, err
	}
	return &job, nil
}

// Update 全量更新作业
func (d *ProcessingJobDAO) Update(ctx context.Context, jobPo *po.ProcessingJob) error {
	err := d.db.WithContext(ctx).Model(&po.ProcessingJob{}).
		Where("job_uuid = ?", jobPo.JobUUID).
		Select("*").Omit("id", "created_at").
		Updates(jobPo).Error
	if err != nil {
		log.Printf("Error updating processing job %v", err)
		return err
	}
	return nil
}

// QueryDispatchable 查询可调度作业（退避已到期），按入队时间排序
func (d *ProcessingJobDAO) QueryDispatchable(ctx context.Context, now time.Time, limit int) ([]*po.ProcessingJob, error) {
	var jobs []*po.ProcessingJob
	query := d.db.WithContext(ctx).
		Where("status IN ? AND (not_before IS NULL OR not_before <= ?)", []string{"pending", "failed"}, now).
		Order("enqueued_at ASC, id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobs).Error; err != nil {
		log.Printf("Error query dispatchable jobs %v", err)
		return nil, err
	}
	return jobs, nil
}

// QueryExpiredLeases 查询租约已超时的作业
func (d *ProcessingJobDAO) QueryExpiredLeases(ctx context.Context, now time.Time, limit int) ([]*po.ProcessingJob, error) {
	var jobs []*po.ProcessingJob
	query := d.db.WithContext(ctx).
		Where("status = ? AND lease_expires_at IS NOT NULL AND lease_expires_at < ?", "leased", now).
		Order("lease_expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&jobs).Error; err != nil {
		log.Printf("Error query expired lease jobs %v", err)
		return nil, err
	}
	return jobs, nil
}

// QueryByStatus 根据状态查询作业
func (d *ProcessingJobDAO) QueryByStatus(ctx context.Context, status string, limit, offset int) ([]*po.ProcessingJob, error) {
	var jobs []*po.ProcessingJob
	query := d.db.WithContext(ctx).
		Where("status = ?", status).
		Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&jobs).Error; err != nil {
		log.Printf("Error query jobs by status %v", err)
		return nil, err
	}
	return jobs, nil
}

// CountByStatus 统计各状态作业数量
func (d *ProcessingJobDAO) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Cnt    int64
	}
	var rows []row
	if err := d.db.WithContext(ctx).Model(&po.ProcessingJob{}).
		Select("status, count(*) as cnt").
		Group("status").
		Scan(&rows).Error; err != nil {
		log.Printf("Error counting jobs by status %v", err)
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Cnt
	}
	return counts, nil
}
