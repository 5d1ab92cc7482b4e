package dao

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"clipstream-service/ddd/infrastructure/database/po"
	"clipstream-service/internal/resource"
)

// ErrStaleProcessingIndex 断点推进的前置条件不满足（已被其它执行者推进）
var ErrStaleProcessingIndex = errors.New("processing index advanced by another executor")

// VideoDAO 视频数据访问对象
type VideoDAO struct {
	db *gorm.DB
}

// NewVideoDAO 创建视频DAO实例
func NewVideoDAO() *VideoDAO {
	return &VideoDAO{
		db: resource.DefaultMysqlResource().MainDB(),
	}
}

// NewVideoDAOWithDB 以指定连接创建视频DAO
func NewVideoDAOWithDB(db *gorm.DB) *VideoDAO {
	return &VideoDAO{db: db}
}

// Create 创建视频
func (d *VideoDAO) Create(ctx context.Context, videoPo *po.Video) error {
	err := d.db.WithContext(ctx).Model(&po.Video{}).Create(videoPo).Error
	if err != nil {
		log.Printf("Error creating video %v", err)
		return err
	}
	return nil
}

// FindByUUID 根据UUID查询视频
func (d *VideoDAO) FindByUUID(ctx context.Context, videoUUID string) (*po.Video, error) {
	var video po.Video
	if err := d.db.WithContext(ctx).
		Where("video_uuid = ?", videoUUID).
		First(&video).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("Error query video by uuid %v", err)
		return nil, err
	}
	return &video, nil
}

// FindByUUIDs 批量查询视频
func (d *VideoDAO) FindByUUIDs(ctx context.Context, videoUUIDs []string) ([]*po.Video, error) {
	if len(videoUUIDs) == 0 {
		return nil, nil
	}
	var videos []*po.Video
	if err := d.db.WithContext(ctx).
		Where("video_uuid IN ?", videoUUIDs).
		Find(&videos).Error; err != nil {
		log.Printf("Error query videos by uuids %v", err)
		return nil, err
	}
	return videos, nil
}

// QueryByStream 查询流下的视频，按上传时间降序
func (d *VideoDAO) QueryByStream(ctx context.Context, streamUUID string, limit, offset int) ([]*po.Video, error) {
	var videos []*po.Video
	query := d.db.WithContext(ctx).
		Where("stream_uuid = ?", streamUUID).
		Order("uploaded_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&videos).Error; err != nil {
		log.Printf("Error query videos by stream %v", err)
		return nil, err
	}
	return videos, nil
}

// QueryByStatus 根据状态查询视频
func (d *VideoDAO) QueryByStatus(ctx context.Context, status string, limit, offset int) ([]*po.Video, error) {
	var videos []*po.Video
	query := d.db.WithContext(ctx).
		Where("status = ?", status).
		Order("updated_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&videos).Error; err != nil {
		log.Printf("Error query videos by status %v", err)
		return nil, err
	}
	return videos, nil
}

// Update 全量更新视频
func (d *VideoDAO) Update(ctx context.Context, videoPo *po.Video) error {
	err := d.db.WithContext(ctx).Model(&po.Video{}).
		Where("video_uuid = ?", videoPo.VideoUUID).
		Select("*").Omit("id", "created_at").
		Updates(videoPo).Error
	if err != nil {
		log.Printf("Error updating video %v", err)
		return err
	}
	return nil
}

// Delete 删除视频记录
func (d *VideoDAO) Delete(ctx context.Context, videoUUID string) error {
	err := d.db.WithContext(ctx).
		Where("video_uuid = ?", videoUUID).
		Delete(&po.Video{}).Error
	if err != nil {
		log.Printf("Error deleting video %v", err)
		return err
	}
	return nil
}

// AdvanceProcessingIndex 带前置条件推进断点
func (d *VideoDAO) AdvanceProcessingIndex(ctx context.Context, videoUUID string, from, to int) error {
	res := d.db.WithContext(ctx).Model(&po.Video{}).
		Where("video_uuid = ? AND processing_index = ?", videoUUID, from).
		Update("processing_index", to)
	if res.Error != nil {
		log.Printf("Error advancing processing index %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleProcessingIndex
	}
	return nil
}

// QueryIndexable 查询可参与索引重建的视频（已就绪且有向量）
func (d *VideoDAO) QueryIndexable(ctx context.Context) ([]*po.Video, error) {
	var videos []*po.Video
	if err := d.db.WithContext(ctx).
		Where("status = ? AND embedding <> ''", "ready").
		Find(&videos).Error; err != nil {
		log.Printf("Error query indexable videos %v", err)
		return nil, err
	}
	return videos, nil
}

// QueryDuplicatesOf 查询指向某原视频的重复视频
func (d *VideoDAO) QueryDuplicatesOf(ctx context.Context, originalUUID string) ([]*po.Video, error) {
	var videos []*po.Video
	if err := d.db.WithContext(ctx).
		Where("duplicate_of = ?", originalUUID).
		Order("uploaded_at ASC").
		Find(&videos).Error; err != nil {
		log.Printf("Error query duplicates %v", err)
		return nil, err
	}
	return videos, nil
}

// QueryByPovGroup 查询同一多视角分组的视频
func (d *VideoDAO) QueryByPovGroup(ctx context.Context, povGroupID string) ([]*po.Video, error) {
	var videos []*po.Video
	if err := d.db.WithContext(ctx).
		Where("pov_group_id = ?", povGroupID).
		Order("uploaded_at ASC").
		Find(&videos).Error; err != nil {
		log.Printf("Error query videos by pov group %v", err)
		return nil, err
	}
	return videos, nil
}

// IncrementCounter 原子累加计数字段，返回累加后的值
func (d *VideoDAO) IncrementCounter(ctx context.Context, videoUUID, column string) (int64, error) {
	res := d.db.WithContext(ctx).Model(&po.Video{}).
		Where("video_uuid = ?", videoUUID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		log.Printf("Error incrementing counter %v", res.Error)
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	var value int64
	if err := d.db.WithContext(ctx).Model(&po.Video{}).
		Where("video_uuid = ?", videoUUID).
		Pluck(column, &value).Error; err != nil {
		return 0, err
	}
	return value, nil
}

// CountByStatus 统计各状态的视频数量
func (d *VideoDAO) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Cnt    int64
	}
	var rows []row
	if err := d.db.WithContext(ctx).Model(&po.Video{}).
		Select("status, count(*) as cnt").
		Group("status").
		Scan(&rows).Error; err != nil {
		log.Printf("Error counting videos by status %v", err)
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Cnt
	}
	return counts, nil
}

// StreamStatsRow 流维度统计行
type StreamStatsRow struct {
	VideoCount     int64
	ReadyCount     int64
	DuplicateCount int64
	FailedCount    int64
	TotalDuration  float64
}

// QueryStreamStats 统计流的存量信息
func (d *VideoDAO) QueryStreamStats(ctx context.Context, streamUUID string) (*StreamStatsRow, error) {
	var row StreamStatsRow
	if err := d.db.WithContext(ctx).Model(&po.Video{}).
		Select(
			"count(*) as video_count, "+
				"sum(case when status = 'ready' then 1 else 0 end) as ready_count, "+
				"sum(case when status = 'duplicate' then 1 else 0 end) as duplicate_count, "+
				"sum(case when status = 'failed' then 1 else 0 end) as failed_count, "+
				"coalesce(sum(duration_seconds), 0) as total_duration").
		Where("stream_uuid = ?", streamUUID).
		Scan(&row).Error; err != nil {
		log.Printf("Error query stream stats %v", err)
		return nil, err
	}
	return &row, nil
}
