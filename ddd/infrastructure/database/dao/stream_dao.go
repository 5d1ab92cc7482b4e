package dao

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"clipstream-service/ddd/infrastructure/database/po"
	"clipstream-service/internal/resource"
)

// StreamDAO 流数据访问对象
type StreamDAO struct {
	db *gorm.DB
}

// NewStreamDAO 创建流DAO实例
func NewStreamDAO() *StreamDAO {
	return &StreamDAO{
		db: resource.DefaultMysqlResource().MainDB(),
	}
}

// NewStreamDAOWithDB 以指定连接创建流DAO
func NewStreamDAOWithDB(db *gorm.DB) *StreamDAO {
	return &StreamDAO{db: db}
}

// Create 创建流
func (d *StreamDAO) Create(ctx context.Context, streamPo *po.Stream) error {
	err := d.db.WithContext(ctx).Model(&po.Stream{}).Create(streamPo).Error
	if err != nil {
		log.Printf("Error creating stream %v", err)
		return err
	}
	return nil
}

// FindByUUID 根据UUID查询流
func (d *StreamDAO) FindByUUID(ctx context.Context, streamUUID string) (*po.Stream, error) {
	var stream po.Stream
	if err := d.db.WithContext(ctx).
		Where("stream_uuid = ?", streamUUID).
		First(&stream).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("Error query stream by uuid %v", err)
		return nil, err
	}
	return &stream, nil
}

// QueryByOwner 查询用户拥有的流
func (d *StreamDAO) QueryByOwner(ctx context.Context, ownerUUID string, limit, offset int) ([]*po.Stream, error) {
	var streams []*po.Stream
	query := d.db.WithContext(ctx).
		Where("owner_uuid = ?", ownerUUID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&streams).Error; err != nil {
		log.Printf("Error query streams by owner %v", err)
		return nil, err
	}
	return streams, nil
}

// QueryAll 分页查询全部流
func (d *StreamDAO) QueryAll(ctx context.Context, limit, offset int) ([]*po.Stream, error) {
	var streams []*po.Stream
	query := d.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&streams).Error; err != nil {
		log.Printf("Error query all streams %v", err)
		return nil, err
	}
	return streams, nil
}

// Update 更新流
func (d *StreamDAO) Update(ctx context.Context, streamPo *po.Stream) error {
	err := d.db.WithContext(ctx).Model(&po.Stream{}).
		Where("stream_uuid = ?", streamPo.StreamUUID).
		Select("title", "description").
		Updates(streamPo).Error
	if err != nil {
		log.Printf("Error updating stream %v", err)
		return err
	}
	return nil
}

// Delete 删除流
func (d *StreamDAO) Delete(ctx context.Context, streamUUID string) error {
	err := d.db.WithContext(ctx).
		Where("stream_uuid = ?", streamUUID).
		Delete(&po.Stream{}).Error
	if err != nil {
		log.Printf("Error deleting stream %v", err)
		return err
	}
	return nil
}
