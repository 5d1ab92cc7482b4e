package dao

import (
	"context"
	"log"

	"gorm.io/gorm"

	"clipstream-service/ddd/infrastructure/database/po"
	"clipstream-service/internal/resource"
)

// SimilarLinkDAO 相似关联数据访问对象
type SimilarLinkDAO struct {
	db *gorm.DB
}

// NewSimilarLinkDAO 创建相似关联DAO实例
func NewSimilarLinkDAO() *SimilarLinkDAO {
	return &SimilarLinkDAO{
		db: resource.DefaultMysqlResource().MainDB(),
	}
}

// NewSimilarLinkDAOWithDB 以指定连接创建相似关联DAO
func NewSimilarLinkDAOWithDB(db *gorm.DB) *SimilarLinkDAO {
	return &SimilarLinkDAO{db: db}
}

// ReplaceForVideo 事务内全量替换视频的相似关联
func (d *SimilarLinkDAO) ReplaceForVideo(ctx context.Context, videoUUID string, links []*po.SimilarLink) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_uuid = ?", videoUUID).Delete(&po.SimilarLink{}).Error; err != nil {
			return err
		}
		if len(links) == 0 {
			return nil
		}
		return tx.Create(&links).Error
	})
	if err != nil {
		log.Printf("Error replacing similar links %v", err)
		return err
	}
	return nil
}

// QueryForVideo 查询视频的相似关联，按分数降序
func (d *SimilarLinkDAO) QueryForVideo(ctx context.Context, videoUUID string, limit int) ([]*po.SimilarLink, error) {
	var links []*po.SimilarLink
	query := d.db.WithContext(ctx).
		Where("video_uuid = ?", videoUUID).
		Order("score DESC, neighbor_uuid ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&links).Error; err != nil {
		log.Printf("Error query similar links %v", err)
		return nil, err
	}
	return links, nil
}

// DeleteForVideo 删除视频的全部相似关联
func (d *SimilarLinkDAO) DeleteForVideo(ctx context.Context, videoUUID string) error {
	err := d.db.WithContext(ctx).
		Where("video_uuid = ?", videoUUID).
		Delete(&po.SimilarLink{}).Error
	if err != nil {
		log.Printf("Error deleting similar links %v", err)
		return err
	}
	return nil
}
