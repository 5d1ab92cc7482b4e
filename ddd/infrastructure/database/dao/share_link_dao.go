package dao

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"clipstream-service/ddd/infrastructure/database/po"
	"clipstream-service/internal/resource"
)

// ShareLinkDAO 分享链接数据访问对象
type ShareLinkDAO struct {
	db *gorm.DB
}

// NewShareLinkDAO 创建分享链接DAO实例
func NewShareLinkDAO() *ShareLinkDAO {
	return &ShareLinkDAO{
		db: resource.DefaultMysqlResource().MainDB(),
	}
}

// NewShareLinkDAOWithDB 以指定连接创建分享链接DAO
func NewShareLinkDAOWithDB(db *gorm.DB) *ShareLinkDAO {
	return &ShareLinkDAO{db: db}
}

// Create 创建分享链接
func (d *ShareLinkDAO) Create(ctx context.Context, linkPo *po.ShareLink) error {
	err := d.db.WithContext(ctx).Model(&po.ShareLink{}).Create(linkPo).Error
	if err != nil {
		log.Printf("Error creating share link %v", err)
		return err
	}
	return nil
}

// FindByToken 根据令牌查询分享链接
func (d *ShareLinkDAO) FindByToken(ctx context.Context, token string) (*po.ShareLink, error) {
	var link po.ShareLink
	if err := d.db.WithContext(ctx).
		Where("token = ?", token).
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("Error query share link by token %v", err)
		return nil, err
	}
	return &link, nil
}

// QueryByVideo 查询视频的全部分享链接
func (d *ShareLinkDAO) QueryByVideo(ctx context.Context, videoUUID string) ([]*po.ShareLink, error) {
	var links []*po.ShareLink
	if err := d.db.WithContext(ctx).
		Where("video_uuid = ?", videoUUID).
		Order("created_at DESC").
		Find(&links).Error; err != nil {
		log.Printf("Error query share links by video %v", err)
		return nil, err
	}
	return links, nil
}

// Delete 删除分享链接
func (d *ShareLinkDAO) Delete(ctx context.Context, linkUUID string) error {
	err := d.db.WithContext(ctx).
		Where("link_uuid = ?", linkUUID).
		Delete(&po.ShareLink{}).Error
	if err != nil {
		log.Printf("Error deleting share link %v", err)
		return err
	}
	return nil
}
