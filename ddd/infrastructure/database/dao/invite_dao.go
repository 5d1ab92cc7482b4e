package dao

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"clipstream-service/ddd/infrastructure/database/po"
	"clipstream-service/internal/resource"
)

// InviteDAO 邀请数据访问对象
type InviteDAO struct {
	db *gorm.DB
}

// NewInviteDAO 创建邀请DAO实例
func NewInviteDAO() *InviteDAO {
	return &InviteDAO{
		db: resource.DefaultMysqlResource().MainDB(),
	}
}

// NewInviteDAOWithDB 以指定连接创建邀请DAO
func NewInviteDAOWithDB(db *gorm.DB) *InviteDAO {
	return &InviteDAO{db: db}
}

// Create 创建邀请
func (d *InviteDAO) Create(ctx context.Context, invitePo *po.Invite) error {
	err := d.db.WithContext(ctx).Model(&po.Invite{}).Create(invitePo).Error
	if err != nil {
		log.Printf("Error creating invite %v", err)
		return err
	}
	return nil
}

// FindByCode 根据邀请码查询邀请
func (d *InviteDAO) FindByCode(ctx context.Context, code string) (*po.Invite, error) {
	var invite po.Invite
	if err := d.db.WithContext(ctx).
		Where("code = ?", code).
		First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("Error query invite by code %v", err)
		return nil, err
	}
	return &invite, nil
}

// QueryByStream 查询流的全部邀请
func (d *InviteDAO) QueryByStream(ctx context.Context, streamUUID string) ([]*po.Invite, error) {
	var invites []*po.Invite
	if err := d.db.WithContext(ctx).
		Where("stream_uuid = ?", streamUUID).
		Order("created_at DESC").
		Find(&invites).Error; err != nil {
		log.Printf("Error query invites by stream %v", err)
		return nil, err
	}
	return invites, nil
}

// Update 更新邀请
func (d *InviteDAO) Update(ctx context.Context, invitePo *po.Invite) error {
	err := d.db.WithContext(ctx).Model(&po.Invite{}).
		Where("invite_uuid = ?", invitePo.InviteUUID).
		Select("use_count", "expires_at", "max_uses").
		Updates(invitePo).Error
	if err != nil {
		log.Printf("Error updating invite %v", err)
		return err
	}
	return nil
}

// Delete 删除邀请
func (d *InviteDAO) Delete(ctx context.Context, inviteUUID string) error {
	err := d.db.WithContext(ctx).
		Where("invite_uuid = ?", inviteUUID).
		Delete(&po.Invite{}).Error
	if err != nil {
		log.Printf("Error deleting invite %v", err)
		return err
	}
	return nil
}
