package repo

import (
	"context"

	"clipstream-service/ddd/domain/entity"
)

// InviteRepository 邀请仓储接口
type InviteRepository interface {
	// CreateInvite 创建邀请
	CreateInvite(ctx context.Context, invite *entity.InviteEntity) error

	// GetInviteByCode 根据邀请码获取邀请
	GetInviteByCode(ctx context.Context, code string) (*entity.InviteEntity, error)

	// GetInvitesByStream 获取流的全部邀请
	GetInvitesByStream(ctx context.Context, streamUUID string) ([]*entity.InviteEntity, error)

	// UpdateInvite 更新邀请（使用计数等）
	UpdateInvite(ctx context.Context, invite *entity.InviteEntity) error

	// DeleteInvite 删除邀请
	DeleteInvite(ctx context.Context, inviteUUID string) error
}
