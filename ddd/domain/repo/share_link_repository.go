package repo

import (
	"context"

	"clipstream-service/ddd/domain/entity"
)

// ShareLinkRepository 分享链接仓储接口
type ShareLinkRepository interface {
	// CreateShareLink 创建分享链接
	CreateShareLink(ctx context.Context, link *entity.ShareLinkEntity) error

	// GetShareLinkByToken 根据令牌获取分享链接
	GetShareLinkByToken(ctx context.Context, token string) (*entity.ShareLinkEntity, error)

	// GetShareLinksByVideo 获取视频的全部分享链接
	GetShareLinksByVideo(ctx context.Context, videoUUID string) ([]*entity.ShareLinkEntity, error)

	// DeleteShareLink 删除分享链接
	DeleteShareLink(ctx context.Context, linkUUID string) error
}
