package persistence

import (
	"context"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/infrastructure/database/convertor"
	"clipstream-service/ddd/infrastructure/database/dao"
)

// ShareLinkRepositoryImpl 分享链接仓储实现
type ShareLinkRepositoryImpl struct {
	dao       *dao.ShareLinkDAO
	convertor *convertor.ShareLinkConvertor
}

// NewShareLinkRepository 创建分享链接仓储实例
func NewShareLinkRepository() repo.ShareLinkRepository {
	return &ShareLinkRepositoryImpl{
		dao:       dao.NewShareLinkDAO(),
		convertor: convertor.NewShareLinkConvertor(),
	}
}

// CreateShareLink 创建分享链接
func (r *ShareLinkRepositoryImpl) CreateShareLink(ctx context.Context, link *entity.ShareLinkEntity) error {
	return r.dao.Create(ctx, r.convertor.ToPO(link))
}

// GetShareLinkByToken 根据令牌获取分享链接
func (r *ShareLinkRepositoryImpl) GetShareLinkByToken(ctx context.Context, token string) (*entity.ShareLinkEntity, error) {
	linkPo, err := r.dao.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntity(linkPo), nil
}

// GetShareLinksByVideo 获取视频的全部分享链接
func (r *ShareLinkRepositoryImpl) GetShareLinksByVideo(ctx context.Context, videoUUID string) ([]*entity.ShareLinkEntity, error) {
	pos, err := r.dao.QueryByVideo(ctx, videoUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// DeleteShareLink 删除分享链接
func (r *ShareLinkRepositoryImpl) DeleteShareLink(ctx context.Context, linkUUID string) error {
	return r.dao.Delete(ctx, linkUUID)
}
