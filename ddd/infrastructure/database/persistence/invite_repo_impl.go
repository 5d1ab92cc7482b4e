package persistence

import (
	"context"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/infrastructure/database/convertor"
	"clipstream-service/ddd/infrastructure/database/dao"
)

// InviteRepositoryImpl 邀请仓储实现
type InviteRepositoryImpl struct {
	dao       *dao.InviteDAO
	convertor *convertor.InviteConvertor
}

// NewInviteRepository 创建邀请仓储实例
func NewInviteRepository() repo.InviteRepository {
	return &InviteRepositoryImpl{
		dao:       dao.NewInviteDAO(),
		convertor: convertor.NewInviteConvertor(),
	}
}

// CreateInvite 创建邀请
func (r *InviteRepositoryImpl) CreateInvite(ctx context.Context, invite *entity.InviteEntity) error {
	return r.dao.Create(ctx, r.convertor.ToPO(invite))
}

// GetInviteByCode 根据邀请码获取邀请
func (r *InviteRepositoryImpl) GetInviteByCode(ctx context.Context, code string) (*entity.InviteEntity, error) {
	invitePo, err := r.dao.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntity(invitePo), nil
}

// GetInvitesByStream 获取流的全部邀请
func (r *InviteRepositoryImpl) GetInvitesByStream(ctx context.Context, streamUUID string) ([]*entity.InviteEntity, error) {
	pos, err := r.dao.QueryByStream(ctx, streamUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// UpdateInvite 更新邀请
func (r *InviteRepositoryImpl) UpdateInvite(ctx context.Context, invite *entity.InviteEntity) error {
	return r.dao.Update(ctx, r.convertor.ToPO(invite))
}

// DeleteInvite 删除邀请
func (r *InviteRepositoryImpl) DeleteInvite(ctx context.Context, inviteUUID string) error {
	return r.dao.Delete(ctx, inviteUUID)
}
