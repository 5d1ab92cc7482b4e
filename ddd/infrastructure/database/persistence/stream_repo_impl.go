package persistence

import (
	"context"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/infrastructure/database/convertor"
	"clipstream-service/ddd/infrastructure/database/dao"
)

// StreamRepositoryImpl 流仓储实现
type StreamRepositoryImpl struct {
	dao       *dao.StreamDAO
	convertor *convertor.StreamConvertor
}

// NewStreamRepository 创建流仓储实例
func NewStreamRepository() repo.StreamRepository {
	return &StreamRepositoryImpl{
		dao:       dao.NewStreamDAO(),
		convertor: convertor.NewStreamConvertor(),
	}
}

// CreateStream 创建流
func (r *StreamRepositoryImpl) CreateStream(ctx context.Context, stream *entity.StreamEntity) error {
	return r.dao.Create(ctx, r.convertor.ToPO(stream))
}

// GetStreamByUUID 根据UUID获取流
func (r *StreamRepositoryImpl) GetStreamByUUID(ctx context.Context, streamUUID string) (*entity.StreamEntity, error) {
	streamPo, err := r.dao.FindByUUID(ctx, streamUUID)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntity(streamPo), nil
}

// GetStreamsByOwner 获取用户拥有的流列表
func (r *StreamRepositoryImpl) GetStreamsByOwner(ctx context.Context, ownerUUID string, limit, offset int) ([]*entity.StreamEntity, error) {
	pos, err := r.dao.QueryByOwner(ctx, ownerUUID, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// ListStreams 分页获取全部流
func (r *StreamRepositoryImpl) ListStreams(ctx context.Context, limit, offset int) ([]*entity.StreamEntity, error) {
	pos, err := r.dao.QueryAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.convertor.ToEntities(pos), nil
}

// UpdateStream 更新流
func (r *StreamRepositoryImpl) UpdateStream(ctx context.Context, stream *entity.StreamEntity) error {
	return r.dao.Update(ctx, r.convertor.ToPO(stream))
}

// DeleteStream 删除流
func (r *StreamRepositoryImpl) DeleteStream(ctx context.Context, streamUUID string) error {
	return r.dao.Delete(ctx, streamUUID)
}
