package repo

import (
	"context"

	"clipstream-service/ddd/domain/entity"
)

// StreamRepository 流仓储接口
type StreamRepository interface {
	// CreateStream 创建流
	CreateStream(ctx context.Context, stream *entity.StreamEntity) error

	// GetStreamByUUID 根据UUID获取流
	GetStreamByUUID(ctx context.Context, streamUUID string) (*entity.StreamEntity, error)

	// GetStreamsByOwner 获取用户拥有的流列表
	GetStreamsByOwner(ctx context.Context, ownerUUID string, limit, offset int) ([]*entity.StreamEntity, error)

	// ListStreams 分页获取全部流
	ListStreams(ctx context.Context, limit, offset int) ([]*entity.StreamEntity, error)

	// UpdateStream 更新流
	UpdateStream(ctx context.Context, stream *entity.StreamEntity) error

	// DeleteStream 删除流
	DeleteStream(ctx context.Context, streamUUID string) error
}
