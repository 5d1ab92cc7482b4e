package convertor

import (
	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/infrastructure/database/po"
)

// StreamConvertor 流转换器
type StreamConvertor struct{}

// NewStreamConvertor 创建流转换器
func NewStreamConvertor() *StreamConvertor {
	return &StreamConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *StreamConvertor) ToEntity(streamPo *po.Stream) *entity.StreamEntity {
	return entity.RehydrateStreamEntity(
		streamPo.Id,
		streamPo.StreamUUID,
		streamPo.OwnerUUID,
		streamPo.Title,
		streamPo.Description,
		streamPo.CreatedAt,
		streamPo.UpdatedAt,
	)
}

// ToPO 将Entity转换为PO
func (c *StreamConvertor) ToPO(streamEntity *entity.StreamEntity) *po.Stream {
	return &po.Stream{
		BaseModel: po.BaseModel{
			Id:        streamEntity.ID(),
			CreatedAt: streamEntity.CreatedAt(),
			UpdatedAt: streamEntity.UpdatedAt(),
		},
		StreamUUID:  streamEntity.StreamUUID(),
		OwnerUUID:   streamEntity.OwnerUUID(),
		Title:       streamEntity.Title(),
		Description: streamEntity.Description(),
	}
}

// ToEntities 批量将PO转换为Entity
func (c *StreamConvertor) ToEntities(pos []*po.Stream) []*entity.StreamEntity {
	if pos == nil {
		return nil
	}
	entities := make([]*entity.StreamEntity, 0, len(pos))
	for _, p := range pos {
		entities = append(entities, c.ToEntity(p))
	}
	return entities
}
