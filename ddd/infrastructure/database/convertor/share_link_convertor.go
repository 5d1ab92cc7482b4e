package convertor

import (
	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/infrastructure/database/po"
)

// ShareLinkConvertor 分享链接转换器
type ShareLinkConvertor struct{}

// NewShareLinkConvertor 创建分享链接转换器
func NewShareLinkConvertor() *ShareLinkConvertor {
	return &ShareLinkConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *ShareLinkConvertor) ToEntity(linkPo *po.ShareLink) *entity.ShareLinkEntity {
	return entity.RehydrateShareLinkEntity(
		linkPo.Id,
		linkPo.LinkUUID,
		linkPo.VideoUUID,
		linkPo.Token,
		linkPo.ExpiresAt,
		linkPo.CreatedBy,
		linkPo.CreatedAt,
	)
}

// ToPO 将Entity转换为PO
func (c *ShareLinkConvertor) ToPO(linkEntity *entity.ShareLinkEntity) *po.ShareLink {
	return &po.ShareLink{
		BaseModel: po.BaseModel{
			Id:        linkEntity.ID(),
			CreatedAt: linkEntity.CreatedAt(),
		},
		LinkUUID:  linkEntity.LinkUUID(),
		VideoUUID: linkEntity.VideoUUID(),
		Token:     linkEntity.Token(),
		ExpiresAt: linkEntity.ExpiresAt(),
		CreatedBy: linkEntity.CreatedBy(),
	}
}

// ToEntities 批量将PO转换为Entity
func (c *ShareLinkConvertor) ToEntities(pos []*po.ShareLink) []*entity.ShareLinkEntity {
	if pos == nil {
		return nil
	}
	entities := make([]*entity.ShareLinkEntity, 0, len(pos))
	for _, p := range pos {
		entities = append(entities, c.ToEntity(p))
	}
	return entities
}
