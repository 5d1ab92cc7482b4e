package convertor

import (
	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/infrastructure/database/po"
)

// InviteConvertor 邀请转换器
type InviteConvertor struct{}

// NewInviteConvertor 创建邀请转换器
func NewInviteConvertor() *InviteConvertor {
	return &InviteConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *InviteConvertor) ToEntity(invitePo *po.Invite) *entity.InviteEntity {
	return entity.RehydrateInviteEntity(
		invitePo.Id,
		invitePo.InviteUUID,
		invitePo.StreamUUID,
		invitePo.Code,
		invitePo.Role,
		invitePo.MaxUses,
		invitePo.UseCount,
		invitePo.ExpiresAt,
		invitePo.CreatedBy,
		invitePo.CreatedAt,
		invitePo.UpdatedAt,
	)
}

// ToPO 将Entity转换为PO
func (c *InviteConvertor) ToPO(inviteEntity *entity.InviteEntity) *po.Invite {
	return &po.Invite{
		BaseModel: po.BaseModel{
			Id:        inviteEntity.ID(),
			CreatedAt: inviteEntity.CreatedAt(),
			UpdatedAt: inviteEntity.UpdatedAt(),
		},
		InviteUUID: inviteEntity.InviteUUID(),
		StreamUUID: inviteEntity.StreamUUID(),
		Code:       inviteEntity.Code(),
		Role:       inviteEntity.Role(),
		MaxUses:    inviteEntity.MaxUses(),
		UseCount:   inviteEntity.UseCount(),
		ExpiresAt:  inviteEntity.ExpiresAt(),
		CreatedBy:  inviteEntity.CreatedBy(),
	}
}

// ToEntities 批量将PO转换为Entity
func (c *InviteConvertor) ToEntities(pos []*po.Invite) []*entity.InviteEntity {
	if pos == nil {
		return nil
	}
	entities := make([]*entity.InviteEntity, 0, len(pos))
	for _, p := range pos {
		entities = append(entities, c.ToEntity(p))
	}
	return entities
}
