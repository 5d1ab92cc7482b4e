package po

import "time"

// Invite 邀请持久化对象
type Invite struct {
	BaseModel
	InviteUUID string     `gorm:"column:invite_uuid;type:varchar(36);uniqueIndex" json:"invite_uuid"`
	StreamUUID string     `gorm:"column:stream_uuid;type:varchar(36);index" json:"stream_uuid"`
	Code       string     `gorm:"column:code;type:varchar(16);uniqueIndex" json:"code"`
	Role       string     `gorm:"column:role;type:varchar(20)" json:"role"` // viewer, contributor, admin
	MaxUses    int        `gorm:"column:max_uses;default:0" json:"max_uses"`
	UseCount   int        `gorm:"column:use_count;default:0" json:"use_count"`
	ExpiresAt  *time.Time `gorm:"column:expires_at" json:"expires_at"`
	CreatedBy  string     `gorm:"column:created_by;type:varchar(36)" json:"created_by"`
}

// TableName 指定表名
func (Invite) TableName() string {
	return "invites"
}
