package po

import "time"

// ShareLink 分享链接持久化对象
type ShareLink struct {
	BaseModel
	LinkUUID  string     `gorm:"column:link_uuid;type:varchar(36);uniqueIndex" json:"link_uuid"`
	VideoUUID string     `gorm:"column:video_uuid;type:varchar(36);index" json:"video_uuid"`
	Token     string     `gorm:"column:token;type:varchar(64);uniqueIndex" json:"token"`
	ExpiresAt *time.Time `gorm:"column:expires_at" json:"expires_at"`
	CreatedBy string     `gorm:"column:created_by;type:varchar(36)" json:"created_by"`
}

// TableName 指定表名
func (ShareLink) TableName() string {
	return "share_links"
}
