package po

// Stream 流持久化对象
type Stream struct {
	BaseModel
	StreamUUID  string `gorm:"column:stream_uuid;type:varchar(36);uniqueIndex" json:"stream_uuid"`
	OwnerUUID   string `gorm:"column:owner_uuid;type:varchar(36);index" json:"owner_uuid"`
	Title       string `gorm:"column:title;type:varchar(255)" json:"title"`
	Description string `gorm:"column:description;type:text" json:"description"`
}

// TableName 指定表名
func (Stream) TableName() string {
	return "streams"
}
