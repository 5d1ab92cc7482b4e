package po

import "time"

// Video 视频持久化对象。转写、向量、剪辑产物以JSON文本存储。
type Video struct {
	BaseModel
	VideoUUID       string    `gorm:"column:video_uuid;type:varchar(36);uniqueIndex" json:"video_uuid"`
	StreamUUID      string    `gorm:"column:stream_uuid;type:varchar(36);index" json:"stream_uuid"`
	UserUUID        string    `gorm:"column:user_uuid;type:varchar(36);index" json:"user_uuid"`
	Title           string    `gorm:"column:title;type:varchar(255)" json:"title"`
	Description     string    `gorm:"column:description;type:text" json:"description"`
	StorageKey      string    `gorm:"column:storage_key;type:varchar(512)" json:"storage_key"`
	PlaybackKey     string    `gorm:"column:playback_key;type:varchar(512)" json:"playback_key"`
	DurationSeconds float64   `gorm:"column:duration_seconds" json:"duration_seconds"`
	Status          string    `gorm:"column:status;type:varchar(20);index" json:"status"` // uploading, queued, processing, ready, failed, duplicate
	ProcessingIndex int       `gorm:"column:processing_index;default:-1" json:"processing_index"`
	DuplicateOf     string    `gorm:"column:duplicate_of;type:varchar(36);index" json:"duplicate_of"`
	PovGroupID      string    `gorm:"column:pov_group_id;type:varchar(64);index" json:"pov_group_id"`
	Transcript      string    `gorm:"column:transcript;type:mediumtext" json:"transcript"`
	Embedding       string    `gorm:"column:embedding;type:mediumtext" json:"embedding"`
	Clips           string    `gorm:"column:clips;type:text" json:"clips"`
	LikeCount       int64     `gorm:"column:like_count;default:0" json:"like_count"`
	ShareCount      int64     `gorm:"column:share_count;default:0" json:"share_count"`
	FailureReason   string    `gorm:"column:failure_reason;type:varchar(512)" json:"failure_reason"`
	UploadedAt      time.Time `gorm:"column:uploaded_at;index" json:"uploaded_at"`
}

// TableName 指定表名
func (Video) TableName() string {
	return "videos"
}
