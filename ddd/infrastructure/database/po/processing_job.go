package po

import "time"

// ProcessingJob 处理作业持久化对象
type ProcessingJob struct {
	BaseModel
	JobUUID        string     `gorm:"column:job_uuid;type:varchar(36);uniqueIndex" json:"job_uuid"`
	VideoUUID      string     `gorm:"column:video_uuid;type:varchar(36);index" json:"video_uuid"`
	Status         string     `gorm:"column:status;type:varchar(20);index" json:"status"` // pending, leased, succeeded, failed, abandoned
	Attempts       int        `gorm:"column:attempts;default:0" json:"attempts"`
	MaxAttempts    int        `gorm:"column:max_attempts" json:"max_attempts"`
	WorkerID       string     `gorm:"column:worker_id;type:varchar(128)" json:"worker_id"`
	LeaseExpiresAt *time.Time `gorm:"column:lease_expires_at;index" json:"lease_expires_at"`
	NotBefore      *time.Time `gorm:"column:not_before;index" json:"not_before"`
	LastError      string     `gorm:"column:last_error;type:varchar(512)" json:"last_error"`
	EnqueuedAt     time.Time  `gorm:"column:enqueued_at;index" json:"enqueued_at"`
	StartedAt      *time.Time `gorm:"column:started_at" json:"started_at"`
	FinishedAt     *time.Time `gorm:"column:finished_at" json:"finished_at"`
}

// TableName 指定表名
func (ProcessingJob) TableName() string {
	return "processing_jobs"
}
