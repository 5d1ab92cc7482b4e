package entity

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// ShareLinkEntity 视频分享链接实体
type ShareLinkEntity struct {
	id        uint64
	linkUUID  string
	videoUUID string
	token     string
	expiresAt *time.Time
	createdBy string
	createdAt time.Time
}

// NewShareLinkEntity 创建新的分享链接
func NewShareLinkEntity(videoUUID, createdBy string, ttl time.Duration) *ShareLinkEntity {
	now := time.Now()
	var expiresAt *time.Time
	if ttl > 0 {
		t := now.Add(ttl)
		expiresAt = &t
	}
	return &ShareLinkEntity{
		linkUUID:  uuid.New().String(),
		videoUUID: videoUUID,
		token:     generateShareToken(),
		expiresAt: expiresAt,
		createdBy: createdBy,
		createdAt: now,
	}
}

// RehydrateShareLinkEntity 从持久化字段重建实体
func RehydrateShareLinkEntity(id uint64, linkUUID, videoUUID, token string, expiresAt *time.Time, createdBy string, createdAt time.Time) *ShareLinkEntity {
	return &ShareLinkEntity{
		id:        id,
		linkUUID:  linkUUID,
		videoUUID: videoUUID,
		token:     token,
		expiresAt: expiresAt,
		createdBy: createdBy,
		createdAt: createdAt,
	}
}

func (l *ShareLinkEntity) ID() uint64            { return l.id }
func (l *ShareLinkEntity) LinkUUID() string      { return l.linkUUID }
func (l *ShareLinkEntity) VideoUUID() string     { return l.videoUUID }
func (l *ShareLinkEntity) Token() string         { return l.token }
func (l *ShareLinkEntity) ExpiresAt() *time.Time { return l.expiresAt }
func (l *ShareLinkEntity) CreatedBy() string     { return l.createdBy }
func (l *ShareLinkEntity) CreatedAt() time.Time  { return l.createdAt }

// IsExpired 链接是否已过期
func (l *ShareLinkEntity) IsExpired(now time.Time) bool {
	return l.expiresAt != nil && now.After(*l.expiresAt)
}

func generateShareToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(buf)
}
