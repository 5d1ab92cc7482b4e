package entity

import (
	"time"

	"github.com/google/uuid"
)

// StreamEntity 直播/活动流实体，视频的归属容器
type StreamEntity struct {
	id          uint64
	streamUUID  string
	ownerUUID   string
	title       string
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

// NewStreamEntity 创建新的流实体
func NewStreamEntity(ownerUUID, title, description string) *StreamEntity {
	now := time.Now()
	return &StreamEntity{
		streamUUID:  uuid.New().String(),
		ownerUUID:   ownerUUID,
		title:       title,
		description: description,
		createdAt:   now,
		updatedAt:   now,
	}
}

// RehydrateStreamEntity 从持久化字段重建实体
func RehydrateStreamEntity(id uint64, streamUUID, ownerUUID, title, description string, createdAt, updatedAt time.Time) *StreamEntity {
	return &StreamEntity{
		id:          id,
		streamUUID:  streamUUID,
		ownerUUID:   ownerUUID,
		title:       title,
		description: description,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (s *StreamEntity) ID() uint64           { return s.id }
func (s *StreamEntity) StreamUUID() string   { return s.streamUUID }
func (s *StreamEntity) OwnerUUID() string    { return s.ownerUUID }
func (s *StreamEntity) Title() string        { return s.title }
func (s *StreamEntity) Description() string  { return s.description }
func (s *StreamEntity) CreatedAt() time.Time { return s.createdAt }
func (s *StreamEntity) UpdatedAt() time.Time { return s.updatedAt }

// Update 修改流的基础信息
func (s *StreamEntity) Update(title, description string) error {
	if title == "" {
		return NewDomainError("stream title is required")
	}
	s.title = title
	s.description = description
	s.updatedAt = time.Now()
	return nil
}

// IsOwnedBy 检查归属
func (s *StreamEntity) IsOwnedBy(userUUID string) bool {
	return s.ownerUUID == userUUID
}
