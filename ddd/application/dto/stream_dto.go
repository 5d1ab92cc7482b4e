package dto

import (
	"time"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/repo"
)

// StreamDto 流数据传输对象
type StreamDto struct {
	StreamUUID  string    `json:"stream_uuid"`
	OwnerUUID   string    `json:"owner_uuid"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewStreamDto 从实体创建DTO
func NewStreamDto(s *entity.StreamEntity) *StreamDto {
	if s == nil {
		return nil
	}
	return &StreamDto{
		StreamUUID:  s.StreamUUID(),
		OwnerUUID:   s.OwnerUUID(),
		Title:       s.Title(),
		Description: s.Description(),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}
}

// InviteDto 邀请数据传输对象
type InviteDto struct {
	InviteUUID string     `json:"invite_uuid"`
	StreamUUID string     `json:"stream_uuid"`
	Code       string     `json:"code"`
	Role       string     `json:"role"`
	MaxUses    int        `json:"max_uses"`
	UseCount   int        `json:"use_count"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewInviteDto 从实体创建DTO
func NewInviteDto(i *entity.InviteEntity) *InviteDto {
	if i == nil {
		return nil
	}
	return &InviteDto{
		InviteUUID: i.InviteUUID(),
		StreamUUID: i.StreamUUID(),
		Code:       i.Code(),
		Role:       i.Role(),
		MaxUses:    i.MaxUses(),
		UseCount:   i.UseCount(),
		ExpiresAt:  i.ExpiresAt(),
		CreatedAt:  i.CreatedAt(),
	}
}

// RedeemResultDto 邀请兑换结果
type RedeemResultDto struct {
	StreamUUID string `json:"stream_uuid"`
	Role       string `json:"role"`
}

// StreamStorageStatsDto 流的存储统计
type StreamStorageStatsDto struct {
	StreamUUID     string  `json:"stream_uuid"`
	VideoCount     int64   `json:"video_count"`
	ReadyCount     int64   `json:"ready_count"`
	DuplicateCount int64   `json:"duplicate_count"`
	FailedCount    int64   `json:"failed_count"`
	TotalDurationS float64 `json:"total_duration_seconds"`
}

// NewStreamStorageStatsDto 从仓储统计行创建DTO
func NewStreamStorageStatsDto(s repo.StreamStorageStats) *StreamStorageStatsDto {
	return &StreamStorageStatsDto{
		StreamUUID:     s.StreamUUID,
		VideoCount:     s.VideoCount,
		ReadyCount:     s.ReadyCount,
		DuplicateCount: s.DuplicateCount,
		FailedCount:    s.FailedCount,
		TotalDurationS: s.TotalDurationS,
	}
}
