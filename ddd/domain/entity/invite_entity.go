package entity

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InviteEntity 流协作邀请实体
type InviteEntity struct {
	id         uint64
	inviteUUID string
	streamUUID string
	code       string
	role       string // viewer / contributor / admin
	maxUses    int    // 0表示不限次数
	useCount   int
	expiresAt  *time.Time
	createdBy  string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewInviteEntity 创建新的邀请实体
func NewInviteEntity(streamUUID, createdBy, role string, maxUses int, ttl time.Duration) (*InviteEntity, error) {
	if !isValidInviteRole(role) {
		return nil, NewDomainError("invalid invite role: " + role)
	}
	if maxUses < 0 {
		return nil, NewDomainError("invite max_uses cannot be negative")
	}
	now := time.Now()
	var expiresAt *time.Time
	if ttl > 0 {
		t := now.Add(ttl)
		expiresAt = &t
	}
	return &InviteEntity{
		inviteUUID: uuid.New().String(),
		streamUUID: streamUUID,
		code:       generateInviteCode(),
		role:       role,
		maxUses:    maxUses,
		expiresAt:  expiresAt,
		createdBy:  createdBy,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// RehydrateInviteEntity 从持久化字段重建实体
func RehydrateInviteEntity(id uint64, inviteUUID, streamUUID, code, role string, maxUses, useCount int, expiresAt *time.Time, createdBy string, createdAt, updatedAt time.Time) *InviteEntity {
	return &InviteEntity{
		id:         id,
		inviteUUID: inviteUUID,
		streamUUID: streamUUID,
		code:       code,
		role:       role,
		maxUses:    maxUses,
		useCount:   useCount,
		expiresAt:  expiresAt,
		createdBy:  createdBy,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (i *InviteEntity) ID() uint64            { return i.id }
func (i *InviteEntity) InviteUUID() string    { return i.inviteUUID }
func (i *InviteEntity) StreamUUID() string    { return i.streamUUID }
func (i *InviteEntity) Code() string          { return i.code }
func (i *InviteEntity) Role() string          { return i.role }
func (i *InviteEntity) MaxUses() int          { return i.maxUses }
func (i *InviteEntity) UseCount() int         { return i.useCount }
func (i *InviteEntity) ExpiresAt() *time.Time { return i.expiresAt }
func (i *InviteEntity) CreatedBy() string     { return i.createdBy }
func (i *InviteEntity) CreatedAt() time.Time  { return i.createdAt }
func (i *InviteEntity) UpdatedAt() time.Time  { return i.updatedAt }

// IsExpired 邀请是否已过期
func (i *InviteEntity) IsExpired(now time.Time) bool {
	return i.expiresAt != nil && now.After(*i.expiresAt)
}

// IsExhausted 使用次数是否已耗尽
func (i *InviteEntity) IsExhausted() bool {
	return i.maxUses > 0 && i.useCount >= i.maxUses
}

// Redeem 使用邀请
func (i *InviteEntity) Redeem(now time.Time) error {
	if i.IsExpired(now) {
		return NewDomainError("invite has expired")
	}
	if i.IsExhausted() {
		return NewDomainError("invite uses exhausted")
	}
	i.useCount++
	i.updatedAt = now
	return nil
}

func isValidInviteRole(role string) bool {
	switch role {
	case "viewer", "contributor", "admin":
		return true
	default:
		return false
	}
}

// generateInviteCode 生成10位邀请码
func generateInviteCode() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return strings.ToUpper(uuid.New().String()[:10])
	}
	code := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	if len(code) > 10 {
		code = code[:10]
	}
	return code
}
