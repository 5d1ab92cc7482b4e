package cqe

import "clipstream-service/pkg/errno"

// CreateStreamReq 创建流请求
type CreateStreamReq struct {
	OwnerUUID   string `header:"X-User-UUID"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (req *CreateStreamReq) Validate() error {
	if req.Title == "" {
		return errno.ErrTitleRequired
	}
	return nil
}

// UpdateStreamReq 更新流请求
type UpdateStreamReq struct {
	StreamUUID  string `uri:"stream_uuid" binding:"required"`
	UserUUID    string `header:"X-User-UUID"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (req *UpdateStreamReq) Validate() error {
	if req.StreamUUID == "" {
		return errno.ErrStreamUUIDRequired
	}
	if req.Title == "" {
		return errno.ErrTitleRequired
	}
	return nil
}

// ListStreamsReq 流列表请求
type ListStreamsReq struct {
	OwnerUUID string `form:"owner_uuid"`
	Page      int    `form:"page"`
	Size      int    `form:"size"`
}

func (req *ListStreamsReq) Validate() error {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 || req.Size > 100 {
		req.Size = 20
	}
	return nil
}

// CreateInviteReq 创建邀请请求
type CreateInviteReq struct {
	StreamUUID string `uri:"stream_uuid" binding:"required"`
	UserUUID   string `header:"X-User-UUID"`
	Role       string `json:"role" binding:"required"` // viewer/contributor/admin
	MaxUses    int    `json:"max_uses"`                // 0表示不限次数
	TTLHours   int    `json:"ttl_hours"`               // 有效期（小时），默认168
}

func (req *CreateInviteReq) Validate() error {
	if req.StreamUUID == "" {
		return errno.ErrStreamUUIDRequired
	}
	if req.Role == "" {
		return errno.ErrMissingParam
	}
	if req.TTLHours <= 0 {
		req.TTLHours = 168
	}
	return nil
}

// RedeemInviteReq 兑换邀请码请求
type RedeemInviteReq struct {
	Code     string `uri:"code" binding:"required"`
	UserUUID string `header:"X-User-UUID"`
}

func (req *RedeemInviteReq) Validate() error {
	if req.Code == "" {
		return errno.ErrInviteNotFound
	}
	return nil
}
