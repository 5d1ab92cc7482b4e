package cqe

import "clipstream-service/pkg/errno"

// RegisterUploadReq 登记上传请求，返回限时上传链接
type RegisterUploadReq struct {
	StreamUUID  string `json:"stream_uuid" binding:"required"` // 所属流UUID
	UserUUID    string `header:"X-User-UUID"`                  // 上传者UUID
	Title       string `json:"title" binding:"required"`       // 视频标题
	Description string `json:"description"`                    // 视频描述
}

func (req *RegisterUploadReq) Validate() error {
	if req.StreamUUID == "" {
		return errno.ErrStreamUUIDRequired
	}
	if req.Title == "" {
		return errno.ErrTitleRequired
	}
	return nil
}

// CompleteUploadReq 上传完成通知
type CompleteUploadReq struct {
	VideoUUID string `uri:"video_uuid" binding:"required"`
}

func (req *CompleteUploadReq) Validate() error {
	if req.VideoUUID == "" {
		return errno.ErrVideoUUIDRequired
	}
	return nil
}

// GetVideoReq 查询视频请求
type GetVideoReq struct {
	VideoUUID string `uri:"video_uuid" binding:"required"`
}

func (req *GetVideoReq) Validate() error {
	if req.VideoUUID == "" {
		return errno.ErrVideoUUIDRequired
	}
	return nil
}

// DeleteVideoReq 删除视频请求
type DeleteVideoReq struct {
	VideoUUID string `uri:"video_uuid" binding:"required"`
}

func (req *DeleteVideoReq) Validate() error {
	if req.VideoUUID == "" {
		return errno.ErrVideoUUIDRequired
	}
	return nil
}

// ListStreamVideosReq 查询流下视频列表请求
type ListStreamVideosReq struct {
	StreamUUID string `uri:"stream_uuid" binding:"required"`
	Page       int    `form:"page"`
	Size       int    `form:"size"`
}

func (req *ListStreamVideosReq) Validate() error {
	if req.StreamUUID == "" {
		return errno.ErrStreamUUIDRequired
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Size <= 0 || req.Size > 100 {
		req.Size = 20
	}
	return nil
}

// LikeVideoReq 点赞请求
type LikeVideoReq struct {
	VideoUUID string `uri:"video_uuid" binding:"required"`
}

func (req *LikeVideoReq) Validate() error {
	if req.VideoUUID == "" {
		return errno.ErrVideoUUIDRequired
	}
	return nil
}

// CreateShareLinkReq 创建分享链接请求
type CreateShareLinkReq struct {
	VideoUUID string `uri:"video_uuid" binding:"required"`
	UserUUID  string `header:"X-User-UUID"`
	TTLHours  int    `json:"ttl_hours"` // 有效期（小时），默认72
}

func (req *CreateShareLinkReq) Validate() error {
	if req.VideoUUID == "" {
		return errno.ErrVideoUUIDRequired
	}
	if req.TTLHours <= 0 {
		req.TTLHours = 72
	}
	return nil
}

// ResolveShareLinkReq 解析分享令牌请求
type ResolveShareLinkReq struct {
	Token string `uri:"token" binding:"required"`
}

func (req *ResolveShareLinkReq) Validate() error {
	if req.Token == "" {
		return errno.ErrShareLinkNotFound
	}
	return nil
}
