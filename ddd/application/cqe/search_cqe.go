package cqe

import "clipstream-service/pkg/errno"

// SearchVideosReq 关键词搜索请求
type SearchVideosReq struct {
	Query string `form:"q" binding:"required"`
	Limit int    `form:"limit"`
}

func (req *SearchVideosReq) Validate() error {
	if req.Query == "" {
		return errno.ErrQueryRequired
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	return nil
}

// SuggestReq 搜索联想请求
type SuggestReq struct {
	Prefix string `form:"q" binding:"required"`
}

func (req *SuggestReq) Validate() error {
	if req.Prefix == "" {
		return errno.ErrQueryRequired
	}
	return nil
}

// SimilarVideosReq 相似视频查询请求
type SimilarVideosReq struct {
	VideoUUID string `uri:"video_uuid" binding:"required"`
	Limit     int    `form:"limit"`
}

func (req *SimilarVideosReq) Validate() error {
	if req.VideoUUID == "" {
		return errno.ErrVideoUUIDRequired
	}
	if req.Limit <= 0 || req.Limit > 50 {
		req.Limit = 10
	}
	return nil
}

// PovGroupReq 多视角分组查询请求
type PovGroupReq struct {
	VideoUUID string `uri:"video_uuid" binding:"required"`
}

func (req *PovGroupReq) Validate() error {
	if req.VideoUUID == "" {
		return errno.ErrVideoUUIDRequired
	}
	return nil
}
