package cqe

import "clipstream-service/pkg/errno"

// 重复判定修正动作
const (
	OverrideActionConfirm   = "confirm"    // 确认判定
	OverrideActionUnflag    = "unflag"     // 撤销误判，从头重跑
	OverrideActionMergeInto = "merge-into" // 修正指向的原片
)

// RetryProcessingReq 重试失败视频请求
type RetryProcessingReq struct {
	VideoUUID string `json:"video_uuid" binding:"required"`
	FromStart bool   `json:"from_start"` // true从头重跑，false从断点续跑
}

func (req *RetryProcessingReq) Validate() error {
	if req.VideoUUID == "" {
		return errno.ErrVideoUUIDRequired
	}
	return nil
}

// OverrideDuplicateReq 重复判定修正请求
type OverrideDuplicateReq struct {
	VideoUUID    string `uri:"video_uuid" binding:"required"`
	Action       string `json:"action" binding:"required"`
	OriginalUUID string `json:"original_uuid"` // merge-into时指定新的原片
}

func (req *OverrideDuplicateReq) Validate() error {
	if req.VideoUUID == "" {
		return errno.ErrVideoUUIDRequired
	}
	switch req.Action {
	case OverrideActionConfirm, OverrideActionUnflag:
		return nil
	case OverrideActionMergeInto:
		if req.OriginalUUID == "" {
			return errno.ErrInvalidOverride
		}
		return nil
	default:
		return errno.ErrInvalidOverride
	}
}
