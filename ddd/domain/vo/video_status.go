package vo

// VideoStatus 视频处理状态
type VideoStatus string

const (
	// VideoStatusUploading 上传中
	VideoStatusUploading VideoStatus = "uploading"
	// VideoStatusQueued 已入队等待处理
	VideoStatusQueued VideoStatus = "queued"
	// VideoStatusProcessing 流水线处理中
	VideoStatusProcessing VideoStatus = "processing"
	// VideoStatusReady 处理完成可播放
	VideoStatusReady VideoStatus = "ready"
	// VideoStatusFailed 处理失败
	VideoStatusFailed VideoStatus = "failed"
	// VideoStatusDuplicate 与已有视频重复，处理被短路
	VideoStatusDuplicate VideoStatus = "duplicate"
)

// IsValid 检查状态是否有效
func (s VideoStatus) IsValid() bool {
	switch s {
	case VideoStatusUploading, VideoStatusQueued, VideoStatusProcessing,
		VideoStatusReady, VideoStatusFailed, VideoStatusDuplicate:
		return true
	default:
		return false
	}
}

// String 返回状态字符串
func (s VideoStatus) String() string {
	return string(s)
}

// IsTerminal 检查是否为最终状态
func (s VideoStatus) IsTerminal() bool {
	return s == VideoStatusReady || s == VideoStatusDuplicate
}

// CanTransitionTo 检查是否可以转换到目标状态
func (s VideoStatus) CanTransitionTo(target VideoStatus) bool {
	switch s {
	case VideoStatusUploading:
		return target == VideoStatusQueued
	case VideoStatusQueued:
		return target == VideoStatusProcessing
	case VideoStatusProcessing:
		return target == VideoStatusReady || target == VideoStatusFailed || target == VideoStatusDuplicate
	case VideoStatusFailed:
		// 失败后允许管理员重试，重新入队
		return target == VideoStatusQueued
	case VideoStatusDuplicate:
		// 管理员撤销误判后重新入队
		return target == VideoStatusQueued
	case VideoStatusReady:
		return false // 最终状态不能转换
	default:
		return false
	}
}
