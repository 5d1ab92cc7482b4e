package gateway

import "context"

// ProcessingResultReporter 处理结果通知网关，向下游广播流水线结局
type ProcessingResultReporter interface {
	// ReportReady 通知视频处理完成
	ReportReady(ctx context.Context, videoUUID, streamUUID string) error

	// ReportDuplicate 通知视频被判定为重复
	ReportDuplicate(ctx context.Context, videoUUID, originalUUID string) error

	// ReportFailed 通知视频处理失败
	ReportFailed(ctx context.Context, videoUUID, reason string) error
}
