package gateway

import (
	"context"

	"clipstream-service/ddd/domain/vo"
)

// InferenceGateway 推理服务网关（语音转写 + 内容向量抽取）
type InferenceGateway interface {
	// Transcribe 对媒体文件做语音转写，mediaURL为限时可访问的下载链接
	Transcribe(ctx context.Context, mediaURL string) (vo.Transcript, error)

	// EmbedVideo 抽取内容向量，维度由服务端配置决定
	EmbedVideo(ctx context.Context, mediaURL string, transcriptText string) (vo.Vector, error)
}
