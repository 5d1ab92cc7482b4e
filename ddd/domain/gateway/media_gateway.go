package gateway

import "context"

// MediaGateway 本地媒体处理网关（转码、剪辑）
type MediaGateway interface {
	// Transcode 转码归一化，返回视频时长（秒）
	Transcode(ctx context.Context, inputPath, outputPath string) (float64, error)

	// Probe 获取视频时长（秒），用于校验媒体有效性
	Probe(ctx context.Context, inputPath string) (float64, error)

	// ExtractClip 截取片段
	ExtractClip(ctx context.Context, inputPath, outputPath string, startSeconds, endSeconds float64) error
}
