package gateway

import (
	"context"
	"time"
)

// StorageGateway 存储网关
type StorageGateway interface {
	// FetchToFile 下载对象到本地文件
	FetchToFile(ctx context.Context, objectKey, localPath string) error

	// UploadFromFile 上传本地文件，返回对象键
	UploadFromFile(ctx context.Context, localPath, objectKey, contentType string) (string, error)

	// PresignGetURL 生成限时下载链接
	PresignGetURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)

	// PresignPutURL 生成限时上传链接
	PresignPutURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error)

	// RemoveObject 删除对象
	RemoveObject(ctx context.Context, objectKey string) error

	// ObjectExists 检查对象是否存在
	ObjectExists(ctx context.Context, objectKey string) (bool, error)
}
