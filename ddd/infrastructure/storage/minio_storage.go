package storage

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"clipstream-service/ddd/domain/gateway"
	"clipstream-service/internal/resource"
	"clipstream-service/pkg/logger"
)

// MinioStorage MinIO存储实现
type MinioStorage struct {
	minioResource *resource.MinioResource
}

// NewMinioStorage 创建MinIO存储实例
func NewMinioStorage(minioResource *resource.MinioResource) gateway.StorageGateway {
	return &MinioStorage{
		minioResource: minioResource,
	}
}

// FetchToFile 下载对象到本地文件
func (s *MinioStorage) FetchToFile(ctx context.Context, objectKey, localPath string) error {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	if err := os.MkdirAll(filepath.Dir(localPath), 0o755); err != nil {
		return fmt.Errorf("create local dir failed: %w", err)
	}

	if err := client.FGetObject(ctx, bucketName, objectKey, localPath, minio.GetObjectOptions{}); err != nil {
		logger.Error("Failed to fetch object from MinIO", map[string]interface{}{
			"object_key": objectKey,
			"local_path": localPath,
			"error":      err.Error(),
		})
		return fmt.Errorf("fetch object from minio failed: %w", err)
	}
	return nil
}

// UploadFromFile 上传本地文件，返回对象键
func (s *MinioStorage) UploadFromFile(ctx context.Context, localPath, objectKey, contentType string) (string, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	file, err := os.Open(localPath)
	if err != nil {
		logger.Error("Failed to open local file", map[string]interface{}{
			"local_path": localPath,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("open local file failed: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("get file info failed: %w", err)
	}

	if contentType == "" {
		contentType = getContentTypeFromExtension(objectKey)
	}

	_, err = client.PutObject(ctx, bucketName, objectKey, file, fileInfo.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		logger.Error("Failed to upload file to MinIO", map[string]interface{}{
			"local_path": localPath,
			"object_key": objectKey,
			"error":      err.Error(),
		})
		return "", fmt.Errorf("upload file to minio failed: %w", err)
	}

	logger.Info("File uploaded successfully", map[string]interface{}{
		"local_path": localPath,
		"object_key": objectKey,
		"size":       fileInfo.Size(),
	})

	return objectKey, nil
}

// PresignGetURL 生成限时下载链接
func (s *MinioStorage) PresignGetURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	u, err := client.PresignedGetObject(ctx, bucketName, objectKey, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign get url failed: %w", err)
	}
	return u.String(), nil
}

// PresignPutURL 生成限时上传链接
func (s *MinioStorage) PresignPutURL(ctx context.Context, objectKey string, expiry time.Duration) (string, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()

	u, err := client.PresignedPutObject(ctx, bucketName, objectKey, expiry)
	if err != nil {
		return "", fmt.Errorf("presign put url failed: %w", err)
	}
	return u.String(), nil
}

// RemoveObject 删除对象
func (s *MinioStorage) RemoveObject(ctx context.Context, objectKey string) error {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()
	if err := client.RemoveObject(ctx, bucketName, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object from minio failed: %w", err)
	}
	return nil
}

// ObjectExists 检查对象是否存在
func (s *MinioStorage) ObjectExists(ctx context.Context, objectKey string) (bool, error) {
	client := s.minioResource.GetClient()
	bucketName := s.minioResource.GetBucketName()
	_, err := client.StatObject(ctx, bucketName, objectKey, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" {
			return false, nil
		}
		return false, fmt.Errorf("stat object failed: %w", err)
	}
	return true, nil
}

// getContentTypeFromExtension 根据扩展名推断内容类型
func getContentTypeFromExtension(objectKey string) string {
	switch strings.ToLower(filepath.Ext(objectKey)) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mov":
		return "video/quicktime"
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/mp2t"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
