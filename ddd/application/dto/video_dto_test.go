package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/vo"
)

func failedVideo(t *testing.T) *entity.VideoEntity {
	t.Helper()
	return entity.RehydrateVideoEntity(entity.VideoSnapshot{
		VideoUUID:     "video-a",
		StreamUUID:    "stream-1",
		Status:        vo.VideoStatusFailed,
		FailureReason: "stage transcode failed: ffmpeg exited with code 1: /data/uploads/video-a/source.mp4",
		UploadedAt:    time.Now(),
	})
}

func TestVideoDto_PublicProjectionMasksFailureDetail(t *testing.T) {
	d := NewVideoDto(failedVideo(t), "")
	require.Equal(t, vo.VideoStatusFailed.String(), d.Status)
	// 对外投影不得透出内部错误链与路径
	require.Equal(t, publicFailureReason, d.FailureReason)
	require.NotContains(t, d.FailureReason, "ffmpeg")
}

func TestVideoDto_AdminProjectionKeepsFailureDetail(t *testing.T) {
	d := NewAdminVideoDto(failedVideo(t), "")
	require.Contains(t, d.FailureReason, "ffmpeg exited with code 1")
}

func TestProcessingJobDto_PublicProjectionMasksLastError(t *testing.T) {
	j := entity.RehydrateProcessingJobEntity(entity.JobSnapshot{
		JobUUID:   "job-a",
		VideoUUID: "video-a",
		Status:    vo.JobStatusFailed,
		LastError: "stage embed failed: dial tcp 10.0.0.3:9090: connection refused",
	})
	require.Equal(t, publicFailureReason, NewPublicProcessingJobDto(j).LastError)
	require.Contains(t, NewProcessingJobDto(j).LastError, "connection refused")
}

func TestVideoDto_NoFailureReasonStaysEmpty(t *testing.T) {
	v := entity.NewVideoEntity("stream-1", "user-1", "title", "desc", "uploads/x/source")
	d := NewVideoDto(v, "")
	require.Empty(t, d.FailureReason)
}
