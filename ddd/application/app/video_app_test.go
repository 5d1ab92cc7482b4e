package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/vo"
)

func processingVideoAt(index int) *entity.VideoEntity {
	return entity.RehydrateVideoEntity(entity.VideoSnapshot{
		VideoUUID:       "video-a",
		StreamUUID:      "stream-1",
		Status:          vo.VideoStatusProcessing,
		ProcessingIndex: index,
		UploadedAt:      time.Now(),
	})
}

func leasedJobStartedAt(startedAt time.Time) *entity.ProcessingJobEntity {
	return entity.RehydrateProcessingJobEntity(entity.JobSnapshot{
		JobUUID:   "job-a",
		VideoUUID: "video-a",
		Status:    vo.JobStatusLeased,
		StartedAt: &startedAt,
	})
}

func TestEstimateCompletion_ExtrapolatesFromMeanStageDuration(t *testing.T) {
	now := time.Now()
	// 4个阶段耗时8分钟，平均2分钟/阶段，剩余4个阶段约8分钟
	video := processingVideoAt(3)
	job := leasedJobStartedAt(now.Add(-8 * time.Minute))

	eta := estimateCompletion(video, job, now)
	require.NotNil(t, eta)
	require.WithinDuration(t, now.Add(8*time.Minute), *eta, time.Second)
}

func TestEstimateCompletion_NoSampleBeforeFirstStage(t *testing.T) {
	now := time.Now()
	require.Nil(t, estimateCompletion(processingVideoAt(-1), leasedJobStartedAt(now.Add(-time.Minute)), now))
}

func TestEstimateCompletion_OnlyWhileProcessing(t *testing.T) {
	now := time.Now()
	ready := entity.RehydrateVideoEntity(entity.VideoSnapshot{
		VideoUUID:       "video-a",
		StreamUUID:      "stream-1",
		Status:          vo.VideoStatusReady,
		ProcessingIndex: vo.StageCount - 1,
		UploadedAt:      now,
	})
	require.Nil(t, estimateCompletion(ready, leasedJobStartedAt(now.Add(-time.Minute)), now))

	// 作业尚未开始执行时没有耗时样本
	pending := entity.RehydrateProcessingJobEntity(entity.JobSnapshot{
		JobUUID:   "job-a",
		VideoUUID: "video-a",
		Status:    vo.JobStatusPending,
	})
	require.Nil(t, estimateCompletion(processingVideoAt(3), pending, now))
}
