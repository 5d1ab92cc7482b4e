package entity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"clipstream-service/ddd/domain/vo"
)

func newQueuedVideo(t *testing.T) *VideoEntity {
	t.Helper()
	v := NewVideoEntity("stream-1", "user-1", "title", "desc", "uploads/abc/source")
	require.NoError(t, v.MarkQueued())
	return v
}

func completeAllStages(t *testing.T, v *VideoEntity) {
	t.Helper()
	for i := 0; i < vo.StageCount; i++ {
		stage, ok := vo.NextStage(v.ProcessingIndex())
		require.True(t, ok)
		require.NoError(t, v.CompleteStage(stage))
	}
}

func TestVideoEntity_NewStartsAtUploading(t *testing.T) {
	v := NewVideoEntity("stream-1", "user-1", "title", "desc", "key")
	require.Equal(t, vo.VideoStatusUploading, v.Status())
	require.Equal(t, vo.ProcessingIndexNone, v.ProcessingIndex())
	require.NotEmpty(t, v.VideoUUID())
}

func TestVideoEntity_HappyPathToReady(t *testing.T) {
	v := newQueuedVideo(t)
	require.NoError(t, v.StartProcessing())
	completeAllStages(t, v)
	require.NoError(t, v.MarkReady())
	require.Equal(t, vo.VideoStatusReady, v.Status())
	require.True(t, v.Status().IsTerminal())
}

func TestVideoEntity_StagesMustAdvanceInOrder(t *testing.T) {
	v := newQueuedVideo(t)
	require.NoError(t, v.StartProcessing())

	// 跳过transcode直接完成transcript应被拒绝
	require.Error(t, v.CompleteStage(vo.StageTranscript))
	require.NoError(t, v.CompleteStage(vo.StageTranscode))
	require.Equal(t, vo.StageTranscode.Index(), v.ProcessingIndex())

	// 重复完成同一阶段也被拒绝
	require.Error(t, v.CompleteStage(vo.StageTranscode))
}

func TestVideoEntity_CannotMarkReadyEarly(t *testing.T) {
	v := newQueuedVideo(t)
	require.NoError(t, v.StartProcessing())
	require.NoError(t, v.CompleteStage(vo.StageTranscode))
	require.Error(t, v.MarkReady())
}

func TestVideoEntity_StartProcessingIsReentrant(t *testing.T) {
	v := newQueuedVideo(t)
	require.NoError(t, v.StartProcessing())
	require.NoError(t, v.StartProcessing())
	require.Equal(t, vo.VideoStatusProcessing, v.Status())
}

func TestVideoEntity_MarkDuplicateResetsCheckpoint(t *testing.T) {
	v := newQueuedVideo(t)
	require.NoError(t, v.StartProcessing())
	require.NoError(t, v.CompleteStage(vo.StageTranscode))

	require.NoError(t, v.MarkDuplicate("original-uuid"))
	require.True(t, v.IsDuplicate())
	require.Equal(t, "original-uuid", v.DuplicateOf())
	require.Equal(t, vo.ProcessingIndexNone, v.ProcessingIndex())
}

func TestVideoEntity_MarkDuplicateRejectsSelfReference(t *testing.T) {
	v := newQueuedVideo(t)
	require.NoError(t, v.StartProcessing())
	require.Error(t, v.MarkDuplicate(""))
	require.Error(t, v.MarkDuplicate(v.VideoUUID()))
}

func TestVideoEntity_RetryFromCheckpointKeepsArtifacts(t *testing.T) {
	v := newQueuedVideo(t)
	require.NoError(t, v.StartProcessing())
	require.NoError(t, v.CompleteStage(vo.StageTranscode))
	v.SetPlaybackKey("videos/x/playback.mp4")
	require.NoError(t, v.MarkFailed("transcribe timeout"))

	require.NoError(t, v.ResetForRetry(false))
	require.Equal(t, vo.VideoStatusQueued, v.Status())
	require.Equal(t, vo.StageTranscode.Index(), v.ProcessingIndex())
	require.Equal(t, "videos/x/playback.mp4", v.PlaybackKey())
	require.Empty(t, v.FailureReason())
}

func TestVideoEntity_RetryFromStartClearsArtifacts(t *testing.T) {
	v := newQueuedVideo(t)
	require.NoError(t, v.StartProcessing())
	require.NoError(t, v.CompleteStage(vo.StageTranscode))
	v.SetPlaybackKey("videos/x/playback.mp4")
	v.SetTranscript(vo.Transcript{{Start: 0, End: 1, Text: "hi"}})
	v.SetEmbedding(vo.Vector{1, 2, 3})
	require.NoError(t, v.MarkFailed("boom"))

	require.NoError(t, v.ResetForRetry(true))
	require.Equal(t, vo.ProcessingIndexNone, v.ProcessingIndex())
	require.Empty(t, v.PlaybackKey())
	require.Nil(t, v.Transcript())
	require.Nil(t, v.Embedding())
}

func TestVideoEntity_RetryOnlyFromFailed(t *testing.T) {
	v := newQueuedVideo(t)
	require.Error(t, v.ResetForRetry(false))
}

func TestVideoEntity_UnflagDuplicateRequeuesFromScratch(t *testing.T) {
	v := newQueuedVideo(t)
	require.NoError(t, v.StartProcessing())
	v.SetEmbedding(vo.Vector{1, 2, 3})
	require.NoError(t, v.MarkDuplicate("original-uuid"))

	require.NoError(t, v.UnflagDuplicate())
	require.Equal(t, vo.VideoStatusQueued, v.Status())
	require.Empty(t, v.DuplicateOf())
	require.Equal(t, vo.ProcessingIndexNone, v.ProcessingIndex())
	require.Nil(t, v.Embedding())
}

func TestVideoEntity_RepointDuplicate(t *testing.T) {
	v := newQueuedVideo(t)
	require.NoError(t, v.StartProcessing())
	require.NoError(t, v.MarkDuplicate("original-a"))

	require.NoError(t, v.RepointDuplicate("original-b"))
	require.Equal(t, "original-b", v.DuplicateOf())
	require.Error(t, v.RepointDuplicate(v.VideoUUID()))

	ready := newQueuedVideo(t)
	require.Error(t, ready.RepointDuplicate("original-a"))
}

func TestVideoEntity_ReadyIsTerminal(t *testing.T) {
	v := newQueuedVideo(t)
	require.NoError(t, v.StartProcessing())
	completeAllStages(t, v)
	require.NoError(t, v.MarkReady())

	require.Error(t, v.MarkFailed("late failure"))
	require.Error(t, v.MarkQueued())
}

func TestVideoEntity_RehydrateRoundTrip(t *testing.T) {
	v := newQueuedVideo(t)
	require.NoError(t, v.StartProcessing())
	require.NoError(t, v.CompleteStage(vo.StageTranscode))
	v.SetDuration(42.5)

	restored := RehydrateVideoEntity(VideoSnapshot{
		VideoUUID:       v.VideoUUID(),
		StreamUUID:      v.StreamUUID(),
		Status:          v.Status(),
		ProcessingIndex: v.ProcessingIndex(),
		DurationSeconds: v.DurationSeconds(),
	})
	require.Equal(t, v.VideoUUID(), restored.VideoUUID())
	require.Equal(t, vo.VideoStatusProcessing, restored.Status())
	require.Equal(t, vo.StageTranscode.Index(), restored.ProcessingIndex())

	// 断点续跑：下一个阶段应为transcript
	stage, ok := vo.NextStage(restored.ProcessingIndex())
	require.True(t, ok)
	require.Equal(t, vo.StageTranscript, stage)
}
