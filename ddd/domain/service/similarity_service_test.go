package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/pkg/config"
)

func testSimilarityConfig() config.SimilarityConfig {
	return config.SimilarityConfig{
		EmbeddingDim:       4,
		DuplicateThreshold: 0.97,
		PovThreshold:       0.85,
		SimilarThreshold:   0.70,
		PovWindow:          15 * time.Minute,
		HashPlanes:         8,
	}
}

func readyVideoWithEmbedding(t *testing.T, videoRepo *fakeVideoRepo, embedding vo.Vector) *entity.VideoEntity {
	t.Helper()
	v := entity.NewVideoEntity("stream-1", "user-1", "title", "desc", "uploads/x/source")
	require.NoError(t, v.MarkQueued())
	require.NoError(t, v.StartProcessing())
	v.SetEmbedding(embedding)
	require.NoError(t, videoRepo.CreateVideo(context.Background(), v))
	return v
}

func TestSimilarity_FindDuplicateHitsNearIdentical(t *testing.T) {
	videoRepo := newFakeVideoRepo()
	svc := NewSimilarityService(videoRepo, testSimilarityConfig())

	original := readyVideoWithEmbedding(t, videoRepo, vo.Vector{1, 0, 0, 0})
	require.NoError(t, svc.PublishEmbedding(original))

	candidate := readyVideoWithEmbedding(t, videoRepo, vo.Vector{0.999, 0.001, 0, 0})
	match, found := svc.FindDuplicate(candidate)
	require.True(t, found)
	require.Equal(t, original.VideoUUID(), match.OriginalUUID)
	require.Greater(t, match.Score, 0.97)
}

func TestSimilarity_FindDuplicateIgnoresDistinctContent(t *testing.T) {
	videoRepo := newFakeVideoRepo()
	svc := NewSimilarityService(videoRepo, testSimilarityConfig())

	original := readyVideoWithEmbedding(t, videoRepo, vo.Vector{1, 0, 0, 0})
	require.NoError(t, svc.PublishEmbedding(original))

	candidate := readyVideoWithEmbedding(t, videoRepo, vo.Vector{0.5, 0.8, 0.2, 0.1})
	_, found := svc.FindDuplicate(candidate)
	require.False(t, found)
}

func TestSimilarity_FindDuplicatePrefersEarliestUpload(t *testing.T) {
	videoRepo := newFakeVideoRepo()
	svc := NewSimilarityService(videoRepo, testSimilarityConfig())
	ctx := context.Background()

	mk := func(uuid string, uploadedAt time.Time, emb vo.Vector) {
		v := entity.RehydrateVideoEntity(entity.VideoSnapshot{
			VideoUUID:  uuid,
			StreamUUID: "stream-1",
			Status:     vo.VideoStatusReady,
			Embedding:  emb,
			UploadedAt: uploadedAt,
		})
		require.NoError(t, videoRepo.CreateVideo(ctx, v))
		require.NoError(t, svc.PublishEmbedding(v))
	}
	now := time.Now()
	// 晚上传者与候选向量完全一致（得分最高），但原片必须指向最早上传者
	mk("video-late", now, vo.Vector{1, 0, 0, 0})
	mk("video-b", now.Add(-time.Hour), vo.Vector{0.999, 0.012, 0, 0})
	mk("video-a", now.Add(-time.Hour), vo.Vector{0.999, 0.014, 0, 0})

	candidate := readyVideoWithEmbedding(t, videoRepo, vo.Vector{1, 0.001, 0, 0})
	match, found := svc.FindDuplicate(candidate)
	require.True(t, found)
	// 上传时间并列时按UUID升序取小者
	require.Equal(t, "video-a", match.OriginalUUID)
	require.Greater(t, match.Score, 0.97)
}

func TestSimilarity_PublishEmbeddingValidatesDim(t *testing.T) {
	videoRepo := newFakeVideoRepo()
	svc := NewSimilarityService(videoRepo, testSimilarityConfig())

	bad := readyVideoWithEmbedding(t, videoRepo, vo.Vector{1, 0})
	require.Error(t, svc.PublishEmbedding(bad))
	require.Equal(t, 0, svc.IndexSize())
}

func TestSimilarity_AssignPovGroupUsesSmallestMemberUUID(t *testing.T) {
	videoRepo := newFakeVideoRepo()
	svc := NewSimilarityService(videoRepo, testSimilarityConfig())
	ctx := context.Background()

	a := readyVideoWithEmbedding(t, videoRepo, vo.Vector{1, 0.1, 0, 0})
	require.NoError(t, svc.PublishEmbedding(a))
	gidA, err := svc.AssignPovGroup(ctx, a)
	require.NoError(t, err)
	require.Equal(t, "pov-"+a.VideoUUID(), gidA)

	b := readyVideoWithEmbedding(t, videoRepo, vo.Vector{1, 0.12, 0, 0})
	require.NoError(t, svc.PublishEmbedding(b))
	gidB, err := svc.AssignPovGroup(ctx, b)
	require.NoError(t, err)

	smallest := a.VideoUUID()
	if b.VideoUUID() < smallest {
		smallest = b.VideoUUID()
	}
	require.Equal(t, "pov-"+smallest, gidB)

	// 已有成员被回写到同一组
	storedA, err := videoRepo.GetVideoByUUID(ctx, a.VideoUUID())
	require.NoError(t, err)
	require.Equal(t, gidB, storedA.PovGroupID())
	require.Equal(t, gidB, b.PovGroupID())
}

func TestSimilarity_AssignPovGroupRespectsTimeWindow(t *testing.T) {
	videoRepo := newFakeVideoRepo()
	svc := NewSimilarityService(videoRepo, testSimilarityConfig())
	ctx := context.Background()

	// 相似但上传时间相差超过窗口，不应归入同组
	old := entity.RehydrateVideoEntity(entity.VideoSnapshot{
		VideoUUID:  "video-old",
		StreamUUID: "stream-1",
		Status:     vo.VideoStatusReady,
		Embedding:  vo.Vector{1, 0.1, 0, 0},
		UploadedAt: time.Now().Add(-2 * time.Hour),
	})
	require.NoError(t, videoRepo.CreateVideo(ctx, old))
	require.NoError(t, svc.PublishEmbedding(old))

	fresh := readyVideoWithEmbedding(t, videoRepo, vo.Vector{1, 0.11, 0, 0})
	require.NoError(t, svc.PublishEmbedding(fresh))
	gid, err := svc.AssignPovGroup(ctx, fresh)
	require.NoError(t, err)
	require.Equal(t, "pov-"+fresh.VideoUUID(), gid)

	storedOld, err := videoRepo.GetVideoByUUID(ctx, "video-old")
	require.NoError(t, err)
	require.Empty(t, storedOld.PovGroupID())
}

func TestSimilarity_AssignPovGroupKeepsStreamsApart(t *testing.T) {
	videoRepo := newFakeVideoRepo()
	svc := NewSimilarityService(videoRepo, testSimilarityConfig())
	ctx := context.Background()

	mk := func(uuid, streamUUID string) *entity.VideoEntity {
		v := entity.RehydrateVideoEntity(entity.VideoSnapshot{
			VideoUUID:  uuid,
			StreamUUID: streamUUID,
			Status:     vo.VideoStatusReady,
			Embedding:  vo.Vector{1, 0.1, 0, 0},
			UploadedAt: time.Now(),
		})
		require.NoError(t, videoRepo.CreateVideo(ctx, v))
		require.NoError(t, svc.PublishEmbedding(v))
		return v
	}

	// 向量几乎一致、上传时间相同，但来自不同直播流，不得归入同一多视角组
	a := mk("video-a", "stream-1")
	b := mk("video-b", "stream-2")

	gidA, err := svc.AssignPovGroup(ctx, a)
	require.NoError(t, err)
	require.Equal(t, "pov-video-a", gidA)

	gidB, err := svc.AssignPovGroup(ctx, b)
	require.NoError(t, err)
	require.Equal(t, "pov-video-b", gidB)

	storedA, err := videoRepo.GetVideoByUUID(ctx, "video-a")
	require.NoError(t, err)
	require.Equal(t, "pov-video-a", storedA.PovGroupID())
}

func TestSimilarity_ComputeSimilarNeighbors(t *testing.T) {
	videoRepo := newFakeVideoRepo()
	svc := NewSimilarityService(videoRepo, testSimilarityConfig())

	near := readyVideoWithEmbedding(t, videoRepo, vo.Vector{1, 0.11, 0, 0})
	require.NoError(t, svc.PublishEmbedding(near))
	far := readyVideoWithEmbedding(t, videoRepo, vo.Vector{0, 0, 1, 0})
	require.NoError(t, svc.PublishEmbedding(far))

	query := readyVideoWithEmbedding(t, videoRepo, vo.Vector{1, 0.1, 0, 0})
	neighbors := svc.ComputeSimilarNeighbors(query, 10)
	require.Len(t, neighbors, 1)
	require.Equal(t, near.VideoUUID(), neighbors[0].VideoUUID)
	require.Greater(t, neighbors[0].Score, 0.70)

	require.Len(t, svc.ComputeSimilarNeighbors(query, 0), 1)
}

func TestSimilarity_RebuildIndexRestoresGroups(t *testing.T) {
	videoRepo := newFakeVideoRepo()
	ctx := context.Background()

	mk := func(uuid, gid string, emb vo.Vector) {
		v := entity.RehydrateVideoEntity(entity.VideoSnapshot{
			VideoUUID:  uuid,
			StreamUUID: "stream-1",
			Status:     vo.VideoStatusReady,
			Embedding:  emb,
			PovGroupID: gid,
			UploadedAt: time.Now(),
		})
		require.NoError(t, videoRepo.CreateVideo(ctx, v))
	}
	mk("video-a", "pov-video-a", vo.Vector{1, 0.1, 0, 0})
	mk("video-b", "pov-video-a", vo.Vector{1, 0.12, 0, 0})
	mk("video-c", "", vo.Vector{0, 0, 1, 0})
	// 无效向量被跳过
	mk("video-broken", "", vo.Vector{1, 0})

	svc := NewSimilarityService(videoRepo, testSimilarityConfig())
	count, err := svc.RebuildIndex(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.Equal(t, 3, svc.IndexSize())
}

func TestSimilarity_RemoveVideo(t *testing.T) {
	videoRepo := newFakeVideoRepo()
	svc := NewSimilarityService(videoRepo, testSimilarityConfig())

	v := readyVideoWithEmbedding(t, videoRepo, vo.Vector{1, 0, 0, 0})
	require.NoError(t, svc.PublishEmbedding(v))
	require.Equal(t, 1, svc.IndexSize())

	svc.RemoveVideo(v.VideoUUID())
	require.Equal(t, 0, svc.IndexSize())
}
