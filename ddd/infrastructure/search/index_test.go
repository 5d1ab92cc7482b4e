package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestIndex() *Index {
	return NewIndex(3.0, 7*24*time.Hour)
}

func TestTokenize(t *testing.T) {
	require.Equal(t, []string{"goal", "in", "the", "90th", "minute"}, Tokenize("Goal in the 90th minute!"))
	require.Empty(t, Tokenize("  ... "))
}

func TestIndex_TitleMatchOutranksBodyMatch(t *testing.T) {
	idx := newTestIndex()
	now := time.Now()

	idx.Upsert(Document{VideoUUID: "title-hit", Title: "amazing goal", Body: "nothing else", UploadedAt: now})
	idx.Upsert(Document{VideoUUID: "body-hit", Title: "highlights", Body: "what an amazing goal", UploadedAt: now})

	results := idx.Search("goal", now, 10)
	require.Len(t, results, 2)
	require.Equal(t, "title-hit", results[0].VideoUUID)
	require.Equal(t, "body-hit", results[1].VideoUUID)
}

func TestIndex_RecencyBoostsNewerDocument(t *testing.T) {
	idx := NewIndex(3.0, 24*time.Hour)
	now := time.Now()

	idx.Upsert(Document{VideoUUID: "fresh", Title: "goal", UploadedAt: now})
	idx.Upsert(Document{VideoUUID: "stale", Title: "goal", UploadedAt: now.Add(-10 * 24 * time.Hour)})

	results := idx.Search("goal", now, 10)
	require.Len(t, results, 2)
	require.Equal(t, "fresh", results[0].VideoUUID)
	require.Greater(t, results[0].Score, results[1].Score)
}

func TestIndex_EngagementBoost(t *testing.T) {
	idx := newTestIndex()
	now := time.Now()

	idx.Upsert(Document{VideoUUID: "quiet", Title: "goal", UploadedAt: now})
	idx.Upsert(Document{VideoUUID: "popular", Title: "goal", UploadedAt: now, LikeCount: 500, ShareCount: 100})

	results := idx.Search("goal", now, 10)
	require.Len(t, results, 2)
	require.Equal(t, "popular", results[0].VideoUUID)
}

func TestIndex_UpdateEngagementReordersResults(t *testing.T) {
	idx := newTestIndex()
	now := time.Now()

	idx.Upsert(Document{VideoUUID: "a", Title: "goal", UploadedAt: now})
	idx.Upsert(Document{VideoUUID: "b", Title: "goal", UploadedAt: now.Add(time.Second)})

	idx.UpdateEngagement("b", 1000, 200)
	results := idx.Search("goal", now, 10)
	require.Equal(t, "b", results[0].VideoUUID)
}

func TestIndex_MultiTermQueryAccumulates(t *testing.T) {
	idx := newTestIndex()
	now := time.Now()

	idx.Upsert(Document{VideoUUID: "both", Title: "corner kick", UploadedAt: now})
	idx.Upsert(Document{VideoUUID: "one", Title: "corner flag", UploadedAt: now})

	results := idx.Search("corner kick", now, 10)
	require.Len(t, results, 2)
	require.Equal(t, "both", results[0].VideoUUID)
}

func TestIndex_SearchDeterministicTieBreak(t *testing.T) {
	idx := newTestIndex()
	uploaded := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	idx.Upsert(Document{VideoUUID: "vid-b", Title: "goal", UploadedAt: uploaded})
	idx.Upsert(Document{VideoUUID: "vid-a", Title: "goal", UploadedAt: uploaded})

	now := uploaded.Add(time.Hour)
	for i := 0; i < 5; i++ {
		results := idx.Search("goal", now, 10)
		require.Len(t, results, 2)
		require.Equal(t, "vid-a", results[0].VideoUUID)
		require.Equal(t, "vid-b", results[1].VideoUUID)
	}
}

func TestIndex_SearchLimitAndEmptyQuery(t *testing.T) {
	idx := newTestIndex()
	now := time.Now()
	idx.Upsert(Document{VideoUUID: "a", Title: "goal", UploadedAt: now})
	idx.Upsert(Document{VideoUUID: "b", Title: "goal", UploadedAt: now})

	require.Len(t, idx.Search("goal", now, 1), 1)
	require.Empty(t, idx.Search("", now, 10))
	require.Empty(t, idx.Search("unseen", now, 10))
}

func TestIndex_RemoveDropsDocumentAndTerms(t *testing.T) {
	idx := newTestIndex()
	now := time.Now()

	idx.Upsert(Document{VideoUUID: "a", Title: "rare term", UploadedAt: now})
	idx.Remove("a")

	require.Equal(t, 0, idx.Size())
	require.Empty(t, idx.Search("rare", now, 10))
	require.Empty(t, idx.Suggest("ra", 10))
}

func TestIndex_UpsertReplacesOldTerms(t *testing.T) {
	idx := newTestIndex()
	now := time.Now()

	idx.Upsert(Document{VideoUUID: "a", Title: "old title", UploadedAt: now})
	idx.Upsert(Document{VideoUUID: "a", Title: "new title", UploadedAt: now})

	require.Equal(t, 1, idx.Size())
	require.Empty(t, idx.Search("old", now, 10))
	require.Len(t, idx.Search("new", now, 10), 1)
}

func TestIndex_SuggestByFrequencyThenAlpha(t *testing.T) {
	idx := newTestIndex()
	now := time.Now()

	idx.Upsert(Document{VideoUUID: "a", Title: "goal goal goal", Body: "goalkeeper", UploadedAt: now})
	idx.Upsert(Document{VideoUUID: "b", Title: "goalkeeper save", UploadedAt: now})

	suggestions := idx.Suggest("goa", 10)
	require.Equal(t, []string{"goal", "goalkeeper"}, suggestions)

	// 联想用查询的最后一个词做前缀
	require.Equal(t, []string{"goal", "goalkeeper"}, idx.Suggest("best goa", 10))
	require.Empty(t, idx.Suggest("", 10))
	require.Len(t, idx.Suggest("goa", 1), 1)
}
