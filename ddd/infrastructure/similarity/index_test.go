package similarity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"clipstream-service/ddd/domain/vo"
)

func entry(uuid string, v vo.Vector) Entry {
	return Entry{VideoUUID: uuid, StreamUUID: "stream-1", Vector: v, UploadedAt: time.Now()}
}

func TestIndex_QueryFindsNearIdenticalVector(t *testing.T) {
	idx := NewIndex(4, 8)
	idx.Publish(entry("v1", vo.Vector{1, 0, 0, 0}))
	idx.Publish(entry("v2", vo.Vector{0, 1, 0, 0}))

	matches := idx.Query(vo.Vector{0.99, 0.01, 0, 0}, 0.97, "")
	require.Len(t, matches, 1)
	require.Equal(t, "v1", matches[0].VideoUUID)
	require.Greater(t, matches[0].Score, 0.97)
}

func TestIndex_QueryExcludesSelf(t *testing.T) {
	idx := NewIndex(4, 8)
	idx.Publish(entry("v1", vo.Vector{1, 0, 0, 0}))

	matches := idx.Query(vo.Vector{1, 0, 0, 0}, 0.9, "v1")
	require.Empty(t, matches)
}

func TestIndex_QueryThresholdFiltersOrthogonal(t *testing.T) {
	idx := NewIndex(4, 8)
	idx.Publish(entry("v1", vo.Vector{1, 0, 0, 0}))
	idx.Publish(entry("v2", vo.Vector{0, 0, 1, 0}))

	matches := idx.Query(vo.Vector{1, 0, 0, 0}, 0.5, "")
	require.Len(t, matches, 1)
	require.Equal(t, "v1", matches[0].VideoUUID)
}

func TestIndex_QuerySortedByScoreDesc(t *testing.T) {
	idx := NewIndex(4, 8)
	idx.Publish(entry("far", vo.Vector{0.5, 0.5, 0.5, 0.5}))
	idx.Publish(entry("near", vo.Vector{1, 0.05, 0, 0}))

	matches := idx.Query(vo.Vector{1, 0, 0, 0}, 0.4, "")
	require.Len(t, matches, 2)
	require.Equal(t, "near", matches[0].VideoUUID)
	require.Equal(t, "far", matches[1].VideoUUID)
	require.Greater(t, matches[0].Score, matches[1].Score)
}

func TestIndex_PublishOverwritesExisting(t *testing.T) {
	idx := NewIndex(4, 8)
	idx.Publish(entry("v1", vo.Vector{1, 0, 0, 0}))
	idx.Publish(entry("v1", vo.Vector{0, 1, 0, 0}))
	require.Equal(t, 1, idx.Size())

	matches := idx.Query(vo.Vector{0, 1, 0, 0}, 0.9, "")
	require.Len(t, matches, 1)
	require.Equal(t, "v1", matches[0].VideoUUID)
}

func TestIndex_Remove(t *testing.T) {
	idx := NewIndex(4, 8)
	idx.Publish(entry("v1", vo.Vector{1, 0, 0, 0}))
	require.True(t, idx.Contains("v1"))

	idx.Remove("v1")
	require.False(t, idx.Contains("v1"))
	require.Equal(t, 0, idx.Size())
	require.Empty(t, idx.Query(vo.Vector{1, 0, 0, 0}, 0.5, ""))
}

func TestIndex_RebuildReplacesAllEntries(t *testing.T) {
	idx := NewIndex(4, 8)
	idx.Publish(entry("old", vo.Vector{1, 0, 0, 0}))

	idx.Rebuild([]Entry{
		entry("a", vo.Vector{0, 1, 0, 0}),
		entry("b", vo.Vector{0, 0, 1, 0}),
	})
	require.Equal(t, 2, idx.Size())
	require.False(t, idx.Contains("old"))
	require.True(t, idx.Contains("a"))
	require.True(t, idx.Contains("b"))
}

func TestIndex_SignatureStableAcrossInstances(t *testing.T) {
	// 超平面种子固定，两个实例对同一向量必须产生相同签名
	a := NewIndex(8, 16)
	b := NewIndex(8, 16)
	v := vo.Vector{0.3, -0.7, 0.2, 0.9, -0.1, 0.5, -0.4, 0.8}
	require.Equal(t, a.signature(v), b.signature(v))
}

func TestIndex_HammingNeighborProbeRecall(t *testing.T) {
	// 近似重复的向量即便落入相邻桶，汉明距离1的探测也应召回
	idx := NewIndex(8, 16)
	base := vo.Vector{0.5, 0.5, 0.01, -0.3, 0.2, -0.8, 0.1, 0.6}
	near := vo.Vector{0.5, 0.5, -0.01, -0.3, 0.2, -0.8, 0.1, 0.6}
	idx.Publish(entry("base", base))

	sigDistance := hammingDistance(idx.signature(base), idx.signature(near))
	if sigDistance > 1 {
		t.Skipf("vectors landed %d buckets apart, probe not expected to recall", sigDistance)
	}

	matches := idx.Query(near, 0.95, "")
	require.Len(t, matches, 1)
	require.Equal(t, "base", matches[0].VideoUUID)
}

func hammingDistance(a, b uint64) int {
	x := a ^ b
	count := 0
	for x != 0 {
		x &= x - 1
		count++
	}
	return count
}

func TestUnionFind_RepresentativeIsLexicographicallySmallest(t *testing.T) {
	u := NewUnionFind()
	require.Equal(t, "b", u.Union("b", "c"))
	require.Equal(t, "a", u.Union("c", "a"))
	require.Equal(t, "a", u.Find("b"))
	require.Equal(t, "a", u.Find("c"))
}

func TestUnionFind_OrderIndependentGrouping(t *testing.T) {
	// 不同合并顺序必须得到相同代表元
	u1 := NewUnionFind()
	u1.Union("v3", "v1")
	u1.Union("v1", "v2")

	u2 := NewUnionFind()
	u2.Union("v2", "v3")
	u2.Union("v3", "v1")

	require.Equal(t, u1.Find("v3"), u2.Find("v3"))
	require.Equal(t, "v1", u1.Find("v2"))
}

func TestUnionFind_Members(t *testing.T) {
	u := NewUnionFind()
	u.Add("solo")
	u.Union("a", "b")
	u.Union("b", "c")

	members := u.Members("c")
	require.ElementsMatch(t, []string{"a", "b", "c"}, members)
	require.Equal(t, []string{"solo"}, u.Members("solo"))
	require.Equal(t, []string{"ghost"}, u.Members("ghost"))
}

func TestUnionFind_FindUnknownReturnsSelf(t *testing.T) {
	u := NewUnionFind()
	require.Equal(t, "x", u.Find("x"))
}
