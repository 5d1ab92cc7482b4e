package similarity

import (
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"clipstream-service/ddd/domain/vo"
)

// 随机超平面种子固定，保证重启后同一向量落入相同桶
const planeSeed = 20240711

// Entry 索引中的一条视频向量
type Entry struct {
	VideoUUID  string
	StreamUUID string
	Vector     vo.Vector
	UploadedAt time.Time
}

// Match 查询命中结果
type Match struct {
	Entry
	Score float64
}

type snapshot struct {
	entries map[string]Entry
	buckets map[uint64][]string // 签名 -> videoUUIDs
}

// Index 基于随机超平面签名的近似最近邻索引。
// 读路径完全无锁：查询只访问不可变快照，写入时复制后原子替换。
type Index struct {
	dim    int
	planes [][]float64

	writeMu sync.Mutex
	snap    atomic.Value // *snapshot
}

// NewIndex 创建相似度索引
func NewIndex(dim, planeCount int) *Index {
	rng := rand.New(rand.NewSource(planeSeed))
	planes := make([][]float64, planeCount)
	for i := range planes {
		p := make([]float64, dim)
		for j := range p {
			p[j] = rng.NormFloat64()
		}
		planes[i] = p
	}
	idx := &Index{dim: dim, planes: planes}
	idx.snap.Store(&snapshot{
		entries: make(map[string]Entry),
		buckets: make(map[uint64][]string),
	})
	return idx
}

// Dim 返回索引的向量维度
func (idx *Index) Dim() int {
	return idx.dim
}

// signature 计算向量的超平面签名
func (idx *Index) signature(v vo.Vector) uint64 {
	var sig uint64
	for i, plane := range idx.planes {
		var dot float64
		for j := 0; j < idx.dim && j < len(v); j++ {
			dot += plane[j] * float64(v[j])
		}
		if dot >= 0 {
			sig |= 1 << uint(i)
		}
	}
	return sig
}

func (s *snapshot) clone() *snapshot {
	entries := make(map[string]Entry, len(s.entries)+1)
	for k, v := range s.entries {
		entries[k] = v
	}
	buckets := make(map[uint64][]string, len(s.buckets)+1)
	for k, v := range s.buckets {
		ids := make([]string, len(v))
		copy(ids, v)
		buckets[k] = ids
	}
	return &snapshot{entries: entries, buckets: buckets}
}

func (s *snapshot) remove(idx *Index, videoUUID string) {
	entry, ok := s.entries[videoUUID]
	if !ok {
		return
	}
	sig := idx.signature(entry.Vector)
	ids := s.buckets[sig]
	for i, id := range ids {
		if id == videoUUID {
			s.buckets[sig] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(s.buckets[sig]) == 0 {
		delete(s.buckets, sig)
	}
	delete(s.entries, videoUUID)
}

// Publish 发布或覆盖一条向量
func (idx *Index) Publish(entry Entry) {
	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()
	next := idx.snap.Load().(*snapshot).clone()
	next.remove(idx, entry.VideoUUID)
	sig := idx.signature(entry.Vector)
	next.entries[entry.VideoUUID] = entry
	next.buckets[sig] = append(next.buckets[sig], entry.VideoUUID)
	idx.snap.Store(next)
}

// Remove 从索引移除一条向量
func (idx *Index) Remove(videoUUID string) {
	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()
	next := idx.snap.Load().(*snapshot).clone()
	next.remove(idx, videoUUID)
	idx.snap.Store(next)
}

// Rebuild 全量重建索引（启动恢复）
func (idx *Index) Rebuild(entries []Entry) {
	next := &snapshot{
		entries: make(map[string]Entry, len(entries)),
		buckets: make(map[uint64][]string),
	}
	for _, e := range entries {
		sig := idx.signature(e.Vector)
		next.entries[e.VideoUUID] = e
		next.buckets[sig] = append(next.buckets[sig], e.VideoUUID)
	}
	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()
	idx.snap.Store(next)
}

// Contains 检查视频是否已发布到索引
func (idx *Index) Contains(videoUUID string) bool {
	s := idx.snap.Load().(*snapshot)
	_, ok := s.entries[videoUUID]
	return ok
}

// Size 索引中的向量数量
func (idx *Index) Size() int {
	s := idx.snap.Load().(*snapshot)
	return len(s.entries)
}

// Get 获取指定视频的索引条目
func (idx *Index) Get(videoUUID string) (Entry, bool) {
	s := idx.snap.Load().(*snapshot)
	e, ok := s.entries[videoUUID]
	return e, ok
}

// Query 查询与给定向量相似度不低于threshold的条目，按分数降序。
// 探测自身签名桶及所有汉明距离为1的相邻桶，再做精确余弦过滤。
func (idx *Index) Query(v vo.Vector, threshold float64, excludeUUID string) []Match {
	s := idx.snap.Load().(*snapshot)
	sig := idx.signature(v)

	seen := make(map[string]struct{})
	var matches []Match
	probe := func(bucket uint64) {
		for _, id := range s.buckets[bucket] {
			if id == excludeUUID {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			entry := s.entries[id]
			score := vo.Cosine(v, entry.Vector)
			if score >= threshold {
				matches = append(matches, Match{Entry: entry, Score: score})
			}
		}
	}

	probe(sig)
	for i := 0; i < len(idx.planes); i++ {
		probe(sig ^ (1 << uint(i)))
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].VideoUUID < matches[j].VideoUUID
	})
	return matches
}
