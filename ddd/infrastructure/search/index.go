package search

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"
)

// Document 一条可搜索的视频文档
type Document struct {
	VideoUUID  string
	StreamUUID string
	Title      string
	Body       string // 描述+转写全文
	UploadedAt time.Time
	LikeCount  int64
	ShareCount int64
}

// Result 搜索命中结果
type Result struct {
	VideoUUID string
	Score     float64
}

type docEntry struct {
	titleTerms map[string]int
	bodyTerms  map[string]int
	uploadedAt time.Time
	likes      int64
	shares     int64
}

// Index 内存倒排索引。打分规则：
//
//	term分 = titleWeight*(1+log2(tf_title)) + (1+log2(tf_body))
//	总分 = Σterm分 × 时效衰减 × 互动加成
//
// 时效衰减按半衰期指数衰减，互动加成 = 1+log10(1+likes+2*shares)。
type Index struct {
	mu              sync.RWMutex
	docs            map[string]*docEntry
	postings        map[string]map[string]struct{} // term -> videoUUIDs
	termFreq        map[string]int                 // 语料级词频，用于联想排序
	titleWeight     float64
	recencyHalfLife time.Duration
}

// NewIndex 创建搜索索引
func NewIndex(titleWeight float64, recencyHalfLife time.Duration) *Index {
	if titleWeight <= 0 {
		titleWeight = 3.0
	}
	if recencyHalfLife <= 0 {
		recencyHalfLife = 7 * 24 * time.Hour
	}
	return &Index{
		docs:            make(map[string]*docEntry),
		postings:        make(map[string]map[string]struct{}),
		termFreq:        make(map[string]int),
		titleWeight:     titleWeight,
		recencyHalfLife: recencyHalfLife,
	}
}

// Tokenize 切词：小写化后按非字母数字分割
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func termCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, t := range Tokenize(text) {
		counts[t]++
	}
	return counts
}

// Upsert 发布或更新文档
func (idx *Index) Upsert(doc Document) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(doc.VideoUUID)

	entry := &docEntry{
		titleTerms: termCounts(doc.Title),
		bodyTerms:  termCounts(doc.Body),
		uploadedAt: doc.UploadedAt,
		likes:      doc.LikeCount,
		shares:     doc.ShareCount,
	}
	idx.docs[doc.VideoUUID] = entry
	for term, n := range entry.titleTerms {
		idx.addPosting(term, doc.VideoUUID, n)
	}
	for term, n := range entry.bodyTerms {
		idx.addPosting(term, doc.VideoUUID, n)
	}
}

func (idx *Index) addPosting(term, videoUUID string, n int) {
	set, ok := idx.postings[term]
	if !ok {
		set = make(map[string]struct{})
		idx.postings[term] = set
	}
	set[videoUUID] = struct{}{}
	idx.termFreq[term] += n
}

// Remove 删除文档
func (idx *Index) Remove(videoUUID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeLocked(videoUUID)
}

func (idx *Index) removeLocked(videoUUID string) {
	entry, ok := idx.docs[videoUUID]
	if !ok {
		return
	}
	drop := func(terms map[string]int) {
		for term, n := range terms {
			if set, ok := idx.postings[term]; ok {
				delete(set, videoUUID)
				if len(set) == 0 {
					delete(idx.postings, term)
				}
			}
			idx.termFreq[term] -= n
			if idx.termFreq[term] <= 0 {
				delete(idx.termFreq, term)
			}
		}
	}
	drop(entry.titleTerms)
	drop(entry.bodyTerms)
	delete(idx.docs, videoUUID)
}

// UpdateEngagement 刷新文档的互动计数
func (idx *Index) UpdateEngagement(videoUUID string, likes, shares int64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if entry, ok := idx.docs[videoUUID]; ok {
		entry.likes = likes
		entry.shares = shares
	}
}

// Contains 检查文档是否已发布
func (idx *Index) Contains(videoUUID string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.docs[videoUUID]
	return ok
}

// Size 索引中的文档数
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// Search 查询，结果按分数降序；同分按上传时间升序，再按UUID升序，保证确定性
func (idx *Index) Search(query string, now time.Time, limit int) []Result {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	scores := make(map[string]float64)
	for _, term := range terms {
		for videoUUID := range idx.postings[term] {
			entry := idx.docs[videoUUID]
			var s float64
			if tf := entry.titleTerms[term]; tf > 0 {
				s += idx.titleWeight * (1 + math.Log2(float64(tf)))
			}
			if tf := entry.bodyTerms[term]; tf > 0 {
				s += 1 + math.Log2(float64(tf))
			}
			scores[videoUUID] += s
		}
	}

	results := make([]Result, 0, len(scores))
	for videoUUID, base := range scores {
		entry := idx.docs[videoUUID]
		age := now.Sub(entry.uploadedAt)
		if age < 0 {
			age = 0
		}
		recency := math.Exp2(-age.Seconds() / idx.recencyHalfLife.Seconds())
		engagement := 1 + math.Log10(1+float64(entry.likes)+2*float64(entry.shares))
		results = append(results, Result{VideoUUID: videoUUID, Score: base * recency * engagement})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		ti := idx.docs[results[i].VideoUUID].uploadedAt
		tj := idx.docs[results[j].VideoUUID].uploadedAt
		if !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return results[i].VideoUUID < results[j].VideoUUID
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Suggest 前缀联想，按语料词频降序，同频按字典序
func (idx *Index) Suggest(prefix string, limit int) []string {
	tokens := Tokenize(prefix)
	if len(tokens) == 0 {
		return nil
	}
	p := tokens[len(tokens)-1]

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	type candidate struct {
		term string
		freq int
	}
	var candidates []candidate
	for term, freq := range idx.termFreq {
		if strings.HasPrefix(term, p) {
			candidates = append(candidates, candidate{term: term, freq: freq})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].freq != candidates[j].freq {
			return candidates[i].freq > candidates[j].freq
		}
		return candidates[i].term < candidates[j].term
	})
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.term
	}
	return out
}
