package vo

import "fmt"

// Stage 流水线阶段，按固定顺序执行，processing_index记录已完成的最后一个阶段
type Stage int

const (
	// StageTranscode 转码归一化
	StageTranscode Stage = iota
	// StageTranscript 语音转写
	StageTranscript
	// StageEmbedding 内容向量抽取
	StageEmbedding
	// StageDuplicateDetection 重复检测
	StageDuplicateDetection
	// StagePOVClustering 同场景多视角聚类
	StagePOVClustering
	// StageSimilarLinking 相似推荐关联
	StageSimilarLinking
	// StageAutoTrim 精彩片段自动剪辑
	StageAutoTrim
	// StageSearchIndex 搜索索引发布
	StageSearchIndex
)

// StageCount 流水线阶段总数
const StageCount = 8

// ProcessingIndexNone 尚未完成任何阶段
const ProcessingIndexNone = -1

var stageNames = [StageCount]string{
	"transcode",
	"transcript",
	"embedding",
	"duplicate_detection",
	"pov_clustering",
	"similar_linking",
	"auto_trim",
	"search_index",
}

// IsValid 检查阶段是否有效
func (s Stage) IsValid() bool {
	return s >= StageTranscode && s < StageCount
}

// String 返回阶段名称
func (s Stage) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("unknown(%d)", int(s))
	}
	return stageNames[s]
}

// Index 返回阶段序号
func (s Stage) Index() int {
	return int(s)
}

// IsLast 检查是否为最后一个阶段
func (s Stage) IsLast() bool {
	return s == StageSearchIndex
}

// NextStage 根据已完成的阶段序号计算下一个要执行的阶段
func NextStage(processingIndex int) (Stage, bool) {
	next := processingIndex + 1
	if next < 0 || next >= StageCount {
		return 0, false
	}
	return Stage(next), true
}
