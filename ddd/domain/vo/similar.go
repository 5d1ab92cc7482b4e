package vo

// SimilarNeighbor 相似推荐关联，score为余弦相似度
type SimilarNeighbor struct {
	VideoUUID string  `json:"video_uuid"`
	Score     float64 `json:"score"`
}
