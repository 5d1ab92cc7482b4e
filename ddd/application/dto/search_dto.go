package dto

// SearchHitDto 搜索命中结果
type SearchHitDto struct {
	Video *VideoDto `json:"video"`
	Score float64   `json:"score"`
}

// SearchResultDto 搜索结果集
type SearchResultDto struct {
	Query string          `json:"query"`
	Hits  []*SearchHitDto `json:"hits"`
	Total int             `json:"total"`
}

// SuggestResultDto 搜索联想结果
type SuggestResultDto struct {
	Prefix      string   `json:"prefix"`
	Suggestions []string `json:"suggestions"`
}

// SimilarVideoDto 相似视频
type SimilarVideoDto struct {
	Video *VideoDto `json:"video"`
	Score float64   `json:"score"`
}

// PovGroupDto 多视角分组
type PovGroupDto struct {
	GroupID string      `json:"group_id"`
	Videos  []*VideoDto `json:"videos"`
}
