package po

// SimilarLink 相似推荐关联持久化对象
type SimilarLink struct {
	BaseModel
	VideoUUID    string  `gorm:"column:video_uuid;type:varchar(36);index:idx_similar_video_neighbor,unique" json:"video_uuid"`
	NeighborUUID string  `gorm:"column:neighbor_uuid;type:varchar(36);index:idx_similar_video_neighbor,unique" json:"neighbor_uuid"`
	Score        float64 `gorm:"column:score" json:"score"`
}

// TableName 指定表名
func (SimilarLink) TableName() string {
	return "similar_links"
}
