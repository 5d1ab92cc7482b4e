package dto

import (
	"time"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/vo"
)

// TranscriptSegmentDto 转写分段
type TranscriptSegmentDto struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TrimmedClipDto 自动剪辑片段
type TrimmedClipDto struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Label string  `json:"label,omitempty"`
}

// 对外投影的失败原因统一为一句话，内部错误链只出现在管理端作业视图
const publicFailureReason = "processing failed"

// VideoDto 视频数据传输对象
type VideoDto struct {
	VideoUUID   string `json:"video_uuid"`
	StreamUUID  string `json:"stream_uuid"`
	UserUUID    string `json:"user_uuid,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	// ProcessingIndex 为最后完成的阶段序号。-1既表示尚未开始，
	// 也表示重复判定后进度被重置，需结合Status区分。
	ProcessingIndex int                    `json:"processing_index"`
	CurrentStage    string                 `json:"current_stage,omitempty"`
	DurationSeconds float64                `json:"duration_seconds,omitempty"`
	PlaybackURL     string                 `json:"playback_url,omitempty"`
	DuplicateOf     string                 `json:"duplicate_of,omitempty"`
	PovGroupID      string                 `json:"pov_group_id,omitempty"`
	Transcript      []TranscriptSegmentDto `json:"transcript,omitempty"`
	Clips           []TrimmedClipDto       `json:"clips,omitempty"`
	LikeCount       int64                  `json:"like_count"`
	ShareCount      int64                  `json:"share_count"`
	FailureReason   string                 `json:"failure_reason,omitempty"`
	UploadedAt      time.Time              `json:"uploaded_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// NewVideoDto 从实体创建对外DTO，playbackURL由调用方按需预签。
// 失败原因不透出内部错误链，管理端用NewAdminVideoDto。
func NewVideoDto(v *entity.VideoEntity, playbackURL string) *VideoDto {
	d := newVideoDto(v, playbackURL)
	if d != nil && d.FailureReason != "" {
		d.FailureReason = publicFailureReason
	}
	return d
}

// NewAdminVideoDto 管理端投影，保留原始失败原因
func NewAdminVideoDto(v *entity.VideoEntity, playbackURL string) *VideoDto {
	return newVideoDto(v, playbackURL)
}

func newVideoDto(v *entity.VideoEntity, playbackURL string) *VideoDto {
	if v == nil {
		return nil
	}
	d := &VideoDto{
		VideoUUID:       v.VideoUUID(),
		StreamUUID:      v.StreamUUID(),
		UserUUID:        v.UserUUID(),
		Title:           v.Title(),
		Description:     v.Description(),
		Status:          v.Status().String(),
		ProcessingIndex: v.ProcessingIndex(),
		DurationSeconds: v.DurationSeconds(),
		PlaybackURL:     playbackURL,
		DuplicateOf:     v.DuplicateOf(),
		PovGroupID:      v.PovGroupID(),
		LikeCount:       v.LikeCount(),
		ShareCount:      v.ShareCount(),
		FailureReason:   v.FailureReason(),
		UploadedAt:      v.UploadedAt(),
		UpdatedAt:       v.UpdatedAt(),
	}
	if stage, ok := vo.NextStage(v.ProcessingIndex()); ok && v.Status() == vo.VideoStatusProcessing {
		d.CurrentStage = stage.String()
	}
	for _, seg := range v.Transcript() {
		d.Transcript = append(d.Transcript, TranscriptSegmentDto{Start: seg.Start, End: seg.End, Text: seg.Text})
	}
	for _, clip := range v.Clips() {
		d.Clips = append(d.Clips, TrimmedClipDto{Start: clip.Start, End: clip.End, Label: clip.Label})
	}
	return d
}

// VideoListDto 视频列表数据传输对象
type VideoListDto struct {
	Videos []*VideoDto `json:"videos"`
	Page   int         `json:"page"`
	Size   int         `json:"size"`
}

// UploadTicketDto 上传登记结果：视频UUID与限时上传链接
type UploadTicketDto struct {
	VideoUUID string `json:"video_uuid"`
	UploadURL string `json:"upload_url"`
}

// ShareLinkDto 分享链接数据传输对象
type ShareLinkDto struct {
	LinkUUID  string     `json:"link_uuid"`
	VideoUUID string     `json:"video_uuid"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewShareLinkDto 从实体创建DTO
func NewShareLinkDto(l *entity.ShareLinkEntity) *ShareLinkDto {
	if l == nil {
		return nil
	}
	return &ShareLinkDto{
		LinkUUID:  l.LinkUUID(),
		VideoUUID: l.VideoUUID(),
		Token:     l.Token(),
		ExpiresAt: l.ExpiresAt(),
		CreatedAt: l.CreatedAt(),
	}
}

// TimelineDto 视频时间线：转写分段与精华片段的合并视图
type TimelineDto struct {
	VideoUUID       string                 `json:"video_uuid"`
	DurationSeconds float64                `json:"duration_seconds"`
	Segments        []TranscriptSegmentDto `json:"segments"`
	Clips           []TrimmedClipDto       `json:"clips"`
}

// EmbeddingDto 内容向量
type EmbeddingDto struct {
	VideoUUID string    `json:"video_uuid"`
	Dim       int       `json:"dim"`
	Vector    []float32 `json:"vector"`
}

// ClipURLDto 片段播放地址
type ClipURLDto struct {
	Label string  `json:"label,omitempty"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	URL   string  `json:"url"`
}

// StreamURLsDto 视频播放地址集合（限时预签）
type StreamURLsDto struct {
	VideoUUID   string       `json:"video_uuid"`
	PlaybackURL string       `json:"playback_url"`
	Clips       []ClipURLDto `json:"clips,omitempty"`
}

// EngagementDto 互动计数
type EngagementDto struct {
	VideoUUID  string `json:"video_uuid"`
	LikeCount  int64  `json:"like_count"`
	ShareCount int64  `json:"share_count"`
}
