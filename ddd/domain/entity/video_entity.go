package entity

import (
	"time"

	"github.com/google/uuid"

	"clipstream-service/ddd/domain/vo"
)

// VideoEntity 视频实体，承载处理流水线的全部产物
type VideoEntity struct {
	id              uint64 // 数据库主键ID
	videoUUID       string
	streamUUID      string
	userUUID        string
	title           string
	description     string
	storageKey      string // 原始上传对象键
	playbackKey     string // 转码归一化后的播放对象键
	durationSeconds float64
	status          vo.VideoStatus
	processingIndex int    // 已完成的最后一个阶段序号，-1表示尚未开始
	duplicateOf     string // 重复时指向的原视频UUID
	povGroupID      string // 同场景多视角分组ID
	transcript      vo.Transcript
	embedding       vo.Vector
	clips           []vo.TrimmedClip
	likeCount       int64
	shareCount      int64
	failureReason   string
	uploadedAt      time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

// NewVideoEntity 创建新的视频实体（上传中状态）
func NewVideoEntity(streamUUID, userUUID, title, description, storageKey string) *VideoEntity {
	now := time.Now()
	return &VideoEntity{
		videoUUID:       uuid.New().String(),
		streamUUID:      streamUUID,
		userUUID:        userUUID,
		title:           title,
		description:     description,
		storageKey:      storageKey,
		status:          vo.VideoStatusUploading,
		processingIndex: vo.ProcessingIndexNone,
		uploadedAt:      now,
		createdAt:       now,
		updatedAt:       now,
	}
}

// VideoSnapshot 持久化层重建实体所需的全量字段
type VideoSnapshot struct {
	ID              uint64
	VideoUUID       string
	StreamUUID      string
	UserUUID        string
	Title           string
	Description     string
	StorageKey      string
	PlaybackKey     string
	DurationSeconds float64
	Status          vo.VideoStatus
	ProcessingIndex int
	DuplicateOf     string
	PovGroupID      string
	Transcript      vo.Transcript
	Embedding       vo.Vector
	Clips           []vo.TrimmedClip
	LikeCount       int64
	ShareCount      int64
	FailureReason   string
	UploadedAt      time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RehydrateVideoEntity 从持久化快照重建实体
func RehydrateVideoEntity(s VideoSnapshot) *VideoEntity {
	return &VideoEntity{
		id:              s.ID,
		videoUUID:       s.VideoUUID,
		streamUUID:      s.StreamUUID,
		userUUID:        s.UserUUID,
		title:           s.Title,
		description:     s.Description,
		storageKey:      s.StorageKey,
		playbackKey:     s.PlaybackKey,
		durationSeconds: s.DurationSeconds,
		status:          s.Status,
		processingIndex: s.ProcessingIndex,
		duplicateOf:     s.DuplicateOf,
		povGroupID:      s.PovGroupID,
		transcript:      s.Transcript,
		embedding:       s.Embedding,
		clips:           s.Clips,
		likeCount:       s.LikeCount,
		shareCount:      s.ShareCount,
		failureReason:   s.FailureReason,
		uploadedAt:      s.UploadedAt,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
	}
}

// Getters
func (v *VideoEntity) ID() uint64                { return v.id }
func (v *VideoEntity) VideoUUID() string         { return v.videoUUID }
func (v *VideoEntity) StreamUUID() string        { return v.streamUUID }
func (v *VideoEntity) UserUUID() string          { return v.userUUID }
func (v *VideoEntity) Title() string             { return v.title }
func (v *VideoEntity) Description() string       { return v.description }
func (v *VideoEntity) StorageKey() string        { return v.storageKey }
func (v *VideoEntity) PlaybackKey() string       { return v.playbackKey }
func (v *VideoEntity) DurationSeconds() float64  { return v.durationSeconds }
func (v *VideoEntity) Status() vo.VideoStatus    { return v.status }
func (v *VideoEntity) ProcessingIndex() int      { return v.processingIndex }
func (v *VideoEntity) DuplicateOf() string       { return v.duplicateOf }
func (v *VideoEntity) PovGroupID() string        { return v.povGroupID }
func (v *VideoEntity) Transcript() vo.Transcript { return v.transcript }
func (v *VideoEntity) Embedding() vo.Vector      { return v.embedding }
func (v *VideoEntity) Clips() []vo.TrimmedClip   { return v.clips }
func (v *VideoEntity) LikeCount() int64          { return v.likeCount }
func (v *VideoEntity) ShareCount() int64         { return v.shareCount }
func (v *VideoEntity) FailureReason() string     { return v.failureReason }
func (v *VideoEntity) UploadedAt() time.Time     { return v.uploadedAt }
func (v *VideoEntity) CreatedAt() time.Time      { return v.createdAt }
func (v *VideoEntity) UpdatedAt() time.Time      { return v.updatedAt }

// IsDuplicate 视频是否被判定为重复
func (v *VideoEntity) IsDuplicate() bool {
	return v.status == vo.VideoStatusDuplicate
}

// MarkQueued 上传完成，进入待处理队列
func (v *VideoEntity) MarkQueued() error {
	if !v.status.CanTransitionTo(vo.VideoStatusQueued) {
		return NewDomainError("cannot queue video in current status: " + v.status.String())
	}
	v.status = vo.VideoStatusQueued
	v.updatedAt = time.Now()
	return nil
}

// StartProcessing 流水线开始执行
func (v *VideoEntity) StartProcessing() error {
	if v.status == vo.VideoStatusProcessing {
		return nil // 续租重入，保持幂等
	}
	if !v.status.CanTransitionTo(vo.VideoStatusProcessing) {
		return NewDomainError("cannot start processing video in current status: " + v.status.String())
	}
	v.status = vo.VideoStatusProcessing
	v.updatedAt = time.Now()
	return nil
}

// CompleteStage 记录阶段完成，只允许顺序推进一格
func (v *VideoEntity) CompleteStage(stage vo.Stage) error {
	if v.status != vo.VideoStatusProcessing {
		return NewDomainError("can only complete stage for processing videos")
	}
	if stage.Index() != v.processingIndex+1 {
		return NewDomainError("stage completed out of order: " + stage.String())
	}
	v.processingIndex = stage.Index()
	v.updatedAt = time.Now()
	return nil
}

// MarkReady 全部阶段完成
func (v *VideoEntity) MarkReady() error {
	if v.processingIndex != vo.StageCount-1 {
		return NewDomainError("cannot mark video ready before all stages complete")
	}
	if !v.status.CanTransitionTo(vo.VideoStatusReady) {
		return NewDomainError("cannot mark ready video in current status: " + v.status.String())
	}
	v.status = vo.VideoStatusReady
	v.failureReason = ""
	v.updatedAt = time.Now()
	return nil
}

// MarkDuplicate 重复检测命中，短路剩余阶段
func (v *VideoEntity) MarkDuplicate(originalUUID string) error {
	if originalUUID == "" || originalUUID == v.videoUUID {
		return NewDomainError("duplicate original uuid is invalid")
	}
	if !v.status.CanTransitionTo(vo.VideoStatusDuplicate) {
		return NewDomainError("cannot mark duplicate video in current status: " + v.status.String())
	}
	v.status = vo.VideoStatusDuplicate
	v.duplicateOf = originalUUID
	v.processingIndex = vo.ProcessingIndexNone
	v.failureReason = ""
	v.updatedAt = time.Now()
	return nil
}

// MarkFailed 处理失败
func (v *VideoEntity) MarkFailed(reason string) error {
	if !v.status.CanTransitionTo(vo.VideoStatusFailed) {
		return NewDomainError("cannot mark failed video in current status: " + v.status.String())
	}
	v.status = vo.VideoStatusFailed
	v.failureReason = reason
	v.updatedAt = time.Now()
	return nil
}

// ResetForRetry 管理员重试。fromStart为true时从头重跑，否则从断点续跑。
func (v *VideoEntity) ResetForRetry(fromStart bool) error {
	if v.status != vo.VideoStatusFailed {
		return NewDomainError("can only retry failed videos")
	}
	if fromStart {
		v.processingIndex = vo.ProcessingIndexNone
		v.playbackKey = ""
		v.transcript = nil
		v.embedding = nil
		v.clips = nil
		v.povGroupID = ""
	}
	v.status = vo.VideoStatusQueued
	v.failureReason = ""
	v.updatedAt = time.Now()
	return nil
}

// UnflagDuplicate 管理员撤销重复误判，清空判定并从头重新入队
func (v *VideoEntity) UnflagDuplicate() error {
	if v.status != vo.VideoStatusDuplicate {
		return NewDomainError("can only unflag duplicate videos")
	}
	v.status = vo.VideoStatusQueued
	v.duplicateOf = ""
	v.processingIndex = vo.ProcessingIndexNone
	v.playbackKey = ""
	v.transcript = nil
	v.embedding = nil
	v.clips = nil
	v.povGroupID = ""
	v.updatedAt = time.Now()
	return nil
}

// RepointDuplicate 管理员修正重复指向
func (v *VideoEntity) RepointDuplicate(originalUUID string) error {
	if v.status != vo.VideoStatusDuplicate {
		return NewDomainError("can only repoint duplicate videos")
	}
	if originalUUID == "" || originalUUID == v.videoUUID {
		return NewDomainError("duplicate original uuid is invalid")
	}
	v.duplicateOf = originalUUID
	v.updatedAt = time.Now()
	return nil
}

// SetPlaybackKey 记录转码产物
func (v *VideoEntity) SetPlaybackKey(key string) {
	v.playbackKey = key
	v.updatedAt = time.Now()
}

// SetDuration 记录视频时长
func (v *VideoEntity) SetDuration(seconds float64) {
	v.durationSeconds = seconds
	v.updatedAt = time.Now()
}

// SetTranscript 记录转写产物
func (v *VideoEntity) SetTranscript(t vo.Transcript) {
	v.transcript = t
	v.updatedAt = time.Now()
}

// SetEmbedding 记录内容向量
func (v *VideoEntity) SetEmbedding(e vo.Vector) {
	v.embedding = e
	v.updatedAt = time.Now()
}

// SetClips 记录自动剪辑产物
func (v *VideoEntity) SetClips(clips []vo.TrimmedClip) {
	v.clips = clips
	v.updatedAt = time.Now()
}

// SetPovGroupID 记录多视角分组
func (v *VideoEntity) SetPovGroupID(groupID string) {
	v.povGroupID = groupID
	v.updatedAt = time.Now()
}

// SetEngagement 刷新互动计数（由持久层原子累加后回填）
func (v *VideoEntity) SetEngagement(likes, shares int64) {
	v.likeCount = likes
	v.shareCount = shares
}
