package convertor

import (
	"encoding/json"

	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/vo"
	"clipstream-service/ddd/infrastructure/database/po"
)

// VideoConvertor 视频转换器
type VideoConvertor struct{}

// NewVideoConvertor 创建视频转换器
func NewVideoConvertor() *VideoConvertor {
	return &VideoConvertor{}
}

// ToEntity 将PO转换为Entity
func (c *VideoConvertor) ToEntity(videoPo *po.Video) *entity.VideoEntity {
	status := vo.VideoStatus(videoPo.Status)
	if !status.IsValid() {
		status = vo.VideoStatusFailed
	}

	var transcript vo.Transcript
	if videoPo.Transcript != "" {
		_ = json.Unmarshal([]byte(videoPo.Transcript), &transcript)
	}
	var embedding vo.Vector
	if videoPo.Embedding != "" {
		_ = json.Unmarshal([]byte(videoPo.Embedding), &embedding)
	}
	var clips []vo.TrimmedClip
	if videoPo.Clips != "" {
		_ = json.Unmarshal([]byte(videoPo.Clips), &clips)
	}

	return entity.RehydrateVideoEntity(entity.VideoSnapshot{
		ID:              videoPo.Id,
		VideoUUID:       videoPo.VideoUUID,
		StreamUUID:      videoPo.StreamUUID,
		UserUUID:        videoPo.UserUUID,
		Title:           videoPo.Title,
		Description:     videoPo.Description,
		StorageKey:      videoPo.StorageKey,
		PlaybackKey:     videoPo.PlaybackKey,
		DurationSeconds: videoPo.DurationSeconds,
		Status:          status,
		ProcessingIndex: videoPo.ProcessingIndex,
		DuplicateOf:     videoPo.DuplicateOf,
		PovGroupID:      videoPo.PovGroupID,
		Transcript:      transcript,
		Embedding:       embedding,
		Clips:           clips,
		LikeCount:       videoPo.LikeCount,
		ShareCount:      videoPo.ShareCount,
		FailureReason:   videoPo.FailureReason,
		UploadedAt:      videoPo.UploadedAt,
		CreatedAt:       videoPo.CreatedAt,
		UpdatedAt:       videoPo.UpdatedAt,
	})
}

// ToPO 将Entity转换为PO
func (c *VideoConvertor) ToPO(videoEntity *entity.VideoEntity) *po.Video {
	var transcript, embedding, clips string
	if t := videoEntity.Transcript(); len(t) > 0 {
		if b, err := json.Marshal(t); err == nil {
			transcript = string(b)
		}
	}
	if e := videoEntity.Embedding(); len(e) > 0 {
		if b, err := json.Marshal(e); err == nil {
			embedding = string(b)
		}
	}
	if cl := videoEntity.Clips(); len(cl) > 0 {
		if b, err := json.Marshal(cl); err == nil {
			clips = string(b)
		}
	}

	return &po.Video{
		BaseModel: po.BaseModel{
			Id:        videoEntity.ID(),
			CreatedAt: videoEntity.CreatedAt(),
			UpdatedAt: videoEntity.UpdatedAt(),
		},
		VideoUUID:       videoEntity.VideoUUID(),
		StreamUUID:      videoEntity.StreamUUID(),
		UserUUID:        videoEntity.UserUUID(),
		Title:           videoEntity.Title(),
		Description:     videoEntity.Description(),
		StorageKey:      videoEntity.StorageKey(),
		PlaybackKey:     videoEntity.PlaybackKey(),
		DurationSeconds: videoEntity.DurationSeconds(),
		Status:          videoEntity.Status().String(),
		ProcessingIndex: videoEntity.ProcessingIndex(),
		DuplicateOf:     videoEntity.DuplicateOf(),
		PovGroupID:      videoEntity.PovGroupID(),
		Transcript:      transcript,
		Embedding:       embedding,
		Clips:           clips,
		LikeCount:       videoEntity.LikeCount(),
		ShareCount:      videoEntity.ShareCount(),
		FailureReason:   videoEntity.FailureReason(),
		UploadedAt:      videoEntity.UploadedAt(),
	}
}

// ToEntities 批量将PO转换为Entity
func (c *VideoConvertor) ToEntities(pos []*po.Video) []*entity.VideoEntity {
	if pos == nil {
		return nil
	}
	entities := make([]*entity.VideoEntity, 0, len(pos))
	for _, p := range pos {
		entities = append(entities, c.ToEntity(p))
	}
	return entities
}
