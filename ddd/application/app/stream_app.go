package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"clipstream-service/ddd/application/cqe"
	"clipstream-service/ddd/application/dto"
	"clipstream-service/ddd/domain/entity"
	"clipstream-service/ddd/domain/repo"
	"clipstream-service/ddd/infrastructure/database/persistence"
	"clipstream-service/pkg/assert"
	"clipstream-service/pkg/errno"
	"clipstream-service/pkg/logger"
)

var (
	singleStreamApp StreamApp
	onceStreamApp   sync.Once
)

type StreamApp interface {
	// CreateStream 创建流
	CreateStream(ctx context.Context, req *cqe.CreateStreamReq) (*dto.StreamDto, error)
	// GetStream 获取流详情
	GetStream(ctx context.Context, streamUUID string) (*dto.StreamDto, error)
	// ListStreams 流列表，可按归属过滤
	ListStreams(ctx context.Context, req *cqe.ListStreamsReq) ([]*dto.StreamDto, error)
	// UpdateStream 更新流基础信息，只有归属者可操作
	UpdateStream(ctx context.Context, req *cqe.UpdateStreamReq) (*dto.StreamDto, error)
	// CreateInvite 创建协作邀请
	CreateInvite(ctx context.Context, req *cqe.CreateInviteReq) (*dto.InviteDto, error)
	// RedeemInvite 兑换邀请码
	RedeemInvite(ctx context.Context, req *cqe.RedeemInviteReq) (*dto.RedeemResultDto, error)
	// ListInvites 流的邀请列表
	ListInvites(ctx context.Context, streamUUID string) ([]*dto.InviteDto, error)
	// GetStorageStats 各流的存储统计
	GetStorageStats(ctx context.Context) ([]*dto.StreamStorageStatsDto, error)
}

type streamAppImpl struct {
	streamRepo repo.StreamRepository
	inviteRepo repo.InviteRepository
	videoRepo  repo.VideoRepository
}

func DefaultStreamApp() StreamApp {
	assert.NotCircular()
	onceStreamApp.Do(func() {
		singleStreamApp = NewStreamAppWith(
			persistence.NewStreamRepository(),
			persistence.NewInviteRepository(),
			persistence.NewVideoRepository(),
		)
	})
	assert.NotNil(singleStreamApp)
	return singleStreamApp
}

func NewStreamAppWith(streamRepo repo.StreamRepository, inviteRepo repo.InviteRepository, videoRepo repo.VideoRepository) StreamApp {
	return &streamAppImpl{
		streamRepo: streamRepo,
		inviteRepo: inviteRepo,
		videoRepo:  videoRepo,
	}
}

func (a *streamAppImpl) CreateStream(ctx context.Context, req *cqe.CreateStreamReq) (*dto.StreamDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	stream := entity.NewStreamEntity(req.OwnerUUID, req.Title, req.Description)
	if err := a.streamRepo.CreateStream(ctx, stream); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	logger.Infof("Stream created stream_uuid=%s owner_uuid=%s", stream.StreamUUID(), req.OwnerUUID)
	return dto.NewStreamDto(stream), nil
}

func (a *streamAppImpl) GetStream(ctx context.Context, streamUUID string) (*dto.StreamDto, error) {
	if streamUUID == "" {
		return nil, errno.ErrStreamUUIDRequired
	}
	stream, err := a.getStream(ctx, streamUUID)
	if err != nil {
		return nil, err
	}
	return dto.NewStreamDto(stream), nil
}

func (a *streamAppImpl) ListStreams(ctx context.Context, req *cqe.ListStreamsReq) ([]*dto.StreamDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var (
		streams []*entity.StreamEntity
		err     error
	)
	offset := (req.Page - 1) * req.Size
	if req.OwnerUUID != "" {
		streams, err = a.streamRepo.GetStreamsByOwner(ctx, req.OwnerUUID, req.Size, offset)
	} else {
		streams, err = a.streamRepo.ListStreams(ctx, req.Size, offset)
	}
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	dtos := make([]*dto.StreamDto, 0, len(streams))
	for _, s := range streams {
		dtos = append(dtos, dto.NewStreamDto(s))
	}
	return dtos, nil
}

func (a *streamAppImpl) UpdateStream(ctx context.Context, req *cqe.UpdateStreamReq) (*dto.StreamDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	stream, err := a.getStream(ctx, req.StreamUUID)
	if err != nil {
		return nil, err
	}
	if req.UserUUID != "" && !stream.IsOwnedBy(req.UserUUID) {
		return nil, errno.ErrForbidden
	}
	if err := stream.Update(req.Title, req.Description); err != nil {
		return nil, errno.NewBizError(errno.ErrInvalidParam, err)
	}
	if err := a.streamRepo.UpdateStream(ctx, stream); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return dto.NewStreamDto(stream), nil
}

func (a *streamAppImpl) CreateInvite(ctx context.Context, req *cqe.CreateInviteReq) (*dto.InviteDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	stream, err := a.getStream(ctx, req.StreamUUID)
	if err != nil {
		return nil, err
	}
	if req.UserUUID != "" && !stream.IsOwnedBy(req.UserUUID) {
		return nil, errno.ErrForbidden
	}

	invite, err := entity.NewInviteEntity(req.StreamUUID, req.UserUUID, req.Role, req.MaxUses, time.Duration(req.TTLHours)*time.Hour)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrInvalidParam, err)
	}
	if err := a.inviteRepo.CreateInvite(ctx, invite); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	logger.Infof("Invite created stream_uuid=%s code=%s role=%s", req.StreamUUID, invite.Code(), req.Role)
	return dto.NewInviteDto(invite), nil
}

func (a *streamAppImpl) RedeemInvite(ctx context.Context, req *cqe.RedeemInviteReq) (*dto.RedeemResultDto, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	invite, err := a.inviteRepo.GetInviteByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrInviteNotFound
		}
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	if err := invite.Redeem(time.Now()); err != nil {
		return nil, errno.ErrInviteExpired
	}
	if err := a.inviteRepo.UpdateInvite(ctx, invite); err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return &dto.RedeemResultDto{StreamUUID: invite.StreamUUID(), Role: invite.Role()}, nil
}

func (a *streamAppImpl) ListInvites(ctx context.Context, streamUUID string) ([]*dto.InviteDto, error) {
	if streamUUID == "" {
		return nil, errno.ErrStreamUUIDRequired
	}
	invites, err := a.inviteRepo.GetInvitesByStream(ctx, streamUUID)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	dtos := make([]*dto.InviteDto, 0, len(invites))
	for _, i := range invites {
		dtos = append(dtos, dto.NewInviteDto(i))
	}
	return dtos, nil
}

func (a *streamAppImpl) GetStorageStats(ctx context.Context) ([]*dto.StreamStorageStatsDto, error) {
	streams, err := a.streamRepo.ListStreams(ctx, 1000, 0)
	if err != nil {
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	dtos := make([]*dto.StreamStorageStatsDto, 0, len(streams))
	for _, s := range streams {
		stats, err := a.videoRepo.GetStreamStorageStats(ctx, s.StreamUUID())
		if err != nil {
			logger.Warnf("Failed to load storage stats stream_uuid=%s error=%v", s.StreamUUID(), err)
			continue
		}
		dtos = append(dtos, dto.NewStreamStorageStatsDto(*stats))
	}
	return dtos, nil
}

func (a *streamAppImpl) getStream(ctx context.Context, streamUUID string) (*entity.StreamEntity, error) {
	stream, err := a.streamRepo.GetStreamByUUID(ctx, streamUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errno.ErrStreamNotFound
		}
		return nil, errno.NewBizError(errno.ErrDatabase, err)
	}
	return stream, nil
}
