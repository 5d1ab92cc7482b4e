package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"clipstream-service/ddd/application/app"
	"clipstream-service/ddd/application/cqe"
	"clipstream-service/pkg/restapi"
)

// StreamController 流控制器
type StreamController struct {
	streamApp app.StreamApp
}

// NewStreamController 创建流控制器
func NewStreamController(streamApp app.StreamApp) *StreamController {
	return &StreamController{streamApp: streamApp}
}

// CreateStream 创建流
func (c *StreamController) CreateStream(ctx *gin.Context) {
	var req cqe.CreateStreamReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	req.OwnerUUID = callerUUID(ctx)

	resp, err := c.streamApp.CreateStream(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetStream 获取流详情
func (c *StreamController) GetStream(ctx *gin.Context) {
	resp, err := c.streamApp.GetStream(ctx.Request.Context(), ctx.Param("stream_uuid"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// ListStreams 流列表
func (c *StreamController) ListStreams(ctx *gin.Context) {
	req := cqe.ListStreamsReq{OwnerUUID: ctx.Query("owner_uuid")}
	req.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	req.Size, _ = strconv.Atoi(ctx.DefaultQuery("size", "20"))

	resp, err := c.streamApp.ListStreams(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// UpdateStream 更新流
func (c *StreamController) UpdateStream(ctx *gin.Context) {
	var req cqe.UpdateStreamReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	req.StreamUUID = ctx.Param("stream_uuid")
	req.UserUUID = callerUUID(ctx)

	resp, err := c.streamApp.UpdateStream(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// CreateInvite 创建协作邀请
func (c *StreamController) CreateInvite(ctx *gin.Context) {
	var req cqe.CreateInviteReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	req.StreamUUID = ctx.Param("stream_uuid")
	req.UserUUID = callerUUID(ctx)

	resp, err := c.streamApp.CreateInvite(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// ListInvites 流的邀请列表
func (c *StreamController) ListInvites(ctx *gin.Context) {
	resp, err := c.streamApp.ListInvites(ctx.Request.Context(), ctx.Param("stream_uuid"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// RedeemInvite 兑换邀请码
func (c *StreamController) RedeemInvite(ctx *gin.Context) {
	req := cqe.RedeemInviteReq{
		Code:     ctx.Param("code"),
		UserUUID: callerUUID(ctx),
	}
	resp, err := c.streamApp.RedeemInvite(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}
