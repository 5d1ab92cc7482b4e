package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"clipstream-service/ddd/application/app"
	"clipstream-service/ddd/application/cqe"
	"clipstream-service/pkg/middleware"
	"clipstream-service/pkg/restapi"
)

// VideoController 视频控制器
type VideoController struct {
	videoApp app.VideoApp
}

// NewVideoController 创建视频控制器
func NewVideoController(videoApp app.VideoApp) *VideoController {
	return &VideoController{videoApp: videoApp}
}

func callerUUID(ctx *gin.Context) string {
	if v, ok := ctx.Get(middleware.CtxKeyUserUUID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ctx.GetHeader(middleware.HeaderUserUUID)
}

// RegisterUpload 登记上传
func (c *VideoController) RegisterUpload(ctx *gin.Context) {
	var req cqe.RegisterUploadReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	req.UserUUID = callerUUID(ctx)

	resp, err := c.videoApp.RegisterUpload(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// CompleteUpload 上传完成通知
func (c *VideoController) CompleteUpload(ctx *gin.Context) {
	req := cqe.CompleteUploadReq{VideoUUID: ctx.Param("video_uuid")}
	resp, err := c.videoApp.CompleteUpload(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetVideo 获取视频详情
func (c *VideoController) GetVideo(ctx *gin.Context) {
	req := cqe.GetVideoReq{VideoUUID: ctx.Param("video_uuid")}
	resp, err := c.videoApp.GetVideo(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetProcessingStatus 获取处理进度
func (c *VideoController) GetProcessingStatus(ctx *gin.Context) {
	resp, err := c.videoApp.GetProcessingStatus(ctx.Request.Context(), ctx.Param("video_uuid"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetDuplicates 获取指向该视频的重复视频
func (c *VideoController) GetDuplicates(ctx *gin.Context) {
	resp, err := c.videoApp.GetDuplicates(ctx.Request.Context(), ctx.Param("video_uuid"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// LikeVideo 点赞
func (c *VideoController) LikeVideo(ctx *gin.Context) {
	req := cqe.LikeVideoReq{VideoUUID: ctx.Param("video_uuid")}
	resp, err := c.videoApp.LikeVideo(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// CreateShareLink 创建分享链接
func (c *VideoController) CreateShareLink(ctx *gin.Context) {
	var req cqe.CreateShareLinkReq
	_ = ctx.ShouldBindJSON(&req) // body可为空，走默认有效期
	req.VideoUUID = ctx.Param("video_uuid")
	req.UserUUID = callerUUID(ctx)

	resp, err := c.videoApp.CreateShareLink(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// ResolveShareLink 解析分享令牌
func (c *VideoController) ResolveShareLink(ctx *gin.Context) {
	req := cqe.ResolveShareLinkReq{Token: ctx.Param("token")}
	resp, err := c.videoApp.ResolveShareLink(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// ListShareLinks 视频的分享链接列表
func (c *VideoController) ListShareLinks(ctx *gin.Context) {
	resp, err := c.videoApp.ListShareLinks(ctx.Request.Context(), ctx.Param("video_uuid"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetStreamURLs 限时播放链接
func (c *VideoController) GetStreamURLs(ctx *gin.Context) {
	resp, err := c.videoApp.GetStreamURLs(ctx.Request.Context(), ctx.Param("video_uuid"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetTranscript 视频转写
func (c *VideoController) GetTranscript(ctx *gin.Context) {
	resp, err := c.videoApp.GetTranscript(ctx.Request.Context(), ctx.Param("video_uuid"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetTrimmedClips 自动剪辑片段
func (c *VideoController) GetTrimmedClips(ctx *gin.Context) {
	resp, err := c.videoApp.GetTrimmedClips(ctx.Request.Context(), ctx.Param("video_uuid"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetTimeline 时间线视图
func (c *VideoController) GetTimeline(ctx *gin.Context) {
	resp, err := c.videoApp.GetTimeline(ctx.Request.Context(), ctx.Param("video_uuid"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetEmbedding 内容向量
func (c *VideoController) GetEmbedding(ctx *gin.Context) {
	resp, err := c.videoApp.GetEmbedding(ctx.Request.Context(), ctx.Param("video_uuid"))
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// DeleteVideo 删除视频
func (c *VideoController) DeleteVideo(ctx *gin.Context) {
	req := cqe.DeleteVideoReq{VideoUUID: ctx.Param("video_uuid")}
	if err := c.videoApp.DeleteVideo(ctx.Request.Context(), &req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, gin.H{"video_uuid": req.VideoUUID})
}

// ListStreamVideos 流下视频列表
func (c *VideoController) ListStreamVideos(ctx *gin.Context) {
	req := cqe.ListStreamVideosReq{StreamUUID: ctx.Param("stream_uuid")}
	req.Page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	req.Size, _ = strconv.Atoi(ctx.DefaultQuery("size", "20"))

	resp, err := c.videoApp.ListStreamVideos(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}
