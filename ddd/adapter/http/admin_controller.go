package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"clipstream-service/ddd/application/app"
	"clipstream-service/ddd/application/cqe"
	"clipstream-service/pkg/restapi"
)

// AdminController 管理控制器
type AdminController struct {
	adminApp  app.AdminApp
	streamApp app.StreamApp
}

// NewAdminController 创建管理控制器
func NewAdminController(adminApp app.AdminApp, streamApp app.StreamApp) *AdminController {
	return &AdminController{adminApp: adminApp, streamApp: streamApp}
}

// RetryProcessing 重试失败视频
func (c *AdminController) RetryProcessing(ctx *gin.Context) {
	var req cqe.RetryProcessingReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	resp, err := c.adminApp.RetryProcessing(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// ListDuplicates 重复视频清单
func (c *AdminController) ListDuplicates(ctx *gin.Context) {
	resp, err := c.adminApp.ListDuplicates(ctx.Request.Context())
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// OverrideDuplicate 修正重复判定
func (c *AdminController) OverrideDuplicate(ctx *gin.Context) {
	var req cqe.OverrideDuplicateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		restapi.Failed(ctx, err)
		return
	}
	req.VideoUUID = ctx.Param("video_uuid")

	resp, err := c.adminApp.OverrideDuplicate(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetSystemStats 系统运行统计
func (c *AdminController) GetSystemStats(ctx *gin.Context) {
	resp, err := c.adminApp.GetSystemStats(ctx.Request.Context())
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetStorageStats 流维度存储统计
func (c *AdminController) GetStorageStats(ctx *gin.Context) {
	resp, err := c.streamApp.GetStorageStats(ctx.Request.Context())
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// ListJobs 按状态查询作业
func (c *AdminController) ListJobs(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "100"))
	resp, err := c.adminApp.ListJobsByStatus(ctx.Request.Context(), ctx.Query("status"), limit)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetQueueStatus 调度队列即时视图
func (c *AdminController) GetQueueStatus(ctx *gin.Context) {
	resp, err := c.adminApp.GetQueueStatus(ctx.Request.Context())
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetProcessingStats 作业统计
func (c *AdminController) GetProcessingStats(ctx *gin.Context) {
	resp, err := c.adminApp.GetJobStatistics(ctx.Request.Context())
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// ReindexAll 重建内存索引
func (c *AdminController) ReindexAll(ctx *gin.Context) {
	resp, err := c.adminApp.ReindexAll(ctx.Request.Context())
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}
