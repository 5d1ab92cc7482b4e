package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"clipstream-service/ddd/application/app"
	"clipstream-service/ddd/application/cqe"
	"clipstream-service/pkg/restapi"
)

// SearchController 搜索控制器
type SearchController struct {
	searchApp app.SearchApp
}

// NewSearchController 创建搜索控制器
func NewSearchController(searchApp app.SearchApp) *SearchController {
	return &SearchController{searchApp: searchApp}
}

// Search 关键词搜索
func (c *SearchController) Search(ctx *gin.Context) {
	req := cqe.SearchVideosReq{Query: ctx.Query("q")}
	req.Limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	resp, err := c.searchApp.Search(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// Suggest 搜索联想
func (c *SearchController) Suggest(ctx *gin.Context) {
	req := cqe.SuggestReq{Prefix: ctx.Query("q")}
	resp, err := c.searchApp.Suggest(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetSimilarVideos 相似视频
func (c *SearchController) GetSimilarVideos(ctx *gin.Context) {
	req := cqe.SimilarVideosReq{VideoUUID: ctx.Param("video_uuid")}
	req.Limit, _ = strconv.Atoi(ctx.DefaultQuery("limit", "10"))

	resp, err := c.searchApp.GetSimilarVideos(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}

// GetPovGroup 多视角分组
func (c *SearchController) GetPovGroup(ctx *gin.Context) {
	req := cqe.PovGroupReq{VideoUUID: ctx.Param("video_uuid")}
	resp, err := c.searchApp.GetPovGroup(ctx.Request.Context(), &req)
	if err != nil {
		restapi.Failed(ctx, err)
		return
	}
	restapi.Success(ctx, resp)
}
