package http

import (
	"github.com/gin-gonic/gin"

	"clipstream-service/ddd/application/app"
	"clipstream-service/pkg/config"
	"clipstream-service/pkg/middleware"
)

// Router 路由配置
type Router struct {
	videoApp  app.VideoApp
	streamApp app.StreamApp
	searchApp app.SearchApp
	adminApp  app.AdminApp
}

// NewRouter 创建路由配置
func NewRouter(videoApp app.VideoApp, streamApp app.StreamApp, searchApp app.SearchApp, adminApp app.AdminApp) *Router {
	return &Router{
		videoApp:  videoApp,
		streamApp: streamApp,
		searchApp: searchApp,
		adminApp:  adminApp,
	}
}

// DefaultRouter 用默认应用服务装配路由
func DefaultRouter() *Router {
	return NewRouter(app.DefaultVideoApp(), app.DefaultStreamApp(), app.DefaultSearchApp(), app.DefaultAdminApp())
}

// SetupMiddleware 设置中间件
func (r *Router) SetupMiddleware(engine *gin.Engine) {
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestContextMiddleware())
}

// SetupRoutes 设置路由
func (r *Router) SetupRoutes(engine *gin.Engine) {
	cfg := config.GetGlobalConfig()

	videoController := NewVideoController(r.videoApp)
	streamController := NewStreamController(r.streamApp)
	searchController := NewSearchController(r.searchApp)
	adminController := NewAdminController(r.adminApp, r.streamApp)

	v1 := engine.Group("/api/v1")
	{
		streams := v1.Group("/streams")
		{
			streams.POST("", streamController.CreateStream)
			streams.GET("", streamController.ListStreams)
			streams.GET("/:stream_uuid", streamController.GetStream)
			streams.PUT("/:stream_uuid", streamController.UpdateStream)
			streams.GET("/:stream_uuid/videos", videoController.ListStreamVideos)
			streams.POST("/:stream_uuid/invites", streamController.CreateInvite)
			streams.GET("/:stream_uuid/invites", streamController.ListInvites)
		}
		v1.POST("/invites/:code/redeem", streamController.RedeemInvite)

		videos := v1.Group("/videos")
		{
			videos.POST("", videoController.RegisterUpload)
			videos.GET("/:video_uuid", videoController.GetVideo)
			videos.DELETE("/:video_uuid", videoController.DeleteVideo)
			videos.POST("/:video_uuid/uploaded", videoController.CompleteUpload)
			videos.GET("/:video_uuid/stream", videoController.GetStreamURLs)
			videos.GET("/:video_uuid/processing", videoController.GetProcessingStatus)
			videos.GET("/:video_uuid/duplicates", videoController.GetDuplicates)
			videos.GET("/:video_uuid/similar", searchController.GetSimilarVideos)
			videos.GET("/:video_uuid/pov", searchController.GetPovGroup)
			videos.GET("/:video_uuid/trimmed", videoController.GetTrimmedClips)
			videos.GET("/:video_uuid/transcript", videoController.GetTranscript)
			videos.GET("/:video_uuid/embeddings", videoController.GetEmbedding)
			videos.GET("/:video_uuid/timeline", videoController.GetTimeline)
			videos.POST("/:video_uuid/like", videoController.LikeVideo)
			videos.POST("/:video_uuid/share", videoController.CreateShareLink)
			videos.GET("/:video_uuid/shares", videoController.ListShareLinks)
		}
		v1.GET("/share/:token", videoController.ResolveShareLink)

		processing := v1.Group("/processing")
		{
			processing.GET("/queue", adminController.GetQueueStatus)
			processing.GET("/stats", adminController.GetProcessingStats)
		}

		search := v1.Group("/search")
		{
			search.GET("", searchController.Search)
			search.GET("/suggestions", searchController.Suggest)
		}

		admin := v1.Group("/admin", middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RequireAdmin())
		{
			admin.POST("/processing/retry", adminController.RetryProcessing)
			admin.GET("/duplicates", adminController.ListDuplicates)
			admin.POST("/duplicates/:video_uuid/override", adminController.OverrideDuplicate)
			admin.GET("/jobs", adminController.ListJobs)
			admin.GET("/stats", adminController.GetSystemStats)
			admin.POST("/reindex", adminController.ReindexAll)
		}
		v1.GET("/system/storage", adminController.GetStorageStats)
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "clipstream-service",
		})
	})
}
