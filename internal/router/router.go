package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/inkwell/internal/config"
	"github.com/inkwell/internal/handler"
	"gorm.io/gorm"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("inkwell_session", store))

	api := handler.NewAPI(gdb, cfg)
	r.Use(api.IdentitySync())

	// 静态文件服务
	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// 前台与作者 API
	public := r.Group("/api")
	{
		public.POST("/login", api.Login)
		public.GET("/logout", api.Logout)

		public.GET("/posts", api.ListPublishedPosts)
		public.GET("/posts/:id", api.GetPublishedPost)
		public.GET("/posts/:id/comments", api.ListComments)
		public.GET("/posts/:id/reactions", api.GetReactions)
		public.POST("/contact", api.SubmitContact)

		// 需要登录的路由
		auth := public.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.POST("/posts/:id/comments", api.AddComment)
			auth.POST("/posts/:id/reactions", api.ToggleReaction)
			auth.DELETE("/comments/:id", api.DeleteComment)

			auth.GET("/me/posts", api.ListMyPosts)
			auth.POST("/me/posts", api.CreatePost)
			auth.PUT("/me/posts/:id", api.UpdatePost)
			auth.DELETE("/me/posts/:id", api.DeletePost)
			auth.POST("/me/posts/:id/submit", api.SubmitPost)
			auth.POST("/me/posts/:id/collaborators", api.InviteCollaborator)
			auth.POST("/invites/:id/accept", api.AcceptInvite)

			auth.GET("/analytics", api.GetAnalytics)

			auth.POST("/media", api.UploadImage)
			auth.GET("/media", api.ListMedia)
		}
	}

	// 后台管理路由
	admin := r.Group("/admin/api")
	admin.Use(handler.AuthRequired(), handler.AdminRequired())
	{
		admin.GET("/overview", api.GetOverview)

		admin.GET("/posts", api.ListPostsForReview)
		admin.GET("/posts/:id", api.GetPostForReview)
		admin.PUT("/posts/:id", api.ReviewPost)
		admin.GET("/posts/:id/audit", api.GetAuditTrail)

		admin.GET("/taxonomy", api.GetTaxonomy)
		admin.POST("/taxonomy", api.CreateTaxonomy)
		admin.PUT("/taxonomy", api.UpdateTaxonomy)
		admin.DELETE("/taxonomy", api.DeleteTaxonomy)

		admin.GET("/users", api.ListUsers)
		admin.PUT("/users/:id", api.UpdateUserRole)

		admin.GET("/queries", api.ListContactQueries)
		admin.PATCH("/queries/:id", api.ResolveContactQuery)
		admin.DELETE("/queries/:id", api.DeleteContactQuery)

		admin.POST("/comments/:id/flag", api.FlagComment)
	}

	return r
}
