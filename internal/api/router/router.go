package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AzuraDhar/goldPanicles-sub000/config"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/api/handler"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/api/middleware"
	"github.com/AzuraDhar/goldPanicles-sub000/internal/model"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/jwt"
	"github.com/AzuraDhar/goldPanicles-sub000/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(int64(cfg.Storage.MaxUploadMB) << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── 附件静态访问 ──
	r.Static("/uploads", cfg.Storage.RootDir)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证；登录、注册带限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/register", middleware.RateLimit(rdb, 5, time.Minute), h.Auth.Register)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 附件上传（申请方提交前先传附件）
			authorized.POST("/attachments", middleware.RoleAuth(model.RoleClient, model.RoleAdmin), h.Attachment.Upload)

			// 活动申请模块（申请方）
			requests := authorized.Group("/requests")
			{
				requests.POST("", middleware.RoleAuth(model.RoleClient), h.Request.Submit)
				requests.GET("/mine", middleware.RoleAuth(model.RoleClient), h.Request.ListMine)
				requests.GET("/:id", h.Request.GetRequest) // 本人/管理员/被分派组长（Service 层鉴权）
				requests.PUT("/:id", middleware.RoleAuth(model.RoleClient), h.Request.Update)
				requests.DELETE("/:id", middleware.RoleAuth(model.RoleClient), h.Request.Delete)
				requests.GET("/:id/invitations", middleware.RoleAuth(model.RoleAdmin, model.RoleSectionHead), h.Assignment.ListRequestInvitations)
				requests.GET("/:id/accepted-positions", middleware.RoleAuth(model.RoleAdmin, model.RoleSectionHead), h.Assignment.AcceptedByPosition)
			}

			// 日历占用（所有登录用户可见）
			authorized.GET("/events", h.AdminEvent.List)

			// 空闲时间表（所有角色维护本人；管理员可查任意成员）
			availability := authorized.Group("/availability")
			{
				availability.GET("", h.Availability.GetWeek)
				availability.PUT("", h.Availability.SaveWeek)
			}

			// 管理端
			admin := authorized.Group("/admin")
			admin.Use(middleware.RoleAuth(model.RoleAdmin))
			{
				admin.POST("/accounts", h.Auth.CreateAccount)
				admin.GET("/section-heads", h.Assignment.ListSectionHeads)
				admin.GET("/availability/:userId", h.Availability.GetUserWeek)

				admin.GET("/requests", h.Request.ListAll)
				admin.GET("/requests/counts", h.Request.Counts)
				admin.PUT("/requests/:id/approve", h.Request.Approve)
				admin.PUT("/requests/:id/deny", h.Request.Deny)
				admin.POST("/requests/:id/assign", h.Assignment.Assign)

				admin.POST("/events", h.AdminEvent.Create)
				admin.DELETE("/events/:id", h.AdminEvent.Delete)

				admin.GET("/export/requests", h.Export.ExportRequests)
				admin.GET("/export/calendar", h.Export.ExportCalendar)
			}

			// 组长端
			head := authorized.Group("/head")
			head.Use(middleware.RoleAuth(model.RoleSectionHead))
			{
				head.GET("/tasks", h.Assignment.ListHeadTasks)
				head.PUT("/tasks/:id/decision", h.Assignment.HeadDecision)
				head.GET("/staff", h.Assignment.ListStaff)
				head.POST("/tasks/:id/invitations", h.Assignment.Invite)
				head.DELETE("/invitations/:id", h.Assignment.Cancel)
			}

			// 部员端
			staff := authorized.Group("/staff")
			staff.Use(middleware.RoleAuth(model.RoleStaff))
			{
				staff.GET("/invitations", h.Assignment.ListMyInvitations)
				staff.PUT("/invitations/:id", h.Assignment.Respond)
			}
		}
	}

	return r
}
