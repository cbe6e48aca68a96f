package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schedule-maker/config"
	"schedule-maker/internal/api/handler"
	"schedule-maker/internal/api/middleware"
	"schedule-maker/pkg/jwt"
	"schedule-maker/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时提醒接口不限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxUploadMB << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 开始会话（无需令牌）
		v1.POST("/sessions", h.Session.CreateSession)

		// 需要会话令牌的路由
		authorized := v1.Group("")
		authorized.Use(middleware.SessionAuth(jwtMgr))
		{
			// 会话
			authorized.GET("/sessions/current", h.Session.GetCurrentSession)
			authorized.DELETE("/sessions/current", h.Session.EndSession)

			// 课表与选课
			authorized.POST("/timetable", h.Timetable.UploadTimetable)
			authorized.GET("/timetable/sections", h.Timetable.ListSections)
			authorized.PUT("/selection", h.Timetable.UpdateSelection)

			// 周视图
			authorized.GET("/schedule", h.Schedule.GetWeeklyView)
			authorized.PUT("/schedule/checklist", h.Schedule.UpdateChecklist)

			// 个人安排
			personal := authorized.Group("/personal")
			{
				personal.GET("", h.Personal.ListEntries)
				personal.POST("", h.Personal.CreateEntry)
				personal.DELETE("/:id", h.Personal.DeleteEntry)
			}

			// 导出
			export := authorized.Group("/export")
			{
				export.GET("/xlsx", h.Export.ExportXLSX)
				export.GET("/ics", h.Export.ExportICS)
			}

			// 提醒邮件（按会话限流）
			reminders := authorized.Group("/reminders")
			{
				reminders.POST("",
					middleware.RateLimit(rdb, cfg.Mail.RateLimit, cfg.Mail.RateLimitWindow, logger),
					h.Reminder.SendReminder,
				)
				reminders.GET("/history", h.Reminder.ListHistory)
			}
		}
	}

	return r
}
