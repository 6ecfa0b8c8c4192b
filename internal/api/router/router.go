package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fieldpulse/backend/config"
	"fieldpulse/backend/internal/api/handler"
	"fieldpulse/backend/internal/api/middleware"
	"fieldpulse/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 考勤模块（打卡接口限频，防止终端重试风暴）
		attendance := v1.Group("/attendance")
		{
			attendance.POST("/check-in", middleware.RateLimit(rdb, 10, time.Minute), h.Attendance.CheckIn)
			attendance.POST("/check-out", middleware.RateLimit(rdb, 10, time.Minute), h.Attendance.CheckOut)
			attendance.POST("/ping", h.Attendance.Ping)
			attendance.GET("/history", h.Attendance.History)
			attendance.GET("/team-locations", h.Attendance.TeamLocations)
		}

		// 任务卡模块
		jobCards := v1.Group("/job-cards")
		{
			jobCards.POST("", h.JobCard.CreateJobCard)
			jobCards.PUT("/:id/status", h.JobCard.UpdateStatus)
			jobCards.GET("/my", h.JobCard.MyTasks)
		}

		// 城市与围栏模块
		cities := v1.Group("/cities")
		{
			cities.POST("", h.City.CreateCity)
			cities.GET("", h.City.ListCities)
			cities.PUT("/:id/geofence", h.City.SetGeofence)
			cities.GET("/:id/geofence-status", h.City.GeofenceStatus)
		}

		// 客户模块
		customers := v1.Group("/customers")
		{
			customers.POST("", h.Customer.CreateCustomer)
			customers.GET("", h.Customer.ListCustomers)
			customers.GET("/search", h.Customer.SearchCustomers)
		}
		v1.POST("/communications", h.Customer.LogCommunication)

		// 订单模块
		orders := v1.Group("/orders")
		{
			orders.POST("", h.Order.CreateOrder)
			orders.GET("", h.Order.ListOrders)
		}

		// 排行榜与通知
		v1.GET("/leaderboard", h.Score.Leaderboard)
		v1.GET("/notifications", h.Notification.ListNotifications)

		// 后台作业手动触发（运维逃生通道，作业均幂等）
		jobs := v1.Group("/jobs")
		{
			jobs.POST("/scoring/run", h.Jobs.RunScoring)
			jobs.POST("/cadence/run", h.Jobs.RunCadence)
			jobs.POST("/reminders/run", h.Jobs.RunReminders)
		}
	}

	return r
}
