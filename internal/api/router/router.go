package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shiftpass/backend/config"
	"shiftpass/backend/internal/api/handler"
	"shiftpass/backend/internal/api/middleware"
	"shiftpass/backend/pkg/jwt"
	"shiftpass/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(1 << 20)) // ICS 内联导入为最大请求体

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")

	// 所有接口均需员工 JWT（由统一身份服务签发）
	authorized := v1.Group("")
	authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
	{
		// 签到模块（员工端）
		checkIns := authorized.Group("/check-ins")
		{
			checkIns.POST("", h.CheckIn.RecordCheckIn)
			checkIns.GET("/today", h.CheckIn.GetTodayCheckIn)
			checkIns.GET("", middleware.RoleAuth("admin", "manager"), h.CheckIn.ListCheckIns)
		}

		// 排班模块
		shifts := authorized.Group("/shifts")
		{
			shifts.GET("/my", h.Shift.ListMyShifts)
			shifts.POST("", middleware.RoleAuth("admin", "manager"), h.Shift.UpsertShift)
			shifts.POST("/import-ics", middleware.RoleAuth("admin", "manager"), h.Shift.ImportShiftsICS)
		}

		// 地点模块（管理端）
		locations := authorized.Group("/locations")
		{
			locations.GET("", middleware.RoleAuth("admin", "manager"), h.Location.ListLocations)
			locations.GET("/:id", middleware.RoleAuth("admin", "manager"), h.Location.GetLocation)
			locations.POST("", middleware.RoleAuth("admin"), h.Location.CreateLocation)
			locations.PUT("/:id", middleware.RoleAuth("admin"), h.Location.UpdateLocation)
			locations.DELETE("/:id", middleware.RoleAuth("admin"), h.Location.DeleteLocation)

			// Token 发放限速，防止批量刷码
			locations.POST("/:id/tokens",
				middleware.RoleAuth("admin"),
				middleware.RateLimit(rdb, cfg.CheckIn.IssueRateLimit, cfg.CheckIn.IssueRateWindow),
				h.Token.IssueToken)
			locations.GET("/:id/tokens", middleware.RoleAuth("admin"), h.Token.ListTokens)
		}

		// Token 管理
		authorized.DELETE("/tokens/:id", middleware.RoleAuth("admin"), h.Token.RevokeToken)

		// 员工模块（管理端）
		workers := authorized.Group("/workers")
		workers.Use(middleware.RoleAuth("admin", "manager"))
		{
			workers.GET("", h.Worker.ListWorkers)
			workers.PUT("/:id/location", middleware.RoleAuth("admin"), h.Worker.AssignLocation)
		}

		// 异常复核
		anomalies := authorized.Group("/anomalies")
		anomalies.Use(middleware.RoleAuth("admin", "manager"))
		{
			anomalies.GET("", h.Anomaly.ListAnomalies)
			anomalies.PUT("/:id/resolve", h.Anomaly.ResolveAnomaly)
		}

		// 导出模块
		export := authorized.Group("/export")
		{
			export.GET("/check-ins", middleware.RoleAuth("admin", "manager"), h.Export.ExportCheckIns)
		}
	}

	return r
}
