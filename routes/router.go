package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/open436/section-service/clients"
	"github.com/open436/section-service/config"
	"github.com/open436/section-service/controllers"
	"github.com/open436/section-service/middleware"
	"github.com/open436/section-service/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, files *clients.FileServiceClient) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", middleware.HeaderUserID, middleware.HeaderUsername, middleware.HeaderUserRole},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// Gateway identity headers, attached for every route
	r.Use(middleware.GatewayIdentity())

	r.GET("/health", func(ctx *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{
				"status":  "unhealthy",
				"service": "section-service",
				"error":   err.Error(),
			})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "section-service",
			"version": "1.0.0",
		})
	})

	sectionController := controllers.NewSectionController(db, files)
	internalController := controllers.NewInternalController(db)

	api := r.Group("/api/v1")

	sections := api.Group("/sections")
	sections.GET("", sectionController.ListSections)
	sections.GET("/statistics", middleware.AdminRequired(), sectionController.GetStatistics)
	sections.GET("/slug/:slug", sectionController.GetSectionBySlug)
	sections.GET("/:id", sectionController.GetSection)

	admin := api.Group("/sections")
	admin.Use(middleware.AdminRequired(), middleware.RateLimitMiddleware())
	admin.POST("", sectionController.CreateSection)
	admin.PUT("/reorder", sectionController.ReorderSections)
	admin.PUT("/:id", sectionController.UpdateSection)
	admin.PATCH("/:id", sectionController.UpdateSection)
	admin.PUT("/:id/status", sectionController.UpdateStatus)
	admin.PATCH("/:id/toggle", sectionController.ToggleSection)
	admin.DELETE("/:id", sectionController.DeleteSection)

	// Trusted-network surface for the content service; no gateway in front
	internal := r.Group("/internal/sections")
	internal.POST("/:id/increment-posts", internalController.IncrementPosts)
	internal.GET("/:id/validate", internalController.ValidateSection)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, "NotFound", "route not found")
	})

	return r
}
