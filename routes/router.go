package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wrenhq/wellnest/config"
	"github.com/wrenhq/wellnest/controllers"
	"github.com/wrenhq/wellnest/insight"
	"github.com/wrenhq/wellnest/middleware"
	"github.com/wrenhq/wellnest/notify"
	"github.com/wrenhq/wellnest/store"
	"github.com/wrenhq/wellnest/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, notifier notify.Notifier) *gin.Engine {
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
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
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

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	st := store.NewGorm(db)
	generator := insight.NewGenerator(st, insight.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		BaseURL:    cfg.GeminiBaseURL,
		RecentMax:  cfg.InsightRecentMax,
		WindowDays: cfg.InsightWindowDays,
		MoodScale:  cfg.MoodScale,
	})

	authController := controllers.NewAuthController(db)
	checkInController := controllers.NewCheckInController(st, notifier)
	habitController := controllers.NewHabitController(db, notifier)
	dashboardController := controllers.NewDashboardController(st, notifier)
	insightController := controllers.NewInsightController(generator)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Insight resolves identity itself so anonymous callers still get a
	// usable suggestion body with a 401.
	api.POST("/insight", middleware.AuthOptional(), middleware.RateLimitMiddleware(), insightController.Generate)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/checkins", checkInController.CreateCheckIn)
	protected.GET("/checkins/recent", checkInController.RecentCheckIns)
	protected.POST("/habits", habitController.CreateHabit)
	protected.GET("/habits", habitController.ListHabits)
	protected.POST("/habits/:id/complete", habitController.CompleteHabit)
	protected.GET("/dashboard/weekly", dashboardController.WeeklyMood)
	protected.GET("/dashboard/habits", dashboardController.HabitStats)
	protected.GET("/dashboard/stream", dashboardController.Stream)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
