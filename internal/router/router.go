package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/luizhmmachado/school-diary/internal/config"
	"github.com/luizhmmachado/school-diary/internal/handler"
	"github.com/luizhmmachado/school-diary/internal/middleware"
	"github.com/luizhmmachado/school-diary/internal/response"
	"github.com/luizhmmachado/school-diary/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Class    *handler.ClassHandler
	Event    *handler.EventHandler
	Calendar *handler.CalendarHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.POST("/google", handlers.Auth.GoogleLogin)
		auth.POST("/anonymous", handlers.Auth.Anonymous)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Diary Group (JWT + Session Check) ──────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireAuth(authService))
	{
		// Class management
		api.GET("/classes", handlers.Class.ListClasses)
		api.POST("/classes", handlers.Class.CreateClass)
		api.PUT("/classes/:class_id", handlers.Class.UpdateClass)
		api.DELETE("/classes/:class_id", handlers.Class.DeleteClass)
		api.POST("/classes/:class_id/absences", handlers.Class.IncrementAbsences)
		api.GET("/classes/:class_id/average", handlers.Calendar.ClassAverage)

		// Event management
		api.GET("/events", handlers.Event.ListEvents)
		api.POST("/events", handlers.Event.CreateEvent)
		api.PUT("/events/:event_id", handlers.Event.UpdateEvent)
		api.DELETE("/events/:event_id", handlers.Event.DeleteEvent)

		// Calendar views
		calendarGroup := api.Group("/calendar")
		{
			calendarGroup.GET("/days", handlers.Calendar.Days)
			calendarGroup.GET("/month", handlers.Calendar.Month)
			calendarGroup.GET("/upcoming", handlers.Calendar.Upcoming)
			calendarGroup.GET("/averages", handlers.Calendar.Averages)
			calendarGroup.GET("/export.ics", middleware.CacheControl(300), handlers.Calendar.ExportICS)
		}
	}

	return router
}
