package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/certify-backend/internal/config"
	"github.com/stemsi/certify-backend/internal/handler"
	"github.com/stemsi/certify-backend/internal/middleware"
	"github.com/stemsi/certify-backend/internal/response"
)

// coursesMaxAge is how long clients may reuse a fetched course document.
const coursesMaxAge = 30

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Course     *handler.CourseHandler
	Draft      *handler.DraftHandler
	Assessment *handler.AssessmentHandler
	Export     *handler.ExportHandler
	WS         *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, uploadLimiter *middleware.RateLimiter, cfg *config.Config) *gin.Engine {
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())

	// Spreadsheets are already zip-compressed.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper: func(c *gin.Context) bool {
			return strings.HasSuffix(c.Request.URL.Path, "/export")
		},
	}))

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Course documents (bare JSON) ──────────────────────────────────
	courses := router.Group("/courses")
	courses.Use(middleware.CacheControl(coursesMaxAge))
	{
		courses.GET("", handlers.Course.List)
		courses.GET("/:courseName", handlers.Course.Get)
	}
	router.POST("/certificationUpload", uploadLimiter.Middleware(), handlers.Course.Upload)

	api := router.Group("/api/v1")
	api.Use(middleware.NoStore())

	// ─── Authoring ─────────────────────────────────────────────────────
	drafts := api.Group("/drafts")
	{
		drafts.POST("", handlers.Draft.Open)
		drafts.GET("/:id", handlers.Draft.Get)
		drafts.PUT("/:id/name", handlers.Draft.Rename)
		drafts.POST("/:id/questions", handlers.Draft.AddQuestion)
		drafts.PUT("/:id/questions/:index", handlers.Draft.ReplaceQuestion)
		drafts.DELETE("/:id/questions/:index", handlers.Draft.DeleteQuestion)
		drafts.POST("/:id/save", uploadLimiter.Middleware(), handlers.Draft.Save)
		drafts.DELETE("/:id", handlers.Draft.Discard)
	}

	// ─── Assessment ────────────────────────────────────────────────────
	assessments := api.Group("/assessments")
	{
		assessments.POST("", handlers.Assessment.Start)
		assessments.GET("/:id", handlers.Assessment.State)
		assessments.POST("/:id/selections", handlers.Assessment.Select)
		assessments.POST("/:id/check", handlers.Assessment.Check)
		assessments.POST("/:id/advance", handlers.Assessment.Advance)
		assessments.GET("/:id/outcome", handlers.Assessment.Outcome)
		assessments.POST("/:id/reset", handlers.Assessment.Reset)
		assessments.DELETE("/:id", handlers.Assessment.Discard)
	}

	api.GET("/certifications/:name/export", handlers.Export.Export)

	// ─── WebSocket ─────────────────────────────────────────────────────
	router.GET("/ws/v1/assessments/:courseName", handlers.WS.AssessmentStream)

	return router
}
