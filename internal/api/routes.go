package api

import (
	"github.com/argus-grade/argus/internal/config"
	"github.com/argus-grade/argus/internal/index"
	"github.com/argus-grade/argus/internal/infra/redis"
	"github.com/argus-grade/argus/internal/ingest"
	"github.com/argus-grade/argus/internal/plagiarism"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(
	cfg *config.Config,
	store index.SubmissionStore,
	reports index.ReportStore,
	ingestSvc *ingest.Service,
	engine *plagiarism.Engine,
	redisClient *redis.Client,
) *gin.Engine {
	router := gin.Default()

	// Create handler
	handler := NewHandler(cfg, store, reports, ingestSvc, engine, redisClient)

	// Create rate limiter
	rateLimiter := NewRateLimiter(cfg.RateLimitRPS, int(cfg.RateLimitRPS*2))

	// Middleware
	router.Use(ErrorHandlerMiddleware())
	router.Use(MetricsMiddleware())

	// Unauthenticated endpoints
	router.GET("/health", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes (with auth and rate limiting)
	api := router.Group("/api/v1")
	api.Use(JWTAuthMiddleware(cfg.JWTSecret))
	api.Use(RateLimitMiddleware(rateLimiter))
	{
		api.POST("/check", handler.Check)
		api.POST("/batch", handler.Batch)
		api.GET("/reports/:assignmentID", handler.GetReport)
		api.GET("/status/:assignmentID", handler.GetStatus)
	}

	return router
}
