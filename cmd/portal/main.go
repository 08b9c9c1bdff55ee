package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noor-academy/student-portal-api/api/swagger"
	"github.com/noor-academy/student-portal-api/internal/handler"
	"github.com/noor-academy/student-portal-api/internal/middleware"
	"github.com/noor-academy/student-portal-api/internal/repository"
	"github.com/noor-academy/student-portal-api/internal/service"
	"github.com/noor-academy/student-portal-api/pkg/cache"
	"github.com/noor-academy/student-portal-api/pkg/config"
	"github.com/noor-academy/student-portal-api/pkg/database"
	"github.com/noor-academy/student-portal-api/pkg/logger"
	corsmiddleware "github.com/noor-academy/student-portal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noor-academy/student-portal-api/pkg/middleware/requestid"
	"github.com/noor-academy/student-portal-api/pkg/storage"
)

// @title Noor Academy Student Portal API
// @version 1.0.0
// @description Student registration and results lookup service
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	unifiedRepo := repository.NewUnifiedRepository(db)
	legacyRepo := repository.NewLegacyRepository(db)
	relationalRepo := repository.NewRelationalRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	var lookupCacheTTL = cfg.Lookup.CacheTTL
	if !cfg.Lookup.CacheEnabled {
		lookupCacheTTL = 0
	}
	lookupSvc := service.NewLookupService(unifiedRepo, legacyRepo, relationalRepo, cacheRepo, lookupCacheTTL, logr)
	studentSvc := service.NewStudentService(studentRepo, cacheRepo, validate, logr)
	analyticsSvc := service.NewAnalyticsService(studentRepo, cacheRepo, cfg.Analytics.CacheTTL, logr)
	authSvc := service.NewAuthService(cfg.Auth, validate, logr)
	exportSvc := service.NewExportService(studentRepo, logr)
	metricsSvc := service.NewMetricsService()

	var feedbackSvc *service.FeedbackService
	if cfg.Feedback.Enabled {
		store, err := storage.NewLocalStorage(cfg.Feedback.ArchiveDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init feedback archive", "error", err)
		}
		archive := storage.NewAsyncArchive(store, logr)
		archive.Start(context.Background())
		defer archive.Stop()

		if cfg.Feedback.Retention > 0 {
			go retentionSweep(store, cfg.Feedback.Retention, logr)
		}
		feedbackSvc = service.NewFeedbackService(feedbackRepo, archive, validate, logr)
	}

	searchHandler := handler.NewSearchHandler(lookupSvc, metricsSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, exportSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	authHandler := handler.NewAuthHandler(authSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.RateLimit(redisClient, cfg.RateLimit, logr))
	{
		api.GET("/health", healthHandler.Status)
		api.GET("/search", searchHandler.Usage)
		api.POST("/search", searchHandler.Search)
		api.POST("/auth/student-login", authHandler.Login)

		if feedbackSvc != nil {
			feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
			api.POST("/feedback", feedbackHandler.SubmitFeedback)
			api.POST("/suggestion", feedbackHandler.SubmitSuggestion)
			api.POST("/review", feedbackHandler.SubmitReview)

			feedbackAdmin := api.Group("/feedback", middleware.JWT(authSvc), middleware.RequireAdmin())
			feedbackAdmin.GET("/stats", feedbackHandler.Stats)
			feedbackAdmin.GET("/recent", feedbackHandler.Recent)
			feedbackAdmin.POST("/:id/respond", feedbackHandler.Respond)
		}

		admin := api.Group("", middleware.JWT(authSvc), middleware.RequireAdmin())
		admin.GET("/students", studentHandler.List)
		admin.POST("/students", studentHandler.Create)
		admin.PUT("/students/:id", studentHandler.Update)
		admin.GET("/students/export", studentHandler.Export)
		if cfg.Analytics.Enabled {
			admin.GET("/analytics", analyticsHandler.Registration)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// retentionSweep deletes archived tickets past the retention window, once a
// day for the life of the process.
func retentionSweep(store *storage.LocalStorage, retention time.Duration, logr *zap.Logger) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		deleted, err := store.CleanupOlderThan(retention)
		if err != nil {
			logr.Sugar().Warnw("archive retention sweep failed", "error", err)
			continue
		}
		if len(deleted) > 0 {
			logr.Sugar().Infow("archive retention sweep", "deleted", len(deleted))
		}
	}
}
