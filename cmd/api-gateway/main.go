package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/yoestudio/enroll-api/api/swagger"
	"github.com/yoestudio/enroll-api/internal/handler"
	"github.com/yoestudio/enroll-api/internal/middleware"
	"github.com/yoestudio/enroll-api/internal/repository"
	"github.com/yoestudio/enroll-api/internal/service"
	"github.com/yoestudio/enroll-api/pkg/cache"
	"github.com/yoestudio/enroll-api/pkg/config"
	"github.com/yoestudio/enroll-api/pkg/database"
	"github.com/yoestudio/enroll-api/pkg/logger"
	corsmiddleware "github.com/yoestudio/enroll-api/pkg/middleware/cors"
	reqidmiddleware "github.com/yoestudio/enroll-api/pkg/middleware/requestid"
	"github.com/yoestudio/enroll-api/pkg/storage"
)

// @title Yo Estudio Enrollment API
// @version 1.0.0
// @description Enrollment management backend for the Yo Estudio tutoring service
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	proofStore, err := storage.NewProofStore(cfg.Storage.ProofDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init proof storage", "error", err)
	}

	metricsSvc := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		redisRepo := repository.NewCacheRepository(redisClient, logr)
		defer redisRepo.Close() //nolint:errcheck
		cacheRepo = redisRepo
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled)

	groupRepo := repository.NewGroupRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	userRepo := repository.NewUserRepository(db)

	validate := validator.New()

	catalogSvc := service.NewCatalogService(groupRepo, cacheSvc, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, groupRepo, proofStore, userRepo, catalogSvc, metricsSvc, validate, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	groupHandler := handler.NewGroupHandler(catalogSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, cfg.Storage.MaxFileSizeBytes)
	adminHandler := handler.NewAdminHandler(enrollmentSvc)
	authHandler := handler.NewAuthHandler(authSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	r.GET("/groups", groupHandler.List)
	r.POST("/enrollment", enrollmentHandler.Submit)
	r.GET("/enrollment/lookup/:code", enrollmentHandler.Lookup)

	admin := r.Group("/admin")
	admin.POST("/login", authHandler.Login)
	secured := admin.Group("")
	secured.Use(middleware.JWT(authSvc))
	secured.GET("/enrollments", adminHandler.List)
	secured.GET("/enrollments/export", adminHandler.Export)
	secured.POST("/approve/:enrollmentId", adminHandler.Approve)
	secured.POST("/reject/:enrollmentId", adminHandler.Reject)
	secured.GET("/proof/:enrollmentId", adminHandler.Proof)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
