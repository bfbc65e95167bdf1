// Package main runs the Maroc Digital Hub API server with WebSocket feed and
// graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/maroc-digital-hub/backend/config"
	"github.com/maroc-digital-hub/backend/internal/auth"
	"github.com/maroc-digital-hub/backend/internal/authz"
	"github.com/maroc-digital-hub/backend/internal/dashboard"
	"github.com/maroc-digital-hub/backend/internal/discussions"
	"github.com/maroc-digital-hub/backend/internal/events"
	"github.com/maroc-digital-hub/backend/internal/middleware"
	"github.com/maroc-digital-hub/backend/internal/models"
	"github.com/maroc-digital-hub/backend/internal/realtime"
	"github.com/maroc-digital-hub/backend/internal/session"
	"github.com/maroc-digital-hub/backend/internal/startups"
	"github.com/maroc-digital-hub/backend/pkg/database"
	"github.com/maroc-digital-hub/backend/pkg/queue"
	"github.com/maroc-digital-hub/backend/pkg/redis"
	"github.com/maroc-digital-hub/backend/pkg/response"
	"github.com/maroc-digital-hub/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			LogosBucket:          cfg.AWS.LogosBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	sessionStorage := session.NewRedisStorage(rdb.Client)
	sessions := session.NewManager(sessionStorage, time.Duration(cfg.Session.TTLMinutes)*time.Minute, logger)

	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)
	if err := hub.Start(); err != nil {
		logger.Warn("feed subscription disabled", zap.Error(err))
	}
	defer hub.Stop()

	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, sessions, jobQueue, logger)

	// Startups
	startupRepo := startups.NewRepository(pool)
	startupStore := startups.NewStore()
	startupHandler := startups.NewHandler(startupRepo, startupStore, s3Client, hub, logger)

	// Events
	eventRepo := events.NewRepository(pool)
	eventStore := events.NewStore()
	eventHandler := events.NewHandler(eventRepo, eventStore, hub, jobQueue, logger)

	// Discussions
	discussionRepo := discussions.NewRepository(pool)
	discussionStore := discussions.NewStore()
	discussionHandler := discussions.NewHandler(discussionRepo, discussionStore, hub, logger)

	// Dashboard (admin overview)
	dashboardHandler := dashboard.NewHandler(pool, startupStore, eventStore, discussionStore, func(c *gin.Context) {
		if !startupStore.Loaded() {
			_ = startupHandler.Refresh(c.Request.Context())
		}
		if !eventStore.Loaded() {
			_ = eventHandler.Refresh(c.Request.Context())
		}
		if !discussionStore.Loaded() {
			_ = discussionHandler.Refresh(c.Request.Context())
		}
	}, logger)

	// Warm the stores so the first request serves from memory.
	if err := startupHandler.Refresh(ctx); err == nil {
		_ = eventHandler.Refresh(ctx)
		_ = discussionHandler.Refresh(ctx)
	}

	jwtValidate := func(token string) (jti string, err error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return "", err
		}
		return claims.ID, nil
	}
	wsAuthenticate := func(token string) (*models.User, error) {
		jti, err := jwtValidate(token)
		if err != nil {
			return nil, err
		}
		return sessions.Resume(context.Background(), jti)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok", "feed_clients": hub.ClientCount()})
	})

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/email-exists", authHandler.EmailExists)
	}

	// Public browsing: the directory, events, and forum are readable without
	// an account.
	router.GET("/startups", startupHandler.List)
	router.GET("/startups/:id", startupHandler.GetByID)
	router.GET("/startups/:id/logo-url", startupHandler.LogoDownloadURL)
	router.GET("/events", eventHandler.List)
	router.GET("/events/:id", eventHandler.GetByID)
	router.GET("/discussions", discussionHandler.List)

	// Protected API (valid JWT plus live session required)
	api := router.Group("")
	api.Use(middleware.Auth(jwtValidate, sessions))
	{
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/auth/me", authHandler.Me)

		// Users (admin only)
		api.GET("/users", middleware.RequireRole(models.RoleAdmin), authHandler.List)

		// Startups
		api.POST("/startups", middleware.Require(authz.CanAddStartup), startupHandler.Create)
		api.PUT("/startups/:id", startupHandler.Update)
		api.DELETE("/startups/:id", startupHandler.Delete)
		api.POST("/startups/:id/logo", startupHandler.UploadLogo)

		// Events
		api.GET("/events/mine", eventHandler.Mine)
		api.POST("/events", middleware.Require(authz.CanAddEvent), eventHandler.Create)
		api.PUT("/events/:id", eventHandler.Update)
		api.DELETE("/events/:id", eventHandler.Delete)
		api.POST("/events/:id/participate", eventHandler.Participate)
		api.DELETE("/events/:id/participate", eventHandler.Unparticipate)

		// Discussions (any logged-in role may post, visitors included)
		api.POST("/discussions", middleware.Require(authz.CanPostDiscussion), discussionHandler.Create)
		api.DELETE("/discussions/:id", discussionHandler.Delete)
		api.POST("/discussions/:id/like", discussionHandler.ToggleLike)

		// Dashboard (admin only)
		api.GET("/dashboard/stats", middleware.Require(authz.CanViewDashboard), dashboardHandler.Stats)
	}

	// WebSocket feed (token in query; no Authorization header required)
	router.GET("/ws", realtime.ServeWs(hub, logger, wsAuthenticate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
