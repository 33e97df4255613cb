// Package main runs the VenueLink HTTP API with graceful shutdown.
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

	"github.com/venuelink/backend/config"
	"github.com/venuelink/backend/internal/auth"
	"github.com/venuelink/backend/internal/bookings"
	"github.com/venuelink/backend/internal/emaillogs"
	"github.com/venuelink/backend/internal/middleware"
	"github.com/venuelink/backend/internal/models"
	"github.com/venuelink/backend/internal/organizations"
	"github.com/venuelink/backend/internal/users"
	"github.com/venuelink/backend/internal/venues"
	"github.com/venuelink/backend/pkg/cache"
	"github.com/venuelink/backend/pkg/database"
	"github.com/venuelink/backend/pkg/queue"
	"github.com/venuelink/backend/pkg/redis"
	"github.com/venuelink/backend/pkg/response"
	"github.com/venuelink/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if !cfg.Server.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), database.PoolOptions{
		MaxConns: int32(cfg.Database.MaxConns),
		MinConns: int32(cfg.Database.MinConns),
	}, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, logger); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Redis backs the venue cache and the notification queue; both are optional.
	var (
		venueCache venues.Cache
		notifier   bookings.Notifier
	)
	rdb, err := redis.NewClient(ctx, redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}, logger)
	if err != nil {
		logger.Warn("redis disabled: no venue cache, no booking notifications", zap.Error(err))
	} else {
		defer rdb.Close()
		venueCache = cache.New(rdb.Client, "venuelink", logger)
		notifier = bookings.NewQueueNotifier(queue.NewQueue(rdb.Client, logger), logger)
	}

	var logos organizations.LogoStore
	if cfg.AWS.Region != "" {
		s3Client, err := storage.NewS3(ctx, storage.S3Config{
			Region:          cfg.AWS.Region,
			AccessKeyID:     cfg.AWS.AccessKeyID,
			SecretAccessKey: cfg.AWS.SecretAccessKey,
			LogosBucket:     cfg.AWS.LogosBucket,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled", zap.Error(err))
		} else {
			logos = s3Client
		}
	}

	jwtService, err := auth.NewJWTService(auth.Options{
		Secret:       cfg.Auth.Secret,
		PublicKeyPEM: cfg.Auth.PublicKeyPEM,
		Issuer:       cfg.Auth.Issuer,
		RoleClaim:    cfg.Auth.RoleClaim,
		ExpireHours:  cfg.Auth.ExpireHours,
	})
	if err != nil {
		logger.Fatal("auth", zap.Error(err))
	}

	// User directory
	directory := users.NewDirectory(users.NewRepository(pool), logger)
	userHandler := users.NewHandler()

	// Organizations
	orgService := organizations.NewService(organizations.NewRepository(pool), logos, logger)
	orgHandler := organizations.NewHandler(orgService)

	// Venues
	venueService := venues.NewService(venues.NewRepository(pool), venueCache, cfg.Cache.VenueTTL, logger)
	venueHandler := venues.NewHandler(venueService)

	// Bookings
	ledger := bookings.NewLedger(bookings.NewRepository(pool), notifier, logger)
	bookingService := bookings.NewService(ledger, orgService, venueService, logger)
	bookingHandler := bookings.NewHandler(bookingService)
	emailLogsHandler := emaillogs.NewHandler(emaillogs.NewRepository(pool), bookingService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	// Health
	health := func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) }
	router.GET("/health", health)

	v1 := router.Group("/api/v1")
	v1.GET("/health", health)
	if cfg.Server.IsDevelopment() && cfg.Auth.PublicKeyPEM == "" {
		v1.POST("/dev/token", auth.DevTokenHandler(jwtService))
		logger.Warn("development token endpoint enabled")
	}

	studentOrg := middleware.RequireRole(models.RoleStudentOrg)
	venueAdmin := middleware.RequireRole(models.RoleVenueAdmin)

	// Protected API (bearer token required)
	api := v1.Group("")
	api.Use(middleware.Authenticate(jwtService, directory))
	{
		api.GET("/auth/me", userHandler.Me)

		// Organizations
		api.GET("/organizations/me", studentOrg, orgHandler.GetMine)
		api.POST("/organizations", studentOrg, orgHandler.Create)
		api.GET("/organizations/:id", orgHandler.Get)
		api.PATCH("/organizations/:id", orgHandler.Update)
		api.POST("/organizations/:id/logo", orgHandler.UploadLogo)

		// Venues
		api.GET("/venues", venueHandler.List)
		api.POST("/venues", venueAdmin, venueHandler.Create)
		api.GET("/venues/:id", venueHandler.Get)
		api.PATCH("/venues/:id", venueAdmin, venueHandler.Update)
		api.DELETE("/venues/:id", venueAdmin, venueHandler.Delete)
		api.GET("/venues/:id/bookings", bookingHandler.ListForVenue)
		api.GET("/venues/:id/stats", bookingHandler.VenueStats)

		// Bookings
		api.POST("/bookings", studentOrg, bookingHandler.Create)
		api.GET("/bookings/me", studentOrg, bookingHandler.ListMine)
		api.GET("/bookings/:id", bookingHandler.Get)
		api.GET("/bookings/:id/emails", emailLogsHandler.ListByBooking)
		api.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)
		api.PATCH("/bookings/:id/accept", bookingHandler.Accept)
		api.PATCH("/bookings/:id/reject", bookingHandler.Reject)
		api.PATCH("/bookings/:id/complete", bookingHandler.Complete)
	}

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
