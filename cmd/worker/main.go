// Package main runs the background worker: booking notification emails and
// the sweep that completes confirmed bookings after their event date.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/venuelink/backend/config"
	"github.com/venuelink/backend/internal/bookings"
	"github.com/venuelink/backend/internal/emaillogs"
	"github.com/venuelink/backend/internal/worker"
	"github.com/venuelink/backend/pkg/database"
	"github.com/venuelink/backend/pkg/mailer"
	"github.com/venuelink/backend/pkg/queue"
	"github.com/venuelink/backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
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

	rdb, err := redis.NewClient(ctx, redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB}, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	mail := mailer.New(mailer.Config{
		Host:        cfg.Email.SMTPHost,
		Port:        cfg.Email.SMTPPort,
		User:        cfg.Email.SMTPUser,
		Password:    cfg.Email.SMTPPass,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
	}, logger)
	if !mail.Enabled() {
		logger.Warn("SMTP_HOST not set, notifications are logged only")
	}

	bookingRepo := bookings.NewRepository(pool)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	processor := worker.NewNotificationProcessor(bookingRepo, mail, emaillogs.NewRepository(pool), jobQueue, logger)

	// Sweeper transitions go through the ledger so they are notified like any other change.
	ledger := bookings.NewLedger(bookingRepo, bookings.NewQueueNotifier(jobQueue, logger), logger)
	sweeper := worker.NewSweeper(ledger, cfg.Worker.SweepInterval, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		processor.Run(workerCtx)
	}()
	go func() {
		defer wg.Done()
		sweeper.Run(workerCtx)
	}()
	logger.Info("worker started", zap.Duration("sweep_interval", cfg.Worker.SweepInterval))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	wg.Wait()
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
