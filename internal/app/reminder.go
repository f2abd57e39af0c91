package app

import (
	"context"
	"os"
	"time"

	"github.com/hafizthesakora/cert-tracking/internal/holding"
	"github.com/hafizthesakora/cert-tracking/internal/messaging/kafka"
	"github.com/hafizthesakora/cert-tracking/internal/reminder"
	"github.com/hafizthesakora/cert-tracking/internal/shared/connection"

	"go.uber.org/zap"
)

// RunReminder performs a single expiry-reminder pass and exits. Meant to be
// triggered by an external scheduler.
func RunReminder() error {
	logger := zap.L().Named("app.reminder")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	holdingRepo := holding.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	reminderService := reminder.NewService(holdingRepo, outboxRepo, redisClient, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	attempted, err := reminderService.NotifyExpiringSoon(ctx, time.Now().UTC())
	if err != nil {
		return err
	}

	logger.Info("reminder run complete", zap.Int("attempted", attempted))
	return nil
}
