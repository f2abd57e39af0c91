package app

import (
	"database/sql"

	"github.com/hafizthesakora/cert-tracking/internal/auth"
	"github.com/hafizthesakora/cert-tracking/internal/certification"
	"github.com/hafizthesakora/cert-tracking/internal/holding"
	"github.com/hafizthesakora/cert-tracking/internal/messaging/kafka"
	"github.com/hafizthesakora/cert-tracking/internal/middleware"
	"github.com/hafizthesakora/cert-tracking/internal/reminder"
	"github.com/hafizthesakora/cert-tracking/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	router.Use(middleware.RequestID())

	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	certificationRepo := certification.NewRepository(gormDB)
	holdingRepo := holding.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	userService := user.NewService(userRepo)
	authService := auth.NewService(userRepo)
	certificationService := certification.NewService(db, certificationRepo, userRepo, rdb)
	holdingService := holding.NewService(db, holdingRepo, userRepo, certificationRepo, outboxRepo)
	reminderService := reminder.NewService(holdingRepo, outboxRepo, rdb)

	// --- Handlers ---
	userHandler := user.NewHandler(userService)
	authHandler := auth.NewHandler(authService)
	certificationHandler := certification.NewHandler(certificationService)
	holdingHandler := holding.NewHandler(holdingService)
	reminderHandler := reminder.NewHandler(reminderService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler)
		certification.RegisterRoutes(api, certificationHandler)
		holding.RegisterRoutes(api, holdingHandler)
		reminder.RegisterRoutes(api, reminderHandler)
	}

	return nil
}
