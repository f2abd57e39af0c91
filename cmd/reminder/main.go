package main

import (
	"github.com/hafizthesakora/cert-tracking/internal/app"
	"github.com/hafizthesakora/cert-tracking/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunReminder(); err != nil {
		logger.Fatal("run reminder failed", zap.Error(err))
	}
}
