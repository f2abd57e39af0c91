package reminder

import (
	"github.com/hafizthesakora/cert-tracking/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	cron := r.Group("/cron")
	cron.Use(middleware.CronSecret())
	{
		cron.POST("/expiry-reminders", handler.Run)
	}
}
