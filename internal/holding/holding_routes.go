package holding

import (
	"github.com/hafizthesakora/cert-tracking/internal/middleware"
	"github.com/hafizthesakora/cert-tracking/internal/user"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	holdings := r.Group("/holdings")
	holdings.Use(middleware.AuthMiddleware())
	{
		holdings.GET("", handler.GetAll)
		holdings.GET("/mine", handler.GetMine)
		holdings.GET("/stats", middleware.RoleMiddleware(user.RoleAdmin), handler.GetStats)
		holdings.GET("/:id", handler.GetById)
		holdings.POST("", middleware.RoleMiddleware(user.RoleAdmin), handler.Assign)

		holdings.POST("/:id/request-renewal", handler.RequestRenewal)
		holdings.POST("/:id/initiate-renewal", middleware.RoleMiddleware(user.RoleAdmin, user.RolePortalMaster), handler.InitiateRenewal)
		holdings.POST("/:id/confirm-renewal", middleware.RoleMiddleware(user.RoleAdmin, user.RolePortalMaster), handler.ConfirmRenewal)
		holdings.POST("/:id/postpone-renewal", middleware.RoleMiddleware(user.RoleAdmin, user.RolePortalMaster), handler.PostponeRenewal)
	}
}
