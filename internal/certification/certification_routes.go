package certification

import (
	"github.com/hafizthesakora/cert-tracking/internal/middleware"
	"github.com/hafizthesakora/cert-tracking/internal/user"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	certs := r.Group("/certifications")
	certs.Use(middleware.AuthMiddleware())
	{
		certs.GET("/options", handler.GetOptions)
		certs.GET("", middleware.RoleMiddleware(user.RoleAdmin, user.RolePortalMaster), handler.GetAll)
		certs.GET("/:id", middleware.RoleMiddleware(user.RoleAdmin, user.RolePortalMaster), handler.GetById)
		certs.POST("", middleware.RoleMiddleware(user.RoleAdmin), handler.Create)
		certs.PUT("/:id", middleware.RoleMiddleware(user.RoleAdmin), handler.Update)
	}
}
