package user

import (
	"github.com/hafizthesakora/cert-tracking/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(RoleAdmin))
	{
		users.GET("", handler.GetAll)
		users.GET("/:id", handler.GetById)
		users.POST("", handler.Create)
		users.PATCH("/:id/role", handler.UpdateRole)
	}
}
