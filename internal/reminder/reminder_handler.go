package reminder

import (
	"net/http"
	"time"

	"github.com/hafizthesakora/cert-tracking/internal/shared/apperror"
	"github.com/hafizthesakora/cert-tracking/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("reminder.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reminder.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) Run(c *gin.Context) {
	attempted, err := h.service.NotifyExpiringSoon(c.Request.Context(), time.Now().UTC())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Error("expiry reminder run failed", zap.Error(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"attempted": attempted}, nil)
}
