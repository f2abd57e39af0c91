package middleware

import (
	"crypto/subtle"
	"net/http"
	"os"

	"github.com/hafizthesakora/cert-tracking/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// CronSecret guards externally triggered job endpoints. The trigger (cron
// runner, CI schedule) must present the shared secret in X-Cron-Secret.
func CronSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := os.Getenv("CRON_SECRET")
		if secret == "" {
			response.Error(c, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Cron secret is not configured", nil)
			c.Abort()
			return
		}

		provided := c.GetHeader("X-Cron-Secret")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid cron secret", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
