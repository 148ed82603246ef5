package middleware

import (
	"log"
	"net/http"
	"strings"

	"wmx/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// CronAuth protects the cron-triggered maintenance endpoints with the shared
// secret from CRON_SECRET. When no secret is configured the endpoints are
// disabled rather than open.
func CronAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			logCronFailure(c, "secret_not_configured")
			response.Error(c, http.StatusForbidden, "CRON_DISABLED", "Cron endpoints are disabled")
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logCronFailure(c, "missing_auth")
			response.Error(c, http.StatusUnauthorized, "AUTH_MISSING", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logCronFailure(c, "invalid_auth_format")
			response.Error(c, http.StatusUnauthorized, "AUTH_INVALID", "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		if parts[1] != secret {
			logCronFailure(c, "invalid_token")
			response.Error(c, http.StatusForbidden, "AUTH_INVALID", "Invalid cron token")
			c.Abort()
			return
		}

		c.Next()
	}
}

func logCronFailure(c *gin.Context, reason string) {
	log.Printf("cron_auth_failure reason=%s path=%s client_ip=%s", reason, c.Request.URL.Path, c.ClientIP())
}
