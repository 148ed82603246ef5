package security

import (
	"net/http"

	"wmx/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// BlockList rejects requests from blocked IPs before any handler runs.
func BlockList(m *Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip != "" && m.IsBlocked(ip) {
			response.Error(c, http.StatusForbidden, "IP_BLOCKED", "Access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}
