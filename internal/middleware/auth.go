package middleware

import (
	"context"
	"net/http"
	"strings"

	"wmx/internal/domain"
	jwtsvc "wmx/internal/pkg/jwt"
	"wmx/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserReader is the slice of the user repository the auth middleware needs.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Auth validates the bearer token and re-reads the role from the database so
// an admin promotion (or a deactivation) takes effect without re-login.
func Auth(jwt *jwtsvc.Service, users UserReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing Authorization header")
			c.Abort()
			return
		}
		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Empty token")
			c.Abort()
			return
		}

		claims, err := jwt.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Account not found")
			c.Abort()
			return
		}
		if !user.IsActive {
			response.Error(c, http.StatusForbidden, "ACCOUNT_INACTIVE", "Account is not activated")
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("role", string(user.Role))

		c.Next()
	}
}
