package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort/internal/domain"
)

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ActorFrom(c); !ok {
			abort(c, http.StatusUnauthorized, "unauthenticated", "not authenticated")
			return
		}
		c.Next()
	}
}

// RequireRole allows only actors holding role, using the same check the
// services apply.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := domain.RequireRole(Actor(c), role)
		switch {
		case err == nil:
			c.Next()
		case domain.IsAuthentication(err):
			abort(c, http.StatusUnauthorized, "unauthenticated", err.Error())
		default:
			abort(c, http.StatusForbidden, "forbidden", err.Error())
		}
	}
}
