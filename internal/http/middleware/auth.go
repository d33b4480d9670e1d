package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resort/internal/domain"
	"resort/internal/utils"
)

const actorKey = "actor"

// ActorResolver turns a session token into the acting user.
type ActorResolver interface {
	CurrentActor(ctx context.Context, token string) (domain.Actor, error)
}

// SessionToken reads the session cookie, falling back to a Bearer header.
func SessionToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Authenticate resolves the session once per request. Anonymous requests pass
// through; RequireAuth and RequireRole decide what they may reach.
func Authenticate(resolver ActorResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}
		actor, err := resolver.CurrentActor(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(actorKey, actor)
		case domain.IsAuthentication(err):
			// stale cookie, treat as anonymous
		default:
			utils.LogError(GetRequestID(c), "auth", "resolve_session", err)
			abort(c, http.StatusInternalServerError, "internal_error", "internal server error")
			return
		}
		c.Next()
	}
}

// ActorFrom returns the actor stored by Authenticate.
func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	a, ok := v.(domain.Actor)
	return a, ok && a.Authenticated()
}

// Actor returns the actor or the zero Actor for anonymous requests.
func Actor(c *gin.Context) domain.Actor {
	a, _ := ActorFrom(c)
	return a
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"code":       code,
		"request_id": GetRequestID(c),
		"message":    message,
	})
}
