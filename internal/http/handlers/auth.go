package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort/internal/http/middleware"
	"resort/internal/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *gin.Context) {
	var req services.RegisterInput
	if !BindJSONOrError(c, &req) {
		return
	}
	u, err := h.authService(c).Register(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, gin.H{"user": u})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	token, u, err := h.authService(c).Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.setSessionCookie(c, token, int(h.Env.SessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
}

// Logout succeeds whether or not a session exists.
func (h *Handler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c, h.Env.SessionCookie)
	_ = h.authService(c).Logout(c.Request.Context(), token)
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	name := h.Env.SessionCookie
	if name == "" {
		name = "resort_session"
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, maxAge, "/", "", h.Env.IsProduction(), true)
}
