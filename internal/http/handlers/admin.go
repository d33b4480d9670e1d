package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort/internal/http/middleware"
)

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.dashboardService(c).Build(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) Guests(c *gin.Context) {
	list, err := h.profileService(c).Guests(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GuestProfile(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ov, err := h.profileService(c).GuestProfile(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}
