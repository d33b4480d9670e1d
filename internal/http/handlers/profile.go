package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort/internal/domain"
	"resort/internal/http/middleware"
	"resort/internal/services"
)

type pictureRequest struct {
	ImageData string `json:"imageData"`
}

func (h *Handler) Profile(c *gin.Context) {
	u, err := h.authService(c).Profile(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req services.ProfileInput
	if !BindJSONOrError(c, &req) {
		return
	}
	u, err := h.authService(c).UpdateProfile(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UploadPicture takes a multipart "image" file or a JSON data URL.
func (h *Handler) UploadPicture(c *gin.Context) {
	actor := middleware.Actor(c)
	if err := domain.RequireActor(actor); err != nil {
		RespondDomainError(c, err)
		return
	}

	var (
		url string
		err error
	)
	if isMultipart(c) {
		fh, ferr := c.FormFile("image")
		if ferr != nil {
			RespondDomainError(c, domain.ValidationError{Field: "image", Msg: "image file is required", Err: ferr})
			return
		}
		url, err = h.Storage.SaveMultipart("profile", fh)
	} else {
		var req pictureRequest
		if !BindJSONOrError(c, &req) {
			return
		}
		url, err = h.Storage.SaveDataURL("profile", req.ImageData)
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	u, err := h.authService(c).SetProfilePicture(c.Request.Context(), actor, url)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) ProfileOverview(c *gin.Context) {
	ov, err := h.profileService(c).Overview(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ov)
}
