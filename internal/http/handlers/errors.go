package handlers

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"resort/internal/domain"
	"resort/internal/http/middleware"
	"resort/internal/utils"
)

var hideInternalDetails atomic.Bool

// HideInternalDetails stops 500 responses from carrying the underlying error.
func HideInternalDetails(hide bool) {
	hideInternalDetails.Store(hide)
}

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, resp)
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	var (
		verr   domain.ValidationError
		capErr domain.CapacityExceededError
		trans  domain.InvalidTransitionError
	)
	switch {
	case errors.As(err, &verr):
		var details any
		if verr.Field != "" {
			details = gin.H{"field": verr.Field}
		}
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), details)
	case domain.IsAuthentication(err):
		respondError(c, http.StatusUnauthorized, "unauthenticated", err.Error(), nil)
	case domain.IsAuthorization(err):
		respondError(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.As(err, &capErr):
		respondError(c, http.StatusConflict, "capacity_exceeded", err.Error(), gin.H{
			"capacity":  capErr.Capacity,
			"existing":  capErr.Existing,
			"requested": capErr.Requested,
		})
	case errors.As(err, &trans):
		respondError(c, http.StatusConflict, "invalid_transition", err.Error(), gin.H{
			"from": trans.From,
			"to":   trans.To,
		})
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		utils.LogError(middleware.GetRequestID(c), "http", c.Request.Method+" "+c.FullPath(), err)
		var details any
		if !hideInternalDetails.Load() && err != nil {
			details = err.Error()
			if u := errors.Unwrap(err); u != nil {
				details = err.Error() + ": " + u.Error()
			}
		}
		respondError(c, http.StatusInternalServerError, "internal_error", "internal server error", details)
	}
}
