package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort/internal/domain"
	"resort/internal/http/middleware"
)

type messageRequest struct {
	RecipientID      Stringish `json:"recipient_id"`
	RecipientIDCamel Stringish `json:"recipientId"`
	Content          string    `json:"content"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req messageRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	raw := firstNonEmpty(req.RecipientID, req.RecipientIDCamel)
	if raw == "" {
		RespondDomainError(c, domain.ValidationError{Field: "recipient_id", Msg: "recipient is required"})
		return
	}
	to, err := parseInt("recipient_id", raw)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	msg, err := h.messageService(c).Send(c.Request.Context(), middleware.Actor(c), int64(to), req.Content)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	created(c, msg)
}

func (h *Handler) Conversations(c *gin.Context) {
	list, err := h.messageService(c).Conversations(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) Conversation(c *gin.Context) {
	other, ok := parseID(c, "userId")
	if !ok {
		return
	}
	thread, err := h.messageService(c).ConversationWith(c.Request.Context(), middleware.Actor(c), other)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, thread)
}

func (h *Handler) MarkConversationRead(c *gin.Context) {
	other, ok := parseID(c, "userId")
	if !ok {
		return
	}
	n, err := h.messageService(c).MarkConversationRead(c.Request.Context(), middleware.Actor(c), other)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": n})
}

func (h *Handler) UnreadCount(c *gin.Context) {
	n, err := h.messageService(c).UnreadCount(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": n})
}
