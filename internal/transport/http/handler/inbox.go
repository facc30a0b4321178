package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/whisperbox/whisperbox/internal/domain"
	"github.com/whisperbox/whisperbox/internal/metrics"
	"github.com/whisperbox/whisperbox/internal/transport/http/middleware"
)

// inboxUsecaser is the subset of InboxUsecase the handler needs.
type inboxUsecaser interface {
	List(ctx context.Context, callerID string) ([]*domain.Message, error)
	SetAcceptance(ctx context.Context, callerID string, desired bool) (bool, error)
	AcceptanceStatus(ctx context.Context, callerID string) (bool, error)
	PublicStatus(ctx context.Context, username string) (bool, error)
	Send(ctx context.Context, username, content string) (*domain.Message, error)
	Delete(ctx context.Context, callerID, messageID string) error
}

type InboxHandler struct {
	inboxUsecase inboxUsecaser
	logger       *slog.Logger
}

func NewInboxHandler(inboxUsecase inboxUsecaser, logger *slog.Logger) *InboxHandler {
	return &InboxHandler{
		inboxUsecase: inboxUsecase,
		logger:       logger.With("component", "inbox_handler"),
	}
}

type messageResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// GET /get-messages
func (h *InboxHandler) GetMessages(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	msgs, err := h.inboxUsecase.List(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": errUserNotFound})
			return
		}
		h.logger.Error("get messages", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errInternalServer})
		return
	}

	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageResponse{ID: m.ID, Content: m.Content, CreatedAt: m.CreatedAt})
	}

	message := "User found"
	if len(out) == 0 {
		message = "No messages yet"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "messages": out})
}

// GET /accept-messages
// Reads the live flag from the store, not the session snapshot.
func (h *InboxHandler) GetAcceptance(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	accepting, err := h.inboxUsecase.AcceptanceStatus(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": errUserNotFound})
			return
		}
		h.logger.Error("get acceptance", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errInternalServer})
		return
	}

	not := ""
	if !accepting {
		not = "not "
	}
	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             fmt.Sprintf("User is %saccepting messages", not),
		"isAcceptingMessages": accepting,
	})
}

type setAcceptanceRequest struct {
	AcceptMessages *bool `json:"acceptMessages" binding:"required"`
}

// POST /accept-messages
func (h *InboxHandler) SetAcceptance(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	var req setAcceptanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid payload"})
		return
	}

	accepting, err := h.inboxUsecase.SetAcceptance(c.Request.Context(), identity.UserID, *req.AcceptMessages)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": errUserNotFound})
			return
		}
		h.logger.Error("set acceptance", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             "Message settings updated",
		"isAcceptingMessages": accepting,
	})
}

// GET /check-user/:username
func (h *InboxHandler) CheckUser(c *gin.Context) {
	username := c.Param("username")

	accepting, err := h.inboxUsecase.PublicStatus(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": errUserNotFound})
			return
		}
		h.logger.Error("check user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"message":             "User found",
		"isAcceptingMessages": accepting,
	})
}

type sendMessageRequest struct {
	Username string `json:"username" binding:"required"`
	Content  string `json:"content"  binding:"required,min=10,max=300"`
}

// POST /send-message
// The only mutating endpoint callable without a session; senders stay
// anonymous.
func (h *InboxHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	_, err := h.inboxUsecase.Send(c.Request.Context(), req.Username, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": errUserNotFound})
		case errors.Is(err, domain.ErrNotAccepting):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": errNotAccepting})
		case errors.Is(err, domain.ErrContentLength):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			h.logger.Error("send message", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errInternalServer})
		}
		return
	}

	metrics.MessagesSentTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message successfully sent"})
}

// DELETE /delete-message/:messageId
func (h *InboxHandler) DeleteMessage(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	messageID := c.Param("messageId")

	err := h.inboxUsecase.Delete(c.Request.Context(), identity.UserID, messageID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMessageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": errMessageNotFound})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": errUserNotFound})
		default:
			h.logger.Error("delete message", "message_id", messageID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errInternalServer})
		}
		return
	}

	metrics.MessagesDeletedTotal.Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Message deleted successfully"})
}
