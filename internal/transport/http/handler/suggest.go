package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whisperbox/whisperbox/internal/metrics"
)

type suggestUsecaser interface {
	Suggestions(ctx context.Context) ([]string, error)
}

type SuggestHandler struct {
	suggestUsecase suggestUsecaser
	logger         *slog.Logger
}

func NewSuggestHandler(suggestUsecase suggestUsecaser, logger *slog.Logger) *SuggestHandler {
	return &SuggestHandler{
		suggestUsecase: suggestUsecase,
		logger:         logger.With("component", "suggest_handler"),
	}
}

// POST /suggest-messages
// An empty question list is a valid success; only upstream failures are 500s.
func (h *SuggestHandler) Suggest(c *gin.Context) {
	questions, err := h.suggestUsecase.Suggestions(c.Request.Context())
	if err != nil {
		metrics.SuggestionRequestsTotal.WithLabelValues("error").Inc()
		h.logger.Error("suggest messages", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errUpstreamFailed})
		return
	}

	metrics.SuggestionRequestsTotal.WithLabelValues("ok").Inc()
	if questions == nil {
		questions = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Suggestions generated",
		"questions": questions,
	})
}
