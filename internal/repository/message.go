package repository

import (
	"context"

	"github.com/whisperbox/whisperbox/internal/domain"
)

type MessageRepository interface {
	// Append inserts a message with a store-assigned id and timestamp.
	Append(ctx context.Context, userID, content string) (*domain.Message, error)
	// ListByOwner returns the owner's messages newest first, ties broken by
	// the store-assigned id.
	ListByOwner(ctx context.Context, userID string) ([]*domain.Message, error)
	// Delete removes a single message if and only if it belongs to userID.
	// Returns domain.ErrMessageNotFound when no such row exists, including
	// when the id belongs to another user's inbox.
	Delete(ctx context.Context, userID, messageID string) error
}
