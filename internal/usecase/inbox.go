package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/whisperbox/whisperbox/internal/domain"
	"github.com/whisperbox/whisperbox/internal/repository"
)

type InboxUsecase struct {
	users    repository.UserRepository
	messages repository.MessageRepository
}

func NewInboxUsecase(users repository.UserRepository, messages repository.MessageRepository) *InboxUsecase {
	return &InboxUsecase{users: users, messages: messages}
}

// List returns the caller's messages newest first.
func (u *InboxUsecase) List(ctx context.Context, callerID string) ([]*domain.Message, error) {
	if _, err := u.users.FindByID(ctx, callerID); err != nil {
		return nil, err
	}

	msgs, err := u.messages.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}

// SetAcceptance persists the flag and returns the stored value.
func (u *InboxUsecase) SetAcceptance(ctx context.Context, callerID string, desired bool) (bool, error) {
	return u.users.SetAcceptingMessages(ctx, callerID, desired)
}

// AcceptanceStatus re-reads the flag from the store. The session snapshot is
// never trusted here; the flag can change after login.
func (u *InboxUsecase) AcceptanceStatus(ctx context.Context, callerID string) (bool, error) {
	user, err := u.users.FindByID(ctx, callerID)
	if err != nil {
		return false, err
	}
	return user.IsAcceptingMessages, nil
}

// PublicStatus resolves a profile link's username to its acceptance flag.
func (u *InboxUsecase) PublicStatus(ctx context.Context, username string) (bool, error) {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return user.IsAcceptingMessages, nil
}

// Send appends an anonymous message to the target's inbox. The sender needs
// no session; the target must exist and be accepting.
func (u *InboxUsecase) Send(ctx context.Context, username, content string) (*domain.Message, error) {
	// Bounds are in characters, matching the binding layer and the DB CHECK.
	if l := utf8.RuneCountInString(content); l < domain.MessageMinLen || l > domain.MessageMaxLen {
		return nil, fmt.Errorf("%w: content must be %d-%d characters",
			domain.ErrContentLength, domain.MessageMinLen, domain.MessageMaxLen)
	}

	target, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !target.IsAcceptingMessages {
		return nil, domain.ErrNotAccepting
	}

	msg, err := u.messages.Append(ctx, target.ID, content)
	if err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

// Delete removes one of the caller's own messages. A second delete of the
// same id, or an id from another inbox, reports ErrMessageNotFound.
func (u *InboxUsecase) Delete(ctx context.Context, callerID, messageID string) error {
	if _, err := u.users.FindByID(ctx, callerID); err != nil {
		return err
	}
	return u.messages.Delete(ctx, callerID, messageID)
}
