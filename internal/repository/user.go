package repository

import (
	"context"
	"time"

	"github.com/whisperbox/whisperbox/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// VerifiedUsernameExists reports whether a verified account already
	// holds the username. Unverified holders do not count.
	VerifiedUsernameExists(ctx context.Context, username string) (bool, error)
	// ResetPending overwrites the password hash and verification code of an
	// unverified account that is being re-registered.
	ResetPending(ctx context.Context, id, passwordHash, verifyCode string, expiry time.Time) error
	MarkVerified(ctx context.Context, id string) error
	SetAcceptingMessages(ctx context.Context, id string, accepting bool) (bool, error)
	// DeleteStaleUnverified removes unverified accounts whose code expired
	// before the cutoff. Returns the number of rows removed.
	DeleteStaleUnverified(ctx context.Context, cutoff time.Time) (int, error)
}
