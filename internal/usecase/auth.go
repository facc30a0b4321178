package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/whisperbox/whisperbox/internal/domain"
	"github.com/whisperbox/whisperbox/internal/email"
	"github.com/whisperbox/whisperbox/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	verifyCodeTTL     = time.Hour
	defaultSessionTTL = 24 * time.Hour
)

type AuthUsecase struct {
	users      repository.UserRepository
	email      email.Sender
	jwtKey     []byte
	sessionTTL time.Duration
}

func NewAuthUsecase(users repository.UserRepository, emailSender email.Sender, jwtKey []byte, sessionTTL time.Duration) *AuthUsecase {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &AuthUsecase{
		users:      users,
		email:      emailSender,
		jwtKey:     jwtKey,
		sessionTTL: sessionTTL,
	}
}

// SignUp registers a new account and emails a fresh verification code.
// A verified holder of the username or email blocks the signup; an
// unverified holder of the same email is overwritten in place, so an
// abandoned registration never squats an address.
func (u *AuthUsecase) SignUp(ctx context.Context, username, emailAddr, password string) error {
	taken, err := u.users.VerifiedUsernameExists(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if taken {
		return domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	code, err := generateVerifyCode()
	if err != nil {
		return fmt.Errorf("generate verify code: %w", err)
	}
	expiry := time.Now().Add(verifyCodeTTL)

	existing, err := u.users.FindByEmail(ctx, emailAddr)
	switch {
	case err == nil:
		if existing.IsVerified {
			return domain.ErrEmailTaken
		}
		if err := u.users.ResetPending(ctx, existing.ID, string(hash), code, expiry); err != nil {
			return fmt.Errorf("reset pending user: %w", err)
		}
	case errors.Is(err, domain.ErrUserNotFound):
		_, err = u.users.Create(ctx, &domain.User{
			Username:            username,
			Email:               emailAddr,
			PasswordHash:        string(hash),
			VerifyCode:          code,
			VerifyCodeExpiry:    expiry,
			IsVerified:          false,
			IsAcceptingMessages: true,
		})
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
	default:
		return fmt.Errorf("find user by email: %w", err)
	}

	subject, body := email.VerificationBody(username, code)
	if err := u.email.Send(ctx, emailAddr, subject, body); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// VerifyCode transitions Unverified → Verified. Verified is terminal:
// confirming an already-verified account is a no-op success.
func (u *AuthUsecase) VerifyCode(ctx context.Context, username, code string) error {
	user, err := u.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return nil
	}
	if time.Now().After(user.VerifyCodeExpiry) {
		return domain.ErrCodeExpired
	}
	if user.VerifyCode != code {
		return domain.ErrCodeMismatch
	}

	if err := u.users.MarkVerified(ctx, user.ID); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

// Authenticate checks credentials and returns the identity snapshot plus a
// signed session token. Unknown email, unverified account and password
// mismatch all collapse into ErrInvalidLogin so the response does not leak
// which check failed.
func (u *AuthUsecase) Authenticate(ctx context.Context, emailAddr, password string) (*domain.Identity, string, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidLogin
		}
		return nil, "", fmt.Errorf("find user by email: %w", err)
	}

	if !user.IsVerified {
		return nil, "", domain.ErrInvalidLogin
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidLogin
	}

	identity := &domain.Identity{
		UserID:              user.ID,
		Username:            user.Username,
		IsVerified:          user.IsVerified,
		IsAcceptingMessages: user.IsAcceptingMessages,
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":                 identity.UserID,
		"username":            identity.Username,
		"isVerified":          identity.IsVerified,
		"isAcceptingMessages": identity.IsAcceptingMessages,
		"iat":                 now.Unix(),
		"exp":                 now.Add(u.sessionTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}
	return identity, signed, nil
}

// UsernameAvailable reports whether a verified account already holds the
// username. Unverified holders may still be overwritten by a fresh signup.
func (u *AuthUsecase) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	taken, err := u.users.VerifiedUsernameExists(ctx, username)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return !taken, nil
}

// generateVerifyCode returns a uniform-random 6-digit numeric code.
func generateVerifyCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
