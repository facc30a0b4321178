package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrUsernameTaken   = errors.New("username is already taken")
	ErrEmailTaken      = errors.New("user already exists with this email")
	ErrNotAccepting    = errors.New("user is not accepting messages")
	ErrCodeExpired     = errors.New("verification code has expired")
	ErrCodeMismatch    = errors.New("verification code does not match")
	ErrContentLength   = errors.New("invalid message content length")
	ErrInvalidLogin    = errors.New("invalid email or password")
	ErrUpstream        = errors.New("upstream generation request failed")
)

type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string // bcrypt, never serialized

	VerifyCode       string
	VerifyCodeExpiry time.Time
	IsVerified       bool

	IsAcceptingMessages bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the session-token projection of a User. The flags are a
// snapshot taken at login; callers that need the live acceptance status
// must re-read the store.
type Identity struct {
	UserID              string
	Username            string
	IsVerified          bool
	IsAcceptingMessages bool
}
