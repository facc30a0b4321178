package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/whisperbox/whisperbox/internal/domain"
	"github.com/whisperbox/whisperbox/internal/metrics"
	"github.com/whisperbox/whisperbox/internal/transport/http/middleware"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{2,20}$`)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	SignUp(ctx context.Context, username, email, password string) error
	VerifyCode(ctx context.Context, username, code string) error
	Authenticate(ctx context.Context, email, password string) (*domain.Identity, string, error)
	UsernameAvailable(ctx context.Context, username string) (bool, error)
}

type AuthHandler struct {
	authUsecase  authUsecaser
	logger       *slog.Logger
	sessionTTL   time.Duration
	secureCookie bool
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger, sessionTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authUsecase:  authUsecase,
		logger:       logger.With("component", "auth_handler"),
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
	}
}

type signUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// POST /sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if !usernameRe.MatchString(req.Username) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Username must be 2-20 characters, letters, digits or underscore",
		})
		return
	}

	err := h.authUsecase.SignUp(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": errUsernameTaken})
		case errors.Is(err, domain.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": errEmailTaken})
		default:
			h.logger.Error("sign up", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errInternalServer})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User successfully registered. Please verify your email",
	})
}

type verifyCodeRequest struct {
	Username string `json:"username" binding:"required"`
	Code     string `json:"code"     binding:"required,len=6,numeric"`
}

// POST /verify-code
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req verifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Wrong verify code format"})
		return
	}

	err := h.authUsecase.VerifyCode(c.Request.Context(), req.Username, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.VerificationAttemptsTotal.WithLabelValues("not_found").Inc()
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": errUserNotFound})
		case errors.Is(err, domain.ErrCodeExpired):
			metrics.VerificationAttemptsTotal.WithLabelValues("expired").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": errCodeExpired})
		case errors.Is(err, domain.ErrCodeMismatch):
			metrics.VerificationAttemptsTotal.WithLabelValues("mismatch").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": errCodeMismatch})
		default:
			h.logger.Error("verify code", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errInternalServer})
		}
		return
	}

	metrics.VerificationAttemptsTotal.WithLabelValues("verified").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User verified successfully"})
}

type signInRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /sign-in
// Unknown email, unverified account and bad password share one 401 message.
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	identity, token, err := h.authUsecase.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidLogin) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": errInvalidLogin})
			return
		}
		h.logger.Error("sign in", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errInternalServer})
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(h.sessionTTL.Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Signed in",
		"username": identity.Username,
	})
}

// POST /sign-out
func (h *AuthHandler) SignOut(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Signed out"})
}

// GET /check-username-unique?username=
func (h *AuthHandler) CheckUsername(c *gin.Context) {
	username := c.Query("username")
	if !usernameRe.MatchString(username) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid query parameters"})
		return
	}

	available, err := h.authUsecase.UsernameAvailable(c.Request.Context(), username)
	if err != nil {
		h.logger.Error("check username", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": errInternalServer})
		return
	}
	if !available {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": errUsernameTaken})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Username is available"})
}
