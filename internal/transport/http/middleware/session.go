package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/whisperbox/whisperbox/internal/domain"
)

// SessionCookie carries the signed session token. HTTP-only; set at sign-in,
// cleared at sign-out.
const SessionCookie = "whisperbox_session"

const identityKey = "identity"

const errNotAuthenticated = "Not authenticated"

// Session validates the session cookie's JWT and sets the caller's identity
// in the gin context. The flags inside are the login-time snapshot; handlers
// that need the live acceptance status re-read the store.
func Session(jwtKey []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookie)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": errNotAuthenticated})
			return
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": errNotAuthenticated})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": errNotAuthenticated})
			return
		}

		userID, _ := claims["sub"].(string)
		username, _ := claims["username"].(string)
		if userID == "" || username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				gin.H{"success": false, "message": errNotAuthenticated})
			return
		}
		verified, _ := claims["isVerified"].(bool)
		accepting, _ := claims["isAcceptingMessages"].(bool)

		c.Set(identityKey, &domain.Identity{
			UserID:              userID,
			Username:            username,
			IsVerified:          verified,
			IsAcceptingMessages: accepting,
		})
		c.Next()
	}
}

// IdentityFrom returns the identity set by Session, if any.
func IdentityFrom(c *gin.Context) (*domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*domain.Identity)
	return id, ok
}
