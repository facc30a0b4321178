package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// PageClass buckets a page path for the route guard.
type PageClass int

const (
	PagePublic PageClass = iota
	PageAuth
	PageProtected
)

var (
	authPages      = []string{"/sign-in", "/sign-up", "/verify"}
	protectedPages = []string{"/dashboard"}
)

// ClassifyPage maps a request path to its guard class.
func ClassifyPage(path string) PageClass {
	for _, p := range authPages {
		if strings.HasPrefix(path, p) {
			return PageAuth
		}
	}
	for _, p := range protectedPages {
		if strings.HasPrefix(path, p) {
			return PageProtected
		}
	}
	return PagePublic
}

// GuardDecision applies the guard rule in priority order. It returns the
// redirect target, or "" when the request may proceed.
func GuardDecision(loggedIn bool, class PageClass) string {
	switch {
	case loggedIn && class == PageAuth:
		return "/dashboard"
	case !loggedIn && class == PageProtected:
		return "/sign-in"
	default:
		return ""
	}
}

// RouteGuard redirects logged-in users away from auth pages and anonymous
// users away from protected pages. Cookie presence alone counts as logged
// in; the token itself is validated where the session is consumed, so the
// guard is a pre-filter, not the authorization boundary.
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookie)
		loggedIn := err == nil && cookie != ""

		if target := GuardDecision(loggedIn, ClassifyPage(c.Request.URL.Path)); target != "" {
			c.Redirect(http.StatusTemporaryRedirect, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
