package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/whisperbox/whisperbox/internal/transport/http/handler"
	"github.com/whisperbox/whisperbox/internal/transport/http/middleware"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, inboxHandler *handler.InboxHandler, suggestHandler *handler.SuggestHandler, jwtKey []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	session := middleware.Session(jwtKey)

	// Public API — registration, verification and anonymous sending
	r.POST("/sign-up", authHandler.SignUp)
	r.POST("/verify-code", authHandler.VerifyCode)
	r.GET("/check-username-unique", authHandler.CheckUsername)
	r.GET("/check-user/:username", inboxHandler.CheckUser)
	r.POST("/sign-in", authHandler.SignIn)
	r.POST("/sign-out", authHandler.SignOut)
	r.POST("/send-message", inboxHandler.SendMessage)
	r.POST("/suggest-messages", suggestHandler.Suggest)

	// Session-gated inbox API
	r.GET("/accept-messages", session, inboxHandler.GetAcceptance)
	r.POST("/accept-messages", session, inboxHandler.SetAcceptance)
	r.GET("/get-messages", session, inboxHandler.GetMessages)
	r.DELETE("/delete-message/:messageId", session, inboxHandler.DeleteMessage)

	// Page shells, gated by cookie presence only
	guard := middleware.RouteGuard()
	r.GET("/", guard, handler.Page("home"))
	r.GET("/sign-in", guard, handler.Page("sign-in"))
	r.GET("/sign-up", guard, handler.Page("sign-up"))
	r.GET("/verify/:username", guard, handler.Page("verify"))
	r.GET("/dashboard", guard, handler.Page("dashboard"))

	return r
}
