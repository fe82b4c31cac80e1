// Package router wires the HTTP routes to their handlers and declares,
// per route, which credential classes admit a request.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/routineapp/routine-server/internal/api/http/handler"
	"github.com/routineapp/routine-server/internal/api/http/middleware"
)

type route struct {
	method  string
	path    string
	handler gin.HandlerFunc
	// auth lists the accepted credential classes, tried in order. Empty
	// means the default: access token required.
	auth []middleware.AuthType
}

// New builds the gin engine with all routes registered.
func New(
	auth *handler.Auth,
	user *handler.User,
	habit *handler.Habit,
	dispatcher *middleware.Dispatcher,
	logging *middleware.Logging,
) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logging.Handle)

	open := []middleware.AuthType{middleware.AuthNone}
	refreshOnly := []middleware.AuthType{middleware.AuthRefreshToken}
	anyToken := []middleware.AuthType{middleware.AuthAccessToken, middleware.AuthRefreshToken}

	routes := []route{
		{http.MethodPost, "/auth/sign-up", auth.SignUp, open},
		{http.MethodPost, "/auth/sign-in", auth.SignIn, open},
		{http.MethodGet, "/auth/verify-user", auth.VerifyUser, open},
		{http.MethodGet, "/auth/resend-confirmation", auth.ResendConfirmation, nil},
		{http.MethodGet, "/auth/refresh-tokens", auth.RefreshTokens, refreshOnly},
		{http.MethodGet, "/auth/logout", auth.Logout, anyToken},
		{http.MethodPost, "/auth/create-password-reset", auth.CreatePasswordReset, open},
		{http.MethodGet, "/auth/reset-password", auth.CheckResetPassword, open},
		{http.MethodPost, "/auth/reset-password", auth.ResetPassword, open},

		{http.MethodGet, "/user/me", user.Me, nil},
		{http.MethodPost, "/user/change-password", user.ChangePassword, nil},
		{http.MethodPut, "/user/avatar", user.ChangeAvatar, nil},

		{http.MethodGet, "/habits", habit.List, nil},
		{http.MethodPost, "/habits", habit.Create, nil},
		{http.MethodPut, "/habits/:id", habit.Update, nil},
		{http.MethodDelete, "/habits/:id", habit.Delete, nil},
	}

	for _, r := range routes {
		engine.Handle(r.method, r.path, dispatcher.Authenticate(r.auth...), r.handler)
	}

	return engine
}
