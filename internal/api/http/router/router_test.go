package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/routineapp/routine-server/internal/api/http/handler"
	"github.com/routineapp/routine-server/internal/api/http/middleware"
	"github.com/routineapp/routine-server/internal/api/http/reqctx"
	"github.com/routineapp/routine-server/internal/hash"
	"github.com/routineapp/routine-server/internal/mocks"
	"github.com/routineapp/routine-server/internal/service"
	"github.com/routineapp/routine-server/internal/testutil"
	"github.com/routineapp/routine-server/internal/token"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	log := testutil.MakeNoopLogger()

	codec := token.NewCodec(token.Config{
		Audience:           "routine-app",
		Issuer:             "routine-server",
		AccessSecret:       "access-secret",
		RefreshSecret:      "refresh-secret",
		VerificationSecret: "verification-secret",
		ResetSecret:        "reset-secret",
		AccessTTL:          5 * time.Minute,
		RefreshTTL:         24 * time.Hour,
		VerificationTTL:    6 * time.Hour,
		ResetTTL:           6 * time.Hour,
	})
	contextManager := reqctx.NewManager()

	users := mocks.NewUserStore(t)
	habits := mocks.NewHabitStore(t)
	mailer := mocks.NewMailer(t)
	files := mocks.NewFileStorage(t)
	sessions := mocks.NewSessionAuthority(t)

	authService := service.NewAuth(users, sessions, codec, hash.NewBcrypt(4), service.AuthConfig{}, log)
	userService := service.NewUser(users, hash.NewBcrypt(4), files, log)
	habitService := service.NewHabit(habits, log)

	authHandler := handler.NewAuth(authService, habitService, mailer, contextManager, handler.CookieConfig{}, log)
	userHandler := handler.NewUser(userService, contextManager, log)
	habitHandler := handler.NewHabit(habitService, contextManager, log)

	dispatcher := middleware.NewDispatcher(codec, contextManager, log)
	logging := middleware.NewLogging(log)

	return New(authHandler, userHandler, habitHandler, dispatcher, logging)
}

func TestRouter_OpenRoutesSkipAuthentication(t *testing.T) {
	r := newTestRouter(t)

	// The open sign-up route must reach the handler: a bad payload is a
	// 400 from binding, not a 401 from the dispatcher.
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ProtectedRoutesRequireAccessToken(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/habits", "/user/me", "/auth/resend-confirmation"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRouter_RefreshRouteIgnoresAccessCookie(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/refresh-tokens", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "whatever"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"unauthorized"}`, w.Body.String())
}
