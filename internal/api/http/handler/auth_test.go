package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/routineapp/routine-server/internal/api/http/middleware"
	"github.com/routineapp/routine-server/internal/api/http/reqctx"
	"github.com/routineapp/routine-server/internal/mocks"
	"github.com/routineapp/routine-server/internal/model"
	"github.com/routineapp/routine-server/internal/service"
	"github.com/routineapp/routine-server/internal/testutil"
)

type authServiceMock struct {
	mock.Mock
}

func newAuthServiceMock(t *testing.T) *authServiceMock {
	m := &authServiceMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *authServiceMock) SignUp(ctx context.Context, email, password string) (model.User, string, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.String(1), args.Error(2)
}

func (m *authServiceMock) SignIn(ctx context.Context, email, password string) (model.TokenPair, model.UserView, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.TokenPair), args.Get(1).(model.UserView), args.Error(2)
}

func (m *authServiceMock) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	return args.Get(0).(model.TokenPair), args.Error(1)
}

func (m *authServiceMock) Logout(ctx context.Context, accessToken, refreshToken string) error {
	args := m.Called(ctx, accessToken, refreshToken)
	return args.Error(0)
}

func (m *authServiceMock) RequestVerification(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *authServiceMock) VerifyEmail(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *authServiceMock) RequestPasswordReset(ctx context.Context, email string) (service.ResetRequest, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(service.ResetRequest), args.Error(1)
}

func (m *authServiceMock) CheckResetToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *authServiceMock) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

type habitSeederMock struct {
	mock.Mock
}

func newHabitSeederMock(t *testing.T) *habitSeederMock {
	m := &habitSeederMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *habitSeederMock) SeedDefaults(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newTestAuthHandler(t *testing.T) (*Auth, *authServiceMock, *habitSeederMock, *mocks.Mailer) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	authService := newAuthServiceMock(t)
	seeder := newHabitSeederMock(t)
	mailer := mocks.NewMailer(t)

	h := NewAuth(authService, seeder, mailer, reqctx.NewManager(), CookieConfig{
		Secure:     true,
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}, testutil.MakeNoopLogger())

	return h, authService, seeder, mailer
}

func cookieByName(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuth_SignUpHandler(t *testing.T) {
	t.Run("registers, seeds habits and mails the link", func(t *testing.T) {
		h, svc, seeder, mailer := newTestAuthHandler(t)

		user := model.User{ID: uuid.New(), Email: "new@example.com"}
		svc.On("SignUp", mock.Anything, "new@example.com", "sw0rdfish-1").Return(user, "mail body", nil)
		seeder.On("SeedDefaults", mock.Anything, user.ID).Return(nil)
		mailer.On("Send", mock.Anything, "new@example.com", "Verify your account", "mail body").Return(nil)

		r := gin.New()
		r.POST("/auth/sign-up", h.SignUp)

		req := httptest.NewRequest(http.MethodPost, "/auth/sign-up",
			strings.NewReader(`{"email":"new@example.com","password":"sw0rdfish-1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"new@example.com"`)
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("rejects a malformed email without touching the service", func(t *testing.T) {
		h, _, _, _ := newTestAuthHandler(t)

		r := gin.New()
		r.POST("/auth/sign-up", h.SignUp)

		req := httptest.NewRequest(http.MethodPost, "/auth/sign-up",
			strings.NewReader(`{"email":"not-an-email","password":"sw0rdfish-1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("propagates a duplicate account conflict", func(t *testing.T) {
		h, svc, _, _ := newTestAuthHandler(t)

		svc.On("SignUp", mock.Anything, "taken@example.com", "sw0rdfish-1").
			Return(model.User{}, "", model.NewErrDuplicateAccount())

		r := gin.New()
		r.POST("/auth/sign-up", h.SignUp)

		req := httptest.NewRequest(http.MethodPost, "/auth/sign-up",
			strings.NewReader(`{"email":"taken@example.com","password":"sw0rdfish-1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAuth_SignInHandler(t *testing.T) {
	t.Run("sets both token cookies", func(t *testing.T) {
		h, svc, _, _ := newTestAuthHandler(t)

		pair := model.TokenPair{AccessToken: "access.jwt", RefreshToken: "refresh.jwt"}
		svc.On("SignIn", mock.Anything, "user@example.com", "sw0rdfish-1").
			Return(pair, model.UserView{Email: "user@example.com"}, nil)

		r := gin.New()
		r.POST("/auth/sign-in", h.SignIn)

		req := httptest.NewRequest(http.MethodPost, "/auth/sign-in",
			strings.NewReader(`{"email":"user@example.com","password":"sw0rdfish-1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		res := w.Result()
		access := cookieByName(res, middleware.AccessTokenCookie)
		require.NotNil(t, access)
		assert.Equal(t, "access.jwt", access.Value)
		assert.True(t, access.HttpOnly)
		assert.True(t, access.Secure)
		assert.Equal(t, http.SameSiteNoneMode, access.SameSite)
		assert.Equal(t, "/", access.Path)

		refresh := cookieByName(res, middleware.RefreshTokenCookie)
		require.NotNil(t, refresh)
		assert.Equal(t, "refresh.jwt", refresh.Value)
	})

	t.Run("invalid credentials yield 401 without cookies", func(t *testing.T) {
		h, svc, _, _ := newTestAuthHandler(t)

		svc.On("SignIn", mock.Anything, "user@example.com", "wrong-pass").
			Return(model.TokenPair{}, model.UserView{}, model.NewErrInvalidCredentials())

		r := gin.New()
		r.POST("/auth/sign-in", h.SignIn)

		req := httptest.NewRequest(http.MethodPost, "/auth/sign-in",
			strings.NewReader(`{"email":"user@example.com","password":"wrong-pass"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, w.Result().Cookies())
	})
}

func TestAuth_RefreshTokensHandler(t *testing.T) {
	t.Run("rotates the pair from the cookie", func(t *testing.T) {
		h, svc, _, _ := newTestAuthHandler(t)

		svc.On("Refresh", mock.Anything, "refresh.jwt").
			Return(model.TokenPair{AccessToken: "access2.jwt", RefreshToken: "refresh2.jwt"}, nil)

		r := gin.New()
		r.GET("/auth/refresh-tokens", h.RefreshTokens)

		req := httptest.NewRequest(http.MethodGet, "/auth/refresh-tokens", nil)
		req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "refresh.jwt"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		refresh := cookieByName(w.Result(), middleware.RefreshTokenCookie)
		require.NotNil(t, refresh)
		assert.Equal(t, "refresh2.jwt", refresh.Value)
	})

	t.Run("invalidated rotation id yields 401", func(t *testing.T) {
		h, svc, _, _ := newTestAuthHandler(t)

		svc.On("Refresh", mock.Anything, "stale.jwt").
			Return(model.TokenPair{}, &model.APIError{
				Status:  http.StatusUnauthorized,
				Message: "Invalidated refresh token",
				Cause:   model.ErrRefreshTokenInvalidated,
			})

		r := gin.New()
		r.GET("/auth/refresh-tokens", h.RefreshTokens)

		req := httptest.NewRequest(http.MethodGet, "/auth/refresh-tokens", nil)
		req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "stale.jwt"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalidated refresh token")
	})
}

func TestAuth_LogoutHandler(t *testing.T) {
	h, svc, _, _ := newTestAuthHandler(t)

	svc.On("Logout", mock.Anything, "access.jwt", "refresh.jwt").Return(nil)

	r := gin.New()
	r.GET("/auth/logout", h.Logout)

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "access.jwt"})
	req.AddCookie(&http.Cookie{Name: middleware.RefreshTokenCookie, Value: "refresh.jwt"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	// Both cookies are expired.
	access := cookieByName(w.Result(), middleware.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Empty(t, access.Value)
	assert.Negative(t, access.MaxAge)
}

func TestAuth_CreatePasswordResetHandler(t *testing.T) {
	t.Run("unknown email gets the same response and no mail", func(t *testing.T) {
		h, svc, _, _ := newTestAuthHandler(t)

		svc.On("RequestPasswordReset", mock.Anything, "ghost@example.com").
			Return(service.ResetRequest{Sent: false}, nil)

		r := gin.New()
		r.POST("/auth/create-password-reset", h.CreatePasswordReset)

		req := httptest.NewRequest(http.MethodPost, "/auth/create-password-reset",
			strings.NewReader(`{"email":"ghost@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
	})

	t.Run("known email gets the reset mail", func(t *testing.T) {
		h, svc, _, mailer := newTestAuthHandler(t)

		svc.On("RequestPasswordReset", mock.Anything, "user@example.com").
			Return(service.ResetRequest{Sent: true, Body: "reset body"}, nil)
		mailer.On("Send", mock.Anything, "user@example.com", "Reset your password", "reset body").Return(nil)

		r := gin.New()
		r.POST("/auth/create-password-reset", h.CreatePasswordReset)

		req := httptest.NewRequest(http.MethodPost, "/auth/create-password-reset",
			strings.NewReader(`{"email":"user@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
	})
}

func TestAuth_VerifyUserHandler(t *testing.T) {
	h, svc, _, _ := newTestAuthHandler(t)

	svc.On("VerifyEmail", mock.Anything, "verify.jwt").Return(nil)

	r := gin.New()
	r.GET("/auth/verify-user", h.VerifyUser)

	req := httptest.NewRequest(http.MethodGet, "/auth/verify-user?token=verify.jwt", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuth_ResetPasswordHandler(t *testing.T) {
	h, svc, _, _ := newTestAuthHandler(t)

	svc.On("CompletePasswordReset", mock.Anything, "reset.jwt", "n3w-passw0rd").Return(nil)

	r := gin.New()
	r.POST("/auth/reset-password", h.ResetPassword)

	req := httptest.NewRequest(http.MethodPost, "/auth/reset-password",
		strings.NewReader(`{"token":"reset.jwt","password":"n3w-passw0rd"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
