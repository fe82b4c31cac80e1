package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/routineapp/routine-server/internal/api/http/middleware"
	"github.com/routineapp/routine-server/internal/logger"
	"github.com/routineapp/routine-server/internal/model"
	"github.com/routineapp/routine-server/internal/service"
)

// AuthService defines the credential lifecycle operations.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (model.User, string, error)
	SignIn(ctx context.Context, email, password string) (model.TokenPair, model.UserView, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	RequestVerification(ctx context.Context, email string) (string, error)
	VerifyEmail(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) (service.ResetRequest, error)
	CheckResetToken(ctx context.Context, token string) error
	CompletePasswordReset(ctx context.Context, token, newPassword string) error
}

// HabitSeeder seeds the starter habits for new accounts.
type HabitSeeder interface {
	SeedDefaults(ctx context.Context, userID uuid.UUID) error
}

// CookieConfig controls the token cookie attributes.
type CookieConfig struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Auth handles the /auth endpoints.
type Auth struct {
	authService    AuthService
	habitSeeder    HabitSeeder
	mailer         model.Mailer
	contextManager model.ContextManager
	cookies        CookieConfig
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(
	authService AuthService,
	habitSeeder HabitSeeder,
	mailer model.Mailer,
	contextManager model.ContextManager,
	cookies CookieConfig,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		habitSeeder:    habitSeeder,
		mailer:         mailer,
		contextManager: contextManager,
		cookies:        cookies,
		logger:         logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// SignUp registers an account, seeds starter habits and sends the
// verification mail.
func (h *Auth) SignUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrBadRequest("invalid sign-up payload"))
		return
	}

	ctx := c.Request.Context()
	user, mailBody, err := h.authService.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: sign-up failed", "email", req.Email, "error", err.Error())
		handleError(c, err)
		return
	}

	if err := h.habitSeeder.SeedDefaults(ctx, user.ID); err != nil {
		// The account is committed; starting without defaults is better
		// than failing the registration.
		h.logger.Error("Auth handler: failed to seed habits", "user_id", user.ID, "error", err.Error())
	}

	if err := h.mailer.Send(ctx, user.Email, "Verify your account", mailBody); err != nil {
		h.logger.Error("Auth handler: failed to send verification mail", "user_id", user.ID, "error", err.Error())
	}

	c.JSON(http.StatusCreated, user.Redact())
}

// SignIn verifies credentials and sets the token cookies.
func (h *Auth) SignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrBadRequest("invalid sign-in payload"))
		return
	}

	pair, view, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("Auth handler: sign-in failed", "email", req.Email, "error", err.Error())
		handleError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, view)
}

// RefreshTokens rotates the refresh token from the cookie and sets the
// new pair.
func (h *Auth) RefreshTokens(c *gin.Context) {
	refreshToken, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil {
		handleError(c, model.NewErrUnauthorized("missing refresh token"))
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		h.logger.Error("Auth handler: refresh failed", "error", err.Error())
		handleError(c, err)
		return
	}

	h.setTokenCookies(c, pair)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout ends the session and clears the token cookies. The cookies are
// cleared even when the tokens were already dead.
func (h *Auth) Logout(c *gin.Context) {
	accessToken, _ := c.Cookie(middleware.AccessTokenCookie)
	refreshToken, _ := c.Cookie(middleware.RefreshTokenCookie)

	err := h.authService.Logout(c.Request.Context(), accessToken, refreshToken)

	h.clearTokenCookies(c)

	if err != nil {
		h.logger.Error("Auth handler: logout failed", "error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// VerifyUser completes email verification from the mailed link.
func (h *Auth) VerifyUser(c *gin.Context) {
	token := c.Query("token")

	if err := h.authService.VerifyEmail(c.Request.Context(), token); err != nil {
		h.logger.Error("Auth handler: verification failed", "error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ResendConfirmation mails a fresh verification link to the signed-in
// account.
func (h *Auth) ResendConfirmation(c *gin.Context) {
	claims, ok := h.contextManager.GetClaimsFromContext(c.Request.Context())
	if !ok {
		handleError(c, model.NewErrUnauthorized(""))
		return
	}

	ctx := c.Request.Context()
	mailBody, err := h.authService.RequestVerification(ctx, claims.Email)
	if err != nil {
		h.logger.Error("Auth handler: resend confirmation failed", "user_id", claims.UserID, "error", err.Error())
		handleError(c, err)
		return
	}

	if err := h.mailer.Send(ctx, claims.Email, "Verify your account", mailBody); err != nil {
		h.logger.Error("Auth handler: failed to send verification mail", "user_id", claims.UserID, "error", err.Error())
		handleError(c, model.NewErrInternal(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type resetRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

// CreatePasswordReset mails a reset link. The response is identical for
// known and unknown emails.
func (h *Auth) CreatePasswordReset(c *gin.Context) {
	var req resetRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrBadRequest("invalid reset payload"))
		return
	}

	ctx := c.Request.Context()
	out, err := h.authService.RequestPasswordReset(ctx, req.Email)
	if err != nil {
		h.logger.Error("Auth handler: reset request failed", "error", err.Error())
		handleError(c, err)
		return
	}

	if out.Sent {
		if err := h.mailer.Send(ctx, req.Email, "Reset your password", out.Body); err != nil {
			h.logger.Error("Auth handler: failed to send reset mail", "error", err.Error())
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckResetPassword validates a reset link without consuming it.
func (h *Auth) CheckResetPassword(c *gin.Context) {
	if err := h.authService.CheckResetToken(c.Request.Context(), c.Query("token")); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type resetCompleteBody struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword completes a password reset with the mailed token.
func (h *Auth) ResetPassword(c *gin.Context) {
	var req resetCompleteBody
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrBadRequest("invalid reset payload"))
		return
	}

	if err := h.authService.CompletePasswordReset(c.Request.Context(), req.Token, req.Password); err != nil {
		h.logger.Error("Auth handler: reset completion failed", "error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// setTokenCookies writes the token pair as httpOnly cookies. SameSite is
// None because the frontend is served from a different origin.
func (h *Auth) setTokenCookies(c *gin.Context, pair model.TokenPair) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken,
		int(h.cookies.AccessTTL.Seconds()), "/", "", h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, pair.RefreshToken,
		int(h.cookies.RefreshTTL.Seconds()), "/", "", h.cookies.Secure, true)
}

func (h *Auth) clearTokenCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", h.cookies.Secure, true)
}
