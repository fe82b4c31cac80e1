package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/routineapp/routine-server/internal/logger"
	"github.com/routineapp/routine-server/internal/model"
)

// sessionGrace pads session-authority TTLs past the token's own expiry so
// an entry never vanishes before the token it sanctions.
const sessionGrace = 5 * time.Second

// AuthConfig carries the orchestrator knobs that do not belong to a
// collaborator: link base URLs and the session-entry lifetimes.
type AuthConfig struct {
	ServerBaseURL   string
	FrontendBaseURL string
	RefreshTTL      time.Duration
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

// ResetRequest is the outcome of a password-reset request. Sent is false
// when no account matches the email; the caller still answers 200 so the
// response shape never reveals account existence.
type ResetRequest struct {
	Sent bool
	Body string
}

// Auth owns the credential lifecycle: it composes the token codec, the
// password hasher and the session authority into the sign-up, sign-in,
// refresh, logout, verification and password-reset flows.
type Auth struct {
	users    model.UserStore
	sessions model.SessionAuthority
	codec    model.TokenCodec
	hasher   model.PasswordHasher
	cfg      AuthConfig
	logger   *logger.Logger
}

// NewAuth creates the auth orchestrator.
func NewAuth(
	users model.UserStore,
	sessions model.SessionAuthority,
	codec model.TokenCodec,
	hasher model.PasswordHasher,
	cfg AuthConfig,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:    users,
		sessions: sessions,
		codec:    codec,
		hasher:   hasher,
		cfg:      cfg,
		logger:   logger,
	}
}

// SignUp creates an account and returns it together with the verification
// mail body. The caller owns mail dispatch.
func (a *Auth) SignUp(ctx context.Context, email, password string) (model.User, string, error) {
	a.logger.Debug("auth service: starting sign-up", "email", email)

	digest, err := a.hasher.Hash(password)
	if err != nil {
		return model.User{}, "", model.NewErrInternal(fmt.Errorf("failed to hash password: %w", err))
	}

	now := time.Now()
	user, err := a.users.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: digest,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			a.logger.Info("auth service: sign-up conflict", "email", email)
			return model.User{}, "", model.NewErrDuplicateAccount()
		}
		return model.User{}, "", model.NewErrInternal(fmt.Errorf("failed to create user: %w", err))
	}

	body, err := a.issueVerificationLink(ctx, user)
	if err != nil {
		return model.User{}, "", err
	}

	a.logger.Info("auth service: sign-up completed", "user_id", user.ID, "email", email)
	return user, body, nil
}

// SignIn verifies credentials and mints an access/refresh pair. Unknown
// email and wrong password produce the same error so callers cannot probe
// for account existence.
func (a *Auth) SignIn(ctx context.Context, email, password string) (model.TokenPair, model.UserView, error) {
	a.logger.Debug("auth service: starting sign-in", "email", email)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.TokenPair{}, model.UserView{}, model.NewErrInvalidCredentials()
		}
		return model.TokenPair{}, model.UserView{}, model.NewErrInternal(fmt.Errorf("failed to get user by email: %w", err))
	}

	if !a.hasher.Compare(password, user.PasswordHash) {
		a.logger.Info("auth service: sign-in rejected", "email", email)
		return model.TokenPair{}, model.UserView{}, model.NewErrInvalidCredentials()
	}

	pair, err := a.mintTokenPair(ctx, user)
	if err != nil {
		return model.TokenPair{}, model.UserView{}, err
	}

	a.logger.Info("auth service: sign-in completed", "user_id", user.ID)
	return pair, user.Redact(), nil
}

// Refresh rotates a refresh token: the presented rotation identifier is
// redeemed atomically, so each refresh token is usable exactly once.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := a.codec.ParseRefreshToken(refreshToken)
	if err != nil {
		return model.TokenPair{}, model.NewErrUnauthorized(err.Error())
	}

	user, err := a.users.GetByID(ctx, claims.UserID)
	if err != nil {
		// A verified subject without an account means the account was
		// removed out from under its tokens.
		if errors.Is(err, model.ErrNotFound) {
			return model.TokenPair{}, model.NewErrUnauthorized("unknown subject")
		}
		return model.TokenPair{}, model.NewErrInternal(fmt.Errorf("failed to get user by id: %w", err))
	}

	state, err := a.sessions.Redeem(ctx, model.RefreshSessionKey(user.ID), claims.RotationID)
	if err != nil {
		return model.TokenPair{}, model.NewErrInternal(fmt.Errorf("failed to redeem refresh session: %w", err))
	}
	if state != model.SessionMatched {
		a.logger.Info("auth service: refresh token invalidated", "user_id", user.ID, "state", state.String())
		return model.TokenPair{}, &model.APIError{
			Status:  http.StatusUnauthorized,
			Message: "Invalidated refresh token",
			Cause:   model.ErrRefreshTokenInvalidated,
		}
	}

	pair, err := a.mintTokenPair(ctx, user)
	if err != nil {
		return model.TokenPair{}, err
	}

	a.logger.Info("auth service: tokens rotated", "user_id", user.ID)
	return pair, nil
}

// Logout invalidates the account's current refresh session. It is
// idempotent: verification or session failures are swallowed so a repeat
// logout with already-dead tokens still succeeds.
func (a *Auth) Logout(ctx context.Context, accessToken, refreshToken string) error {
	refreshClaims, err := a.codec.ParseRefreshToken(refreshToken)
	if err != nil {
		a.logger.Debug("auth service: logout with unusable refresh token", "error", err.Error())
		return nil
	}

	accessClaims, err := a.codec.ParseAccessToken(accessToken)
	if err != nil {
		a.logger.Debug("auth service: logout with unusable access token", "error", err.Error())
		return nil
	}

	if refreshClaims.UserID != accessClaims.UserID {
		return model.NewErrUnauthorized("access and refresh token subjects do not match")
	}

	state, err := a.sessions.Redeem(ctx, model.RefreshSessionKey(refreshClaims.UserID), refreshClaims.RotationID)
	if err != nil {
		a.logger.Error("auth service: logout session redemption failed", "user_id", refreshClaims.UserID, "error", err.Error())
		return nil
	}

	a.logger.Info("auth service: session ended", "user_id", refreshClaims.UserID, "state", state.String())
	return nil
}

// RequestVerification re-issues the verification link for an account that
// has not completed verification yet.
func (a *Auth) RequestVerification(ctx context.Context, email string) (string, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return "", model.NewErrBadRequest("unknown account")
		}
		return "", model.NewErrInternal(fmt.Errorf("failed to get user by email: %w", err))
	}

	if user.IsVerified {
		return "", model.NewErrAlreadyVerified()
	}

	return a.issueVerificationLink(ctx, user)
}

// VerifyEmail redeems a verification token and marks the account verified.
func (a *Auth) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return model.NewErrBadRequest("missing token")
	}

	claims, err := a.codec.ParseVerificationToken(token)
	if err != nil {
		return model.NewErrUnauthorized(err.Error())
	}

	user, err := a.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewErrBadRequest("unknown account")
		}
		return model.NewErrInternal(fmt.Errorf("failed to get user by email: %w", err))
	}

	if user.IsVerified {
		return model.NewErrAlreadyVerified()
	}

	state, err := a.sessions.Redeem(ctx, model.VerificationSessionKey(user.Email), claims.VerifyID)
	if err != nil {
		return model.NewErrInternal(fmt.Errorf("failed to redeem verification session: %w", err))
	}
	if state != model.SessionMatched {
		a.logger.Info("auth service: verification token invalidated", "email", user.Email, "state", state.String())
		return &model.APIError{
			Status:  http.StatusUnauthorized,
			Message: "Invalidated verification token",
			Cause:   model.ErrVerificationTokenInvalidated,
		}
	}

	now := time.Now()
	user.IsVerified = true
	user.VerifiedAt = &now
	if _, err := a.users.Update(ctx, user); err != nil {
		return model.NewErrInternal(fmt.Errorf("failed to mark user verified: %w", err))
	}

	a.logger.Info("auth service: email verified", "user_id", user.ID)
	return nil
}

// RequestPasswordReset issues a reset link for the account. An unknown
// email yields a non-error no-op outcome, not a distinguishable failure.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) (ResetRequest, error) {
	if email == "" {
		return ResetRequest{}, model.NewErrBadRequest("missing email")
	}

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Debug("auth service: reset requested for unknown email")
			return ResetRequest{Sent: false}, nil
		}
		return ResetRequest{}, model.NewErrInternal(fmt.Errorf("failed to get user by email: %w", err))
	}

	token, resetID, err := a.codec.GenerateResetToken(user.ID, user.Email)
	if err != nil {
		return ResetRequest{}, model.NewErrInternal(fmt.Errorf("failed to generate reset token: %w", err))
	}

	key := model.ResetSessionKey(user.Email)
	if err := a.replaceSessionEntry(ctx, key, resetID, a.cfg.ResetTTL+sessionGrace); err != nil {
		return ResetRequest{}, err
	}

	url := a.cfg.FrontendBaseURL + "/reset-password?token=" + token
	body := "We received your password reset request. Click the link below to create a new password: " + url

	a.logger.Info("auth service: reset link issued", "user_id", user.ID)
	return ResetRequest{Sent: true, Body: body}, nil
}

// CheckResetToken verifies a reset token without consuming it, so the
// frontend can validate a link before showing the form.
func (a *Auth) CheckResetToken(ctx context.Context, token string) error {
	claims, err := a.codec.ParseResetToken(token)
	if err != nil {
		return model.NewErrUnauthorized(err.Error())
	}

	state, err := a.sessions.Validate(ctx, model.ResetSessionKey(claims.Email), claims.ResetID)
	if err != nil {
		return model.NewErrInternal(fmt.Errorf("failed to validate reset session: %w", err))
	}
	if state != model.SessionMatched {
		return &model.APIError{
			Status:  http.StatusUnauthorized,
			Message: "Invalidated reset token",
			Cause:   model.ErrResetTokenInvalidated,
		}
	}

	return nil
}

// CompletePasswordReset redeems a reset token and stores the new password.
func (a *Auth) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	claims, err := a.codec.ParseResetToken(token)
	if err != nil {
		return model.NewErrUnauthorized(err.Error())
	}

	user, err := a.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewErrBadRequest("unknown account")
		}
		return model.NewErrInternal(fmt.Errorf("failed to get user by email: %w", err))
	}

	// Claim the reset identifier before touching the account so the link
	// can never authorise a second change.
	state, err := a.sessions.Redeem(ctx, model.ResetSessionKey(user.Email), claims.ResetID)
	if err != nil {
		return model.NewErrInternal(fmt.Errorf("failed to redeem reset session: %w", err))
	}
	if state != model.SessionMatched {
		a.logger.Info("auth service: reset token invalidated", "email", user.Email, "state", state.String())
		return &model.APIError{
			Status:  http.StatusUnauthorized,
			Message: "Invalidated reset token",
			Cause:   model.ErrResetTokenInvalidated,
		}
	}

	digest, err := a.hasher.Hash(newPassword)
	if err != nil {
		return model.NewErrInternal(fmt.Errorf("failed to hash password: %w", err))
	}

	user.PasswordHash = digest
	if _, err := a.users.Update(ctx, user); err != nil {
		return model.NewErrInternal(fmt.Errorf("failed to update password: %w", err))
	}

	a.logger.Info("auth service: password reset completed", "user_id", user.ID)
	return nil
}

// mintTokenPair signs an access/refresh couple and registers the new
// rotation identifier, superseding any previously active session.
func (a *Auth) mintTokenPair(ctx context.Context, user model.User) (model.TokenPair, error) {
	access, err := a.codec.GenerateAccessToken(user)
	if err != nil {
		return model.TokenPair{}, model.NewErrInternal(fmt.Errorf("failed to generate access token: %w", err))
	}

	refresh, rotationID, err := a.codec.GenerateRefreshToken(user.ID)
	if err != nil {
		return model.TokenPair{}, model.NewErrInternal(fmt.Errorf("failed to generate refresh token: %w", err))
	}

	key := model.RefreshSessionKey(user.ID)
	if err := a.sessions.Put(ctx, key, rotationID, a.cfg.RefreshTTL+sessionGrace); err != nil {
		return model.TokenPair{}, model.NewErrInternal(fmt.Errorf("failed to register refresh session: %w", err))
	}

	return model.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// issueVerificationLink mints a verification token, makes it the only
// honorable one for the account, and returns the mail body.
func (a *Auth) issueVerificationLink(ctx context.Context, user model.User) (string, error) {
	token, verifyID, err := a.codec.GenerateVerificationToken(user.ID, user.Email)
	if err != nil {
		return "", model.NewErrInternal(fmt.Errorf("failed to generate verification token: %w", err))
	}

	key := model.VerificationSessionKey(user.Email)
	if err := a.replaceSessionEntry(ctx, key, verifyID, a.cfg.VerificationTTL+sessionGrace); err != nil {
		return "", err
	}

	url := a.cfg.ServerBaseURL + "/auth/verify-user?token=" + token
	body := "Welcome to the Routine App. Complete your registration by clicking this link: " + url

	a.logger.Info("auth service: verification link issued", "user_id", user.ID)
	return body, nil
}

// replaceSessionEntry invalidates a stale entry before registering the
// new identifier, so only the newest outstanding link is honorable.
func (a *Auth) replaceSessionEntry(ctx context.Context, key, id string, ttl time.Duration) error {
	if _, ok, err := a.sessions.Get(ctx, key); err != nil {
		return model.NewErrInternal(fmt.Errorf("failed to check session entry: %w", err))
	} else if ok {
		if err := a.sessions.Invalidate(ctx, key); err != nil {
			return model.NewErrInternal(fmt.Errorf("failed to invalidate stale session entry: %w", err))
		}
	}

	if err := a.sessions.Put(ctx, key, id, ttl); err != nil {
		return model.NewErrInternal(fmt.Errorf("failed to register session entry: %w", err))
	}
	return nil
}
