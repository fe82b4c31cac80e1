package model

import "errors"

// Codec errors. All are terminal; the caller must re-authenticate.
var (
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrAudienceMismatch = errors.New("token audience mismatch")
	ErrIssuerMismatch   = errors.New("token issuer mismatch")
)

// Session-authority invalidation errors, one per token class. Raised when
// a presented identifier no longer matches the currently sanctioned one;
// the orchestrator re-maps them to Unauthorized before they reach callers.
var (
	ErrRefreshTokenInvalidated      = errors.New("refresh token invalidated")
	ErrVerificationTokenInvalidated = errors.New("verification token invalidated")
	ErrResetTokenInvalidated        = errors.New("reset token invalidated")
)
