package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/routineapp/routine-server/internal/model"
)

// Claims represents the signed claim set. The typ claim discriminates the
// token class; only the payload field matching the class is populated.
type Claims struct {
	jwt.RegisteredClaims
	TokenType  string `json:"typ"`
	Email      string `json:"email,omitempty"`
	RotationID string `json:"refresh_token_id,omitempty"`
	VerifyID   string `json:"verify_token_id,omitempty"`
	ResetID    string `json:"reset_token_id,omitempty"`
}

const (
	typeAccess       = "access"
	typeRefresh      = "refresh"
	typeVerification = "verification"
	typeReset        = "reset"
)

// Config carries the per-class secrets, lifetimes and the shared
// audience/issuer pair enforced on every parse.
type Config struct {
	Audience string
	Issuer   string

	AccessSecret       string
	RefreshSecret      string
	VerificationSecret string
	ResetSecret        string

	AccessTTL       time.Duration
	RefreshTTL      time.Duration
	VerificationTTL time.Duration
	ResetTTL        time.Duration
}

// Codec implements model.TokenCodec backed by symmetric HMAC, one secret
// per token class.
type Codec struct {
	cfg Config
}

var _ model.TokenCodec = (*Codec)(nil)

// NewCodec creates a token codec with the provided class secrets.
func NewCodec(cfg Config) *Codec {
	return &Codec{cfg: cfg}
}

// GenerateAccessToken creates a short-lived access token carrying the
// account email for fast reads.
func (c *Codec) GenerateAccessToken(user model.User) (string, error) {
	return c.signToken(user.ID, c.cfg.AccessTTL, c.cfg.AccessSecret, Claims{
		TokenType: typeAccess,
		Email:     user.Email,
	})
}

// GenerateRefreshToken creates a long-lived refresh token and returns the
// rotation identifier embedded in it.
func (c *Codec) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	rotationID := uuid.NewString()
	token, err := c.signToken(userID, c.cfg.RefreshTTL, c.cfg.RefreshSecret, Claims{
		TokenType:  typeRefresh,
		RotationID: rotationID,
	})
	if err != nil {
		return "", "", err
	}
	return token, rotationID, nil
}

// GenerateVerificationToken creates an email-verification token and
// returns the verification identifier embedded in it.
func (c *Codec) GenerateVerificationToken(userID uuid.UUID, email string) (string, string, error) {
	verifyID := uuid.NewString()
	token, err := c.signToken(userID, c.cfg.VerificationTTL, c.cfg.VerificationSecret, Claims{
		TokenType: typeVerification,
		Email:     email,
		VerifyID:  verifyID,
	})
	if err != nil {
		return "", "", err
	}
	return token, verifyID, nil
}

// GenerateResetToken creates a password-reset token and returns the reset
// identifier embedded in it.
func (c *Codec) GenerateResetToken(userID uuid.UUID, email string) (string, string, error) {
	resetID := uuid.NewString()
	token, err := c.signToken(userID, c.cfg.ResetTTL, c.cfg.ResetSecret, Claims{
		TokenType: typeReset,
		Email:     email,
		ResetID:   resetID,
	})
	if err != nil {
		return "", "", err
	}
	return token, resetID, nil
}

// ParseAccessToken validates an access token and extracts its claims.
func (c *Codec) ParseAccessToken(token string) (model.TokenClaims, error) {
	return c.parseToken(token, c.cfg.AccessSecret, typeAccess)
}

// ParseRefreshToken validates a refresh token and extracts its claims.
func (c *Codec) ParseRefreshToken(token string) (model.TokenClaims, error) {
	return c.parseToken(token, c.cfg.RefreshSecret, typeRefresh)
}

// ParseVerificationToken validates an email-verification token and
// extracts its claims.
func (c *Codec) ParseVerificationToken(token string) (model.TokenClaims, error) {
	return c.parseToken(token, c.cfg.VerificationSecret, typeVerification)
}

// ParseResetToken validates a password-reset token and extracts its claims.
func (c *Codec) ParseResetToken(token string) (model.TokenClaims, error) {
	return c.parseToken(token, c.cfg.ResetSecret, typeReset)
}

func (c *Codec) signToken(subject uuid.UUID, ttl time.Duration, secret string, claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject.String(),
		Audience:  jwt.ClaimStrings{c.cfg.Audience},
		Issuer:    c.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", claims.TokenType, err)
	}

	return tokenString, nil
}

func (c *Codec) parseToken(tokenString, secret, wantType string) (model.TokenClaims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithAudience(c.cfg.Audience), jwt.WithIssuer(c.cfg.Issuer))
	if err != nil {
		return model.TokenClaims{}, mapParseError(err)
	}
	if !parsed.Valid || claims.TokenType != wantType {
		return model.TokenClaims{}, model.ErrTokenMalformed
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.TokenClaims{}, model.ErrTokenMalformed
	}

	return model.TokenClaims{
		UserID:     userID,
		Email:      claims.Email,
		RotationID: claims.RotationID,
		VerifyID:   claims.VerifyID,
		ResetID:    claims.ResetID,
	}, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return model.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return model.ErrAudienceMismatch
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return model.ErrIssuerMismatch
	default:
		return model.ErrTokenMalformed
	}
}
