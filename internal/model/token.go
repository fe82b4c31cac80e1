package model

import "github.com/google/uuid"

// TokenCodec signs and verifies the four token classes. Each class is
// bound to its own secret; audience and issuer are enforced on parse.
type TokenCodec interface {
	GenerateAccessToken(user User) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (token string, rotationID string, err error)
	GenerateVerificationToken(userID uuid.UUID, email string) (token string, verifyID string, err error)
	GenerateResetToken(userID uuid.UUID, email string) (token string, resetID string, err error)
	ParseAccessToken(token string) (TokenClaims, error)
	ParseRefreshToken(token string) (TokenClaims, error)
	ParseVerificationToken(token string) (TokenClaims, error)
	ParseResetToken(token string) (TokenClaims, error)
}

// TokenClaims is the decoded identity carried by a verified token.
// Only the identifier matching the token's class is populated.
type TokenClaims struct {
	UserID     uuid.UUID
	Email      string
	RotationID string
	VerifyID   string
	ResetID    string
}

// TokenPair is an access/refresh token couple minted together.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// PasswordHasher hashes and verifies plaintext passwords. Implementations
// must be stateless and safe for concurrent use.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext string, digest string) bool
}
