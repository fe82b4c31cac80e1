package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for user accounts.
// Create must surface ErrDuplicate when the email is already taken.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
}

// User represents a stored account with its credential material.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	IsVerified   bool
	VerifiedAt   *time.Time
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is the redacted projection returned to clients. The id,
// password hash and verification timestamp are stripped.
type UserView struct {
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	Avatar     string    `json:"avatar"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Redact returns the client-safe projection of the user.
func (u User) Redact() UserView {
	return UserView{
		Email:      u.Email,
		IsVerified: u.IsVerified,
		Avatar:     u.Avatar,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
