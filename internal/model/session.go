package model

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionState is the outcome of checking a presented identifier against
// the session authority. Callers branch on why validation failed, not
// just that it failed.
type SessionState int

const (
	// SessionMatched means the presented identifier is the current one.
	SessionMatched SessionState = iota
	// SessionSuperseded means an entry exists but holds a different
	// identifier: the presented token was rotated away or reissued.
	SessionSuperseded
	// SessionAbsent means no entry exists for the key: the token was
	// never registered, already redeemed, or its entry expired.
	SessionAbsent
)

func (s SessionState) String() string {
	switch s {
	case SessionMatched:
		return "matched"
	case SessionSuperseded:
		return "superseded"
	case SessionAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// SessionAuthority records, per (account, token-class) key, the single
// currently-valid rotation/verification/reset identifier. It is the only
// source of truth for whether a signed token is still sanctioned.
// Transport failures are returned as wrapped errors, never as a state.
type SessionAuthority interface {
	// Put unconditionally registers id under key, overwriting any
	// previous entry. A zero ttl stores the entry without expiry.
	Put(ctx context.Context, key string, id string, ttl time.Duration) error
	// Validate compares id against the stored entry without consuming it.
	Validate(ctx context.Context, key string, id string) (SessionState, error)
	// Redeem atomically compares id against the stored entry and deletes
	// it on a match. At most one concurrent caller observes
	// SessionMatched for a given entry.
	Redeem(ctx context.Context, key string, id string) (SessionState, error)
	// Invalidate deletes the entry. Deleting an absent key is not an error.
	Invalidate(ctx context.Context, key string) error
	// Get returns the stored identifier, with ok reporting existence.
	Get(ctx context.Context, key string) (id string, ok bool, err error)
}

// Session-authority key builders, one per token class. The key shapes are
// part of the persisted state and must stay stable across releases.

func RefreshSessionKey(userID uuid.UUID) string {
	return fmt.Sprintf("user-%s", userID)
}

func VerificationSessionKey(email string) string {
	return fmt.Sprintf("verification-%s", email)
}

func ResetSessionKey(email string) string {
	return fmt.Sprintf("reset-%s", email)
}
