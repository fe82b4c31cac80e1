// Package reqctx carries verified token claims through request contexts.
package reqctx

import (
	"context"

	"github.com/routineapp/routine-server/internal/model"
)

type ctxKey int

const claimsKey ctxKey = iota

// Manager stores and retrieves verified claims on a request context. The
// key is unexported so only this package can write it.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

var _ model.ContextManager = (*Manager)(nil)

// SetClaimsToContext returns a child context carrying the claims.
func (m *Manager) SetClaimsToContext(ctx context.Context, claims model.TokenClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// GetClaimsFromContext retrieves the claims set by SetClaimsToContext.
// The boolean reports whether the context passed through authentication.
func (m *Manager) GetClaimsFromContext(ctx context.Context) (model.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(model.TokenClaims)
	return claims, ok
}
