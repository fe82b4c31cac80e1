package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/routineapp/routine-server/internal/model"
)

// SessionAuthority is a mock implementation of model.SessionAuthority.
type SessionAuthority struct {
	mock.Mock
}

func NewSessionAuthority(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionAuthority {
	m := &SessionAuthority{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SessionAuthority) Put(ctx context.Context, key string, id string, ttl time.Duration) error {
	args := m.Called(ctx, key, id, ttl)
	return args.Error(0)
}

func (m *SessionAuthority) Validate(ctx context.Context, key string, id string) (model.SessionState, error) {
	args := m.Called(ctx, key, id)
	return args.Get(0).(model.SessionState), args.Error(1)
}

func (m *SessionAuthority) Redeem(ctx context.Context, key string, id string) (model.SessionState, error) {
	args := m.Called(ctx, key, id)
	return args.Get(0).(model.SessionState), args.Error(1)
}

func (m *SessionAuthority) Invalidate(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *SessionAuthority) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}
