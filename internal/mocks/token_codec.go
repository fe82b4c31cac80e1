package mocks

import (
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/routineapp/routine-server/internal/model"
)

// TokenCodec is a mock implementation of model.TokenCodec.
type TokenCodec struct {
	mock.Mock
}

func NewTokenCodec(t interface {
	mock.TestingT
	Cleanup(func())
}) *TokenCodec {
	m := &TokenCodec{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TokenCodec) GenerateAccessToken(user model.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *TokenCodec) GenerateRefreshToken(userID uuid.UUID) (string, string, error) {
	args := m.Called(userID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *TokenCodec) GenerateVerificationToken(userID uuid.UUID, email string) (string, string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *TokenCodec) GenerateResetToken(userID uuid.UUID, email string) (string, string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *TokenCodec) ParseAccessToken(token string) (model.TokenClaims, error) {
	args := m.Called(token)
	return args.Get(0).(model.TokenClaims), args.Error(1)
}

func (m *TokenCodec) ParseRefreshToken(token string) (model.TokenClaims, error) {
	args := m.Called(token)
	return args.Get(0).(model.TokenClaims), args.Error(1)
}

func (m *TokenCodec) ParseVerificationToken(token string) (model.TokenClaims, error) {
	args := m.Called(token)
	return args.Get(0).(model.TokenClaims), args.Error(1)
}

func (m *TokenCodec) ParseResetToken(token string) (model.TokenClaims, error) {
	args := m.Called(token)
	return args.Get(0).(model.TokenClaims), args.Error(1)
}
