package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// Mailer is a mock implementation of model.Mailer.
type Mailer struct {
	mock.Mock
}

func NewMailer(t interface {
	mock.TestingT
	Cleanup(func())
}) *Mailer {
	m := &Mailer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Mailer) Send(ctx context.Context, to string, subject string, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
