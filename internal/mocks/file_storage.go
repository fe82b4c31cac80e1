package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// FileStorage is a mock implementation of model.FileStorage.
type FileStorage struct {
	mock.Mock
}

func NewFileStorage(t interface {
	mock.TestingT
	Cleanup(func())
}) *FileStorage {
	m := &FileStorage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *FileStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *FileStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *FileStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *FileStorage) URLFor(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *FileStorage) KeyFromURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}
