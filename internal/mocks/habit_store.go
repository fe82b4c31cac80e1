package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/routineapp/routine-server/internal/model"
)

// HabitStore is a mock implementation of model.HabitStore.
type HabitStore struct {
	mock.Mock
}

func NewHabitStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *HabitStore {
	m := &HabitStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *HabitStore) Create(ctx context.Context, habit model.Habit) (model.Habit, error) {
	args := m.Called(ctx, habit)
	return args.Get(0).(model.Habit), args.Error(1)
}

func (m *HabitStore) GetByID(ctx context.Context, id uuid.UUID) (model.Habit, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Habit), args.Error(1)
}

func (m *HabitStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Habit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Habit), args.Error(1)
}

func (m *HabitStore) Update(ctx context.Context, habit model.Habit) (model.Habit, error) {
	args := m.Called(ctx, habit)
	return args.Get(0).(model.Habit), args.Error(1)
}

func (m *HabitStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
