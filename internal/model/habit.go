package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HabitStore defines persistence operations for habits.
type HabitStore interface {
	Create(ctx context.Context, habit Habit) (Habit, error)
	GetByID(ctx context.Context, id uuid.UUID) (Habit, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Habit, error)
	Update(ctx context.Context, habit Habit) (Habit, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Habit represents a tracked routine owned by a single user.
type Habit struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
