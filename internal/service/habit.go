package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/routineapp/routine-server/internal/logger"
	"github.com/routineapp/routine-server/internal/model"
)

// defaultHabits seed every new account so the tracker is never empty on
// first sign-in.
var defaultHabits = []model.Habit{
	{Name: "Drink water", Description: "Eight glasses spread over the day"},
	{Name: "Morning stretch", Description: "Ten minutes before breakfast"},
	{Name: "Read", Description: "Twenty pages of anything"},
}

// Habit serves habit CRUD with per-owner isolation: every operation on an
// existing habit checks that it belongs to the calling account.
type Habit struct {
	habits model.HabitStore
	logger *logger.Logger
}

// NewHabit creates the habit service.
func NewHabit(habits model.HabitStore, logger *logger.Logger) *Habit {
	return &Habit{habits: habits, logger: logger}
}

// SeedDefaults creates the starter habits for a freshly registered
// account. A partial failure is returned as-is; the account itself is
// already committed.
func (s *Habit) SeedDefaults(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	for _, h := range defaultHabits {
		h.ID = uuid.New()
		h.UserID = userID
		h.CreatedAt = now
		h.UpdatedAt = now
		if _, err := s.habits.Create(ctx, h); err != nil {
			return model.NewErrInternal(fmt.Errorf("failed to seed habit %q: %w", h.Name, err))
		}
	}

	s.logger.Debug("habit service: defaults seeded", "user_id", userID, "count", len(defaultHabits))
	return nil
}

// List returns the account's habits, newest first.
func (s *Habit) List(ctx context.Context, userID uuid.UUID) ([]model.Habit, error) {
	habits, err := s.habits.ListByUser(ctx, userID)
	if err != nil {
		return nil, model.NewErrInternal(fmt.Errorf("failed to list habits: %w", err))
	}
	return habits, nil
}

// Create stores a new habit for the account.
func (s *Habit) Create(ctx context.Context, userID uuid.UUID, name, description string) (model.Habit, error) {
	if name == "" {
		return model.Habit{}, model.NewErrBadRequest("missing habit name")
	}

	now := time.Now()
	habit, err := s.habits.Create(ctx, model.Habit{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Habit{}, model.NewErrInternal(fmt.Errorf("failed to create habit: %w", err))
	}

	s.logger.Info("habit service: habit created", "user_id", userID, "habit_id", habit.ID)
	return habit, nil
}

// Update renames or re-describes an owned habit.
func (s *Habit) Update(ctx context.Context, userID, habitID uuid.UUID, name, description string) (model.Habit, error) {
	if name == "" {
		return model.Habit{}, model.NewErrBadRequest("missing habit name")
	}

	habit, err := s.owned(ctx, userID, habitID)
	if err != nil {
		return model.Habit{}, err
	}

	habit.Name = name
	habit.Description = description
	habit.UpdatedAt = time.Now()

	updated, err := s.habits.Update(ctx, habit)
	if err != nil {
		return model.Habit{}, model.NewErrInternal(fmt.Errorf("failed to update habit: %w", err))
	}
	return updated, nil
}

// Delete removes an owned habit.
func (s *Habit) Delete(ctx context.Context, userID, habitID uuid.UUID) error {
	if _, err := s.owned(ctx, userID, habitID); err != nil {
		return err
	}

	if err := s.habits.Delete(ctx, habitID); err != nil {
		return model.NewErrInternal(fmt.Errorf("failed to delete habit: %w", err))
	}

	s.logger.Info("habit service: habit deleted", "user_id", userID, "habit_id", habitID)
	return nil
}

// owned loads a habit and verifies ownership. A habit belonging to
// someone else reads as not found so ids cannot be probed.
func (s *Habit) owned(ctx context.Context, userID, habitID uuid.UUID) (model.Habit, error) {
	habit, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Habit{}, model.NewErrResourceNotFound("habit not found")
		}
		return model.Habit{}, model.NewErrInternal(fmt.Errorf("failed to get habit: %w", err))
	}

	if habit.UserID != userID {
		return model.Habit{}, model.NewErrResourceNotFound("habit not found")
	}

	return habit, nil
}
