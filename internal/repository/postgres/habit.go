package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/routineapp/routine-server/internal/model"
)

var _ model.HabitStore = (*HabitRepository)(nil)

type HabitRepository struct {
	db *Connection
}

func NewHabitRepository(db *Connection) *HabitRepository {
	return &HabitRepository{
		db: db,
	}
}

func (r *HabitRepository) Create(ctx context.Context, habit model.Habit) (model.Habit, error) {
	query := `INSERT INTO habits (id, user_id, name, description, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, user_id, name, description, created_at, updated_at`

	var saved model.Habit
	err := r.db.QueryRow(ctx, query,
		habit.ID, habit.UserID, habit.Name, habit.Description, habit.CreatedAt, habit.UpdatedAt,
	).Scan(
		&saved.ID, &saved.UserID, &saved.Name, &saved.Description, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		return model.Habit{}, fmt.Errorf("failed to create habit: %w", err)
	}

	return saved, nil
}

func (r *HabitRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Habit, error) {
	var habit model.Habit
	query := `SELECT id, user_id, name, description, created_at, updated_at
			  FROM habits WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&habit.ID, &habit.UserID, &habit.Name, &habit.Description, &habit.CreatedAt, &habit.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Habit{}, model.ErrNotFound
		}
		return model.Habit{}, fmt.Errorf("failed to get habit by id: %w", err)
	}

	return habit, nil
}

func (r *HabitRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Habit, error) {
	query := `SELECT id, user_id, name, description, created_at, updated_at
			  FROM habits WHERE user_id = $1 ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	habits := make([]model.Habit, 0)
	for rows.Next() {
		var habit model.Habit
		if err := rows.Scan(
			&habit.ID, &habit.UserID, &habit.Name, &habit.Description, &habit.CreatedAt, &habit.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	return habits, nil
}

func (r *HabitRepository) Update(ctx context.Context, habit model.Habit) (model.Habit, error) {
	query := `UPDATE habits SET name = $2, description = $3, updated_at = $4
			  WHERE id = $1
			  RETURNING id, user_id, name, description, created_at, updated_at`

	var saved model.Habit
	err := r.db.QueryRow(ctx, query, habit.ID, habit.Name, habit.Description, time.Now()).Scan(
		&saved.ID, &saved.UserID, &saved.Name, &saved.Description, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Habit{}, model.ErrNotFound
		}
		return model.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}

	return saved, nil
}

func (r *HabitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM habits WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
