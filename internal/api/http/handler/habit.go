package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/routineapp/routine-server/internal/logger"
	"github.com/routineapp/routine-server/internal/model"
)

// HabitService defines habit CRUD with owner isolation.
type HabitService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Habit, error)
	Create(ctx context.Context, userID uuid.UUID, name, description string) (model.Habit, error)
	Update(ctx context.Context, userID, habitID uuid.UUID, name, description string) (model.Habit, error)
	Delete(ctx context.Context, userID, habitID uuid.UUID) error
}

// Habit handles the /habits endpoints.
type Habit struct {
	habitService   HabitService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewHabit creates a new Habit handler.
func NewHabit(habitService HabitService, contextManager model.ContextManager, logger *logger.Logger) *Habit {
	return &Habit{
		habitService:   habitService,
		contextManager: contextManager,
		logger:         logger,
	}
}

type habitBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// List returns the account's habits.
func (h *Habit) List(c *gin.Context) {
	claims, ok := h.contextManager.GetClaimsFromContext(c.Request.Context())
	if !ok {
		handleError(c, model.NewErrUnauthorized(""))
		return
	}

	habits, err := h.habitService.List(c.Request.Context(), claims.UserID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habits)
}

// Create stores a new habit.
func (h *Habit) Create(c *gin.Context) {
	claims, ok := h.contextManager.GetClaimsFromContext(c.Request.Context())
	if !ok {
		handleError(c, model.NewErrUnauthorized(""))
		return
	}

	var req habitBody
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrBadRequest("invalid habit payload"))
		return
	}

	habit, err := h.habitService.Create(c.Request.Context(), claims.UserID, req.Name, req.Description)
	if err != nil {
		h.logger.Error("Habit handler: create failed", "user_id", claims.UserID, "error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, habit)
}

// Update renames or re-describes a habit.
func (h *Habit) Update(c *gin.Context) {
	claims, ok := h.contextManager.GetClaimsFromContext(c.Request.Context())
	if !ok {
		handleError(c, model.NewErrUnauthorized(""))
		return
	}

	habitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleError(c, model.NewErrBadRequest("invalid habit id"))
		return
	}

	var req habitBody
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrBadRequest("invalid habit payload"))
		return
	}

	habit, err := h.habitService.Update(c.Request.Context(), claims.UserID, habitID, req.Name, req.Description)
	if err != nil {
		h.logger.Error("Habit handler: update failed", "user_id", claims.UserID, "habit_id", habitID, "error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, habit)
}

// Delete removes a habit.
func (h *Habit) Delete(c *gin.Context) {
	claims, ok := h.contextManager.GetClaimsFromContext(c.Request.Context())
	if !ok {
		handleError(c, model.NewErrUnauthorized(""))
		return
	}

	habitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handleError(c, model.NewErrBadRequest("invalid habit id"))
		return
	}

	if err := h.habitService.Delete(c.Request.Context(), claims.UserID, habitID); err != nil {
		h.logger.Error("Habit handler: delete failed", "user_id", claims.UserID, "habit_id", habitID, "error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
