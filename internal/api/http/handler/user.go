package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/routineapp/routine-server/internal/logger"
	"github.com/routineapp/routine-server/internal/model"
)

// maxAvatarSize caps avatar uploads at 5 MiB.
const maxAvatarSize = 5 << 20

// UserService defines account self-management operations.
type UserService interface {
	Me(ctx context.Context, userID uuid.UUID) (model.UserView, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
	ChangeAvatar(ctx context.Context, userID uuid.UUID, reader io.Reader, size int64, contentType string) (model.UserView, error)
}

// User handles the /user endpoints.
type User struct {
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Me returns the signed-in account's profile.
func (h *User) Me(c *gin.Context) {
	claims, ok := h.contextManager.GetClaimsFromContext(c.Request.Context())
	if !ok {
		handleError(c, model.NewErrUnauthorized(""))
		return
	}

	view, err := h.userService.Me(c.Request.Context(), claims.UserID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type changePasswordBody struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword replaces the account password.
func (h *User) ChangePassword(c *gin.Context) {
	claims, ok := h.contextManager.GetClaimsFromContext(c.Request.Context())
	if !ok {
		handleError(c, model.NewErrUnauthorized(""))
		return
	}

	var req changePasswordBody
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, model.NewErrBadRequest("invalid password payload"))
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		h.logger.Error("User handler: password change failed", "user_id", claims.UserID, "error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ChangeAvatar uploads a new avatar image from a multipart form.
func (h *User) ChangeAvatar(c *gin.Context) {
	claims, ok := h.contextManager.GetClaimsFromContext(c.Request.Context())
	if !ok {
		handleError(c, model.NewErrUnauthorized(""))
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		handleError(c, model.NewErrBadRequest("missing avatar file"))
		return
	}
	if fileHeader.Size > maxAvatarSize {
		handleError(c, model.NewErrBadRequest("avatar too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		handleError(c, model.NewErrInternal(err))
		return
	}
	defer file.Close()

	view, err := h.userService.ChangeAvatar(c.Request.Context(), claims.UserID,
		file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error("User handler: avatar change failed", "user_id", claims.UserID, "error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
