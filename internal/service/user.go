package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"

	"github.com/routineapp/routine-server/internal/logger"
	"github.com/routineapp/routine-server/internal/model"
)

var allowedAvatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// User serves account self-management: profile reads, password changes
// and avatar uploads.
type User struct {
	users  model.UserStore
	hasher model.PasswordHasher
	files  model.FileStorage
	logger *logger.Logger
}

// NewUser creates the user service.
func NewUser(users model.UserStore, hasher model.PasswordHasher, files model.FileStorage, logger *logger.Logger) *User {
	return &User{
		users:  users,
		hasher: hasher,
		files:  files,
		logger: logger,
	}
}

// Me returns the redacted profile of the account.
func (s *User) Me(ctx context.Context, userID uuid.UUID) (model.UserView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.UserView{}, model.NewErrUnauthorized("unknown subject")
		}
		return model.UserView{}, model.NewErrInternal(fmt.Errorf("failed to get user by id: %w", err))
	}
	return user.Redact(), nil
}

// ChangePassword replaces the stored digest after verifying the current
// password.
func (s *User) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.NewErrUnauthorized("unknown subject")
		}
		return model.NewErrInternal(fmt.Errorf("failed to get user by id: %w", err))
	}

	if !s.hasher.Compare(current, user.PasswordHash) {
		s.logger.Info("user service: password change rejected", "user_id", userID)
		return model.NewErrInvalidCredentials()
	}

	digest, err := s.hasher.Hash(next)
	if err != nil {
		return model.NewErrInternal(fmt.Errorf("failed to hash password: %w", err))
	}

	user.PasswordHash = digest
	if _, err := s.users.Update(ctx, user); err != nil {
		return model.NewErrInternal(fmt.Errorf("failed to update password: %w", err))
	}

	s.logger.Info("user service: password changed", "user_id", userID)
	return nil
}

// ChangeAvatar uploads a new avatar image and removes the previous one
// when it lives in our store.
func (s *User) ChangeAvatar(ctx context.Context, userID uuid.UUID, reader io.Reader, size int64, contentType string) (model.UserView, error) {
	ext, ok := allowedAvatarTypes[contentType]
	if !ok {
		return model.UserView{}, model.NewErrBadRequest("unsupported image type")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.UserView{}, model.NewErrUnauthorized("unknown subject")
		}
		return model.UserView{}, model.NewErrInternal(fmt.Errorf("failed to get user by id: %w", err))
	}

	key := path.Join("avatars", uuid.NewString()+ext)
	if err := s.files.Upload(ctx, key, reader, size, contentType); err != nil {
		return model.UserView{}, model.NewErrInternal(fmt.Errorf("failed to upload avatar: %w", err))
	}

	previous := user.Avatar
	user.Avatar = s.files.URLFor(key)
	updated, err := s.users.Update(ctx, user)
	if err != nil {
		return model.UserView{}, model.NewErrInternal(fmt.Errorf("failed to update avatar: %w", err))
	}

	// Clean up the replaced object. External avatar URLs are left alone.
	if oldKey, ours := s.files.KeyFromURL(previous); ours {
		if err := s.files.Delete(ctx, oldKey); err != nil {
			s.logger.Error("user service: failed to delete previous avatar", "key", oldKey, "error", err.Error())
		}
	}

	s.logger.Info("user service: avatar changed", "user_id", userID)
	return updated.Redact(), nil
}
