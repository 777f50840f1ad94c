package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yarmel/photoshare/model"
)

// UsersService covers user lookup and the admin-side account operations
// (role assignment, ban, delete)
type UsersService struct {
	db           *gorm.DB
	allowedRoles []string
}

// NewUsersService creates a new users service
func NewUsersService(db *gorm.DB, allowedRoles []string) *UsersService {
	return &UsersService{db: db, allowedRoles: allowedRoles}
}

// GetByUsername loads a user by username
func (s *UsersService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("users: lookup", err)
	}
	return &user, nil
}

// ProfileUpdate carries the editable profile fields
type ProfileUpdate struct {
	About *string
}

// UpdateProfile applies a profile edit to the given user
func (s *UsersService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("users: lookup", err)
	}

	if update.About != nil {
		user.About = *update.About
	}

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, internalError("users: save profile", err)
	}
	return &user, nil
}

// AssignRole sets a user's role. The role must be in the configured
// allowed set; a user holds exactly one role at a time.
func (s *UsersService) AssignRole(ctx context.Context, username, role string) (*model.User, error) {
	parsed, ok := model.ParseRole(role, s.allowedRoles)
	if !ok {
		return nil, ErrInvalidRole
	}

	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("role", parsed).Error
	if err != nil {
		return nil, internalError("users: assign role", err)
	}

	user.Role = parsed
	return user, nil
}

// SetBanned toggles a user's ban flag. A banned user fails current-user
// resolution on every request until unbanned.
func (s *UsersService) SetBanned(ctx context.Context, username string, banned bool) (*model.User, error) {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("banned", banned).Error
	if err != nil {
		return nil, internalError("users: set banned", err)
	}

	user.Banned = banned
	return user, nil
}

// Delete removes a user account. Only reachable through the admin surface.
func (s *UsersService) Delete(ctx context.Context, username string) error {
	user, err := s.GetByUsername(ctx, username)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&model.User{}, user.ID).Error; err != nil {
		return internalError("users: delete", err)
	}
	return nil
}
