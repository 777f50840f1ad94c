package user

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yarmel/photoshare/model"
	"github.com/yarmel/photoshare/services"
	"github.com/yarmel/photoshare/utils/middleware"
	"github.com/yarmel/photoshare/utils/response"
	"github.com/yarmel/photoshare/utils/validation"
)

// UserHandler serves the public profile and self-service endpoints
type UserHandler struct {
	users     *services.UsersService
	validator *validation.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UsersService) *UserHandler {
	return &UserHandler{
		users:     users,
		validator: validation.NewValidator(),
	}
}

// ProfileResponse represents a user profile
type ProfileResponse struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	About     string    `json:"about"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProfileResponse converts a user model to a profile response
func NewProfileResponse(user *model.User) ProfileResponse {
	return ProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		About:     user.About,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
	}
}

// GetProfile returns a user's public profile by username
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return response.BadRequest(c, "Username is required")
	}

	user, err := h.users.GetByUsername(c.Context(), username)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load profile")
	}

	return response.Success(c, NewProfileResponse(user))
}

// GetMyInfo returns the authenticated user's own profile
func (h *UserHandler) GetMyInfo(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}
	return response.Success(c, NewProfileResponse(user))
}

// UpdateMyInfoRequest represents a profile edit request
type UpdateMyInfoRequest struct {
	About *string `json:"about" validate:"omitempty,max=512"`
}

// UpdateMyInfo edits the authenticated user's own profile
func (h *UserHandler) UpdateMyInfo(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	var req UpdateMyInfoRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	updated, err := h.users.UpdateProfile(c.Context(), user.ID, services.ProfileUpdate{
		About: req.About,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.SuccessWithMessage(c, "Profile updated", NewProfileResponse(updated))
}
