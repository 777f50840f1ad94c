package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/yarmel/photoshare/model"
	"github.com/yarmel/photoshare/services"
	"github.com/yarmel/photoshare/utils/response"
	"github.com/yarmel/photoshare/utils/validation"
)

// AdminHandler serves the admin-only account management endpoints
type AdminHandler struct {
	auth      *services.AuthService
	users     *services.UsersService
	validator *validation.Validator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(auth *services.AuthService, users *services.UsersService) *AdminHandler {
	return &AdminHandler{
		auth:      auth,
		users:     users,
		validator: validation.NewValidator(),
	}
}

// AccountResponse represents a user account as seen by an admin
type AccountResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Banned   bool   `json:"banned"`
}

// NewAccountResponse converts a user model to an account response
func NewAccountResponse(user *model.User) AccountResponse {
	return AccountResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     string(user.Role),
		Banned:   user.Banned,
	}
}

// AssignRoleRequest represents a role assignment request
type AssignRoleRequest struct {
	Username string `json:"username" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// AssignRole sets a user's role
func (h *AdminHandler) AssignRole(c *fiber.Ctx) error {
	var req AssignRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.users.AssignRole(c.Context(), req.Username, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRole):
			return response.BadRequest(c, "Unknown role")
		case errors.Is(err, services.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		default:
			return response.InternalServerError(c, "Failed to assign role")
		}
	}

	return response.SuccessWithMessage(c, "Role assigned", NewAccountResponse(user))
}

// BanRequest represents a ban toggle request
type BanRequest struct {
	Username string `json:"username" validate:"required"`
	Banned   *bool  `json:"banned" validate:"required"`
}

// Ban toggles a user's ban flag
func (h *AdminHandler) Ban(c *fiber.Ctx) error {
	var req BanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	user, err := h.users.SetBanned(c.Context(), req.Username, *req.Banned)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update ban status")
	}

	msg := "User banned"
	if !user.Banned {
		msg = "User unbanned"
	}
	return response.SuccessWithMessage(c, msg, NewAccountResponse(user))
}

// GetUser returns a user account by username
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return response.BadRequest(c, "Username is required")
	}

	user, err := h.users.GetByUsername(c.Context(), username)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	return response.Success(c, NewAccountResponse(user))
}

// DeleteUser removes a user account
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return response.BadRequest(c, "Username is required")
	}

	if err := h.users.Delete(c.Context(), username); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to delete user")
	}

	return response.SuccessWithMessage(c, "User deleted", nil)
}

// ClearTokens prunes expired entries from the token blacklist
func (h *AdminHandler) ClearTokens(c *fiber.Ctx) error {
	removed, err := h.auth.ClearExpiredBlacklistRecords(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to clear expired tokens")
	}

	return response.SuccessWithMessage(c, "Expired tokens cleared", fiber.Map{
		"removed": removed,
	})
}
