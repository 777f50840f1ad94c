package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	authutil "github.com/yarmel/photoshare/utils/auth"
	"github.com/yarmel/photoshare/utils/response"
	"github.com/yarmel/photoshare/utils/validation"

	"github.com/yarmel/photoshare/services"
)

// SignupRequest represents a user registration request
type SignupRequest struct {
	Username string `json:"username" validate:"required,min=1,max=16"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignupResponse represents a successful registration response
type SignupResponse struct {
	User   UserResponse `json:"user"`
	Detail string       `json:"detail"`
}

// Signup handles user registration
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if !validation.ValidateUsername(req.Username) {
		return response.BadRequest(c, "Username must be 1-16 characters of letters, digits, '.', '-' or '_'")
	}
	if !authutil.IsPasswordValid(req.Password) {
		return response.BadRequest(c, "Password must be at least 8 characters long")
	}

	user, err := h.auth.Signup(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, services.ErrUsernameTaken):
			return response.Conflict(c, "This username already registered")
		default:
			return response.InternalServerError(c, "Failed to create user")
		}
	}

	return response.Created(c, SignupResponse{
		User:   NewUserResponse(user),
		Detail: "User successfully created",
	})
}
