package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/yarmel/photoshare/services"
	"github.com/yarmel/photoshare/utils/response"
)

// LoginRequest represents a user login request. The identifier may be an
// email address or a username.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse represents a successful login response
type LoginResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Identifier == "" || req.Password == "" {
		return response.BadRequest(c, "Identifier and password are required")
	}

	ip := c.IP()

	user, pair, err := h.auth.Login(c.Context(), req.Identifier, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			if h.bruteForceProtection != nil {
				h.bruteForceProtection.RecordFailedAttempt(c, ip)
			}
			return response.Unauthorized(c, "Invalid identifier or password")
		case errors.Is(err, services.ErrUserBanned):
			return response.Unauthorized(c, "Account is banned")
		default:
			return response.InternalServerError(c, "Failed to log in")
		}
	}

	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c, ip)
	}

	return response.Success(c, LoginResponse{
		User:         NewUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	})
}
