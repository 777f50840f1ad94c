package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/yarmel/photoshare/services"
	"github.com/yarmel/photoshare/utils/middleware"
	"github.com/yarmel/photoshare/utils/response"
)

// RefreshResponse represents a token refresh response
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// RefreshToken rotates the token pair. The refresh token travels in the
// Authorization header as a bearer credential.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	token, ok := middleware.BearerToken(c)
	if !ok {
		return response.Unauthorized(c, "Missing or malformed authorization header")
	}

	pair, err := h.auth.Refresh(c.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRefreshMismatch), errors.Is(err, services.ErrInvalidToken):
			return response.Unauthorized(c, "Invalid refresh token")
		default:
			return response.InternalServerError(c, "Failed to refresh tokens")
		}
	}

	return response.Success(c, RefreshResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
	})
}

// Logout blacklists the presented access token. Deliberately not behind
// the auth middleware: logging out an already-blacklisted token succeeds
// again, only undecodable tokens are rejected.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token, ok := middleware.BearerToken(c)
	if !ok {
		return response.Unauthorized(c, "Missing or malformed authorization header")
	}

	if err := h.auth.Logout(c.Context(), token); err != nil {
		if errors.Is(err, services.ErrInvalidToken) {
			return response.Unauthorized(c, "Invalid or expired token")
		}
		return response.InternalServerError(c, "Failed to log out")
	}

	return response.SuccessWithMessage(c, "Successfully logged out", nil)
}
