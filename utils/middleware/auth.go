package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/yarmel/photoshare/model"
	"github.com/yarmel/photoshare/services"
	"github.com/yarmel/photoshare/utils/response"
)

// AuthMiddleware authenticates requests and gates them by role
type AuthMiddleware struct {
	auth *services.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(auth *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// BearerToken extracts the token from an Authorization header
func BearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// Required rejects the request unless it carries a valid, non-blacklisted
// access token that resolves to an active user. The user lands on the
// request locals for downstream handlers.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := BearerToken(c)
		if !ok {
			return response.Unauthorized(c, "Missing or malformed authorization header")
		}

		user, err := m.auth.ResolveCurrentUser(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTokenBlacklisted):
				return response.Unauthorized(c, "Token has been revoked")
			case errors.Is(err, services.ErrUserBanned):
				return response.Unauthorized(c, "Account is banned")
			case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrUserNotFound):
				return response.Unauthorized(c, "Invalid or expired token")
			default:
				return response.InternalServerError(c, "Failed to authenticate request")
			}
		}

		c.Locals("user", user)
		c.Locals("access_token", token)

		return c.Next()
	}
}

// RequireRoles passes only users whose role is in the given set. The set
// is exact: there is no role hierarchy, an admin does not implicitly pass
// a moderator-only gate. Must run after Required.
func (m *AuthMiddleware) RequireRoles(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return response.Unauthorized(c, "Authentication required")
		}

		for _, r := range roles {
			if user.Role == r {
				return c.Next()
			}
		}

		return response.Forbidden(c, "Insufficient permissions")
	}
}

// CurrentUser extracts the authenticated user from the request locals
func CurrentUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}

// AccessToken extracts the raw bearer token placed by Required
func AccessToken(c *fiber.Ctx) (string, bool) {
	token := c.Locals("access_token")
	if token == nil {
		return "", false
	}
	t, ok := token.(string)
	return t, ok
}
