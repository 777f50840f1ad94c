package auth

import (
	"time"

	"github.com/yarmel/photoshare/model"
	"github.com/yarmel/photoshare/services"
	"github.com/yarmel/photoshare/utils/middleware"
	"github.com/yarmel/photoshare/utils/validation"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	auth                 *services.AuthService
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		auth:                 auth,
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
	}
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	About     string     `json:"about,omitempty"`
	Role      model.Role `json:"role"`
	Banned    bool       `json:"banned"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewUserResponse maps a user row onto the response DTO
func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		About:     user.About,
		Role:      user.Role,
		Banned:    user.Banned,
		CreatedAt: user.CreatedAt,
	}
}
