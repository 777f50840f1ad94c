package services

import (
	"errors"
	"fmt"
)

// Service failure taxonomy. Handlers map each sentinel onto exactly one
// HTTP status; anything else is an internal error with no detail leaked.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenBlacklisted   = errors.New("token has been revoked")
	ErrRefreshMismatch    = errors.New("refresh token mismatch")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserBanned         = errors.New("user is banned")
	ErrInvalidRole        = errors.New("invalid role")
	ErrImageNotFound      = errors.New("image not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrNotCommentAuthor   = errors.New("not the comment author")
	ErrTooManyTags        = errors.New("too many tags")
)

// internalError wraps a store failure so callers can branch on the class
// without seeing driver detail
func internalError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
