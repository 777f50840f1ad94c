package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yarmel/photoshare/model"
	"github.com/yarmel/photoshare/utils/auth"
)

// AuthService orchestrates signup, login, logout, refresh and current-user
// resolution on top of the credential store, the blacklist store and the
// token codec. One instance is built at startup and injected into every
// handler that needs it.
type AuthService struct {
	db        *gorm.DB
	codec     *auth.TokenCodec
	blacklist *auth.BlacklistService
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, codec *auth.TokenCodec) *AuthService {
	return &AuthService{
		db:        db,
		codec:     codec,
		blacklist: auth.NewBlacklistService(db),
	}
}

// Blacklist exposes the underlying blacklist store
func (s *AuthService) Blacklist() *auth.BlacklistService {
	return s.blacklist
}

// Codec exposes the token codec
func (s *AuthService) Codec() *auth.TokenCodec {
	return s.codec
}

// TokenPair is an access/refresh token pair issued at login and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// Signup registers a new account. Email uniqueness is checked before
// username so a request colliding on both reports only the email conflict.
// The very first account ever created is promoted to admin inside the same
// transaction — that is the one and only bootstrap path to the first admin.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*model.User, error) {
	pwHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Username:     username,
		Email:        email,
		PasswordHash: pwHash,
		Role:         model.RoleUser,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64

		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return internalError("signup: email lookup", err)
		}
		if count > 0 {
			return ErrEmailTaken
		}

		if err := tx.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
			return internalError("signup: username lookup", err)
		}
		if count > 0 {
			return ErrUsernameTaken
		}

		if err := tx.Model(&model.User{}).Count(&count).Error; err != nil {
			return internalError("signup: user count", err)
		}
		if count == 0 {
			user.Role = model.RoleAdmin
		}

		if err := tx.Create(&user).Error; err != nil {
			return internalError("signup: create user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Login verifies credentials and issues a fresh token pair. The new
// refresh token is persisted on the user row in the same transaction as
// issuance, overwriting (and thereby invalidating) any prior one. The
// identifier may be an email address or a username.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*model.User, *TokenPair, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, internalError("login: user lookup", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	if user.Banned {
		return nil, nil, ErrUserBanned
	}

	pair, err := s.issuePair(user.Email, string(user.Role))
	if err != nil {
		return nil, nil, internalError("login: token issue", err)
	}

	err = s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", user.ID).
		Update("refresh_token", pair.RefreshToken).Error
	if err != nil {
		return nil, nil, internalError("login: persist refresh token", err)
	}

	user.RefreshToken = &pair.RefreshToken
	return &user, pair, nil
}

// Logout invalidates an access token by blacklisting it. The token must
// still decode as a valid access token. Idempotent: logging out an
// already-blacklisted token succeeds again.
func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	claims, err := s.codec.Decode(accessToken, auth.ScopeAccess)
	if err != nil {
		return ErrInvalidToken
	}

	if err := s.blacklist.Add(ctx, claims.Email, accessToken); err != nil {
		return internalError("logout: blacklist insert", err)
	}
	return nil
}

// Refresh rotates a token pair. The presented token must exactly match the
// user's stored refresh_token; on mismatch the stored token is cleared,
// forcing a full re-login — a superseded refresh token is treated as a
// replay. Rotation persists the new token with a compare-and-swap on the
// old value, so two concurrent refreshes cannot both win.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Decode(refreshToken, auth.ScopeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	var user model.User
	err = s.db.WithContext(ctx).Where("email = ?", claims.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, internalError("refresh: user lookup", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		if err := s.db.WithContext(ctx).
			Model(&model.User{}).
			Where("id = ?", user.ID).
			Update("refresh_token", nil).Error; err != nil {
			return nil, internalError("refresh: clear stored token", err)
		}
		return nil, ErrRefreshMismatch
	}

	pair, err := s.issuePair(user.Email, string(user.Role))
	if err != nil {
		return nil, internalError("refresh: token issue", err)
	}

	// CAS on the previously stored value; zero rows updated means a
	// concurrent refresh already rotated it.
	result := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND refresh_token = ?", user.ID, refreshToken).
		Update("refresh_token", pair.RefreshToken)
	if result.Error != nil {
		return nil, internalError("refresh: persist rotation", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrRefreshMismatch
	}

	return pair, nil
}

// ResolveCurrentUser authenticates an access token all the way to a user
// row: decode, blacklist check, lookup, ban check. Every protected route
// goes through this.
func (s *AuthService) ResolveCurrentUser(ctx context.Context, accessToken string) (*model.User, error) {
	claims, err := s.codec.Decode(accessToken, auth.ScopeAccess)
	if err != nil {
		return nil, ErrInvalidToken
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, internalError("resolve: blacklist lookup", err)
	}
	if revoked {
		return nil, ErrTokenBlacklisted
	}

	var user model.User
	err = s.db.WithContext(ctx).Where("email = ?", claims.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, internalError("resolve: user lookup", err)
	}

	if user.Banned {
		return nil, ErrUserBanned
	}

	return &user, nil
}

// ClearExpiredBlacklistRecords prunes blacklist rows older than the
// access-token TTL and reports how many were removed
func (s *AuthService) ClearExpiredBlacklistRecords(ctx context.Context) (int64, error) {
	count, err := s.blacklist.Prune(ctx, s.codec.AccessTTL())
	if err != nil {
		return 0, internalError("blacklist prune", err)
	}
	return count, nil
}

func (s *AuthService) issuePair(email, role string) (*TokenPair, error) {
	access, err := s.codec.EncodeAccess(email, role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.EncodeRefresh(email, role)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}
