package auth

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yarmel/photoshare/model"
)

// BlacklistService is the server-side record of access tokens invalidated
// before their natural expiry
type BlacklistService struct {
	db *gorm.DB
}

// NewBlacklistService creates a new blacklist service
func NewBlacklistService(db *gorm.DB) *BlacklistService {
	return &BlacklistService{db: db}
}

// Add inserts a token into the blacklist keyed by its owner's email.
// Append-only; inserting the same token twice is harmless.
func (s *BlacklistService) Add(ctx context.Context, email, token string) error {
	entry := model.BlacklistedToken{
		Email:   email,
		Token:   token,
		AddedAt: time.Now(),
	}

	return s.db.WithContext(ctx).Create(&entry).Error
}

// IsBlacklisted reports whether the exact token string has been revoked
func (s *BlacklistService) IsBlacklisted(ctx context.Context, token string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.BlacklistedToken{}).
		Where("token = ?", token).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// Prune deletes entries older than the cutoff and returns how many went.
// A blacklisted token older than the access TTL cannot be replayed anyway,
// so removal never re-admits a live token. Idempotent.
func (s *BlacklistService) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result := s.db.WithContext(ctx).
		Where("added_at < ?", cutoff).
		Delete(&model.BlacklistedToken{})

	return result.RowsAffected, result.Error
}
