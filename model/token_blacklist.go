package model

import (
	"time"
)

// BlacklistedToken is an access token invalidated before its natural
// expiry (logout, revocation). Rows older than the access-token TTL are
// dead weight and get pruned; duplicate inserts of the same token are
// harmless.
type BlacklistedToken struct {
	ID      uint      `gorm:"primaryKey" json:"id"`
	Email   string    `gorm:"type:varchar(128);index" json:"email"`
	Token   string    `gorm:"type:text;index;not null" json:"token"`
	AddedAt time.Time `gorm:"index;not null;autoCreateTime" json:"added_at"`
}

// TableName specifies the table name for BlacklistedToken
func (BlacklistedToken) TableName() string {
	return "token_blacklist"
}
