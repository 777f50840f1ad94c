package model

import (
	"time"
)

// Role is a user's authorization level. Every user carries exactly one
// role at any time; route gates declare the exact role sets they accept.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ParseRole validates a role string against the allowed set
func ParseRole(s string, allowed []string) (Role, bool) {
	for _, a := range allowed {
		if s == a {
			return Role(s), true
		}
	}
	return "", false
}

// User represents a registered account
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(16);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	About        string    `gorm:"type:varchar(512)" json:"about"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
	Banned       bool      `gorm:"not null;default:false" json:"banned"`
	RefreshToken *string   `gorm:"type:varchar(512)" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Comments []Comment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Images   []Image   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
