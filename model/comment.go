package model

import (
	"time"
)

// Comment is a user comment under an image. Authors may edit their own
// comments; removal is a moderator/admin operation.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	ImageID   uint      `gorm:"index;not null" json:"image_id"`
	Content   string    `gorm:"type:varchar(255);not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}
