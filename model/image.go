package model

import (
	"time"
)

// MaxTagsPerImage caps how many tags one image may carry
const MaxTagsPerImage = 5

// Image is photo metadata. The bytes themselves live at URL on the media
// host; the backend never inspects them.
type Image struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"user_id"`
	URL         string    `gorm:"not null" json:"url"`
	StorageKey  string    `gorm:"not null" json:"-"`
	Description string    `gorm:"type:varchar(512)" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Tags     []Tag     `gorm:"many2many:image_tags" json:"tags,omitempty"`
	Comments []Comment `gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Image
func (Image) TableName() string {
	return "images"
}

// Tag labels images, shared across users
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`

	Images []Image `gorm:"many2many:image_tags" json:"-"`
}

// TableName specifies the table name for Tag
func (Tag) TableName() string {
	return "tags"
}
