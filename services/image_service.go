package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yarmel/photoshare/model"
	"github.com/yarmel/photoshare/services/storage"
)

// ImageService coordinates photo metadata with the media host. Bytes go
// straight to the MediaStore; only the returned URL is persisted.
type ImageService struct {
	db    *gorm.DB
	media storage.MediaStore
}

// NewImageService creates a new image service
func NewImageService(db *gorm.DB, media storage.MediaStore) *ImageService {
	return &ImageService{db: db, media: media}
}

// Upload stores the bytes on the media host and records the metadata row
func (s *ImageService) Upload(ctx context.Context, userID uint, filename, contentType string, data io.Reader, description string, tags []string) (*model.Image, error) {
	if len(tags) > model.MaxTagsPerImage {
		return nil, ErrTooManyTags
	}

	key := fmt.Sprintf("images/%d/%s%s", userID, uuid.New().String(), path.Ext(filename))

	url, err := s.media.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, internalError("image: media upload", err)
	}

	image := model.Image{
		UserID:      userID,
		URL:         url,
		StorageKey:  key,
		Description: description,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&image).Error; err != nil {
			return internalError("image: create", err)
		}

		for _, name := range tags {
			name = strings.TrimSpace(strings.ToLower(name))
			if name == "" {
				continue
			}
			var tag model.Tag
			if err := tx.Where(model.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
				return internalError("image: tag upsert", err)
			}
			if err := tx.Model(&image).Association("Tags").Append(&tag); err != nil {
				return internalError("image: tag attach", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &image, nil
}

// Get loads an image with its tags
func (s *ImageService) Get(ctx context.Context, id uint) (*model.Image, error) {
	var image model.Image
	err := s.db.WithContext(ctx).Preload("Tags").First(&image, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, internalError("image: lookup", err)
	}
	return &image, nil
}

// ListByUser returns a user's images, newest first
func (s *ImageService) ListByUser(ctx context.Context, userID uint) ([]model.Image, error) {
	var images []model.Image
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&images).Error
	if err != nil {
		return nil, internalError("image: list", err)
	}
	return images, nil
}

// UpdateDescription edits image metadata
func (s *ImageService) UpdateDescription(ctx context.Context, id uint, description string) (*model.Image, error) {
	image, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&model.Image{}).
		Where("id = ?", id).
		Update("description", description).Error
	if err != nil {
		return nil, internalError("image: update", err)
	}

	image.Description = description
	return image, nil
}

// Delete removes the metadata row and the hosted object. The media delete
// happens after the row is gone; a failure there leaves the object
// orphaned on the host but never a dangling row.
func (s *ImageService) Delete(ctx context.Context, id uint) error {
	image, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Select("Tags").Delete(&model.Image{ID: id}).Error; err != nil {
		return internalError("image: delete", err)
	}

	if err := s.media.Delete(ctx, image.StorageKey); err != nil {
		return internalError("image: media delete", err)
	}
	return nil
}
