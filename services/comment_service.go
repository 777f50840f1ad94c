package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yarmel/photoshare/model"
)

// CommentService covers comments on photos
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a new comment service
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{db: db}
}

// Create adds a comment to an image
func (s *CommentService) Create(ctx context.Context, userID, imageID uint, content string) (*model.Comment, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Image{}).Where("id = ?", imageID).Count(&count).Error
	if err != nil {
		return nil, internalError("comment: image lookup", err)
	}
	if count == 0 {
		return nil, ErrImageNotFound
	}

	comment := model.Comment{
		UserID:  userID,
		ImageID: imageID,
		Content: content,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, internalError("comment: create", err)
	}
	return &comment, nil
}

// Get loads a comment by id
func (s *CommentService) Get(ctx context.Context, id uint) (*model.Comment, error) {
	var comment model.Comment
	err := s.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, internalError("comment: lookup", err)
	}
	return &comment, nil
}

// ListByImage returns an image's comments, oldest first
func (s *CommentService) ListByImage(ctx context.Context, imageID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := s.db.WithContext(ctx).
		Where("image_id = ?", imageID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, internalError("comment: list", err)
	}
	return comments, nil
}

// Update edits a comment's content. Only the author may edit; the caller
// is checked here rather than in the handler so the rule holds for every
// entry point.
func (s *CommentService) Update(ctx context.Context, id, callerID uint, content string) (*model.Comment, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if comment.UserID != callerID {
		return nil, ErrNotCommentAuthor
	}

	err = s.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", id).
		Update("content", content).Error
	if err != nil {
		return nil, internalError("comment: update", err)
	}

	comment.Content = content
	return comment, nil
}

// Delete removes a comment
func (s *CommentService) Delete(ctx context.Context, id uint) error {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&model.Comment{}, comment.ID).Error; err != nil {
		return internalError("comment: delete", err)
	}
	return nil
}
