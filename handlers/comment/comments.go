package comment

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yarmel/photoshare/model"
	"github.com/yarmel/photoshare/services"
	"github.com/yarmel/photoshare/utils/middleware"
	"github.com/yarmel/photoshare/utils/response"
	"github.com/yarmel/photoshare/utils/validation"
)

// CommentHandler serves photo comment endpoints
type CommentHandler struct {
	comments  *services.CommentService
	validator *validation.Validator
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{
		comments:  comments,
		validator: validation.NewValidator(),
	}
}

// CommentResponse represents a comment
type CommentResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	ImageID   uint      `json:"image_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCommentResponse converts a comment model to a response
func NewCommentResponse(comment *model.Comment) CommentResponse {
	return CommentResponse{
		ID:        comment.ID,
		UserID:    comment.UserID,
		ImageID:   comment.ImageID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}

// CreateCommentRequest represents a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=255"`
}

// Create adds a comment to an image
func (h *CommentHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	imageID, err := parseID(c, "image_id")
	if err != nil {
		return response.BadRequest(c, "Invalid image id")
	}

	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	comment, err := h.comments.Create(c.Context(), user.ID, imageID, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			return response.NotFound(c, "Image not found")
		}
		return response.InternalServerError(c, "Failed to create comment")
	}

	return response.Created(c, NewCommentResponse(comment))
}

// ListByImage returns an image's comments
func (h *CommentHandler) ListByImage(c *fiber.Ctx) error {
	imageID, err := parseID(c, "image_id")
	if err != nil {
		return response.BadRequest(c, "Invalid image id")
	}

	comments, err := h.comments.ListByImage(c.Context(), imageID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list comments")
	}

	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return response.Success(c, out)
}

// UpdateCommentRequest represents a comment edit
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=255"`
}

// Update edits a comment. Author only.
func (h *CommentHandler) Update(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid comment id")
	}

	var req UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, err)
	}

	comment, err := h.comments.Update(c.Context(), id, user.ID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCommentNotFound):
			return response.NotFound(c, "Comment not found")
		case errors.Is(err, services.ErrNotCommentAuthor):
			return response.Forbidden(c, "Not the comment author")
		default:
			return response.InternalServerError(c, "Failed to update comment")
		}
	}

	return response.SuccessWithMessage(c, "Comment updated", NewCommentResponse(comment))
}

// Delete removes a comment. Route access is limited to moderators and
// admins by the router.
func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid comment id")
	}

	if err := h.comments.Delete(c.Context(), id); err != nil {
		if errors.Is(err, services.ErrCommentNotFound) {
			return response.NotFound(c, "Comment not found")
		}
		return response.InternalServerError(c, "Failed to delete comment")
	}

	return response.SuccessWithMessage(c, "Comment deleted", nil)
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
