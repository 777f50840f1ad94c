package image

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yarmel/photoshare/model"
	"github.com/yarmel/photoshare/services"
	"github.com/yarmel/photoshare/utils/middleware"
	"github.com/yarmel/photoshare/utils/response"
)

// ImageHandler serves photo upload and metadata endpoints
type ImageHandler struct {
	images *services.ImageService
}

// NewImageHandler creates a new image handler
func NewImageHandler(images *services.ImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

// ImageResponse represents an uploaded photo
type ImageResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewImageResponse converts an image model to a response
func NewImageResponse(image *model.Image) ImageResponse {
	tags := make([]string, 0, len(image.Tags))
	for _, t := range image.Tags {
		tags = append(tags, t.Name)
	}
	return ImageResponse{
		ID:          image.ID,
		UserID:      image.UserID,
		URL:         image.URL,
		Description: image.Description,
		Tags:        tags,
		CreatedAt:   image.CreatedAt,
	}
}

// Upload accepts a multipart photo upload with optional description and
// tags. Tags arrive comma-separated in a single form field.
func (h *ImageHandler) Upload(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "File is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.BadRequest(c, "Failed to read file")
	}
	defer file.Close()

	var tags []string
	if raw := c.FormValue("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	image, err := h.images.Upload(
		c.Context(),
		user.ID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
		c.FormValue("description"),
		tags,
	)
	if err != nil {
		if errors.Is(err, services.ErrTooManyTags) {
			return response.BadRequest(c, "Too many tags")
		}
		return response.InternalServerError(c, "Failed to upload image")
	}

	return response.Created(c, NewImageResponse(image))
}

// Get returns an image by id
func (h *ImageHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid image id")
	}

	image, err := h.images.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			return response.NotFound(c, "Image not found")
		}
		return response.InternalServerError(c, "Failed to load image")
	}

	return response.Success(c, NewImageResponse(image))
}

// ListMine returns the authenticated user's images
func (h *ImageHandler) ListMine(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	images, err := h.images.ListByUser(c.Context(), user.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list images")
	}

	out := make([]ImageResponse, 0, len(images))
	for i := range images {
		out = append(out, NewImageResponse(&images[i]))
	}
	return response.Success(c, out)
}

// UpdateDescriptionRequest represents a metadata edit
type UpdateDescriptionRequest struct {
	Description string `json:"description" validate:"max=512"`
}

// UpdateDescription edits an image's description. Owner only.
func (h *ImageHandler) UpdateDescription(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid image id")
	}

	var req UpdateDescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	image, err := h.images.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			return response.NotFound(c, "Image not found")
		}
		return response.InternalServerError(c, "Failed to load image")
	}
	if image.UserID != user.ID {
		return response.Forbidden(c, "Not the image owner")
	}

	updated, err := h.images.UpdateDescription(c.Context(), id, req.Description)
	if err != nil {
		return response.InternalServerError(c, "Failed to update image")
	}

	return response.SuccessWithMessage(c, "Image updated", NewImageResponse(updated))
}

// Delete removes an image. The owner or an admin may delete.
func (h *ImageHandler) Delete(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "Authentication required")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid image id")
	}

	image, err := h.images.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrImageNotFound) {
			return response.NotFound(c, "Image not found")
		}
		return response.InternalServerError(c, "Failed to load image")
	}
	if image.UserID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Not the image owner")
	}

	if err := h.images.Delete(c.Context(), id); err != nil {
		return response.InternalServerError(c, "Failed to delete image")
	}

	return response.SuccessWithMessage(c, "Image deleted", nil)
}

func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
